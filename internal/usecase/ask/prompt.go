package ask

import (
	"fmt"
	"strings"

	"github.com/askdocs/rag-backend/internal/entity"
)

const systemPromptTemplate = "You are a helpful assistant. Use the context to answer the question. " +
	"If the answer is not in the context, say '%s' " +
	"Always say '%s' at the beginning. " +
	"Context: %s"

// FormatContext folds retrieved chunks into a single context string, joining
// their content with a blank line in the given order. An empty or nil slice
// yields the empty string.
func FormatContext(docs []entity.RetrievedDocument) string {
	if len(docs) == 0 {
		return ""
	}

	parts := make([]string, len(docs))
	for i, doc := range docs {
		parts[i] = doc.Content
	}
	return strings.Join(parts, "\n\n")
}

// BuildSystemPrompt fixes the assistant persona, the fallback sentence and
// the answer prefix, and carries the assembled context.
func BuildSystemPrompt(docContext string) string {
	return fmt.Sprintf(systemPromptTemplate, entity.FallbackAnswer, entity.AnswerPrefix, docContext)
}

// BuildUserPrompt carries the literal question text.
func BuildUserPrompt(question string) string {
	return fmt.Sprintf("Question: %s", question)
}

// IsFallbackAnswer reports whether the generated text contains the exact
// fallback sentence. Diagnostic only: the answer is returned unchanged either
// way, and a paraphrased fallback goes undetected by design of the check.
func IsFallbackAnswer(answer string) bool {
	return strings.Contains(answer, entity.FallbackAnswer)
}
