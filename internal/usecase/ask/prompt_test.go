package ask

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/askdocs/rag-backend/internal/entity"
)

func TestFormatContext_Empty(t *testing.T) {
	assert.Equal(t, "", FormatContext(nil))
	assert.Equal(t, "", FormatContext([]entity.RetrievedDocument{}))
}

func TestFormatContext_Single(t *testing.T) {
	docs := []entity.RetrievedDocument{
		{Content: "Q: What is Selenium?\nA: Selenium is a browser automation framework."},
	}

	assert.Equal(t, docs[0].Content, FormatContext(docs))
}

func TestFormatContext_JoinsWithBlankLine(t *testing.T) {
	docs := []entity.RetrievedDocument{
		{Content: "first chunk"},
		{Content: "second chunk"},
		{Content: "third chunk"},
	}

	assert.Equal(t, "first chunk\n\nsecond chunk\n\nthird chunk", FormatContext(docs))
}

func TestFormatContext_PreservesOrder(t *testing.T) {
	docs := []entity.RetrievedDocument{
		{Content: "b", Score: 0.2},
		{Content: "a", Score: 0.9},
	}

	// The formatter never re-sorts: the store's ranking order is kept.
	assert.Equal(t, "b\n\na", FormatContext(docs))
}

func TestBuildSystemPrompt_CarriesPolicyStrings(t *testing.T) {
	prompt := BuildSystemPrompt("some context")

	assert.Contains(t, prompt, entity.FallbackAnswer)
	assert.Contains(t, prompt, entity.AnswerPrefix)
	assert.Contains(t, prompt, "Context: some context")
}

func TestBuildSystemPrompt_EmptyContext(t *testing.T) {
	prompt := BuildSystemPrompt("")

	assert.Contains(t, prompt, entity.FallbackAnswer)
	assert.True(t, len(prompt) > 0)
}

func TestBuildUserPrompt(t *testing.T) {
	assert.Equal(t, "Question: What is Selenium?", BuildUserPrompt("What is Selenium?"))
}

func TestIsFallbackAnswer(t *testing.T) {
	assert.True(t, IsFallbackAnswer(entity.AnswerPrefix+" "+entity.FallbackAnswer))
	assert.True(t, IsFallbackAnswer(entity.FallbackAnswer))
	assert.False(t, IsFallbackAnswer("Thanks for asking! Selenium is a browser automation framework."))
	// Paraphrases are not detected; the check is an exact substring match.
	assert.False(t, IsFallbackAnswer("Sorry, the documents do not contain the answer."))
}
