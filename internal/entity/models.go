package entity

// Prompt policy magic strings. The fallback sentence is matched byte-for-byte
// on both the instruction side and the detection side; change one and the
// diagnostic silently breaks.
const (
	AnswerPrefix   = "Thanks for asking!"
	FallbackAnswer = "Sorry, I couldn't find the answer in the documents."
)

// RetrievedDocument is one text chunk returned by the vector index,
// together with its similarity score. The pipeline only consumes Content;
// Score is kept for logging and for callers that want it.
type RetrievedDocument struct {
	Content string  `json:"content"`
	Score   float32 `json:"score"`
}

// PipelineState is the single mutable record threaded through the ask
// pipeline. One instance is created per request, Documents is written by the
// retrieve stage, Answer by the generate stage, and the state is discarded
// after the answer is extracted.
type PipelineState struct {
	Question  string
	Documents []RetrievedDocument
	Answer    string
}

// QAPair is one record of the offline ingestion dataset.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Document is a chunk as stored in the vector index.
type Document struct {
	ID      string
	Content string
}
