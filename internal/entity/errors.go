package entity

import (
	"errors"
	"fmt"
)

// Validation errors
var (
	ErrEmptyQuestion = errors.New("question is required")
)

// RetrievalError marks a failure of the document-store call. The generate
// stage never runs once it is raised.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieve documents: %v", e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// GenerationError marks a failure of the language-model call, including an
// empty completion.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate answer: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
