package core

import (
	"errors"
	"fmt"
)

var (
	ErrNoDocument        = errors.New("no document indexed")
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrEmptyDocument     = errors.New("document contains no extractable text")
	ErrEmptyQuestion     = errors.New("question is empty")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrEmbeddingFailed   = errors.New("embedding request failed")
	ErrLLMRequest        = errors.New("LLM request failed")
)

// QAError annotates an error with the operation and the pipeline stage it
// occurred in (load, chunk, embed, retrieve, generate).
type QAError struct {
	Op      string
	Stage   string
	Err     error
	Context map[string]any
}

func (e *QAError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s [stage=%s]: %v", e.Op, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *QAError) Unwrap() error {
	return e.Err
}

func NewQAError(op, stage string, err error) *QAError {
	return &QAError{Op: op, Stage: stage, Err: err}
}

func WithContext(err *QAError, key string, val any) *QAError {
	if err.Context == nil {
		err.Context = make(map[string]any)
	}
	err.Context[key] = val
	return err
}
