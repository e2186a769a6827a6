package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQAError(t *testing.T) {
	err := NewQAError("ingest", "embed", ErrEmbeddingFailed)

	assert.Equal(t, "ingest [stage=embed]: embedding request failed", err.Error())
	assert.True(t, errors.Is(err, ErrEmbeddingFailed))

	var qa *QAError
	assert.True(t, errors.As(error(err), &qa))
	assert.Equal(t, "embed", qa.Stage)
}

func TestQAError_NoStage(t *testing.T) {
	err := NewQAError("ask", "", ErrNoDocument)
	assert.Equal(t, "ask: no document indexed", err.Error())
}

func TestWithContext(t *testing.T) {
	err := NewQAError("ingest", "load", ErrEmptyDocument)
	err = WithContext(err, "filename", "report.pdf")
	err = WithContext(err, "bytes", 0)

	assert.Equal(t, "report.pdf", err.Context["filename"])
	assert.Equal(t, 0, err.Context["bytes"])
}
