package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := Config("profiles.txt", "cannot read entity list", os.ErrNotExist)
	assert.Equal(t, "config error (profiles.txt): cannot read entity list: file does not exist", err.Error())
	assert.True(t, stderrors.Is(err, os.ErrNotExist))

	plain := New(ErrorTypeParse, "bad json")
	assert.Equal(t, "parse error: bad json", plain.Error())
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		fatal bool
		empty bool
		kind  ErrorType
	}{
		{"nil", nil, false, false, ErrorTypeUnknown},
		{"config", Config("x", "missing", nil), true, false, ErrorTypeConfig},
		{"parse", Parse("x", "bad", nil), true, false, ErrorTypeParse},
		{"no edges", ErrNoEdgesAfterFilter, false, true, ErrorTypeEmptyResult},
		{"wrapped empty", fmt.Errorf("render: %w", ErrNoConnections), false, true, ErrorTypeEmptyResult},
		{"per file", Wrap(ErrorTypeFile, "m.csv", "skip", nil), false, false, ErrorTypeFile},
		{"untyped", stderrors.New("boom"), true, false, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.fatal, IsFatal(tt.err))
			assert.Equal(t, tt.empty, IsEmptyResult(tt.err))
			assert.Equal(t, tt.kind, TypeOf(tt.err))
		})
	}
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("stage render: %w", ErrNoEdgesAfterFilter)
	assert.True(t, stderrors.Is(err, ErrNoEdgesAfterFilter))
	assert.False(t, stderrors.Is(err, ErrNoConnections))
}
