package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrValidation", ErrValidation},
		{"ErrUnsupportedFormat", ErrUnsupportedFormat},
		{"ErrEmptyContent", ErrEmptyContent},
		{"ErrEmptyInput", ErrEmptyInput},
		{"ErrDimensionMismatch", ErrDimensionMismatch},
		{"ErrService", ErrService},
		{"ErrNotProcessed", ErrNotProcessed},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrTranscriptionUnavailable", ErrTranscriptionUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestValidationFamily(t *testing.T) {
	assert.True(t, errors.Is(ErrUnsupportedFormat, ErrValidation))
	assert.True(t, errors.Is(ErrEmptyContent, ErrValidation))
	assert.False(t, errors.Is(ErrService, ErrValidation))
	assert.False(t, errors.Is(ErrUnsupportedFormat, ErrEmptyContent))
}

func TestErrorKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorKind
	}{
		{"nil", nil, ErrorKindNone},
		{"validation", ErrValidation, ErrorKindValidation},
		{"wrapped unsupported format", fmt.Errorf("open: %w", ErrUnsupportedFormat), ErrorKindValidation},
		{"unsupported type", ErrUnsupportedType, ErrorKindValidation},
		{"not processed", ErrNotProcessed, ErrorKindNotProcessed},
		{"service", fmt.Errorf("embed: %w", ErrService), ErrorKindService},
		{"llm unavailable", ErrLLMUnavailable, ErrorKindService},
		{"unknown", errors.New("boom"), ErrorKindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ErrorKindOf(tt.err))
		})
	}
}
