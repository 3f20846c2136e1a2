package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	withCause := NewSourceError("failed to fetch dataset", os.ErrDeadlineExceeded)
	assert.Equal(t, "[SOURCE] failed to fetch dataset: i/o timeout", withCause.Error())

	withoutCause := NewSchemaError("missing column amount", nil)
	assert.Equal(t, "[SCHEMA] missing column amount", withoutCause.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fs.ErrNotExist
	err := NewSourceError("failed to open dataset file", cause)

	assert.True(t, stderrors.Is(err, fs.ErrNotExist))

	var appErr *AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, ErrTypeSource, appErr.Type)
}

func TestAppError_AsThroughWrapping(t *testing.T) {
	inner := NewDataQualityError("unparseable transaction date", nil)
	wrapped := fmt.Errorf("enrich stage: %w", inner)

	var appErr *AppError
	require.True(t, stderrors.As(wrapped, &appErr))
	assert.Equal(t, ErrTypeDataQuality, appErr.Type)
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"source", NewSourceError("x", nil), ErrTypeSource},
		{"schema", NewSchemaError("x", nil), ErrTypeSchema},
		{"data quality", NewDataQualityError("x", nil), ErrTypeDataQuality},
		{"storage", NewStorageError("x", nil), ErrTypeStorage},
		{"config", NewConfigError("x", nil), ErrTypeConfig},
		{"validation", NewValidationError("x"), ErrTypeValidation},
		{"wrapped", fmt.Errorf("outer: %w", NewStorageError("x", nil)), ErrTypeStorage},
		{"plain error", stderrors.New("plain"), ErrorType("")},
		{"nil", nil, ErrorType("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.err))
		})
	}
}

func TestAppError_WithContext(t *testing.T) {
	err := NewSourceError("failed to fetch dataset", nil).
		WithContext("url", "https://example.com/bank_transactions.csv").
		WithContext("attempt", 1)

	assert.Equal(t, "https://example.com/bank_transactions.csv", err.Context["url"])
	assert.Equal(t, 1, err.Context["attempt"])
}
