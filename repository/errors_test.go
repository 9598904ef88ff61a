package repository_test

import (
	"fmt"
	"testing"

	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsubame-dev/store-api/repository"
)

func TestNotFoundError(t *testing.T) {
	err := repository.NotFoundError("Product not found")

	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, "Product not found", err.Message)
	assert.Equal(t, repository.TextCodeRecordNotFound, err.TextCode)
}

func TestConflictError(t *testing.T) {
	cause := fmt.Errorf("UNIQUE constraint failed: users.email")
	err := repository.ConflictError(cause, "User violates a unique constraint")

	var richErr *errors.Error
	require.ErrorAs(t, error(err), &richErr)
	assert.Equal(t, errors.CategoryConflict, richErr.Category)
	assert.Equal(t, repository.TextCodeDuplicateField, richErr.TextCode)
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "sqlite unique violation",
			err:  fmt.Errorf("constraint failed: UNIQUE constraint failed: users.email (2067)"),
			want: true,
		},
		{
			name: "unrelated error",
			err:  fmt.Errorf("connection refused"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repository.IsUniqueViolation(tt.err))
		})
	}
}
