package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, 12},
		{-3, 5, 1, 5},
		{2, 500, 2, 100},
		{4, 100, 4, 100},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%d", tt.page, tt.limit), func(t *testing.T) {
			page, limit := NormalizePage(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestPaginationMath(t *testing.T) {
	assert.Equal(t, 0, CalculateOffset(1, 12))
	assert.Equal(t, 24, CalculateOffset(3, 12))
	assert.Equal(t, 0, CalculateOffset(0, 12))

	assert.Equal(t, 0, CalculateTotalPages(0, 12))
	assert.Equal(t, 1, CalculateTotalPages(12, 12))
	assert.Equal(t, 2, CalculateTotalPages(13, 12))
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 7, ParseInt("7", 1))
	assert.Equal(t, 1, ParseInt("", 1))
	assert.Equal(t, 1, ParseInt("abc", 1))
	assert.Equal(t, 12, ParseInt("-4", 12))
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken(32)
	require.NoError(t, err)
	b, err := GenerateToken(32)
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestValidateStruct(t *testing.T) {
	type signup struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=6"`
		Role     string `validate:"omitempty,oneof=admin user"`
	}

	assert.Nil(t, ValidateStruct(signup{Email: "a@b.co", Password: "secret"}))

	fields := ValidateStruct(signup{Email: "nope", Password: "123", Role: "root"})
	assert.Equal(t, map[string]string{
		"Email":    "Invalid email format",
		"Password": "Minimum length is 6",
		"Role":     "Must be one of: admin, user",
	}, fields)
	assert.Equal(t,
		"Email: Invalid email format; Password: Minimum length is 6; Role: Must be one of: admin, user",
		FormatValidationErrors(fields))
}

func TestAppError(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("load movie: %w", ErrInternal("Failed to load movie", cause))

	assert.Equal(t, KindInternal, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "load movie: Failed to load movie: connection reset", err.Error())

	assert.Equal(t, KindNotFound, KindOf(ErrNotFound("Movie not found")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))

	fieldsErr := ErrValidationFields(map[string]string{"Email": "This field is required"})
	assert.Equal(t, KindValidation, fieldsErr.Kind)
	assert.Equal(t, "validation failed: Email: This field is required", fieldsErr.Error())
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, splitList(" https://a.example, ,https://b.example "))
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"*"}, splitList("*"))
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("hunter22", hash))
	assert.False(t, CheckPasswordHash("hunter23", hash))
}
