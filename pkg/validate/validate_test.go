package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "shopcore/pkg/errors"
)

type sample struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"omitempty,email"`
	Rating int    `json:"rating" validate:"gte=1,lte=5"`
}

func TestStructPasses(t *testing.T) {
	require.NoError(t, Struct(sample{Name: "ok", Rating: 3}))
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct(sample{Email: "nope", Rating: 9})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "rating")
}

func TestAllAggregates(t *testing.T) {
	err := All(
		sample{Name: "fine", Rating: 2},
		sample{Rating: 0},
		sample{Name: "also fine", Rating: 6},
	)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestAllPassesWhenEverythingValid(t *testing.T) {
	require.NoError(t, All(
		sample{Name: "a", Rating: 1},
		sample{Name: "b", Rating: 5},
	))
}
