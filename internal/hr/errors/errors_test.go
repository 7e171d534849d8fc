package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorJoinsFields(t *testing.T) {
	v := (&ValidationError{}).
		Add("name", "this field is required").
		Add("code", "this field is required")

	assert.Equal(t, "name: this field is required | code: this field is required", v.Error())
}

func TestValidationErrorUnwrapsToInvalidInput(t *testing.T) {
	var err error = (&ValidationError{}).Add("name", "required")
	assert.ErrorIs(t, err, ErrInvalidInput)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 1)
}

func TestValidationErrorOrNil(t *testing.T) {
	assert.NoError(t, (&ValidationError{}).OrNil())
	assert.Error(t, (&ValidationError{}).Add("f", "m").OrNil())
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrInvalidInput, ErrAuthUnavailable, ErrDumpFailed}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b))
		}
	}
}
