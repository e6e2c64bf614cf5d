package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleForm struct {
	Name  string `validate:"required,min=1,max=10"`
	Type  string `validate:"required,oneof=Clothing Jewelry"`
	Price int64  `validate:"gt=0"`
}

func TestValidate_Success(t *testing.T) {
	err := Validate(&sampleForm{Name: "Silk Saree", Type: "Clothing", Price: 4999})
	assert.NoError(t, err)
}

func TestValidate_CollectsFieldErrors(t *testing.T) {
	err := Validate(&sampleForm{Name: "", Type: "Furniture", Price: 0})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))

	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["Name"])
	assert.Equal(t, "must be one of: Clothing Jewelry", fields["Type"])
	assert.Contains(t, fields["Price"], "greater than")
}

func TestValidationError_Message(t *testing.T) {
	err := Validate(&sampleForm{Name: "", Type: "Clothing", Price: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'Name' is required")
}
