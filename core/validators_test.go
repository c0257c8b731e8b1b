package core

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitValidators(t *testing.T) {
	translator := NewTranslator()
	validate := NewValidator(translator)

	type input struct {
		Name    string `json:"name" validate:"notblank"`
		Email   string `json:"email" validate:"required"`
		Ignored string `json:"-"`
	}

	tests := []struct {
		name string
		in   input
		want map[string]string
	}{
		{name: "valid", in: input{Name: "Alice", Email: "a@school.edu"}},
		{
			name: "blank & missing", in: input{Name: " \t"},
			want: map[string]string{"name": "this field cannot be blank", "email": "this field is required"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.in)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			var vErrs validator.ValidationErrors
			require.True(t, errors.As(err, &vErrs))
			got := make(map[string]string, len(vErrs))
			for _, fe := range vErrs {
				got[fe.Field()] = fe.Translate(translator)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Alice J", CleanString("  Alice J \n"))
	assert.Equal(t, "alice.j@school.edu", CleanString(" Alice.J@School.edu ", true))
}
