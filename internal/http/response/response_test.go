package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOKWithData(t *testing.T) {
	resp := StatusOKWithData(map[string]any{"username": "alice"})

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.NotNil(t, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("something went wrong")

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "something went wrong", resp.Error)
}

func TestValidationError(t *testing.T) {
	type request struct {
		Username string `validate:"required,min=3"`
		Email    string `validate:"required,email"`
	}

	validate := validator.New()

	tests := []struct {
		name string
		req  request
		want []string
	}{
		{
			name: "missing fields",
			req:  request{},
			want: []string{
				"field Username is a required field",
				"field Email is a required field",
			},
		},
		{
			name: "short username and bad email",
			req:  request{Username: "ab", Email: "not-an-email"},
			want: []string{
				"field Username is too short",
				"field Email must be a valid email address",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.req)
			require.Error(t, err)

			resp := ValidationError(err.(validator.ValidationErrors))

			assert.Equal(t, StatusError, resp.Status)
			for _, msg := range tt.want {
				assert.Contains(t, resp.Error, msg)
			}
		})
	}
}
