package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
)

func TestStatusOKWithData(t *testing.T) {
	data := map[string]string{"key": "value"}
	resp := StatusOKWithData(data)

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, data, resp.Data)
}

func TestError(t *testing.T) {
	msg := "something went wrong"
	resp := Error(msg)

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, msg, resp.Error)
}

func TestValidationError(t *testing.T) {
	type TestStruct struct {
		Email    string `validate:"required,email"`
		Username string `validate:"required,alphanum"`
	}

	v := validator.New()
	ts := TestStruct{
		Email:    "not-an-email",
		Username: "!!!",
	}

	err := v.Struct(ts)
	assert.Error(t, err)

	validationErrors := err.(validator.ValidationErrors)
	resp := ValidationError(validationErrors)

	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Email must be a valid email")
	assert.Contains(t, resp.Error, "field Username can contain only numbers and letters")
}

func TestValidationErrorOneOf(t *testing.T) {
	type TestStruct struct {
		Category string `validate:"required,oneof=editing recording design consulting"`
	}

	v := validator.New()
	ts := TestStruct{Category: "marketing"}

	err := v.Struct(ts)
	assert.Error(t, err)

	validationErrors := err.(validator.ValidationErrors)
	resp := ValidationError(validationErrors)

	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Category must be one of: editing recording design consulting")
}
