package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
)

func TestOK(t *testing.T) {
	resp := OK()

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Nil(t, resp.Data)
}

func TestOKWithData(t *testing.T) {
	data := map[string]string{"key": "value"}
	resp := OKWithData(data)

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, data, resp.Data)
}

func TestError(t *testing.T) {
	msg := "something went wrong"
	resp := Error(msg)

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, msg, resp.Error)
	assert.Nil(t, resp.Data)
}

func TestValidationError(t *testing.T) {
	type TestStruct struct {
		Email  string  `validate:"required,email"`
		Amount float64 `validate:"gt=0"`
	}

	v := validator.New()
	ts := TestStruct{
		Email:  "not-an-email",
		Amount: -5,
	}

	err := v.Struct(ts)
	assert.Error(t, err)

	validationErrors := err.(validator.ValidationErrors)
	resp := ValidationError(validationErrors)

	assert.Equal(t, StatusError, resp.Status)
	assert.NotEmpty(t, resp.Error)

	errMsg := resp.Error
	assert.Contains(t, errMsg, "field Email must be a valid email")
	assert.Contains(t, errMsg, "field Amount must be greater than 0")
}

func TestValidationErrorRequired(t *testing.T) {
	type TestStruct struct {
		PlanID string `validate:"required"`
	}

	v := validator.New()
	ts := TestStruct{}

	err := v.Struct(ts)
	assert.Error(t, err)

	validationErrors := err.(validator.ValidationErrors)
	resp := ValidationError(validationErrors)

	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field PlanID is a required field")
}
