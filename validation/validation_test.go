package validation_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flixreview/go-flixreview-client/validation"
)

type signupForm struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func TestStruct_ValidPayload(t *testing.T) {
	form := signupForm{
		Email:           "jane@example.com",
		Password:        "password123",
		PasswordConfirm: "password123",
	}
	require.NoError(t, validation.Struct(form))
}

func TestStruct_ReportsWireFieldNames(t *testing.T) {
	form := signupForm{
		Email:           "not-an-email",
		Password:        "abc",
		PasswordConfirm: "xyz",
	}
	err := validation.Struct(form)
	require.Error(t, err)

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "must be a valid email address", verr.Fields["email"])
	require.Equal(t, "must be at least 8", verr.Fields["password"])
	require.Equal(t, "must match password", verr.Fields["password_confirm"])
}

func TestError_MessageIsDeterministic(t *testing.T) {
	err := &validation.Error{Fields: map[string]string{
		"b_field": "is required",
		"a_field": "is required",
	}}
	require.Equal(t, "validation failed: a_field: is required, b_field: is required", err.Error())
}
