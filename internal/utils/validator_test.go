package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type passwordFixture struct {
	Password string `validate:"strong_password"`
}

type usernameFixture struct {
	Username string `validate:"username"`
}

type discountCodeFixture struct {
	Code string `validate:"discount_code"`
}

func TestStrongPasswordValidation(t *testing.T) {
	valid := []string{"TestPass123!", "Another$Pass9", "aB3!aB3!"}
	for _, p := range valid {
		assert.NoError(t, ValidateStruct(&passwordFixture{Password: p}), "password %q", p)
	}

	invalid := []string{"aB1!", "alllowercase1!", "ALLUPPERCASE1!", "NoNumbers!", "NoSpecial123"}
	for _, p := range invalid {
		assert.Error(t, ValidateStruct(&passwordFixture{Password: p}), "password %q", p)
	}
}

func TestUsernameValidation(t *testing.T) {
	assert.NoError(t, ValidateStruct(&usernameFixture{Username: "valid_user123"}))
	assert.Error(t, ValidateStruct(&usernameFixture{Username: "ab"}))
	assert.Error(t, ValidateStruct(&usernameFixture{Username: "has space"}))
	assert.Error(t, ValidateStruct(&usernameFixture{Username: "bad-dash"}))
}

func TestDiscountCodeValidation(t *testing.T) {
	assert.NoError(t, ValidateStruct(&discountCodeFixture{Code: "SUMMER-2024"}))
	assert.NoError(t, ValidateStruct(&discountCodeFixture{Code: "SAVE10"}))
	assert.Error(t, ValidateStruct(&discountCodeFixture{Code: "lowercase"}))
	assert.Error(t, ValidateStruct(&discountCodeFixture{Code: "AB"}))
	assert.Error(t, ValidateStruct(&discountCodeFixture{Code: "HAS SPACE"}))
}

func TestGetValidationErrors(t *testing.T) {
	type form struct {
		Email string `validate:"required,email"`
	}

	errs := GetValidationErrors(ValidateStruct(&form{Email: "not-an-email"}))
	assert.Len(t, errs, 1)
	assert.Equal(t, "email", errs[0].Field)
	assert.Equal(t, "Invalid email format", errs[0].Message)
}
