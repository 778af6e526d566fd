package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Age      int    `json:"age" validate:"required,gte=13,lte=120"`
}

func TestValidateStructPassesValidInput(t *testing.T) {
	errs := ValidateStruct(sampleRequest{
		Email:    "ada@example.com",
		Password: "secret1",
		Age:      30,
	})
	assert.Empty(t, errs)
}

func TestValidateStructReportsEachFailingField(t *testing.T) {
	errs := ValidateStruct(sampleRequest{
		Email:    "not-an-email",
		Password: "shv",
		Age:      7,
	})

	assert.Len(t, errs, 3)
	assert.Contains(t, errs, "Email")
	assert.Contains(t, errs, "Password")
	assert.Contains(t, errs, "Age")
}

func TestValidateStructAgeBounds(t *testing.T) {
	tooOld := ValidateStruct(sampleRequest{
		Email:    "ada@example.com",
		Password: "secret1",
		Age:      121,
	})
	assert.Contains(t, tooOld, "Age")

	boundary := ValidateStruct(sampleRequest{
		Email:    "ada@example.com",
		Password: "secret1",
		Age:      13,
	})
	assert.Empty(t, boundary)
}
