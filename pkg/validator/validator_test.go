package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type testPayload struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	City     string `json:"city" validate:"min=2"`
}

func TestValidateStructSuccess(t *testing.T) {
	payload := testPayload{
		FullName: "Maria Silva",
		Email:    "maria@example.com",
		City:     "Rio de Janeiro",
	}

	if err := ValidateStruct(payload); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateStructFailures(t *testing.T) {
	payload := testPayload{
		FullName: "",
		Email:    "invalid",
		City:     "R",
	}

	err := ValidateStruct(payload)
	if err == nil {
		t.Fatal("expected validation error")
	}

	vErrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}

	if len(vErrs) != 3 {
		t.Fatalf("expected 3 validation errors, got %d", len(vErrs))
	}

	foundEmail := false
	for _, v := range vErrs {
		if v.Field == "email" {
			foundEmail = true
		}
	}

	if !foundEmail {
		t.Fatal("expected email field to be present in validation errors")
	}
}

func TestRegisterValidation(t *testing.T) {
	err := RegisterValidation("uppercase2", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if len(value) != 2 {
			return false
		}
		return value[0] >= 'A' && value[0] <= 'Z' && value[1] >= 'A' && value[1] <= 'Z'
	})
	if err != nil {
		t.Fatalf("register validation: %v", err)
	}

	type custom struct {
		State string `validate:"uppercase2"`
	}

	if err := ValidateStruct(custom{State: "RJ"}); err != nil {
		t.Fatalf("expected validation to pass, got %v", err)
	}
	if err := ValidateStruct(custom{State: "rj"}); err == nil {
		t.Fatal("expected validation to fail for lowercase value")
	}
}
