package validation

import (
	"testing"

	"github.com/nikhil/teamhub/internal/apperrors"
)

type sample struct {
	Name   string  `json:"name" validate:"required,min=3,max=10"`
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=todo done"`
}

func TestStruct_Valid(t *testing.T) {
	if err := Struct(sample{Name: "Apollo"}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStruct_FieldDetails(t *testing.T) {
	bad := "later"
	err := Struct(sample{Name: "ab", Status: &bad})

	var appErr *apperrors.Error
	if !asAppError(err, &appErr) || appErr.Kind != apperrors.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(appErr.Details) != 2 {
		t.Fatalf("expected 2 details, got %+v", appErr.Details)
	}
	if appErr.Details[0].Field != "name" {
		t.Errorf("expected json field name, got %q", appErr.Details[0].Field)
	}
	if appErr.Details[0].Message != "name must be at least 3 characters long" {
		t.Errorf("unexpected message %q", appErr.Details[0].Message)
	}
}

func asAppError(err error, target **apperrors.Error) bool {
	e, ok := err.(*apperrors.Error)
	if ok {
		*target = e
	}
	return ok
}
