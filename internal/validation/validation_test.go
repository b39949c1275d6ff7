package validation

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Name  string  `validate:"required"`
	Score float64 `validate:"gte=0,lte=1"`
	Mode  string  `validate:"oneof=console json"`
}

func TestStructValid(t *testing.T) {
	if err := Struct(sample{Name: "x", Score: 0.5, Mode: "json"}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructCollectsFields(t *testing.T) {
	err := Struct(sample{Score: 2, Mode: "xml"})
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if len(verr.Fields) != 3 {
		t.Fatalf("expected 3 field errors, got %+v", verr.Fields)
	}

	msg := err.Error()
	for _, want := range []string{"sample.Name is required", "sample.Score must be less than or equal to 1", "sample.Mode must be one of: console json"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
}

func TestValidatorSingleton(t *testing.T) {
	if Validator() != Validator() {
		t.Error("expected the same validator instance")
	}
}
