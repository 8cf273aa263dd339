package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err:  &AppError{Code: ErrCodeNotFound, Message: "No job: 7"},
			want: "No job: 7",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeInternal,
				Message: "failed to list jobs",
				Cause:   errors.New("connection reset"),
			},
			want: "failed to list jobs: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(cause, ErrCodeInternal, "wrapped error")

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(Wrap(cause), cause) = false, want true")
	}
}

func TestNotFoundf(t *testing.T) {
	err := NotFoundf("No job: %d", 42)
	if err.Code != ErrCodeNotFound {
		t.Errorf("NotFoundf().Code = %v, want %v", err.Code, ErrCodeNotFound)
	}
	if err.Message != "No job: 42" {
		t.Errorf("NotFoundf().Message = %q, want %q", err.Message, "No job: 42")
	}
}

func TestValidation(t *testing.T) {
	err := Validation("No data")
	if err.Code != ErrCodeValidation || err.Message != "No data" {
		t.Errorf("Validation() = %+v", err)
	}
}

func TestValidationField(t *testing.T) {
	err := ValidationField("title", "title is required")
	if err.Field != "title" {
		t.Errorf("ValidationField().Field = %q, want title", err.Field)
	}
	if GetField(err) != "title" {
		t.Errorf("GetField() = %q, want title", GetField(err))
	}
}

func TestWrap_NilError(t *testing.T) {
	if err := Wrap(nil, ErrCodeInternal, "x"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestWrapf(t *testing.T) {
	err := Wrapf(errors.New("boom"), ErrCodeInternal, "get job %d", 3)
	if err.Message != "get job 3" {
		t.Errorf("Wrapf().Message = %q", err.Message)
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{name: "not found", err: NotFound("x"), check: IsNotFound, want: true},
		{name: "wrapped not found", err: fmt.Errorf("get: %w", NotFound("x")), check: IsNotFound, want: true},
		{name: "validation is not not-found", err: Validation("x"), check: IsNotFound, want: false},
		{name: "validation", err: Validationf("bad %s", "x"), check: IsValidation, want: true},
		{name: "conflict", err: Conflict("x"), check: IsConflict, want: true},
		{name: "foreign key", err: ForeignKey("x"), check: IsForeignKey, want: true},
		{name: "internal", err: Internal("x"), check: IsInternal, want: true},
		{name: "plain error", err: errors.New("x"), check: IsValidation, want: false},
		{name: "nil", err: nil, check: IsNotFound, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.err); got != tt.want {
				t.Errorf("predicate(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(NotFound("x")); got != ErrCodeNotFound {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeNotFound)
	}
	if got := GetCode(errors.New("x")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}
