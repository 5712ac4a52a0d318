package forecast

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     Kind
		sentinel error
		msg      string
	}{
		{"transport", TransportError(context.DeadlineExceeded), KindTransport, ErrTransport, "TransportError: context deadline exceeded"},
		{"http", HTTPError(503), KindHTTP, ErrHTTP, "HttpError: status 503"},
		{"malformed", MalformedError("bad body", nil), KindMalformed, ErrMalformedResponse, "MalformedResponse: bad body"},
		{"api message", APIMessageError("quota exceeded"), KindAPI, ErrAPI, "ApiError: quota exceeded"},
		{"api code", APICodeError(404), KindAPI, ErrAPI, "ApiError: code 404"},
		{"api code zero", APICodeError(0), KindAPI, ErrAPI, "ApiError: code 0"},
		{"api empty message", APIMessageError(""), KindAPI, ErrAPI, "ApiError: empty error message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.kind {
				t.Errorf("KindOf() = %v, want %v", got, tt.kind)
			}
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.sentinel)
			}
			if tt.err.Error() != tt.msg {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.msg)
			}
		})
	}
}

func TestErrorKinds_Distinct(t *testing.T) {
	err := HTTPError(500)
	for _, other := range []error{ErrTransport, ErrMalformedResponse, ErrAPI} {
		if errors.Is(err, other) {
			t.Errorf("HttpError matched %v", other)
		}
	}
}

func TestTransportError_UnwrapsCause(t *testing.T) {
	err := fmt.Errorf("fetch: %w", TransportError(context.Canceled))

	if !errors.Is(err, context.Canceled) {
		t.Error("errors.Is(err, context.Canceled) = false")
	}

	var fe *Error
	if !errors.As(err, &fe) {
		t.Fatal("errors.As() failed")
	}
	if fe.Kind != KindTransport {
		t.Errorf("Kind = %v, want TransportError", fe.Kind)
	}
}

func TestKindOf_Foreign(t *testing.T) {
	if KindOf(errors.New("boom")) != 0 {
		t.Error("KindOf() of a foreign error should be 0")
	}
	if KindOf(nil) != 0 {
		t.Error("KindOf(nil) should be 0")
	}
}

func TestKindString(t *testing.T) {
	if Kind(0).String() != "Unknown" {
		t.Errorf("Kind(0).String() = %v", Kind(0).String())
	}
	if KindMalformed.String() != "MalformedResponse" {
		t.Errorf("KindMalformed.String() = %v", KindMalformed.String())
	}
}
