package forecast

import (
	"errors"
	"fmt"
)

// Kind classifies why a forecast could not be produced
type Kind int

const (
	KindTransport Kind = iota + 1
	KindHTTP
	KindMalformed
	KindAPI
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "TransportError"
	case KindHTTP:
		return "HttpError"
	case KindMalformed:
		return "MalformedResponse"
	case KindAPI:
		return "ApiError"
	}
	return "Unknown"
}

// Sentinels matched by errors.Is against any *Error of the same kind
var (
	ErrTransport         = errors.New("transport error")
	ErrHTTP              = errors.New("http error")
	ErrMalformedResponse = errors.New("malformed response")
	ErrAPI               = errors.New("api error")
)

func (k Kind) sentinel() error {
	switch k {
	case KindTransport:
		return ErrTransport
	case KindHTTP:
		return ErrHTTP
	case KindMalformed:
		return ErrMalformedResponse
	case KindAPI:
		return ErrAPI
	}
	return nil
}

// Error is the single failure type of the forecast core.
// Status is set for KindHTTP, Code or Message for KindAPI, Err for the underlying cause.
type Error struct {
	Kind    Kind
	Status  int
	Code    int
	Message string
	Err     error

	fromMessage bool
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("%s: status %d", e.Kind, e.Status)
	case KindAPI:
		if e.Message != "" {
			return fmt.Sprintf("%s: %s", e.Kind, e.Message)
		}
		if e.fromMessage {
			return fmt.Sprintf("%s: empty error message", e.Kind)
		}
		return fmt.Sprintf("%s: code %d", e.Kind, e.Code)
	}
	if e.Err != nil {
		if e.Message != "" {
			return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return e.Kind.String()
}

// Unwrap exposes both the kind sentinel and the cause
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf returns the kind of the first *Error in err's chain, or 0
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

// TransportError wraps a network, timeout or cancellation failure
func TransportError(err error) error {
	return &Error{Kind: KindTransport, Err: err}
}

// HTTPError reports a non-2xx status
func HTTPError(status int) error {
	return &Error{Kind: KindHTTP, Status: status}
}

// MalformedError reports a body that does not have the expected shape
func MalformedError(msg string, err error) error {
	return &Error{Kind: KindMalformed, Message: msg, Err: err}
}

// APIMessageError reports an envelope carrying an explicit error field
func APIMessageError(msg string) error {
	return &Error{Kind: KindAPI, Message: msg, fromMessage: true}
}

// APICodeError reports an envelope code other than the success sentinel
func APICodeError(code int) error {
	return &Error{Kind: KindAPI, Code: code}
}
