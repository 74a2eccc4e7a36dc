package feedsync

import (
	"errors"
	"fmt"
)

// Kind classifies why a sync operation did not apply its payload.
type Kind string

const (
	// KindTransport means the request never produced a response (network, timeout, TLS).
	KindTransport Kind = "TRANSPORT_FAULT"

	// KindRejected means the server answered but not with OK, or redirected the
	// request. Bad credentials, expired sessions and server errors all look alike here.
	KindRejected Kind = "AUTH_REJECTED"

	// KindDecode means the response body did not have the expected shape.
	KindDecode Kind = "DECODE_FAILURE"

	// KindStore means a local write failed after some writes may already have landed.
	KindStore Kind = "STORE_FAILURE"
)

// Sentinels matched by *Error through errors.Is.
var (
	ErrTransportFault = errors.New("transport fault")
	ErrAuthRejected   = errors.New("request rejected by server")
	ErrDecodeFailure  = errors.New("response decode failure")
	ErrStoreFailure   = errors.New("local store write failure")
)

func (k Kind) sentinel() error {
	switch k {
	case KindTransport:
		return ErrTransportFault
	case KindRejected:
		return ErrAuthRejected
	case KindDecode:
		return ErrDecodeFailure
	case KindStore:
		return ErrStoreFailure
	}
	return nil
}

// Error is returned by every sync operation that did not complete.
type Error struct {
	Op         string // logical endpoint, e.g. "feed-stories"
	Kind       Kind
	StatusCode int  // zero for transport faults
	Redirected bool // the server diverted the request
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindRejected && e.Redirected:
		return fmt.Sprintf("%s: %s: redirected (status %d)", e.Op, e.Kind, e.StatusCode)
	case e.Kind == KindRejected && e.Err == nil:
		return fmt.Sprintf("%s: %s: status %d", e.Op, e.Kind, e.StatusCode)
	case e.Err == nil:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrAuthRejected) and friends match on Kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var syncErr *Error
	if errors.As(err, &syncErr) {
		return syncErr.Kind
	}
	return ""
}
