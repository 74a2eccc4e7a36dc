package api

import (
	"bytes"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// wire is the single JSON configuration used for every response body. It is frozen
// at init and never mutated; custom shapes implement json.Unmarshaler instead of
// registering extensions.
var wire = jsoniter.Config{
	EscapeHTML:             true,
	ValidateJsonRawMessage: true,
}.Froze()

var errEmptyBody = errors.New("empty response body")

// DecodeError means a response body did not have the expected shape.
type DecodeError struct {
	Target string // Go type the body was decoded into
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Target, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decoder turns response bodies into the typed shapes in this package.
// A Decoder is immutable and safe for concurrent use.
type Decoder struct {
	api jsoniter.API
}

// NewDecoder returns a Decoder over the package's frozen JSON configuration.
func NewDecoder() *Decoder {
	return &Decoder{api: wire}
}

// Decode unmarshals body into v. Any failure is returned as a *DecodeError.
func (d *Decoder) Decode(body []byte, v any) error {
	target := fmt.Sprintf("%T", v)
	if len(bytes.TrimSpace(body)) == 0 {
		return &DecodeError{Target: target, Err: errEmptyBody}
	}
	if err := d.api.Unmarshal(body, v); err != nil {
		return &DecodeError{Target: target, Err: err}
	}
	return nil
}
