package providers

import (
	"errors"
	"fmt"

	"github.com/Adda-Baaj/tour-sosik/pkg/httpclient"
)

// ErrorKind classifies why a source produced nothing.
type ErrorKind string

const (
	KindNetwork  ErrorKind = "network"
	KindStatus   ErrorKind = "status"
	KindParse    ErrorKind = "parse"
	KindEncoding ErrorKind = "encoding"
	KindUnknown  ErrorKind = "unknown"
)

// FetchError records the provider and failure class of a fetch.
type FetchError struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func newFetchError(provider string, kind ErrorKind, err error) error {
	return &FetchError{Provider: provider, Kind: kind, Err: err}
}

// NetworkError wraps a transport failure.
func NetworkError(provider string, err error) error {
	return newFetchError(provider, KindNetwork, err)
}

// TransportError classifies a failed request: an undecodable body is an
// encoding failure, anything else a network one.
func TransportError(provider string, err error) error {
	if errors.Is(err, httpclient.ErrContentEncoding) {
		return EncodingError(provider, err)
	}
	return NetworkError(provider, err)
}

// StatusError reports a non-2xx response.
func StatusError(provider string, status int, body []byte) error {
	return newFetchError(provider, KindStatus, fmt.Errorf("status %d body: %s", status, responseSnippet(body)))
}

// ParseError wraps a markup or payload shape mismatch.
func ParseError(provider string, err error) error {
	return newFetchError(provider, KindParse, err)
}

// EncodingError wraps a charset decoding failure.
func EncodingError(provider string, err error) error {
	return newFetchError(provider, KindEncoding, err)
}

// KindOf returns the kind carried by err, or KindUnknown.
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}
