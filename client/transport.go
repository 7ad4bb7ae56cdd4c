package client

import (
	"context"
	"net/url"

	"wiremap/envelope"
)

// Request is a transport-agnostic API request.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// Response is the raw transport result: status code, body text and
// response headers.
type Response struct {
	Status  int
	Body    string
	Headers envelope.Headers
}

// Transport executes API requests. Implementations own connection
// handling, signing and retries; this package only consumes the
// resulting body and headers.
type Transport interface {
	RoundTrip(ctx context.Context, req Request) (Response, error)
}
