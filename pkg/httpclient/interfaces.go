package httpclient

import "context"

// Response is the part of an upstream HTTP response the gateway reads.
type Response interface {
	Body() []byte
	StatusCode() int
	Status() string
}

// Client performs upstream GETs. A non-nil error means no response was received;
// callers inspect StatusCode for HTTP-level failures.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}
