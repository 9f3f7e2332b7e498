package transport

import (
	"context"
	"time"
)

// Response is the raw result of a wire call: a status code, response
// headers, and body, before any status-code classification.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// Transport is the external collaborator interface from spec §4.7: it
// handles TLS, JSON framing, and socket errors, surfacing everything else
// as an opaque failure for the kernel to classify.
type Transport interface {
	Post(ctx context.Context, url string, headers map[string]string, body []byte, timeout time.Duration) (Response, error)
	Get(ctx context.Context, url string, headers map[string]string, timeout time.Duration) (Response, error)
	Delete(ctx context.Context, url string, headers map[string]string, timeout time.Duration) (Response, error)
}
