package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/unfazed-dev/n8n-go/resilience"
)

// HTTPTransport is the net/http-backed default Transport (spec §4.7),
// wired through a resilience.Executor for the ambient rate-limit/bulkhead
// stack (per-call timeout is applied directly via context, since each call
// carries its own caller-supplied timeout rather than one fixed value).
type HTTPTransport struct {
	client   *http.Client
	executor *resilience.Executor
}

// HTTPTransportOption configures an HTTPTransport.
type HTTPTransportOption func(*HTTPTransport)

// WithHTTPClient overrides the underlying *http.Client.
func WithHTTPClient(client *http.Client) HTTPTransportOption {
	return func(t *HTTPTransport) { t.client = client }
}

// WithExecutor wires the ambient rate-limiter/bulkhead stack around every
// call (circuit breaking and retry are the kernel's job, one layer up).
func WithExecutor(executor *resilience.Executor) HTTPTransportOption {
	return func(t *HTTPTransport) { t.executor = executor }
}

// NewHTTPTransport returns an HTTPTransport ready to use; with no options
// it uses http.DefaultClient and no rate-limit/bulkhead wrapping.
func NewHTTPTransport(opts ...HTTPTransportOption) *HTTPTransport {
	t := &HTTPTransport{client: http.DefaultClient}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *HTTPTransport) Post(ctx context.Context, url string, headers map[string]string, body []byte, timeout time.Duration) (Response, error) {
	return t.do(ctx, http.MethodPost, url, headers, body, timeout)
}

func (t *HTTPTransport) Get(ctx context.Context, url string, headers map[string]string, timeout time.Duration) (Response, error) {
	return t.do(ctx, http.MethodGet, url, headers, nil, timeout)
}

func (t *HTTPTransport) Delete(ctx context.Context, url string, headers map[string]string, timeout time.Duration) (Response, error) {
	return t.do(ctx, http.MethodDelete, url, headers, nil, timeout)
}

func (t *HTTPTransport) do(ctx context.Context, method, url string, headers map[string]string, body []byte, timeout time.Duration) (Response, error) {
	var resp Response

	call := func(ctx context.Context) error {
		callCtx := ctx
		var cancel context.CancelFunc
		if timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(callCtx, method, url, reader)
		if err != nil {
			return err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		httpResp, err := t.client.Do(req)
		if err != nil {
			return err
		}
		defer httpResp.Body.Close()

		respBody, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return err
		}

		headers := make(map[string]string, len(httpResp.Header))
		for k := range httpResp.Header {
			headers[k] = httpResp.Header.Get(k)
		}
		resp = Response{StatusCode: httpResp.StatusCode, Headers: headers, Body: respBody}
		return nil
	}

	var err error
	if t.executor != nil {
		err = t.executor.Execute(ctx, call)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return Response{}, err
	}
	return resp, nil
}
