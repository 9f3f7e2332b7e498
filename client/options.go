package client

import "github.com/unfazed-dev/n8n-go/observe"

// Option configures a Client at construction time.
type Option func(*Client)

// WithLogger overrides the structured logger used for the client's own
// lifecycle and operation logging. Defaults to an info-level logger
// writing to stderr.
func WithLogger(logger observe.Logger) Option {
	return func(c *Client) { c.logger = logger }
}
