package client

import (
	"net/http"

	"github.com/unfazed-dev/n8n-go/health"
)

// HealthHandler returns an http.Handler exposing /healthz (liveness),
// /readyz (aggregate readiness), and /health (detailed per-checker JSON)
// for a host process to mount alongside its own routes. The aggregate
// includes the engine connection checker plus one "execution:<id>" /
// "watch:<id>" checker per execution currently being polled or watched.
func (c *Client) HealthHandler() http.Handler {
	mux := http.NewServeMux()
	health.RegisterHandlers(mux, c.health)
	return mux
}
