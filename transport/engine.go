package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/unfazed-dev/n8n-go/domain"
	"github.com/unfazed-dev/n8n-go/errs"
)

// EngineClient implements the wire protocol table from spec §6 on top of
// an arbitrary Transport: URL construction, JSON encoding/decoding, header
// merging, and status-code classification. It is the one place in this
// module that knows the engine's concrete paths.
type EngineClient struct {
	transport    Transport
	baseURL      string
	apiKeyHeader string
	apiKey       string
	timeout      time.Duration
}

// NewEngineClient returns an EngineClient per cfg, calling through t.
func NewEngineClient(t Transport, cfg domain.ServiceConfig) *EngineClient {
	header := cfg.APIKeyHeader
	if header == "" {
		header = domain.DefaultAPIKeyHeader
	}
	return &EngineClient{
		transport:    t,
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKeyHeader: header,
		apiKey:       cfg.APIKey,
		timeout:      cfg.RequestTimeout,
	}
}

// headers merges the API-key header (when configured) with caller headers
// merged last, per spec §6.
func (c *EngineClient) headers(extra map[string]string) map[string]string {
	h := make(map[string]string, len(extra)+1)
	if c.apiKey != "" {
		h[c.apiKeyHeader] = c.apiKey
	}
	for k, v := range extra {
		h[k] = v
	}
	return h
}

func (c *EngineClient) classify(resp Response, op string, err error) *errs.Error {
	if err != nil {
		return errs.Classify(err, c.timeout)
	}
	var retryAfter time.Duration
	if resp.StatusCode == 429 {
		retryAfter = parseRetryAfter(resp.Headers["Retry-After"])
	}
	return errs.FromStatusCode(resp.StatusCode, op, retryAfter)
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return 0
}

// TriggerWebhook POSTs payload to the engine's webhook URL (spec §6).
func (c *EngineClient) TriggerWebhook(ctx context.Context, webhookPath string, payload map[string]any, headers map[string]string) (Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Response{}, errs.New(errs.KindUnknown, "encode webhook payload", errs.WithCause(err))
	}
	webhookURL := fmt.Sprintf("%s/webhook/%s", c.baseURL, webhookPath)
	resp, err := c.transport.Post(ctx, webhookURL, c.headers(headers), body, c.timeout)
	if classified := c.classify(resp, "trigger workflow", err); classified != nil {
		return resp, classified
	}
	return resp, nil
}

// ListExecutions lists executions, optionally filtered by workflow id and
// capped at limit (spec §6: `GET {base}/api/v1/executions?workflowId=&limit=`).
func (c *EngineClient) ListExecutions(ctx context.Context, workflowID string, limit int) ([]domain.WorkflowExecution, error) {
	q := url.Values{}
	if workflowID != "" {
		q.Set("workflowId", workflowID)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	u := fmt.Sprintf("%s/api/v1/executions", c.baseURL)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	resp, err := c.transport.Get(ctx, u, c.headers(nil), c.timeout)
	if classified := c.classify(resp, "list executions", err); classified != nil {
		return nil, classified
	}

	listing, decErr := decodeJSON[executionsListingJSON](resp.Body)
	if decErr != nil {
		return nil, errs.New(errs.KindUnknown, "decode executions listing", errs.WithCause(decErr))
	}
	out := make([]domain.WorkflowExecution, len(listing.Data))
	for i, e := range listing.Data {
		out[i] = e.toDomain()
	}
	return out, nil
}

// GetExecution fetches a single execution by id (spec §6).
func (c *EngineClient) GetExecution(ctx context.Context, id string) (domain.WorkflowExecution, error) {
	u := fmt.Sprintf("%s/api/v1/executions/%s", c.baseURL, id)
	resp, err := c.transport.Get(ctx, u, c.headers(nil), c.timeout)
	if classified := c.classify(resp, "get execution", err); classified != nil {
		return domain.WorkflowExecution{}, classified
	}

	wire, decErr := decodeJSON[executionJSON](resp.Body)
	if decErr != nil {
		return domain.WorkflowExecution{}, errs.New(errs.KindUnknown, "decode execution", errs.WithCause(decErr))
	}
	return wire.toDomain(), nil
}

// ListWorkflows lists workflows (spec §6; SUPPLEMENTED: exposed by the
// wire protocol but not invoked by any distilled-spec operation).
func (c *EngineClient) ListWorkflows(ctx context.Context) ([]WorkflowSummary, error) {
	u := fmt.Sprintf("%s/api/v1/workflows", c.baseURL)
	resp, err := c.transport.Get(ctx, u, c.headers(nil), c.timeout)
	if classified := c.classify(resp, "list workflows", err); classified != nil {
		return nil, classified
	}

	listing, decErr := decodeJSON[workflowsListingJSON](resp.Body)
	if decErr != nil {
		return nil, errs.New(errs.KindUnknown, "decode workflows listing", errs.WithCause(decErr))
	}
	out := make([]WorkflowSummary, len(listing.Data))
	for i, w := range listing.Data {
		out[i] = WorkflowSummary{ID: w.ID, Name: w.Name, Active: w.Active}
	}
	return out, nil
}

// GetWorkflowDetail fetches a workflow's node list (spec §6; SUPPLEMENTED).
func (c *EngineClient) GetWorkflowDetail(ctx context.Context, workflowID string) (WorkflowDetail, error) {
	u := fmt.Sprintf("%s/api/v1/workflows/%s", c.baseURL, workflowID)
	resp, err := c.transport.Get(ctx, u, c.headers(nil), c.timeout)
	if classified := c.classify(resp, "get workflow detail", err); classified != nil {
		return WorkflowDetail{}, classified
	}

	wire, decErr := decodeJSON[workflowDetailJSON](resp.Body)
	if decErr != nil {
		return WorkflowDetail{}, errs.New(errs.KindUnknown, "decode workflow detail", errs.WithCause(decErr))
	}
	detail := WorkflowDetail{Nodes: make([]WorkflowNode, len(wire.Nodes))}
	for i, n := range wire.Nodes {
		detail.Nodes[i] = WorkflowNode{Type: n.Type, Parameters: n.Parameters}
	}
	return detail, nil
}

// ResumeExecution posts input data to resume a waiting execution (spec §6).
func (c *EngineClient) ResumeExecution(ctx context.Context, id string, inputData map[string]any) error {
	body, err := json.Marshal(map[string]any{"body": inputData})
	if err != nil {
		return errs.New(errs.KindUnknown, "encode resume payload", errs.WithCause(err))
	}
	u := fmt.Sprintf("%s/api/resume-workflow/%s", c.baseURL, id)
	resp, err := c.transport.Post(ctx, u, c.headers(nil), body, c.timeout)
	return orNilErr(c.classify(resp, "resume workflow", err))
}

// CancelExecution cancels a running execution (spec §6).
func (c *EngineClient) CancelExecution(ctx context.Context, id string) error {
	u := fmt.Sprintf("%s/api/cancel-workflow/%s", c.baseURL, id)
	resp, err := c.transport.Delete(ctx, u, c.headers(nil), c.timeout)
	return orNilErr(c.classify(resp, "cancel workflow", err))
}

// HealthProbe checks the engine's health endpoint (spec §6); a non-nil
// error means the engine is not reachable or unhealthy.
func (c *EngineClient) HealthProbe(ctx context.Context, timeout time.Duration) error {
	u := fmt.Sprintf("%s/api/health", c.baseURL)
	resp, err := c.transport.Get(ctx, u, c.headers(nil), timeout)
	return orNilErr(c.classify(resp, "health probe", err))
}

func orNilErr(e *errs.Error) error {
	if e == nil {
		return nil
	}
	return e
}
