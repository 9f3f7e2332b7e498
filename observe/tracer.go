package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// ExecutionMeta contains metadata about a workflow execution for telemetry
// purposes.
type ExecutionMeta struct {
	ID         string   // Fully qualified execution ID (workflow.execution or just execution id)
	WorkflowID string   // Workflow ID (may be empty)
	Name       string   // Workflow/execution name (required)
	Version    string   // Workflow version (optional)
	Tags       []string // Tags for discovery (optional)
	Category   string   // Category (optional)
}

// SpanName returns the deterministic span name for this execution.
// Format: workflow.exec.<workflowID>.<name> or workflow.exec.<name>
func (m ExecutionMeta) SpanName() string {
	if m.WorkflowID != "" {
		return "workflow.exec." + m.WorkflowID + "." + m.Name
	}
	return "workflow.exec." + m.Name
}

// QualifiedID returns the fully qualified execution identifier.
// If ID field is set, returns it. Otherwise constructs from workflow ID and name.
func (m ExecutionMeta) QualifiedID() string {
	if m.ID != "" {
		return m.ID
	}
	if m.WorkflowID != "" {
		return m.WorkflowID + "." + m.Name
	}
	return m.Name
}

// Validate reports ErrMissingToolName if Name is empty.
func (m ExecutionMeta) Validate() error {
	if m.Name == "" {
		return ErrMissingToolName
	}
	return nil
}

// Tracer wraps OpenTelemetry tracing with execution-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: StartSpan derives the returned context from ctx, so cancellation/deadlines carry over; it returns no error.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a workflow execution.
	StartSpan(ctx context.Context, meta ExecutionMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with execution metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta ExecutionMeta) (context.Context, trace.Span) {
	spanName := meta.SpanName()

	// Build attributes
	attrs := []attribute.KeyValue{
		attribute.String("workflow.execution.id", meta.QualifiedID()),
		attribute.String("workflow.execution.name", meta.Name),
		attribute.Bool("workflow.execution.error", false), // Will be updated in EndSpan if error
	}

	// Add workflow id if present
	if meta.WorkflowID != "" {
		attrs = append(attrs, attribute.String("workflow.id", meta.WorkflowID))
	}

	// Add optional attributes if present
	if meta.Version != "" {
		attrs = append(attrs, attribute.String("workflow.version", meta.Version))
	}
	if meta.Category != "" {
		attrs = append(attrs, attribute.String("workflow.category", meta.Category))
	}
	if len(meta.Tags) > 0 {
		attrs = append(attrs, attribute.StringSlice("workflow.tags", meta.Tags))
	}

	ctx, span := t.tracer.Start(ctx, spanName,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	return ctx, span
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("workflow.execution.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// newNoopTracer creates a no-op tracer.
func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta ExecutionMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
