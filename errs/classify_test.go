package errs

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"
)

func TestClassify_Nil(t *testing.T) {
	if got := Classify(nil, 0); got != nil {
		t.Errorf("Classify(nil) = %v, want nil", got)
	}
}

func TestClassify_PassesThroughExistingError(t *testing.T) {
	original := New(KindWorkflow, "not found")
	got := Classify(original, 0)
	if got != original {
		t.Errorf("Classify(*Error) = %v, want same instance %v", got, original)
	}
}

func TestClassify_DeadlineExceeded(t *testing.T) {
	got := Classify(context.DeadlineExceeded, 5*time.Second)
	if got.Kind != KindTimeout {
		t.Fatalf("Kind = %v, want timeout", got.Kind)
	}
	d, ok := got.Metadata["timeout"].(time.Duration)
	if !ok || d != 5*time.Second {
		t.Errorf("Metadata[timeout] = %v, want 5s", got.Metadata["timeout"])
	}
}

type fakeTimeoutErr struct{}

func (fakeTimeoutErr) Error() string { return "boom" }
func (fakeTimeoutErr) Timeout() bool { return true }

func TestClassify_TimeoutLike(t *testing.T) {
	got := Classify(fakeTimeoutErr{}, 0)
	if got.Kind != KindTimeout {
		t.Errorf("Kind = %v, want timeout", got.Kind)
	}
}

func TestClassify_NetworkError(t *testing.T) {
	netErr := &net.DNSError{Err: "no such host", Name: "example.invalid"}
	got := Classify(netErr, 0)
	if got.Kind != KindNetwork {
		t.Errorf("Kind = %v, want network", got.Kind)
	}
}

func TestClassify_Unknown(t *testing.T) {
	got := Classify(errors.New("mystery"), 0)
	if got.Kind != KindUnknown {
		t.Errorf("Kind = %v, want unknown", got.Kind)
	}
}

func TestFromStatusCode(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{200, -1},
		{401, KindAuthentication},
		{403, KindAuthentication},
		{404, KindWorkflow},
		{429, KindRateLimit},
		{500, KindServerError},
		{503, KindServerError},
		{418, KindUnknown},
	}
	for _, tt := range tests {
		got := FromStatusCode(tt.status, "op", 0)
		if tt.want == -1 {
			if got != nil {
				t.Errorf("FromStatusCode(%d) = %v, want nil", tt.status, got)
			}
			continue
		}
		if got == nil || got.Kind != tt.want {
			t.Errorf("FromStatusCode(%d).Kind = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestFromStatusCode_RateLimitRetryAfter(t *testing.T) {
	got := FromStatusCode(429, "rate limited", 30*time.Second)
	d, ok := got.RetryAfter()
	if !ok || d != 30*time.Second {
		t.Errorf("RetryAfter() = %v, %v, want 30s, true", d, ok)
	}
}

func TestError_Is(t *testing.T) {
	err := New(KindTimeout, "slow")
	if !errors.Is(err, KindTimeoutErr) {
		t.Error("errors.Is(timeout error, KindTimeoutErr) = false, want true")
	}
	if errors.Is(err, KindNetworkErr) {
		t.Error("errors.Is(timeout error, KindNetworkErr) = true, want false")
	}
}

func TestBreakerOpen(t *testing.T) {
	err := BreakerOpen("open", 5)
	if err.Retryable {
		t.Error("BreakerOpen().Retryable = true, want false")
	}
	if err.Metadata["circuitBreakerState"] != "open" {
		t.Errorf("Metadata[circuitBreakerState] = %v, want open", err.Metadata["circuitBreakerState"])
	}
	if err.Metadata["failureCount"] != 5 {
		t.Errorf("Metadata[failureCount] = %v, want 5", err.Metadata["failureCount"])
	}
}

func TestDefaultRetryable(t *testing.T) {
	retryableKinds := []Kind{KindNetwork, KindTimeout, KindServerError, KindRateLimit}
	for _, k := range retryableKinds {
		if !New(k, "x").Retryable {
			t.Errorf("New(%v).Retryable = false, want true", k)
		}
	}
	nonRetryable := []Kind{KindAuthentication, KindWorkflow, KindUnknown}
	for _, k := range nonRetryable {
		if New(k, "x").Retryable {
			t.Errorf("New(%v).Retryable = true, want false", k)
		}
	}
}
