package resilience

import (
	"errors"
	"testing"

	"github.com/unfazed-dev/n8n-go/errs"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrRateLimitExceeded", ErrRateLimitExceeded},
		{"ErrBulkheadFull", ErrBulkheadFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Errorf("%s is nil", tt.name)
			}
			if tt.err.Error() == "" {
				t.Errorf("%s has empty message", tt.name)
			}

			var classified *errs.Error
			if !errors.As(tt.err, &classified) {
				t.Fatalf("%s does not unwrap to *errs.Error", tt.name)
			}
			if classified.Kind != errs.KindRateLimit {
				t.Errorf("%s.Kind = %v, want KindRateLimit", tt.name, classified.Kind)
			}
			if !classified.Retryable {
				t.Errorf("%s.Retryable = false, want true", tt.name)
			}
		})
	}
}
