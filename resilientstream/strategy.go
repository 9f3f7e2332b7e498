package resilientstream

import "github.com/unfazed-dev/n8n-go/errs"

// RecoveryKind is one of the five recovery strategies (spec §4.6).
type RecoveryKind string

const (
	RecoveryRestart  RecoveryKind = "restart"
	RecoveryRetry    RecoveryKind = "retry"
	RecoveryFallback RecoveryKind = "fallback"
	RecoverySkip     RecoveryKind = "skip"
	RecoveryEscalate RecoveryKind = "escalate"
)

// Strategy describes how to recover from an upstream failure of a given
// kind. Fallback is only consulted when Kind is RecoveryFallback.
type Strategy[T any] struct {
	Kind     RecoveryKind
	Fallback T
}

// Table maps errs.Kind to a recovery Strategy, with Default used for any
// kind not present in the map.
type Table[T any] struct {
	ByKind  map[errs.Kind]Strategy[T]
	Default Strategy[T]
}

// lookup returns the strategy for kind, falling back to Default.
func (t Table[T]) lookup(kind errs.Kind) Strategy[T] {
	if s, ok := t.ByKind[kind]; ok {
		return s
	}
	return t.Default
}
