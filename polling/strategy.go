package polling

import (
	"math"
	"time"

	"github.com/unfazed-dev/n8n-go/domain"
)

// ageFactor implements the smart strategy's age-based multiplier from
// spec §4.2: <5min -> 1.0, <15min -> 1.5, <30min -> 2.0, <60min -> 3.0,
// >=60min -> 4.0.
func ageFactor(sinceActivity time.Duration) float64 {
	switch {
	case sinceActivity < 5*time.Minute:
		return 1.0
	case sinceActivity < 15*time.Minute:
		return 1.5
	case sinceActivity < 30*time.Minute:
		return 2.0
	case sinceActivity < time.Hour:
		return 3.0
	default:
		return 4.0
	}
}

func clamp(d, min, max time.Duration) time.Duration {
	if d < min {
		return min
	}
	if d > max {
		return max
	}
	return d
}

// adaptiveInterval chooses a per-status base interval and doubles it for
// a terminal last-observed status when battery optimisation is enabled.
func adaptiveInterval(cfg domain.PollingConfig, lastStatus domain.Status) time.Duration {
	interval := cfg.BaseInterval
	if d, ok := cfg.PerStatusInterval[lastStatus]; ok {
		interval = d
	}
	if cfg.BatteryOptimise && lastStatus.IsTerminal() {
		interval *= 2
	}
	return clamp(interval, cfg.MinInterval, cfg.MaxInterval)
}

// smartInterval scales adaptiveInterval by the age factor and, if
// adaptive throttling is enabled, by recent success/error rates.
func smartInterval(cfg domain.PollingConfig, lastStatus domain.Status, sinceActivity time.Duration, metrics domain.PollingMetrics) time.Duration {
	base := adaptiveInterval(cfg, lastStatus)
	scaled := time.Duration(float64(base) * ageFactor(sinceActivity))

	if cfg.AdaptiveThrottle {
		switch {
		case metrics.SuccessRate() > 0.8 && metrics.TotalPolls > 10:
			scaled = time.Duration(float64(scaled) * 0.8)
		case metrics.ErrorRate() > 0.3 && metrics.TotalPolls > 5:
			scaled = time.Duration(float64(scaled) * 1.5)
		}
	}

	return clamp(scaled, cfg.MinInterval, cfg.MaxInterval)
}

// nextInterval selects the next poll interval per the configured
// strategy (spec §4.2), ignoring any pending error backoff.
func nextInterval(cfg domain.PollingConfig, lastStatus domain.Status, sinceActivity time.Duration, metrics domain.PollingMetrics) time.Duration {
	switch cfg.Strategy {
	case domain.StrategyFixed:
		return clamp(cfg.BaseInterval, cfg.MinInterval, cfg.MaxInterval)
	case domain.StrategyAdaptive:
		return adaptiveInterval(cfg, lastStatus)
	case domain.StrategySmart:
		return smartInterval(cfg, lastStatus, sinceActivity, metrics)
	case domain.StrategyHybrid:
		a := adaptiveInterval(cfg, lastStatus)
		s := smartInterval(cfg, lastStatus, sinceActivity, metrics)
		if a > s {
			return a
		}
		return s
	default:
		return clamp(cfg.BaseInterval, cfg.MinInterval, cfg.MaxInterval)
	}
}

// errorBackoff implements the shared error-backoff rule: on c
// consecutive failures the interval is base*backoff^c, clamped to
// [min, max].
func errorBackoff(cfg domain.PollingConfig, consecutiveErrors int) time.Duration {
	multiplier := math.Pow(cfg.BackoffFactor, float64(consecutiveErrors))
	return clamp(time.Duration(float64(cfg.BaseInterval)*multiplier), cfg.MinInterval, cfg.MaxInterval)
}
