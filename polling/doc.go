// Package polling implements the adaptive polling engine: for each
// execution id, it invokes a caller-supplied probe at a cadence chosen by
// one of four interval strategies, tracks per-execution metrics, and
// reacts to externally observed activity.
//
// # Strategies
//
//   - fixed: always the configured base interval.
//   - adaptive: a per-status interval table, clamped to [min, max], with
//     an optional battery-optimisation doubling for terminal activity.
//   - smart: adaptive scaled by how long it has been since the last
//     observed activity (an "age factor"), and optionally by recent
//     success/error rates.
//   - hybrid: the more conservative (larger) of adaptive and smart.
//
// Every strategy shares one error-backoff rule: on c consecutive probe
// failures the next interval is base*backoff^c (clamped), and once c
// reaches MaxConsecutiveErrors the session stops itself.
//
// # Loop design
//
// Each session drives its own goroutine: poll once immediately, then
// arm a time.Timer for the next computed interval and Reset it after
// every poll (the interval can change between polls, so a single
// ticker cannot be reused — see aksmachinepoller's retry-delay pattern,
// which this engine generalizes from one fixed-then-backoff interval to
// a per-strategy adaptive one).
package polling
