// Package errs defines the error taxonomy used across the engine-client
// core and the single classification step that turns an arbitrary upstream
// failure into one of its kinds.
//
// Every other package reasons in terms of [Kind], never in terms of the
// underlying transport error. Classification happens exactly once, at the
// boundary (see [Classify]), per the kernel's propagation policy.
package errs
