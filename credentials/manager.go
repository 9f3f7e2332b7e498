package credentials

import "context"

// InjectionRecord is an engine-format credential record ready for an
// engine to inject into a workflow node (field names and shape are
// defined entirely by the engine; this core never inspects them).
type InjectionRecord map[string]any

// Manager maps a logical credential type (e.g. "postgres", "slack") to an
// engine-format injection record. It is the opaque "credential manager"
// collaborator named by this module's external interfaces: no
// implementation lives here, and the core never calls it directly. A host
// application supplies one when it needs to inject credentials into
// workflow definitions it builds itself; Resolver/Registry above are the
// building blocks for implementing one.
type Manager interface {
	Resolve(ctx context.Context, credentialType string) (InjectionRecord, error)
}
