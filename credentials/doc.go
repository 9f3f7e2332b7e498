// Package credentials provides a small, dependency-light credential
// resolution layer for values that flow into the engine (API keys, webhook
// bearer tokens, header values pulled from workflow configuration).
//
// It supports:
//   - Strict environment expansion (see ExpandEnvStrict)
//   - Pluggable credential providers (see Provider + Registry)
//   - Resolving credential references embedded in configuration values (see Resolver)
//
// References use the prefix "credref:":
//   - Full value:  credref:vault:kv/n8n/api-key
//   - Inline use:  Bearer credref:vault:kv/n8n/api-key
//
// credentials.Manager (manager.go) is a separate, opaque interface for
// mapping logical credential types to an engine-format injection record; it
// has no implementation in this module and is expected to be supplied by the
// embedding application.
package credentials
