// Package types defines the shared data model for agentsync: deployment
// configuration, prepared artifacts, validation reports, persisted
// deployment state, and the static agent/pack definitions.
package types
