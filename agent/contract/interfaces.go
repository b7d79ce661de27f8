package contract

import "context"

// Agent is the capability contract every unit of work implements. Handle
// must either return a well-formed Envelope or an error; callers that fan
// agents out convert errors into error-typed envelopes at their boundary.
type Agent interface {
	Name() string
	Handle(ctx context.Context, req Request) (Envelope, error)
}

// Registry resolves peer agents by name.
type Registry interface {
	Get(name string) (Agent, error)
}

// RegistryAware is implemented by agents that locate peers at dispatch time.
// The registry hands itself to such agents when they are registered.
type RegistryAware interface {
	AttachRegistry(Registry)
}

// GenerativeBackend is the black-box text-generation collaborator. Both
// operations may fail with network or credential errors; agents treat every
// failure as recoverable and never propagate it raw.
type GenerativeBackend interface {
	GenerateSQL(ctx context.Context, query string) (string, error)
	Answer(ctx context.Context, question string) (string, error)
}

// PropertySource is the bounded-search view of the property store used by
// the intent classifier.
type PropertySource interface {
	Search(ctx context.Context, keywords string, limit int) ([]Row, error)
}
