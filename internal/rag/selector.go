package rag

// Backend identifies which knowledge source answers a query.
type Backend string

const (
	BackendLocalRAG  Backend = "local_rag"
	BackendOpenAI    Backend = "openai"
	BackendWebSearch Backend = "web_search"
	BackendDocuments Backend = "documents"
)

// Flags is the full input to backend selection, loaded once per request.
type Flags struct {
	LocalEnabled     bool
	GlobalEnabled    bool
	TenantEnabled    bool
	IncludeGeneralAI bool
}

// SelectBackend picks the generation strategy for one request. Priority order,
// first applicable wins: local generation beats everything, hosted generation
// needs both the global and the tenant flag, web search needs the caller to
// have asked for general knowledge, and raw document concatenation is the
// terminal fallback.
func SelectBackend(f Flags) Backend {
	switch {
	case f.LocalEnabled:
		return BackendLocalRAG
	case f.GlobalEnabled && f.TenantEnabled:
		return BackendOpenAI
	case f.IncludeGeneralAI:
		return BackendWebSearch
	default:
		return BackendDocuments
	}
}
