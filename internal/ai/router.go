package ai

// RoutingConfig is the immutable routing slice of the user settings.
// Callers rebuild it whenever settings change; Resolve never caches.
type RoutingConfig struct {
	// PreferredProvider is the global default backend.
	PreferredProvider Provider

	// StageProviders holds per-stage provider overrides.
	StageProviders map[Stage]Provider

	// StageModels holds per-stage model identifiers.
	StageModels map[Stage]string

	ReasoningDepth ReasoningDepth
	OutputLength   OutputLength
	Verbosity      Verbosity
}

// Selection is the fully resolved backend choice for one stage.
type Selection struct {
	Provider       Provider       `json:"provider"`
	ModelID        string         `json:"model_id"`
	Dialect        Dialect        `json:"dialect"`
	BaseURL        string         `json:"base_url,omitempty"`
	ReasoningDepth ReasoningDepth `json:"reasoning_depth"`
	OutputLength   OutputLength   `json:"output_length"`
	Verbosity      Verbosity      `json:"verbosity"`
}

// Resolve maps a (stage, config) pair to exactly one Selection. It is
// pure and total: identical arguments always produce identical output
// and no well-formed config can make it fail.
func Resolve(stage Stage, cfg RoutingConfig) Selection {
	provider := cfg.PreferredProvider
	if override, ok := cfg.StageProviders[stage]; ok && override != "" {
		provider = override
	}

	modelID := cfg.StageModels[stage]
	if modelID == "" {
		if provider == "" {
			provider = ProviderOpenAI
		}
		modelID = DefaultModel(provider)
	}
	modelID = NormalizeModelID(modelID)

	dialect := ClassifyModel(modelID)
	if provider == "" {
		provider = ProviderForDialect(dialect)
	}

	// Gateway backends accept any model name but only speak the
	// OpenAI-compatible dialect.
	if info, ok := catalog[provider]; ok && info.Dialect == DialectOpenAICompatible {
		dialect = DialectOpenAICompatible
	}

	depth := cfg.ReasoningDepth
	if depth == "" {
		depth = DepthMedium
	}
	length := cfg.OutputLength
	if length == "" {
		length = LengthMedium
	}
	verbosity := cfg.Verbosity
	if verbosity == "" {
		verbosity = VerbosityMedium
	}

	return Selection{
		Provider:       provider,
		ModelID:        modelID,
		Dialect:        dialect,
		BaseURL:        Endpoint(provider),
		ReasoningDepth: depth,
		OutputLength:   length,
		Verbosity:      verbosity,
	}
}
