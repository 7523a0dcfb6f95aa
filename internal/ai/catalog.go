package ai

// Gateway backends all speak the OpenAI-compatible dialect regardless
// of the models they serve.
const (
	ProviderOpenRouter Provider = "openrouter"
	ProviderGroq       Provider = "groq"
	ProviderDeepSeek   Provider = "deepseek"
	ProviderOllama     Provider = "ollama"
	ProviderCustom     Provider = "custom"
)

// ProviderInfo describes one backend endpoint.
type ProviderInfo struct {
	ID      Provider `json:"id"`
	BaseURL string   `json:"base_url"`
	Dialect Dialect  `json:"dialect"`
}

var catalog = map[Provider]ProviderInfo{
	ProviderOpenAI:    {ProviderOpenAI, "https://api.openai.com/v1", DialectOpenAIResponses},
	ProviderAnthropic: {ProviderAnthropic, "https://api.anthropic.com/v1", DialectAnthropic},
	ProviderGemini:    {ProviderGemini, "https://generativelanguage.googleapis.com/v1beta", DialectGemini},

	ProviderOpenRouter:       {ProviderOpenRouter, "https://openrouter.ai/api/v1", DialectOpenAICompatible},
	ProviderGroq:             {ProviderGroq, "https://api.groq.com/openai/v1", DialectOpenAICompatible},
	ProviderDeepSeek:         {ProviderDeepSeek, "https://api.deepseek.com/v1", DialectOpenAICompatible},
	ProviderOllama:           {ProviderOllama, "http://localhost:11434/v1", DialectOpenAICompatible},
	ProviderOpenAICompatible: {ProviderOpenAICompatible, "", DialectOpenAICompatible},
	ProviderCustom:           {ProviderCustom, "", DialectOpenAICompatible},
}

// Endpoint returns the base URL for a provider. Unknown and custom
// providers return empty, meaning the caller must supply the URL.
func Endpoint(p Provider) string {
	return catalog[p].BaseURL
}

// KnownProvider reports whether p is in the catalog.
func KnownProvider(p Provider) bool {
	_, ok := catalog[p]
	return ok
}
