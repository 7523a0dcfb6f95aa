package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEndpoint(t *testing.T) {
	assert.Equal(t, "https://api.openai.com/v1", Endpoint(ProviderOpenAI))
	assert.Equal(t, "https://openrouter.ai/api/v1", Endpoint(ProviderOpenRouter))
	assert.Equal(t, "http://localhost:11434/v1", Endpoint(ProviderOllama))

	// Custom and unknown providers have no fixed endpoint
	assert.Empty(t, Endpoint(ProviderCustom))
	assert.Empty(t, Endpoint(Provider("something-else")))
}

func TestKnownProvider(t *testing.T) {
	assert.True(t, KnownProvider(ProviderAnthropic))
	assert.True(t, KnownProvider(ProviderDeepSeek))
	assert.False(t, KnownProvider(Provider("something-else")))
}

func TestResolve_GatewayProvider(t *testing.T) {
	cfg := RoutingConfig{PreferredProvider: ProviderOpenRouter}

	sel := Resolve(StageShortlist, cfg)
	assert.Equal(t, ProviderOpenRouter, sel.Provider)
	assert.Equal(t, "meta-llama/llama-3.3-70b-instruct", sel.ModelID)
	assert.Equal(t, DialectOpenAICompatible, sel.Dialect)
	assert.Equal(t, "https://openrouter.ai/api/v1", sel.BaseURL)
}

func TestResolve_GatewayForcesCompatibleDialect(t *testing.T) {
	cfg := RoutingConfig{
		PreferredProvider: ProviderGroq,
		StageModels: map[Stage]string{
			StageVerdict: "gpt-5.2",
		},
	}

	// Groq serves the model through its own OpenAI-compatible endpoint,
	// so the model's native dialect does not apply.
	sel := Resolve(StageVerdict, cfg)
	assert.Equal(t, DialectOpenAICompatible, sel.Dialect)
	assert.Equal(t, "https://api.groq.com/openai/v1", sel.BaseURL)
}
