// Package ai resolves which reasoning backend should process each
// analysis stage. Resolution is pure string and table work; no network
// calls happen here.
package ai

import (
	"regexp"
	"strings"
)

// Provider is a reasoning backend vendor.
type Provider string

const (
	ProviderOpenAI           Provider = "openai"
	ProviderAnthropic        Provider = "anthropic"
	ProviderGemini           Provider = "gemini"
	ProviderOpenAICompatible Provider = "openai_compatible"
)

// Dialect is the request/response shape a model endpoint expects.
type Dialect string

const (
	DialectOpenAIResponses  Dialect = "openai_responses"
	DialectOpenAIChat       Dialect = "openai_chat"
	DialectAnthropic        Dialect = "anthropic"
	DialectGemini           Dialect = "gemini"
	DialectOpenAICompatible Dialect = "openai_compatible"
)

// Stage names one phase of the analysis pipeline. Each stage can be
// routed to a different model.
type Stage string

const (
	StageShortlist Stage = "shortlist"
	StageVerdict   Stage = "verdict"
	StageSynthesis Stage = "synthesis"
	StageDeepDive  Stage = "deepdive"
)

// ReasoningDepth controls how much thinking a model is asked to do.
type ReasoningDepth string

const (
	DepthNone    ReasoningDepth = "none"
	DepthMinimal ReasoningDepth = "minimal"
	DepthLow     ReasoningDepth = "low"
	DepthMedium  ReasoningDepth = "medium"
	DepthHigh    ReasoningDepth = "high"
	DepthExtra   ReasoningDepth = "extra"
)

// OutputLength bounds response size.
type OutputLength string

const (
	LengthShort  OutputLength = "short"
	LengthMedium OutputLength = "medium"
	LengthLong   OutputLength = "long"
)

// Verbosity controls explanation detail.
type Verbosity string

const (
	VerbosityLow    Verbosity = "low"
	VerbosityMedium Verbosity = "medium"
	VerbosityHigh   Verbosity = "high"
)

// ParseReasoningDepth maps a config string to a depth. Unknown and empty
// values fall back to medium so a malformed profile never fails routing.
func ParseReasoningDepth(s string) ReasoningDepth {
	switch d := ReasoningDepth(strings.ToLower(strings.TrimSpace(s))); d {
	case DepthNone, DepthMinimal, DepthLow, DepthMedium, DepthHigh, DepthExtra:
		return d
	default:
		return DepthMedium
	}
}

// ParseOutputLength maps a config string to an output length, accepting
// the legacy standard/full names.
func ParseOutputLength(s string) OutputLength {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(LengthShort):
		return LengthShort
	case string(LengthMedium), "standard":
		return LengthMedium
	case string(LengthLong), "full":
		return LengthLong
	default:
		return LengthMedium
	}
}

// ParseVerbosity maps a config string to a verbosity level.
func ParseVerbosity(s string) Verbosity {
	switch v := Verbosity(strings.ToLower(strings.TrimSpace(s))); v {
	case VerbosityLow, VerbosityMedium, VerbosityHigh:
		return v
	default:
		return VerbosityMedium
	}
}

// aliases maps retired model names to their current replacements.
var aliases = map[string]string{
	"gpt-5":  "gpt-5.2",
	"gpt-4o": "gpt-5-mini",
}

// reasoningModel matches OpenAI reasoning families like o1, o3, o4-mini.
var reasoningModel = regexp.MustCompile(`^o\d(\b|[.-])?`)

// NormalizeModelID canonicalizes a model identifier: lowercased, spaces
// and underscores become dashes, and retired aliases are replaced.
func NormalizeModelID(modelID string) string {
	id := strings.ToLower(strings.TrimSpace(modelID))
	id = strings.ReplaceAll(id, "_", "-")
	id = strings.ReplaceAll(id, " ", "-")
	if canonical, ok := aliases[id]; ok {
		return canonical
	}
	return id
}

// ClassifyModel maps a model identifier to exactly one dialect family.
// It is total: unrecognized identifiers resolve to the OpenAI-compatible
// dialect instead of failing, since nearly every aggregator endpoint
// speaks that shape.
func ClassifyModel(modelID string) Dialect {
	id := NormalizeModelID(modelID)

	// Vendor-prefixed ("anthropic/claude-...") and tag-suffixed
	// ("llama3:70b") identifiers come from gateway services that speak
	// the OpenAI-compatible dialect regardless of the underlying model.
	if strings.Contains(id, "/") || strings.Contains(id, ":") {
		return DialectOpenAICompatible
	}

	switch {
	case strings.HasPrefix(id, "gpt-"),
		strings.HasPrefix(id, "chatgpt-"),
		strings.HasPrefix(id, "computer-use"),
		reasoningModel.MatchString(id):
		return DialectOpenAIResponses
	case strings.HasPrefix(id, "claude-"):
		return DialectAnthropic
	case strings.HasPrefix(id, "gemini-"):
		return DialectGemini
	default:
		return DialectOpenAICompatible
	}
}

// ProviderForDialect maps a dialect back to its vendor.
func ProviderForDialect(d Dialect) Provider {
	switch d {
	case DialectOpenAIResponses, DialectOpenAIChat:
		return ProviderOpenAI
	case DialectAnthropic:
		return ProviderAnthropic
	case DialectGemini:
		return ProviderGemini
	default:
		return ProviderOpenAICompatible
	}
}

// DefaultModel returns the stock model for a provider, used when a stage
// has no model configured.
func DefaultModel(p Provider) string {
	switch p {
	case ProviderAnthropic:
		return "claude-sonnet-4-5"
	case ProviderGemini:
		return "gemini-2.5-pro"
	case ProviderOpenAICompatible, ProviderOpenRouter:
		return "meta-llama/llama-3.3-70b-instruct"
	case ProviderGroq:
		return "llama-3.3-70b-versatile"
	case ProviderDeepSeek:
		return "deepseek-chat"
	case ProviderOllama:
		return "llama3:8b"
	default:
		return "gpt-5-mini"
	}
}
