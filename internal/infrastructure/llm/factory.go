package llm

import (
	"fmt"
	"strings"

	"SocialForge/internal/config"
	"SocialForge/internal/ports"
)

// New builds the configured text provider. Every provider here also
// implements ports.ModelLister; callers that need listing assert for it.
func New(cfg config.AIConfig) (ports.TextGenerator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "gemini":
		return NewGeminiClient(cfg.Gemini), nil
	case "anthropic", "claude":
		return NewAnthropicClient(cfg.Anthropic), nil
	case "openai", "chatgpt":
		return NewChatGPTClient(cfg.ChatGPT), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}
