package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/urfave/cli/v3"
)

// LLM holds configuration for the enrichment model client
type LLM struct {
	provider     string
	geminiProj   string
	geminiLoc    string
	openaiAPIKey string
}

// Flags returns CLI flags for LLM configuration
func (l *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-provider",
			Usage:       "LLM provider for note enrichment (gemini, openai or none)",
			Value:       "none",
			Sources:     cli.EnvVars("NOTEDROP_LLM_PROVIDER"),
			Destination: &l.provider,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini API",
			Sources:     cli.EnvVars("NOTEDROP_GEMINI_PROJECT"),
			Destination: &l.geminiProj,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Value:       "us-central1",
			Sources:     cli.EnvVars("NOTEDROP_GEMINI_LOCATION"),
			Destination: &l.geminiLoc,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key",
			Sources:     cli.EnvVars("NOTEDROP_OPENAI_API_KEY"),
			Destination: &l.openaiAPIKey,
		},
	}
}

// LogAttrs returns log attributes for the LLM configuration
func (l *LLM) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("provider", l.provider),
	}
}

// Configure creates an LLM client from the configured flags. Returns nil
// when no provider is configured; enrichment then degrades to the neutral
// result.
func (l *LLM) Configure(ctx context.Context) (gollem.LLMClient, error) {
	switch l.provider {
	case "", "none":
		return nil, nil

	case "gemini":
		if l.geminiProj == "" {
			return nil, goerr.New("gemini-project is required for the gemini provider")
		}
		client, err := gemini.New(ctx, l.geminiProj, l.geminiLoc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Gemini client")
		}
		return client, nil

	case "openai":
		if l.openaiAPIKey == "" {
			return nil, goerr.New("openai-api-key is required for the openai provider")
		}
		client, err := openai.New(ctx, l.openaiAPIKey)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create OpenAI client")
		}
		return client, nil

	default:
		return nil, goerr.New("invalid LLM provider", goerr.V("provider", l.provider))
	}
}
