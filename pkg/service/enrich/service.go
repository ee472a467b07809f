package enrich

import (
	"context"
	_ "embed"
	"regexp"
	"strings"

	"github.com/m-mizutani/gollem"
	"github.com/notedrop/notedrop/pkg/domain/model"
	"github.com/notedrop/notedrop/pkg/utils/logging"
)

//go:embed prompt/enrich_system.md
var systemPrompt string

// Service analyzes captured text and produces an enrichment. It never
// returns an error: any failure degrades to the neutral result so that
// capture always succeeds.
type Service interface {
	Enrich(ctx context.Context, text string) *model.Enrichment
}

// client implements Service interface
type client struct {
	llmClient gollem.LLMClient
}

// New creates a new enrichment service. A nil LLM client is allowed and
// yields a service that always returns the neutral result.
func New(llmClient gollem.LLMClient) Service {
	return &client{llmClient: llmClient}
}

// Enrich runs the text-understanding call and normalizes its output. When
// the model returns a well-formed response with no actions but the text
// states an obligation, a single fallback action is synthesized so the
// obligation is not silently dropped.
func (c *client) Enrich(ctx context.Context, text string) *model.Enrichment {
	if c.llmClient == nil {
		return &model.Enrichment{}
	}

	logger := logging.From(ctx)

	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		logger.Warn("failed to create LLM session, skipping enrichment", "error", err)
		return &model.Enrichment{}
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(text))
	if err != nil {
		logger.Warn("enrichment call failed, using neutral result", "error", err)
		return &model.Enrichment{}
	}
	if len(resp.Texts) == 0 {
		logger.Warn("enrichment returned no content, using neutral result")
		return &model.Enrichment{}
	}

	enrichment, err := parseResponse(resp.Texts[0])
	if err != nil {
		logger.Warn("failed to parse enrichment response, using neutral result",
			"error", err, "response", resp.Texts[0])
		return &model.Enrichment{}
	}

	if len(enrichment.Actions) == 0 {
		if action, ok := fallbackAction(text); ok {
			logger.Info("no actions extracted, synthesizing obligation fallback")
			enrichment.Actions = []string{action}
		}
	}

	return enrichment
}

// fallbackPrefix marks actions synthesized from an obligation phrase rather
// than extracted by the model.
const fallbackPrefix = "Define and execute the required action: "

const fallbackExcerptLength = 160

// obligationPatterns detect text that demands something even though the
// model extracted no actions: modal obligations, request phrases and
// deadline expressions, in English and Spanish.
var obligationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bmust\b`),
	regexp.MustCompile(`(?i)\bis required\b`),
	regexp.MustCompile(`(?i)\bha de ser\b`),
	regexp.MustCompile(`(?i)\bse (solicita|requiere)\b`),
	regexp.MustCompile(`(?i)\b(antes del?|before)\b`),
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}(/\d{2,4})?\b`),
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
}

func fallbackAction(text string) (string, bool) {
	triggered := false
	for _, p := range obligationPatterns {
		if p.MatchString(text) {
			triggered = true
			break
		}
	}
	if !triggered {
		return "", false
	}

	excerpt := strings.Join(strings.Fields(text), " ")
	excerpt = strings.TrimSpace(model.TruncateRunes(excerpt, fallbackExcerptLength))
	return fallbackPrefix + excerpt, true
}
