package enrich_test

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
	"github.com/notedrop/notedrop/pkg/domain/model"
	"github.com/notedrop/notedrop/pkg/domain/types"
	"github.com/notedrop/notedrop/pkg/repository/memory"
	"github.com/notedrop/notedrop/pkg/service/enrich"
	"github.com/notedrop/notedrop/pkg/usecase"
)

// ----- fake LLM client -----

type fakeLLMClient struct {
	response string
	err      error
}

func (c *fakeLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &fakeSession{response: c.response}, nil
}

func (c *fakeLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

type fakeSession struct {
	response string
}

func (s *fakeSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return &gollem.Response{Texts: []string{s.response}}, nil
}

func (s *fakeSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *fakeSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	return s.Generate(ctx, input)
}

func (s *fakeSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *fakeSession) History() (*gollem.History, error) { return nil, nil }

func (s *fakeSession) AppendHistory(*gollem.History) error { return nil }

func (s *fakeSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

func TestEnrich(t *testing.T) {
	ctx := context.Background()

	t.Run("synthesizes one action when the model extracts none from obligation text", func(t *testing.T) {
		svc := enrich.New(&fakeLLMClient{
			response: `{"summary": "Informe pendiente de envío", "actions": []}`,
		})

		got := svc.Enrich(ctx, "Se solicita enviar informe antes del 15/03.")
		gt.Value(t, got.Summary).Equal("Informe pendiente de envío")
		gt.Array(t, got.Actions).Length(1)
		gt.Bool(t, strings.HasPrefix(got.Actions[0], enrich.FallbackPrefix)).True()
		gt.Bool(t, strings.Contains(got.Actions[0], "antes del 15/03")).True()
	})

	t.Run("keeps the model's actions untouched", func(t *testing.T) {
		svc := enrich.New(&fakeLLMClient{
			response: `{"summary": "ok", "actions": ["Send the report"]}`,
		})

		got := svc.Enrich(ctx, "Se solicita enviar informe antes del 15/03.")
		gt.Array(t, got.Actions).Length(1)
		gt.Value(t, got.Actions[0]).Equal("Send the report")
	})

	t.Run("empty actions without an obligation stay empty", func(t *testing.T) {
		svc := enrich.New(&fakeLLMClient{
			response: `{"summary": "small talk", "actions": []}`,
		})

		got := svc.Enrich(ctx, "We had a pleasant chat about the weather.")
		gt.Array(t, got.Actions).Length(0)
	})

	t.Run("malformed response degrades to the neutral result", func(t *testing.T) {
		svc := enrich.New(&fakeLLMClient{response: "the model rambled with no JSON"})

		got := svc.Enrich(ctx, "Se solicita enviar informe antes del 15/03.")
		gt.Bool(t, got.IsZero()).True()
	})

	t.Run("session failure degrades to the neutral result", func(t *testing.T) {
		svc := enrich.New(&fakeLLMClient{err: goerr.New("quota exhausted")})

		got := svc.Enrich(ctx, "The report must be submitted.")
		gt.Bool(t, got.IsZero()).True()
	})
}

func TestEnrichedCapture(t *testing.T) {
	ctx := context.Background()

	uc := usecase.New(memory.New(), usecase.WithEnricher(enrich.New(&fakeLLMClient{
		response: `{"summary": "Informe pendiente", "actions": []}`,
	})))

	note, err := uc.CreateNote(ctx, &model.CreateNoteRequest{
		RawText: "Se solicita enviar informe antes del 15/03.",
		Source:  types.SourceManual,
	})
	gt.NoError(t, err).Required()

	actions, err := uc.ListNoteActions(ctx, note.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, actions).Length(1).Required()
	gt.Bool(t, strings.HasPrefix(actions[0].Description, enrich.FallbackPrefix)).True()
	gt.Bool(t, strings.Contains(actions[0].Description, "Se solicita enviar informe antes del 15/03.")).True()
	gt.Value(t, note.ActionsText).Equal(actions[0].Description)
}
