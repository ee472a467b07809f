package usecase

import (
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/notedrop/notedrop/pkg/domain/interfaces"
	"github.com/notedrop/notedrop/pkg/domain/model"
	"github.com/notedrop/notedrop/pkg/domain/types"
	"github.com/notedrop/notedrop/pkg/service/enrich"
	"github.com/notedrop/notedrop/pkg/service/notion"

	"github.com/m-mizutani/goerr/v2"
)

// NotionFactory builds a remote tracking client from a token. The client is
// built per operation so that settings changes take effect without a restart.
type NotionFactory func(token string) (notion.Service, error)

type UseCases struct {
	repo          interfaces.Repository
	enricher      enrich.Service
	notionFactory NotionFactory
	masterSeeds   map[types.Category][]string

	// syncGuard serializes sync passes: a trigger arriving while a pass is
	// in flight is rejected, never queued.
	syncGuard *semaphore.Weighted

	now func() time.Time
}

type Option func(*UseCases)

func WithEnricher(svc enrich.Service) Option {
	return func(uc *UseCases) {
		uc.enricher = svc
	}
}

func WithNotionFactory(factory NotionFactory) Option {
	return func(uc *UseCases) {
		uc.notionFactory = factory
	}
}

// WithMasterSeeds adds extra controlled-vocabulary values upserted by
// EnsureDefaults on top of the built-in set.
func WithMasterSeeds(seeds map[types.Category][]string) Option {
	return func(uc *UseCases) {
		uc.masterSeeds = seeds
	}
}

func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:          repo,
		notionFactory: notion.New,
		syncGuard:     semaphore.NewWeighted(1),
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

func (uc *UseCases) notionService(settings *model.Settings) (notion.Service, error) {
	if uc.notionFactory == nil {
		return nil, goerr.Wrap(types.ErrConfiguration, "remote tracking service is not configured")
	}
	svc, err := uc.notionFactory(settings.NotionToken)
	if err != nil {
		return nil, goerr.Wrap(types.ErrConfiguration, "failed to build remote tracking client")
	}
	return svc, nil
}
