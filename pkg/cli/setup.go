package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/notedrop/notedrop/pkg/cli/config"
	"github.com/notedrop/notedrop/pkg/domain/interfaces"
	"github.com/notedrop/notedrop/pkg/service/enrich"
	"github.com/notedrop/notedrop/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// commonConfig bundles the flags shared by every command that touches the
// store: the repository backend, the enrichment model, the remote
// credentials and the optional TOML configuration file.
type commonConfig struct {
	configPath string
	repoCfg    config.Repository
	llmCfg     config.LLM
	notionCfg  config.Notion
}

func (c *commonConfig) Flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to TOML configuration file",
			Sources:     cli.EnvVars("NOTEDROP_CONFIG"),
			Destination: &c.configPath,
		},
	}
	flags = append(flags, c.repoCfg.Flags()...)
	flags = append(flags, c.llmCfg.Flags()...)
	flags = append(flags, c.notionCfg.Flags()...)
	return flags
}

// Configure builds the repository and use cases. The caller owns the
// returned repository and must close it.
func (c *commonConfig) Configure(ctx context.Context) (interfaces.Repository, *usecase.UseCases, error) {
	appCfg, err := config.LoadAppConfig(c.configPath)
	if err != nil {
		return nil, nil, err
	}

	repo, err := c.repoCfg.Configure(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to initialize repository")
	}

	if err := c.notionCfg.Seed(ctx, repo); err != nil {
		_ = repo.Close()
		return nil, nil, err
	}

	llmClient, err := c.llmCfg.Configure(ctx)
	if err != nil {
		_ = repo.Close()
		return nil, nil, err
	}

	opts := []usecase.Option{
		usecase.WithMasterSeeds(appCfg.Seeds()),
	}
	if llmClient != nil {
		opts = append(opts, usecase.WithEnricher(enrich.New(llmClient)))
	}

	uc := usecase.New(repo, opts...)
	if err := uc.EnsureDefaults(ctx); err != nil {
		_ = repo.Close()
		return nil, nil, goerr.Wrap(err, "failed to seed master values")
	}

	return repo, uc, nil
}
