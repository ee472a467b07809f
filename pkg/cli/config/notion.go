package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/notedrop/notedrop/pkg/domain/interfaces"
	"github.com/urfave/cli/v3"
)

// Notion holds CLI flags for the remote tracking credentials
type Notion struct {
	token      string
	databaseID string
}

// Flags returns CLI flags for remote tracking configuration
func (n *Notion) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "notion-api-token",
			Usage:       "Notion API token",
			Sources:     cli.EnvVars("NOTEDROP_NOTION_API_TOKEN"),
			Destination: &n.token,
		},
		&cli.StringFlag{
			Name:        "notion-database-id",
			Usage:       "Notion database ID the notes are synced into",
			Sources:     cli.EnvVars("NOTEDROP_NOTION_DATABASE_ID"),
			Destination: &n.databaseID,
		},
	}
}

// Seed writes the flag values into the stored settings. Flags override the
// stored credentials; empty flags leave them untouched so the values saved
// through the settings API survive restarts.
func (n *Notion) Seed(ctx context.Context, repo interfaces.Repository) error {
	if n.token == "" && n.databaseID == "" {
		return nil
	}

	settings, err := repo.Settings().Load(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load settings")
	}

	if n.token != "" {
		settings.NotionToken = n.token
	}
	if n.databaseID != "" {
		settings.NotionDatabaseID = n.databaseID
	}

	if err := repo.Settings().Save(ctx, settings); err != nil {
		return goerr.Wrap(err, "failed to save settings")
	}
	return nil
}
