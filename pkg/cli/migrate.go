package cli

import (
	"context"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/notedrop/notedrop/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var projectID string
	var databaseID string
	var dryRun bool

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Migrate Firestore indexes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "firestore-project-id",
				Usage:       "Firestore Project ID (required)",
				Required:    true,
				Sources:     cli.EnvVars("NOTEDROP_FIRESTORE_PROJECT_ID"),
				Destination: &projectID,
			},
			&cli.StringFlag{
				Name:        "firestore-database-id",
				Usage:       "Firestore Database ID",
				Sources:     cli.EnvVars("NOTEDROP_FIRESTORE_DATABASE_ID"),
				Destination: &databaseID,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Preview changes without applying",
				Destination: &dryRun,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			logger.Info("Migrate configuration",
				"projectID", projectID,
				"databaseID", databaseID,
				"dryRun", dryRun)

			indexConfig := getIndexConfig()

			client, err := fireconf.New(ctx, projectID, databaseID, indexConfig,
				fireconf.WithLogger(logger),
				fireconf.WithDryRun(dryRun),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create fireconf client")
			}
			defer func() {
				if err := client.Close(); err != nil {
					logger.Error("failed to close fireconf client", "error", err.Error())
				}
			}()

			if dryRun {
				logger.Info("Dry run mode - previewing changes")
				if err := client.Migrate(ctx); err != nil {
					return goerr.Wrap(err, "failed to create migration plan")
				}
			} else {
				logger.Info("Applying migrations")
				if err := client.Migrate(ctx); err != nil {
					return goerr.Wrap(err, "failed to apply migrations")
				}
				logger.Info("Migrations applied successfully")
			}

			return nil
		},
	}
}

// getIndexConfig returns the Firestore index configuration
func getIndexConfig() *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: "notes",
				Indexes: []fireconf.Index{
					// ListRetryable: status IN (pending, error) ordered by id ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "status", Order: fireconf.OrderAscending},
							{Path: "id", Order: fireconf.OrderAscending},
						},
					},
				},
			},
			{
				Name: "actions",
				Indexes: []fireconf.Index{
					// ListPending: status ASC, id DESC
					{
						Fields: []fireconf.IndexField{
							{Path: "status", Order: fireconf.OrderAscending},
							{Path: "id", Order: fireconf.OrderDescending},
						},
					},
					// ListByNote: note_id ASC, id DESC
					{
						Fields: []fireconf.IndexField{
							{Path: "note_id", Order: fireconf.OrderAscending},
							{Path: "id", Order: fireconf.OrderDescending},
						},
					},
				},
			},
		},
	}
}
