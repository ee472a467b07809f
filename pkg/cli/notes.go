package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/notedrop/notedrop/pkg/domain/types"
	"github.com/notedrop/notedrop/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdNotes() *cli.Command {
	var limit int
	var common commonConfig

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Maximum number of notes to list",
			Value:       20,
			Destination: &limit,
		},
	}
	flags = append(flags, common.Flags()...)

	return &cli.Command{
		Name:  "notes",
		Usage: "List captured notes, newest first",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, uc, err := common.Configure(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			notes, err := uc.ListNotes(ctx, limit)
			if err != nil {
				return err
			}

			for _, note := range notes {
				status := note.Status.String()
				switch note.Status {
				case types.SyncStatusSent:
					status = color.GreenString(status)
				case types.SyncStatusError:
					status = color.RedString(status)
				default:
					status = color.YellowString(status)
				}
				fmt.Printf("%6d  %-8s  %s\n", note.ID, status, note.Title)
				if note.LastError != "" {
					fmt.Printf("        last error: %s\n", note.LastError)
				}
			}
			return nil
		},
	}
}
