package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/notedrop/notedrop/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdActions() *cli.Command {
	return &cli.Command{
		Name:  "actions",
		Usage: "Manage extracted action items",
		Commands: []*cli.Command{
			cmdActionsList(),
			cmdActionsDone(),
		},
	}
}

func cmdActionsList() *cli.Command {
	var area string
	var common commonConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "area",
			Usage:       "Filter by area",
			Destination: &area,
		},
	}
	flags = append(flags, common.Flags()...)

	return &cli.Command{
		Name:  "list",
		Usage: "List pending actions",
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

			actions, err := uc.ListPendingActions(ctx, area)
			if err != nil {
				return err
			}

			for _, action := range actions {
				fmt.Printf("%6d  note:%-6d  %s\n", action.ID, action.NoteID, action.Description)
			}
			return nil
		},
	}
}

func cmdActionsDone() *cli.Command {
	var common commonConfig

	return &cli.Command{
		Name:      "done",
		Usage:     "Mark an action as done",
		ArgsUsage: "<action-id>",
		Flags:     common.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return goerr.New("exactly one action ID is required")
			}
			id, err := strconv.ParseInt(c.Args().First(), 10, 64)
			if err != nil {
				return goerr.Wrap(err, "invalid action ID", goerr.V("arg", c.Args().First()))
			}

			repo, uc, err := common.Configure(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			if err := uc.MarkActionDone(ctx, id); err != nil {
				return err
			}
			color.Green("action %d marked as done", id)
			return nil
		},
	}
}
