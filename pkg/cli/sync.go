package cli

import (
	"context"

	"github.com/fatih/color"
	"github.com/notedrop/notedrop/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdSync() *cli.Command {
	var common commonConfig

	return &cli.Command{
		Name:  "sync",
		Usage: "Run one sync pass pushing pending notes to the remote database",
		Flags: common.Flags(),
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

			result, err := uc.SyncPending(ctx)
			if err != nil {
				return err
			}

			if result.Failed > 0 {
				color.Yellow("sync finished: %d sent, %d failed", result.Sent, result.Failed)
			} else {
				color.Green("sync finished: %d sent", result.Sent)
			}
			return nil
		},
	}
}
