package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/notedrop/notedrop/pkg/domain/types"
	"github.com/notedrop/notedrop/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdMasters() *cli.Command {
	return &cli.Command{
		Name:  "masters",
		Usage: "Manage the controlled vocabularies",
		Commands: []*cli.Command{
			cmdMastersList(),
			cmdMastersAdd(),
			cmdMastersDeactivate(),
			cmdMastersPushSchema(),
		},
	}
}

func parseCategoryArg(c *cli.Command) (types.Category, error) {
	if c.Args().Len() < 1 {
		return "", goerr.New("category argument is required (Area, Type, State, Priority or Origin)")
	}
	return types.ParseCategory(c.Args().First())
}

func cmdMastersList() *cli.Command {
	var common commonConfig

	return &cli.Command{
		Name:      "list",
		Usage:     "List the values of a category",
		ArgsUsage: "<category>",
		Flags:     common.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			category, err := parseCategoryArg(c)
			if err != nil {
				return err
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

			values, err := uc.ListMasters(ctx, category)
			if err != nil {
				return err
			}

			for _, value := range values {
				state := color.GreenString("active")
				if !value.Active {
					state = color.RedString("inactive")
				}
				locked := ""
				if value.SystemLocked {
					locked = "  (locked)"
				}
				fmt.Printf("%-20s  %s%s\n", value.Value, state, locked)
			}
			return nil
		},
	}
}

func cmdMastersAdd() *cli.Command {
	var common commonConfig

	return &cli.Command{
		Name:      "add",
		Usage:     "Add a value to a category",
		ArgsUsage: "<category> <value>",
		Flags:     common.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			category, err := parseCategoryArg(c)
			if err != nil {
				return err
			}
			if c.Args().Len() < 2 {
				return goerr.New("value argument is required")
			}
			value := c.Args().Get(1)

			repo, uc, err := common.Configure(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			if err := uc.AddMasterValue(ctx, category, value); err != nil {
				return err
			}
			color.Green("added %s value %q", category, value)
			return nil
		},
	}
}

func cmdMastersDeactivate() *cli.Command {
	var common commonConfig

	return &cli.Command{
		Name:      "deactivate",
		Usage:     "Deactivate a value after the governance checks pass",
		ArgsUsage: "<category> <value>",
		Flags:     common.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			category, err := parseCategoryArg(c)
			if err != nil {
				return err
			}
			if c.Args().Len() < 2 {
				return goerr.New("value argument is required")
			}
			value := c.Args().Get(1)

			repo, uc, err := common.Configure(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			if err := uc.DeactivateMasterValue(ctx, category, value); err != nil {
				return err
			}
			color.Green("deactivated %s value %q", category, value)
			return nil
		},
	}
}

func cmdMastersPushSchema() *cli.Command {
	var common commonConfig

	return &cli.Command{
		Name:  "push-schema",
		Usage: "Publish the active values as remote select options",
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

			if err := uc.PushSchema(ctx); err != nil {
				return err
			}
			color.Green("remote schema updated")
			return nil
		},
	}
}
