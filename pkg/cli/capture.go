package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/notedrop/notedrop/pkg/domain/model"
	"github.com/notedrop/notedrop/pkg/domain/types"
	"github.com/notedrop/notedrop/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdCapture() *cli.Command {
	var text string
	var file string
	var source string
	var title string
	var area string
	var noteType string
	var priority string
	var dueDate string
	var common commonConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "text",
			Aliases:     []string{"t"},
			Usage:       "Note text to capture",
			Destination: &text,
		},
		&cli.StringFlag{
			Name:        "file",
			Aliases:     []string{"f"},
			Usage:       "Read the note text from a file ('-' for stdin)",
			Destination: &file,
		},
		&cli.StringFlag{
			Name:        "source",
			Usage:       "Capture source (manual, pasted_email or system)",
			Value:       "manual",
			Destination: &source,
		},
		&cli.StringFlag{
			Name:        "title",
			Usage:       "Note title (derived from the first line when empty)",
			Destination: &title,
		},
		&cli.StringFlag{
			Name:        "area",
			Usage:       "Area classification",
			Destination: &area,
		},
		&cli.StringFlag{
			Name:        "type",
			Usage:       "Type classification",
			Destination: &noteType,
		},
		&cli.StringFlag{
			Name:        "priority",
			Usage:       "Priority classification",
			Destination: &priority,
		},
		&cli.StringFlag{
			Name:        "due",
			Usage:       "Due date (YYYY-MM-DD)",
			Destination: &dueDate,
		},
	}
	flags = append(flags, common.Flags()...)

	return &cli.Command{
		Name:    "capture",
		Aliases: []string{"c"},
		Usage:   "Capture a note into the local outbox",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if file != "" {
				data, err := readInput(file)
				if err != nil {
					return err
				}
				text = data
			}
			if text == "" {
				return goerr.New("either --text or --file is required")
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

			note, err := uc.CreateNote(ctx, &model.CreateNoteRequest{
				RawText:  text,
				Source:   types.Source(source),
				Title:    title,
				Area:     area,
				Type:     noteType,
				Priority: priority,
				DueDate:  dueDate,
			})
			if err != nil {
				if errors.Is(err, types.ErrDuplicateNote) {
					color.Yellow("duplicate: this note was already captured")
					return nil
				}
				return err
			}

			color.Green("captured note %d: %s", note.ID, note.Title)
			for _, action := range note.ActionLines() {
				color.Cyan("  action: %s", action)
			}
			return nil
		},
	}
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", goerr.Wrap(err, "failed to read stdin")
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read input file", goerr.V("path", path))
	}
	return string(data), nil
}
