package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/plume/internal/api"
	"github.com/spf13/cobra"
)

// readContent takes the poem body from a file, or prompts for it.
func readContent(a *App, path string) (string, error) {
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return GetMultiline(a.reader, "Write your poem", a.out)
}

func poemCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poem",
		Short: "Write, publish and read poems",
	}
	cmd.AddCommand(
		poemDraftCommand(app),
		poemIDCommand(app, "publish", "Publish a draft (requires a totem)", func(a *App, cmd *cobra.Command, id int64) error {
			p, err := a.client.PublishPoem(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Published #%d %q.\n", p.ID, p.Title)
			return nil
		}),
		poemUpdateCommand(app),
		poemIDCommand(app, "delete", "Delete a poem that has no feathers", func(a *App, cmd *cobra.Command, id int64) error {
			if err := a.client.DeletePoem(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted #%d.\n", id)
			return nil
		}),
		&cobra.Command{
			Use:   "get <poem-id>",
			Short: "Read a poem",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a := app()
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				p, err := a.client.GetPoem(cmd.Context(), id)
				if err != nil {
					return err
				}
				printPoem(a.out, p)
				return nil
			},
		},
		poemListCommand(app),
	)
	return cmd
}

// poemIDCommand builds a logged-in command taking a single poem id.
func poemIDCommand(app func() *App, name, short string, run func(a *App, cmd *cobra.Command, id int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <poem-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.requireLogin(); err != nil {
				return err
			}
			return run(a, cmd, id)
		},
	}
}

func poemDraftCommand(app func() *App) *cobra.Command {
	var title, mood, file string
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Save a new draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if err := a.requireLogin(); err != nil {
				return err
			}
			if err := prompt(a, &title, "Enter title"); err != nil {
				return err
			}
			if err := prompt(a, &mood, "Enter mood (see `plume lore mood`)"); err != nil {
				return err
			}
			content, err := readContent(a, file)
			if err != nil {
				return err
			}

			p, err := a.client.CreateDraft(cmd.Context(), title, content, mood)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Draft #%d saved.\n", p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "poem title")
	cmd.Flags().StringVar(&mood, "mood", "", "poem mood")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the poem body from a file")
	return cmd
}

func poemUpdateCommand(app func() *App) *cobra.Command {
	var title, mood, file string
	cmd := &cobra.Command{
		Use:   "update <poem-id>",
		Short: "Change a poem that has no feathers yet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.requireLogin(); err != nil {
				return err
			}

			req := &api.UpdatePoemRequest{PoemID: id}
			f := cmd.Flags()
			if f.Changed("title") {
				req.Title = &title
			}
			if f.Changed("mood") {
				req.Mood = &mood
			}
			if f.Changed("file") {
				content, err := readContent(a, file)
				if err != nil {
					return err
				}
				req.Content = &content
			}
			if req.Title == nil && req.Mood == nil && req.Content == nil {
				return errors.New("nothing to update: pass --title, --mood or --file")
			}

			p, err := a.client.UpdatePoem(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated #%d.\n", p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&mood, "mood", "", "new mood")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the new body from a file")
	return cmd
}

func poemListCommand(app func() *App) *cobra.Command {
	var (
		authorID int64
		mine     bool
		page     api.Page
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List published poems, or one author's poems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if mine {
				if err := a.requireLogin(); err != nil {
					return err
				}
				authorID = a.session.UserID
			}
			poems, err := a.client.ListPoems(cmd.Context(), authorID, page)
			if err != nil {
				return err
			}
			return printPoems(a.out, poems)
		},
	}
	cmd.Flags().Int64Var(&authorID, "author", 0, "only this author's poems")
	cmd.Flags().BoolVar(&mine, "mine", false, "only your poems, drafts included")
	cmd.Flags().IntVar(&page.Limit, "limit", 0, "page size")
	cmd.Flags().IntVar(&page.Offset, "offset", 0, "rows to skip")
	return cmd
}
