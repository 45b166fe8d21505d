package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/plume/internal/filex"
	"github.com/dmitrijs2005/plume/internal/netx"
	"github.com/spf13/cobra"
)

// uploadPicture is a test seam for netx.UploadToPresignedURL.
var uploadPicture = netx.UploadToPresignedURL

func totemCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "totem",
		Short: "Browse, choose and create totems",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List every totem",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a := app()
				totems, err := a.client.ListTotems(cmd.Context())
				if err != nil {
					return err
				}
				if len(totems) == 0 {
					fmt.Fprintln(a.out, "No totems.")
					return nil
				}
				return table(a.out, "ID\tNAME\tDESCRIPTION", func(tw *tabwriter.Writer) {
					for _, t := range totems {
						fmt.Fprintf(tw, "%d\t%s\t%s\n", t.ID, t.Name, t.Description)
					}
				})
			},
		},
		&cobra.Command{
			Use:   "get <totem-id>",
			Short: "Show a totem and a link to its picture",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a := app()
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				t, err := a.client.GetTotem(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "#%d %s\n", t.ID, t.Name)
				if t.Description != "" {
					fmt.Fprintf(a.out, "  %s\n", t.Description)
				}
				if t.PictureURL != "" {
					fmt.Fprintf(a.out, "  picture: %s\n", t.PictureURL)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "choose <totem-id>",
			Short: "Adopt a totem (once per account)",
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
				if _, err := a.client.ChooseTotem(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Totem #%d is yours. You can now publish.\n", id)
				return nil
			},
		},
		totemCreateCommand(app),
	)
	return cmd
}

func totemCreateCommand(app func() *App) *cobra.Command {
	var name, description, picture string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a totem and upload its picture (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if err := a.requireLogin(); err != nil {
				return err
			}

			var pic *filex.Picture
			if picture != "" {
				p, err := filex.OpenPicture(picture)
				if err != nil {
					return err
				}
				defer p.Close()
				pic = p
			}

			t, uploadURL, err := a.client.CreateTotem(cmd.Context(), name, description)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created totem #%d %s.\n", t.ID, t.Name)

			if pic == nil {
				return nil
			}
			if err := uploadPicture(cmd.Context(), uploadURL, pic, pic.Size, pic.ContentType); err != nil {
				return fmt.Errorf("totem created but picture upload failed: %w", err)
			}
			fmt.Fprintln(a.out, "Picture uploaded.")
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "totem name")
	cmd.Flags().StringVar(&description, "description", "", "short description")
	cmd.Flags().StringVar(&picture, "picture", "", "path to an image file")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
