package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// optionalID parses args[0] when present; zero means the caller.
func optionalID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, nil
	}
	return parseID(args[0])
}

func userCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Inspect and manage accounts",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get [user-id]",
			Short: "Show an account (yours by default)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a := app()
				id, err := optionalID(args)
				if err != nil {
					return err
				}
				if id == 0 {
					if err := a.requireLogin(); err != nil {
						return err
					}
				}
				u, err := a.client.GetUser(cmd.Context(), id)
				if err != nil {
					return err
				}
				printUser(a.out, u)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rewards [user-id]",
			Short: "List unlocked rewards (yours by default)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a := app()
				id, err := optionalID(args)
				if err != nil {
					return err
				}
				if err := a.requireLogin(); err != nil {
					return err
				}
				rewards, err := a.client.ListRewards(cmd.Context(), id)
				if err != nil {
					return err
				}
				return printRewards(a.out, rewards)
			},
		},
		&cobra.Command{
			Use:   "unlock <user-id>",
			Short: "Unlock an account locked by failed logins (admin)",
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
				if err := a.client.UnlockUser(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "User #%d unlocked.\n", id)
				return nil
			},
		},
		userDeleteCommand(app),
	)
	return cmd
}

func userDeleteCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [user-id]",
		Short: "Delete an account without poems or feathers (yours by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			id, err := optionalID(args)
			if err != nil {
				return err
			}
			if err := a.requireLogin(); err != nil {
				return err
			}
			if err := a.client.DeleteUser(cmd.Context(), id); err != nil {
				return err
			}
			if id == 0 || id == a.session.UserID {
				if err := a.clearSession(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Your account was deleted.")
				return nil
			}
			fmt.Fprintf(a.out, "User #%d deleted.\n", id)
			return nil
		},
	}
}
