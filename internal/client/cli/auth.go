package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func prompt(a *App, value *string, label string) error {
	if *value != "" {
		return nil
	}
	v, err := GetSimpleText(a.reader, label, a.out)
	if err != nil {
		return err
	}
	*value = v
	return nil
}

func registerCommand(app func() *App) *cobra.Command {
	var email, pseudo string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if err := prompt(a, &email, "Enter email"); err != nil {
				return err
			}
			if err := prompt(a, &pseudo, "Enter pseudonym"); err != nil {
				return err
			}
			password, err := GetPassword(a.out)
			if err != nil {
				return err
			}

			u, err := a.client.Register(cmd.Context(), email, pseudo, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Registered #%d %s. Run `plume login` next.\n", u.ID, u.Pseudo)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&pseudo, "pseudo", "", "public pseudonym")
	return cmd
}

func loginCommand(app func() *App) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if err := prompt(a, &email, "Enter email"); err != nil {
				return err
			}
			password, err := GetPassword(a.out)
			if err != nil {
				return err
			}

			resp, err := a.client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			u := resp.User
			if err := a.saveSession(cmd.Context(), u.ID, u.Pseudo, u.Role, resp.AccessToken); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Welcome, %s.\n", u.Pseudo)
			if u.TotemID == nil {
				fmt.Fprintln(a.out, "You have no totem yet: pick one with `plume totem list` and `plume totem choose <id>`.")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func logoutCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if err := a.clearSession(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out.")
			return nil
		},
	}
}

func whoamiCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if err := a.requireLogin(); err != nil {
				return err
			}
			u, err := a.client.GetUser(cmd.Context(), 0)
			if err != nil {
				return err
			}
			printUser(a.out, u)
			return nil
		},
	}
}

func pingCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the server is serving",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if err := a.client.Ping(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s is serving\n", a.config.ServerEndpointAddr)
			return nil
		},
	}
}
