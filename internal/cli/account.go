package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAccountCmds() []*cobra.Command {
	return []*cobra.Command{
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newSendCodeCmd(),
	}
}

func newLoginCmd() *cobra.Command {
	var identity, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"identity": identity, "password": password}
			var result AuthResult

			if err := client.Post("/api/login", req, &result); err != nil {
				return err
			}

			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "", "Username or phone number (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (required)")
	_ = cmd.MarkFlagRequired("identity")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the saved session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ClearToken(); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result User

			if err := client.Get("/api/me", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newSendCodeCmd() *cobra.Command {
	var phone string

	cmd := &cobra.Command{
		Use:   "send-code",
		Short: "Request a registration verification code",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"phone": phone}
			var result SendCodeResult

			if err := client.Post("/api/register/send_code", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "Phone number (required)")
	_ = cmd.MarkFlagRequired("phone")

	return cmd
}
