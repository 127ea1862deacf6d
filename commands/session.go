package commands

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"rental-market/models"
)

func SessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Create, show or delete sessions stored in Redis",
	}
	cmd.AddCommand(sessionCreateCmd(), sessionShowCmd(), sessionDeleteCmd())
	return cmd
}

func sessionCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Start a session and print its token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			sess, err := sessionFromFlags(cmd)
			if err != nil {
				return err
			}

			store, err := a.sessionStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			saved, err := store.Save(cmd.Context(), sess)
			if err != nil {
				return err
			}
			a.logger.Info("Session for %s (%s) valid until %s", saved.Email, saved.Role, saved.ExpiresAt.Format("2006-01-02 15:04"))
			fmt.Fprintln(cmd.OutOrStdout(), saved.Token)
			return nil
		},
	}

	cmd.Flags().String("user-id", "", "Profile ID (required)")
	cmd.Flags().String("name", "", "Display name")
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("role", string(models.RoleGuest), "Role: guest, owner or admin")
	cmd.Flags().Bool("subscribed", false, "Whether the user has an active subscription")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

func sessionFromFlags(cmd *cobra.Command) (*models.Session, error) {
	flags := cmd.Flags()
	rawID, _ := flags.GetString("user-id")
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid --user-id: %w", err)
	}
	roleName, _ := flags.GetString("role")
	role := models.Role(strings.ToLower(roleName))
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", roleName)
	}

	sess := &models.Session{UserID: id, Role: role}
	sess.Name, _ = flags.GetString("name")
	sess.Email, _ = flags.GetString("email")
	sess.IsSubscribed, _ = flags.GetBool("subscribed")
	return sess, nil
}

func sessionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the session given by --token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			sess, err := a.session(cmd)
			if err != nil {
				return err
			}
			if sess == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in (guest).")
				return nil
			}
			return printJSON(cmd.OutOrStdout(), sess)
		},
	}
}

func sessionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Sign out: delete the session given by --token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			token, _ := cmd.Flags().GetString("token")
			if token == "" {
				return fmt.Errorf("--token is required")
			}

			store, err := a.sessionStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), token); err != nil {
				return err
			}
			a.logger.Info("Signed out")
			return nil
		},
	}
}
