package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"rental-market/models"
	"rental-market/services"
)

func AdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin panel: users, properties, subscriptions and moderation",
	}
	cmd.AddCommand(
		adminUsersCmd(),
		adminPropertiesCmd(),
		adminSubscriptionsCmd(),
		adminStatsCmd(),
		adminSetRoleCmd(),
		adminToggleCmd(),
		adminDeleteCmd(),
		adminEventsCmd(),
	)
	return cmd
}

// withModeration resolves the session and opens the moderation service for fn.
func withModeration(cmd *cobra.Command, fn func(*services.ModerationService, *models.Session) error) error {
	a := newApp()
	sess, err := a.session(cmd)
	if err != nil {
		return err
	}
	svc, release, err := a.moderation()
	if err != nil {
		return err
	}
	defer release()
	return fn(svc, sess)
}

func adminUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withModeration(cmd, func(svc *services.ModerationService, sess *models.Session) error {
				users, err := svc.ListUsers(cmd.Context(), sess)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tSUBSCRIBED\tVERSION")
				for _, u := range users {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%d\n", u.ID, u.Name, u.Email, u.Role, u.ActiveSubscription(), u.Version)
				}
				return tw.Flush()
			})
		},
	}
}

func adminPropertiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "properties",
		Short: "List all properties, hidden ones included",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withModeration(cmd, func(svc *services.ModerationService, sess *models.Session) error {
				props, err := svc.ListProperties(cmd.Context(), sess)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTITLE\tOWNER\tCITY\tPRICE\tSTATUS\tVERSION")
				for _, p := range props {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t$%.0f\t%s\t%d\n",
						p.ID, p.Title, p.Owner.Name, p.City, p.PricePerNight, availabilityLabel(p.IsAvailable), p.Version)
				}
				return tw.Flush()
			})
		},
	}
}

func adminSubscriptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subscriptions",
		Short: "List all subscriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withModeration(cmd, func(svc *services.ModerationService, sess *models.Session) error {
				subs, err := svc.ListSubscriptions(cmd.Context(), sess)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tUSER\tSTATUS\tPERIOD END\tCREATED")
				for _, s := range subs {
					user := "-"
					if s.User != nil {
						user = s.User.Email
					}
					end := "-"
					if s.CurrentPeriodEnd != nil {
						end = s.CurrentPeriodEnd.Format("2006-01-02")
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.ID, user, s.Status, end, s.CreatedAt.Format("2006-01-02"))
				}
				return tw.Flush()
			})
		},
	}
}

func adminStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Headline counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withModeration(cmd, func(svc *services.ModerationService, sess *models.Session) error {
				st, err := svc.Stats(cmd.Context(), sess)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Users                : %d\n", st.Users)
				fmt.Fprintf(out, "Owners               : %d\n", st.Owners)
				fmt.Fprintf(out, "Properties           : %d\n", st.Properties)
				fmt.Fprintf(out, "Available properties : %d\n", st.AvailableProperties)
				fmt.Fprintf(out, "Active subscriptions : %d\n", st.ActiveSubscriptions)
				return nil
			})
		},
	}
}

func adminSetRoleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-role <user-id> <guest|owner|admin>",
		Short: "Change a user's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id: %w", err)
			}
			version, _ := cmd.Flags().GetInt("version")
			return withModeration(cmd, func(svc *services.ModerationService, sess *models.Session) error {
				p, err := svc.SetRole(cmd.Context(), sess, id, models.Role(args[1]), version)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s (version %d)\n", p.Email, p.Role, p.Version)
				return nil
			})
		},
	}
	addVersionFlag(cmd)
	return cmd
}

func adminToggleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle <property-id>",
		Short: "Show or hide any property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setAvailability(cmd, args[0])
		},
	}
	addAvailabilityFlags(cmd)
	return cmd
}

func adminDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <property-id>",
		Short: "Delete any property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deleteProperty(cmd, args[0])
		},
	}
	addVersionFlag(cmd)
	return cmd
}

func adminEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events <target-id>",
		Short: "Show the moderation audit trail of a property or user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid target id: %w", err)
			}
			return withModeration(cmd, func(svc *services.ModerationService, sess *models.Session) error {
				events, err := svc.Events(cmd.Context(), sess, id)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "WHEN\tACTOR\tACTION\tDETAIL")
				for _, e := range events {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.CreatedAt.Format("2006-01-02 15:04:05"), e.ActorID, e.Action, e.Detail)
				}
				return tw.Flush()
			})
		},
	}
}
