package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"rental-market/pages"
)

func PageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "page [home|dashboard|admin]",
		Short: "Show which page the current session would land on",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			sess, err := a.session(cmd)
			if err != nil {
				return err
			}

			route := pages.RouteHome
			if len(args) > 0 {
				route = pages.Route(args[0])
			}
			describePage(cmd.OutOrStdout(), pages.Resolve(sess, route))
			return nil
		},
	}
}

func describePage(w io.Writer, p pages.Page) {
	switch p := p.(type) {
	case pages.Home:
		fmt.Fprintln(w, "home: property search")
	case pages.OwnerDashboard:
		fmt.Fprintf(w, "owner-dashboard: listings of owner %s\n", p.OwnerID)
	case pages.AdminPanel:
		fmt.Fprintf(w, "admin-panel: signed in as admin %s\n", p.AdminID)
	case pages.AccessDenied:
		fmt.Fprintf(w, "access-denied: %s cannot open %q\n", p.Role, p.Route)
	}
}
