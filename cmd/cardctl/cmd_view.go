package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khoahotran/cardify/internal/application/cardview"
	"github.com/khoahotran/cardify/internal/domain/profile"
)

var viewCmd = &cobra.Command{
	Use:   "view [userId|shortToken]",
	Short: "Show a card",
	Long:  "Show a card by user id or 8-character short token. Your own card is shown live without a fetch; any other card is fetched.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := ""
		if len(args) == 1 {
			id = args[0]
		}
		shell := cli.shell()
		defer shell.Close()

		if _, err := shell.Open(cardview.CardPath(id)); err != nil {
			return err
		}
		page := shell.Page()
		page.Wait()
		cli.println(cli.present(page.View()))
		return nil
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show your card with its share link",
	RunE: func(cmd *cobra.Command, args []string) error {
		shell := cli.shell()
		defer shell.Close()

		loc, err := shell.Open(cardview.PathDashboard)
		if err != nil {
			return err
		}
		if loc.Redirected {
			cli.println(cli.renderer.Message("Login Required", "Please log in to open your dashboard."))
			return fmt.Errorf("redirected to %s", loc.Path)
		}
		showDashboard()
		return nil
	},
}

func showDashboard() {
	active := cli.store.Active()
	cli.println(cli.renderer.Card(active, false))
	token := profile.ShortID(active.UserID())
	cli.println(fmt.Sprintf("Share: cardctl view %s", token))
	if link, err := cli.client.ShareURL(token); err == nil {
		cli.println("Public API: " + link)
	}
	cli.println("Edit with 'cardctl edit', 'cardctl skill', 'cardctl link' or 'cardctl upload'.")
}
