package main

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khoahotran/cardify/internal/application/cardview"
	"github.com/khoahotran/cardify/internal/domain/profile"
	"github.com/khoahotran/cardify/pkg/apperror"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Navigate between routes interactively",
	Long:  "Enter paths such as /card/12345, /card/<token>, /dashboard, /login or /. A bare id is treated as /card/<id>. Leave empty to quit.",
	RunE: func(cmd *cobra.Command, args []string) error {
		shell := cli.shell()
		defer shell.Close()

		for {
			path, err := promptPath(shell.Location())
			if err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					return nil
				}
				return err
			}
			if path == "" || path == "q" || path == "quit" {
				return nil
			}
			if !strings.HasPrefix(path, "/") {
				path = cardview.CardPath(path)
			}

			loc, err := shell.Open(path)
			if err != nil {
				if errors.Is(err, apperror.ErrNotFound) {
					cli.println(cli.renderer.Message("Unknown Route", path))
					continue
				}
				return err
			}
			cli.log.Debug("Navigated", zap.String("path", loc.Path))
			showLocation(shell, loc)
		}
	},
}

func promptPath(current cardview.Location) (string, error) {
	var path string
	input := huh.NewInput().
		Title("Go to").
		Description("current: " + current.Path).
		Placeholder(cardview.CardPath(profile.DemoUserID)).
		Value(&path)
	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(path), nil
}

func showLocation(shell *cardview.Shell, loc cardview.Location) {
	switch loc.Route {
	case cardview.RouteCard:
		page := shell.Page()
		page.Wait()
		cli.println(cli.present(page.View()))
	case cardview.RouteDashboard:
		showDashboard()
	case cardview.RouteLogin:
		if loc.Redirected {
			cli.println(cli.renderer.Message("Login Required", "Please log in to open your dashboard."))
		}
		userID, err := promptUserID()
		if err != nil {
			return
		}
		_ = login(userID)
	default:
		cli.println(cli.renderer.Message("Digital Business Cards", "Try /card/"+profile.DemoUserID+" for the demo card, or /login to sign in."))
	}
}
