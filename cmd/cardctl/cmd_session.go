package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login [userId]",
	Short: "Sign in by user id",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := ""
		if len(args) == 1 {
			userID = args[0]
		} else {
			var err error
			if userID, err = promptUserID(); err != nil {
				return err
			}
		}
		return login(userID)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cli.store.Logout()
		cli.println("Logged out.")
		return nil
	},
}

func promptUserID() (string, error) {
	var userID string
	input := huh.NewInput().
		Title("User ID").
		Placeholder("12345").
		Value(&userID).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("user id is required")
			}
			return nil
		})
	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(userID), nil
}

func login(userID string) error {
	if !cli.store.Login(cli.ctx, userID) {
		cli.println(cli.renderer.Message("Login Failed", fmt.Sprintf("No profile found for user id '%s'.", userID)))
		return fmt.Errorf("login failed for %q", userID)
	}
	cli.println(cli.renderer.Card(cli.store.Active(), false))
	return nil
}
