package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khoahotran/cardify/internal/domain/theme"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List available card themes",
	RunE: func(cmd *cobra.Command, args []string) error {
		current := cli.store.Active().ThemeID
		for _, t := range theme.All() {
			marker := " "
			if t.ID == current {
				marker = "*"
			}
			cli.println(fmt.Sprintf("%s %-10s %s", marker, t.ID, t.Name))
		}
		return nil
	},
}
