package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagAPI      string
	flagStateDir string
	flagConfig   string

	cli *app
)

var rootCmd = &cobra.Command{
	Use:           "cardctl",
	Short:         "View and edit digital business cards",
	Long:          "cardctl signs in to a card server, shows your own card or anyone else's by user id or short token, and edits your card.",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), appOptions{
			configPath: flagConfig,
			apiURL:     flagAPI,
			stateDir:   flagStateDir,
			out:        cmd.OutOrStdout(),
		})
		if err != nil {
			return err
		}
		cli = a
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cli != nil {
			cli.close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return browseCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPI, "api", "", "card server base URL (overrides viewer.api_url)")
	rootCmd.PersistentFlags().StringVar(&flagStateDir, "state-dir", "", "directory holding session.yaml (overrides viewer.state_dir)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", ".", "directory containing config.yaml and .env")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(themesCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
