// ABOUTME: UI command for the contactctl CLI
// ABOUTME: Launches the interactive terminal interface

package cmd

import (
	"fmt"
	"os"

	"github.com/kdichter/contactctl/internal/config"
	"github.com/kdichter/contactctl/internal/session"
	"github.com/kdichter/contactctl/internal/tui"
	"github.com/kdichter/contactctl/internal/tui/debuglog"
	"github.com/spf13/cobra"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the interactive TUI",
	Long:  `Start the full-screen terminal interface for browsing and editing contacts.`,
	Run: func(cmd *cobra.Command, args []string) {
		store := newStore()
		c := newClient(store)

		if err := debuglog.Init(session.DefaultConfigDir()); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: debug log unavailable: %v\n", err)
		}
		defer debuglog.Close()

		if err := tui.Run(c, store, config.Load().PageSize); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
