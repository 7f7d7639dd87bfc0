// ABOUTME: Logout command for the contactctl CLI
// ABOUTME: Clears the locally stored session

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out",
	Long:  `Remove the locally stored session. The backend keeps no server-side session state.`,
	Run: func(cmd *cobra.Command, args []string) {
		exitIfNonzero(runLogout(os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(w io.Writer) int {
	store := newStore()

	if !store.IsAuthenticated() {
		fmt.Fprintln(w, "Not logged in.")
		return 0
	}

	if err := store.Clear(); err != nil {
		fmt.Fprintf(w, "Error: clearing session: %v\n", err)
		return 2
	}

	fmt.Fprintln(w, "Logged out.")
	return 0
}
