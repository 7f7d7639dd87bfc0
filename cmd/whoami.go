// ABOUTME: Whoami command for the contactctl CLI
// ABOUTME: Shows the stored session identity and token expiry

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Long:  `Display the logged-in account and, when the token carries one, its expiry time.`,
	Run: func(cmd *cobra.Command, args []string) {
		exitIfNonzero(runWhoami(os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

type whoamiOutput struct {
	Username string    `json:"username"`
	Expiry   time.Time `json:"expiry,omitzero"`
	Expired  bool      `json:"expired"`
}

func runWhoami(w io.Writer) int {
	store := newStore()

	if !store.IsAuthenticated() {
		fmt.Fprintln(w, "Not logged in.")
		return 1
	}

	out := whoamiOutput{Username: store.Username()}
	if expiry, ok := store.Expiry(); ok {
		out.Expiry = expiry
		out.Expired = time.Now().After(expiry)
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	fmt.Fprintf(w, "Logged in as %s\n", out.Username)
	if !out.Expiry.IsZero() {
		if out.Expired {
			fmt.Fprintf(w, "Token expired %s\n", out.Expiry.Format(time.RFC3339))
		} else {
			fmt.Fprintf(w, "Token valid until %s\n", out.Expiry.Format(time.RFC3339))
		}
	}
	return 0
}
