// ABOUTME: Login command for the contactctl CLI
// ABOUTME: Authenticates against the backend and persists the session

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the backend",
	Long:  `Authenticate with the backend and store the session token for later commands.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitIfNonzero(runLogin(ctx, os.Stdout))
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email (required)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (required)")
	loginCmd.MarkFlagRequired("email")
	loginCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(loginCmd)
}

// runLogin authenticates and persists the session, returning an exit code
func runLogin(ctx context.Context, w io.Writer) int {
	store := newStore()
	c := newClient(store)

	token, err := c.Authenticate(ctx, loginEmail, loginPassword)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitCode(err)
	}

	if err := store.Set(token, loginEmail); err != nil {
		fmt.Fprintf(w, "Error: saving session: %v\n", err)
		return 2
	}

	fmt.Fprintf(w, "Logged in as %s\n", loginEmail)
	return 0
}
