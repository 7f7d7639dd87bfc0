// ABOUTME: Register command for the contactctl CLI
// ABOUTME: Creates a backend account and logs in with the returned token

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
	registerFirstname string
	registerLastname  string
	registerEmail     string
	registerPassword  string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Long:  `Register a new account with the backend and store the returned session token.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitIfNonzero(runRegister(ctx, os.Stdout))
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerFirstname, "firstname", "", "First name (required)")
	registerCmd.Flags().StringVar(&registerLastname, "lastname", "", "Last name (required)")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Account email (required)")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Account password (required)")
	registerCmd.MarkFlagRequired("firstname")
	registerCmd.MarkFlagRequired("lastname")
	registerCmd.MarkFlagRequired("email")
	registerCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(registerCmd)
}

// runRegister creates the account and persists the session
func runRegister(ctx context.Context, w io.Writer) int {
	store := newStore()
	c := newClient(store)

	token, err := c.Register(ctx, registerFirstname, registerLastname, registerEmail, registerPassword)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitCode(err)
	}

	if err := store.Set(token, registerEmail); err != nil {
		fmt.Fprintf(w, "Error: saving session: %v\n", err)
		return 2
	}

	fmt.Fprintf(w, "Account created, logged in as %s\n", registerEmail)
	return 0
}
