// ABOUTME: Get command for the contactctl CLI
// ABOUTME: Prints a single contact by id

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/kdichter/contactctl/internal/client"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a contact",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitIfNonzero(runGet(ctx, os.Stdout, args[0]))
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(ctx context.Context, w io.Writer, id string) int {
	store := newStore()
	if !requireSession(store, w) {
		return 1
	}
	c := newClient(store)

	contact, err := c.GetContact(ctx, id)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitCode(err)
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(contact, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	printContact(w, contact)
	return 0
}

func printContact(w io.Writer, c *client.Contact) {
	fmt.Fprintf(w, `ID:      %s
Name:    %s
Email:   %s
Phone:   %s
Address: %s
Title:   %s
Status:  %s
`, c.ID, c.Name, c.Email, c.Phone, c.Address, c.Title, c.Status)
	if c.PhotoURL != "" {
		fmt.Fprintf(w, "Photo:   %s\n", c.PhotoURL)
	}
}
