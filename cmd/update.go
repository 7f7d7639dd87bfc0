// ABOUTME: Update command for the contactctl CLI
// ABOUTME: Fetches a contact, applies changed flags, and sends the full record back

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
	updateName    string
	updateEmail   string
	updatePhone   string
	updateAddress string
	updateTitle   string
	updateStatus  string
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a contact",
	Long: `Update a contact. The current record is fetched first, the given flags are
applied, and the full record is sent back; the backend replaces the whole
contact on update.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitIfNonzero(runUpdate(ctx, os.Stdout, cmd, args[0]))
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateName, "name", "", "Contact name")
	updateCmd.Flags().StringVar(&updateEmail, "email", "", "Email address")
	updateCmd.Flags().StringVar(&updatePhone, "phone", "", "Phone number")
	updateCmd.Flags().StringVar(&updateAddress, "address", "", "Postal address")
	updateCmd.Flags().StringVar(&updateTitle, "title", "", "Job title")
	updateCmd.Flags().StringVar(&updateStatus, "status", "", "Account status (ACTIVE or INACTIVE)")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(ctx context.Context, w io.Writer, cmd *cobra.Command, id string) int {
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

	if cmd.Flags().Changed("name") {
		contact.Name = updateName
	}
	if cmd.Flags().Changed("email") {
		contact.Email = updateEmail
	}
	if cmd.Flags().Changed("phone") {
		contact.Phone = updatePhone
	}
	if cmd.Flags().Changed("address") {
		contact.Address = updateAddress
	}
	if cmd.Flags().Changed("title") {
		contact.Title = updateTitle
	}
	if cmd.Flags().Changed("status") {
		contact.Status = updateStatus
	}

	updated, err := c.UpdateContact(ctx, contact)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitCode(err)
	}

	fmt.Fprintf(w, "Updated contact %s\n", updated.ID)
	return 0
}
