// ABOUTME: Delete command for the contactctl CLI
// ABOUTME: Removes a contact by id

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

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a contact",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitIfNonzero(runDelete(ctx, os.Stdout, os.Stdin, args[0]))
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(ctx context.Context, w io.Writer, r io.Reader, id string) int {
	store := newStore()
	if !requireSession(store, w) {
		return 1
	}
	c := newClient(store)

	if !deleteForce {
		fmt.Fprintf(w, "Delete contact %s? [y/N]: ", id)
		var answer string
		fmt.Fscanln(r, &answer)
		if answer != "y" && answer != "Y" {
			fmt.Fprintln(w, "Aborted.")
			return 1
		}
	}

	if err := c.DeleteContact(ctx, id); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitCode(err)
	}

	fmt.Fprintf(w, "Deleted contact %s\n", id)
	return 0
}
