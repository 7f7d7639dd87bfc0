// ABOUTME: Photo command for the contactctl CLI
// ABOUTME: Uploads a new photo for an existing contact

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
)

var photoCmd = &cobra.Command{
	Use:   "photo <id> <file>",
	Short: "Upload a contact photo",
	Long:  `Upload an image file as the contact's photo, replacing any existing one.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitIfNonzero(runPhoto(ctx, os.Stdout, args[0], args[1]))
	},
}

func init() {
	rootCmd.AddCommand(photoCmd)
}

func runPhoto(ctx context.Context, w io.Writer, id, path string) int {
	store := newStore()
	if !requireSession(store, w) {
		return 1
	}
	c := newClient(store)

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(w, "Error: opening photo: %v\n", err)
		return 1
	}
	defer f.Close()

	url, err := c.UpdatePhoto(ctx, id, filepath.Base(path), f)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitCode(err)
	}

	fmt.Fprintf(w, "Photo uploaded: %s\n", url)
	return 0
}
