// ABOUTME: Create command for the contactctl CLI
// ABOUTME: Creates a contact and optionally uploads a photo in the same run

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/kdichter/contactctl/internal/client"
	"github.com/spf13/cobra"
)

var (
	createName    string
	createEmail   string
	createPhone   string
	createAddress string
	createTitle   string
	createStatus  string
	createPhoto   string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a contact",
	Long:  `Create a contact. When --photo names an image file it is uploaded right after creation.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitIfNonzero(runCreate(ctx, os.Stdout))
	},
}

func init() {
	createCmd.Flags().StringVar(&createName, "name", "", "Contact name (required)")
	createCmd.Flags().StringVar(&createEmail, "email", "", "Email address")
	createCmd.Flags().StringVar(&createPhone, "phone", "", "Phone number")
	createCmd.Flags().StringVar(&createAddress, "address", "", "Postal address")
	createCmd.Flags().StringVar(&createTitle, "title", "", "Job title")
	createCmd.Flags().StringVar(&createStatus, "status", client.StatusInactive, "Account status (ACTIVE or INACTIVE)")
	createCmd.Flags().StringVar(&createPhoto, "photo", "", "Path to a photo to upload after creation")
	createCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(createCmd)
}

func runCreate(ctx context.Context, w io.Writer) int {
	store := newStore()
	if !requireSession(store, w) {
		return 1
	}
	c := newClient(store)

	contact := &client.Contact{
		Name:    createName,
		Email:   createEmail,
		Phone:   createPhone,
		Address: createAddress,
		Title:   createTitle,
		Status:  createStatus,
	}

	created, err := c.CreateContact(ctx, contact)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitCode(err)
	}
	fmt.Fprintf(w, "Created contact %s\n", created.ID)

	if createPhoto != "" {
		f, err := os.Open(createPhoto)
		if err != nil {
			fmt.Fprintf(w, "Error: opening photo: %v\n", err)
			return 1
		}
		defer f.Close()

		url, err := c.UpdatePhoto(ctx, created.ID, filepath.Base(createPhoto), f)
		if err != nil {
			fmt.Fprintf(w, "Error: uploading photo: %v\n", err)
			return exitCode(err)
		}
		fmt.Fprintf(w, "Photo uploaded: %s\n", url)
	}

	return 0
}
