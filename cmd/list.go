// ABOUTME: List command for the contactctl CLI
// ABOUTME: Prints one page of contacts from the backend

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/kdichter/contactctl/internal/client"
	"github.com/kdichter/contactctl/internal/config"
	"github.com/spf13/cobra"
)

var (
	listPage   int
	listSize   int
	listSearch string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts",
	Long:  `List one page of contacts. Pages are zero-indexed, matching the backend.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitIfNonzero(runList(ctx, os.Stdout))
	},
}

func init() {
	listCmd.Flags().IntVar(&listPage, "page", 0, "Page number (zero-indexed)")
	listCmd.Flags().IntVar(&listSize, "size", 0, "Page size (default from CONTACTCTL_PAGE_SIZE)")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Filter the fetched page by name or email substring")
	rootCmd.AddCommand(listCmd)
}

func runList(ctx context.Context, w io.Writer) int {
	store := newStore()
	if !requireSession(store, w) {
		return 1
	}
	c := newClient(store)

	size := listSize
	if size <= 0 {
		size = config.Load().PageSize
	}

	page, err := c.ListContacts(ctx, listPage, size)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitCode(err)
	}

	// The backend has no search endpoint; like the UI, the filter only
	// narrows the fetched page
	if listSearch != "" {
		page.Content = filterContacts(page.Content, listSearch)
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(page, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	printContactTable(w, page.Content)
	fmt.Fprintf(w, "\nPage %d of %d (%d contacts total)\n",
		page.Number+1, max(page.TotalPages, 1), page.TotalElements)
	return 0
}

func filterContacts(contacts []client.Contact, query string) []client.Contact {
	needle := strings.ToLower(query)
	var matched []client.Contact
	for _, c := range contacts {
		if strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Email), needle) {
			matched = append(matched, c)
		}
	}
	return matched
}

func printContactTable(w io.Writer, contacts []client.Contact) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tSTATUS")
	for _, c := range contacts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Phone, c.Status)
	}
	tw.Flush()
}
