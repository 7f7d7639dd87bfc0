// ABOUTME: Export command for the contactctl CLI
// ABOUTME: Fetches every contact page concurrently and writes one JSON array

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
	"github.com/kdichter/contactctl/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all contacts as JSON",
	Long: `Fetch every page of contacts and write them as a single JSON array.
Pages are fetched concurrently but the output preserves backend order.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitIfNonzero(runExport(ctx, os.Stdout))
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(ctx context.Context, w io.Writer) int {
	store := newStore()
	if !requireSession(store, w) {
		return 1
	}
	c := newClient(store)
	cfg := config.Load()

	contacts, err := fetchAllContacts(ctx, c, cfg.PageSize, cfg.ExportConcurrency)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitCode(err)
	}

	out := w
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			fmt.Fprintf(w, "Error: creating output file: %v\n", err)
			return 2
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(contacts); err != nil {
		fmt.Fprintf(w, "Error: writing output: %v\n", err)
		return 2
	}

	if exportOut != "" {
		fmt.Fprintf(w, "Exported %d contacts to %s\n", len(contacts), exportOut)
	}
	return 0
}

// fetchAllContacts pulls every page with bounded concurrency. The first
// page establishes the page count; the rest are fetched in parallel and
// reassembled in page order.
func fetchAllContacts(ctx context.Context, c *client.Client, pageSize, concurrency int) ([]client.Contact, error) {
	first, err := c.ListContacts(ctx, 0, pageSize)
	if err != nil {
		return nil, err
	}
	if first.TotalPages <= 1 {
		return first.Content, nil
	}

	pages := make([][]client.Contact, first.TotalPages)
	pages[0] = first.Content

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for n := 1; n < first.TotalPages; n++ {
		g.Go(func() error {
			p, err := c.ListContacts(ctx, n, pageSize)
			if err != nil {
				return err
			}
			pages[n] = p.Content
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []client.Contact
	for _, page := range pages {
		all = append(all, page...)
	}
	return all, nil
}
