// ABOUTME: Root command for the contactctl CLI
// ABOUTME: Handles global flags and shared client/session construction

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/kdichter/contactctl/internal/client"
	"github.com/kdichter/contactctl/internal/config"
	"github.com/kdichter/contactctl/internal/session"
	"github.com/spf13/cobra"
)

var (
	apiURL     string
	jsonOutput bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "contactctl",
	Short: "CLI for the contact manager backend",
	Long: `contactctl is a command-line interface for the contact manager backend.

It manages the address book from scripts and the terminal, and ships an
interactive TUI (contactctl ui).

Environment Variables:
  CONTACTCTL_API_URL             Backend API URL (default: http://localhost:8080)
  CONTACTCTL_PAGE_SIZE           Contacts per page in list views (default: 8)
  CONTACTCTL_HTTP_TIMEOUT        API request timeout (default: 30s)
  CONTACTCTL_EXPORT_CONCURRENCY  Concurrent page fetches during export (default: 4)`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides CONTACTCTL_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	return config.Load().APIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// newStore opens the session store in the default config directory
func newStore() *session.Store {
	return session.New(session.DefaultConfigDir())
}

// newClient builds an API client backed by the given session store
func newClient(store *session.Store) *client.Client {
	cfg := config.Load()
	return client.New(GetAPIURL(), store, client.WithTimeout(cfg.HTTPTimeout))
}

// requireSession prints a hint and reports false when no session exists
func requireSession(store *session.Store, w io.Writer) bool {
	if store.IsAuthenticated() {
		return true
	}
	fmt.Fprintln(w, "Not logged in. Run 'contactctl login' first.")
	return false
}

// exitCode maps an API error to a process exit code: validation and
// auth problems exit 1, transport and server failures exit 2
func exitCode(err error) int {
	if client.IsUnauthorized(err) || client.IsValidation(err) || client.IsNotFound(err) {
		return 1
	}
	return 2
}

func exitIfNonzero(code int) {
	if code != 0 {
		os.Exit(code)
	}
}
