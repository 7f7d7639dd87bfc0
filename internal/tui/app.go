// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Resolves routes through the guard and dispatches to screen models

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kdichter/contactctl/internal/client"
	"github.com/kdichter/contactctl/internal/session"
	"github.com/kdichter/contactctl/internal/tui/contacts"
	"github.com/kdichter/contactctl/internal/tui/debuglog"
	"github.com/kdichter/contactctl/internal/tui/detail"
	"github.com/kdichter/contactctl/internal/tui/guard"
	"github.com/kdichter/contactctl/internal/tui/icons"
	"github.com/kdichter/contactctl/internal/tui/login"
	"github.com/kdichter/contactctl/internal/tui/recentfiles"
	"github.com/kdichter/contactctl/internal/tui/styles"
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum width before clamping the frame
)

// authResultMsg is sent when an authenticate or register call completes
type authResultMsg struct {
	token string
	email string
	err   error
}

// App is the root model for the TUI
type App struct {
	client   *client.Client
	store    *session.Store
	guard    *guard.Guard
	pageSize int

	route      guard.Route
	width      int
	height     int
	lastUpdate time.Time

	// Screen models; only the one matching route is active
	login    *login.Model
	contacts *contacts.Model
	detail   *detail.Model

	recents *recentfiles.RecentFiles
}

// New creates the TUI application rooted at the guard's home route
func New(apiClient *client.Client, store *session.Store, pageSize int) *App {
	a := &App{
		client:   apiClient,
		store:    store,
		guard:    guard.New(store),
		pageSize: pageSize,
		recents:  recentfiles.New(session.DefaultConfigDir()),
	}
	a.route = a.guard.Home()
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.enterRoute(a.route)
}

// navigate resolves the requested route through the guard and activates
// the resulting screen. The guard re-checks the session on every call.
func (a *App) navigate(requested guard.Route) tea.Cmd {
	resolved := a.guard.Resolve(requested)
	if resolved != requested {
		debuglog.Log("route redirected", "requested", requested.String(), "resolved", resolved.String())
	}
	return a.enterRoute(resolved)
}

func (a *App) enterRoute(route guard.Route) tea.Cmd {
	a.route = route
	switch route {
	case guard.RouteLogin:
		a.contacts = nil
		a.detail = nil
		a.login = login.New(login.ModeLogin)
		return a.login.Init()
	case guard.RouteRegister:
		a.contacts = nil
		a.detail = nil
		a.login = login.New(login.ModeRegister)
		return a.login.Init()
	case guard.RouteContacts:
		a.login = nil
		a.detail = nil
		a.contacts = contacts.New(a.client, a.pageSize)
		return a.contacts.Init()
	default:
		return nil
	}
}

// openContact activates the detail screen for a contact. The list model
// is kept so backing out returns to the same page.
func (a *App) openContact(id string) tea.Cmd {
	resolved := a.guard.Resolve(guard.RouteDetail)
	if resolved != guard.RouteDetail {
		return a.enterRoute(resolved)
	}
	a.route = guard.RouteDetail
	a.detail = detail.New(a.client, a.recents, id)
	return a.detail.Init()
}

// expireSession clears the stored credentials and drops to the login
// screen with an explanation
func (a *App) expireSession() tea.Cmd {
	if err := a.store.Clear(); err != nil {
		debuglog.Error("clearing session", err)
	}
	cmd := a.enterRoute(guard.RouteLogin)
	errCmd := a.login.SetError("Session expired, please log in again")
	return tea.Batch(cmd, errCmd)
}

func (a *App) authenticate(email, password string) tea.Cmd {
	c := a.client
	return func() tea.Msg {
		token, err := c.Authenticate(context.Background(), email, password)
		return authResultMsg{token: token, email: email, err: err}
	}
}

func (a *App) register(msg login.RegisterSubmittedMsg) tea.Cmd {
	c := a.client
	return func() tea.Msg {
		token, err := c.Register(context.Background(), msg.Firstname, msg.Lastname, msg.Email, msg.Password)
		return authResultMsg{token: token, email: msg.Email, err: err}
	}
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a.forward(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		// Toggle between login and registration
		if msg.String() == "ctrl+r" && a.login != nil && !a.login.Busy() {
			if a.login.Mode() == login.ModeLogin {
				return a, a.enterRoute(guard.RouteRegister)
			}
			return a, a.enterRoute(guard.RouteLogin)
		}
		return a.forward(msg)

	case login.SubmittedMsg:
		return a, a.authenticate(msg.Email, msg.Password)

	case login.RegisterSubmittedMsg:
		return a, a.register(msg)

	case login.CancelledMsg:
		return a, tea.Quit

	case authResultMsg:
		if msg.err != nil {
			if a.login == nil {
				return a, nil
			}
			if client.IsUnauthorized(msg.err) {
				return a, a.login.SetError("Invalid email or password")
			}
			return a, a.login.SetError(msg.err.Error())
		}
		if err := a.store.Set(msg.token, msg.email); err != nil {
			debuglog.Error("persisting session", err)
		}
		a.lastUpdate = time.Now()
		return a, a.navigate(guard.RouteContacts)

	case contacts.OpenContactMsg:
		return a, a.openContact(msg.ID)

	case contacts.SignOutMsg:
		if err := a.store.Clear(); err != nil {
			debuglog.Error("clearing session", err)
		}
		return a, a.enterRoute(guard.RouteLogin)

	case contacts.SessionExpiredMsg:
		return a, a.expireSession()

	case detail.SessionExpiredMsg:
		return a, a.expireSession()

	case detail.BackMsg:
		a.detail = nil
		a.route = a.guard.Resolve(guard.RouteContacts)
		if a.route == guard.RouteContacts && a.contacts != nil {
			a.lastUpdate = time.Now()
			return a, a.contacts.Reload()
		}
		return a, a.enterRoute(a.route)
	}

	return a.forward(msg)
}

// forward delivers a message to the model for the active route
func (a *App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch a.route {
	case guard.RouteLogin, guard.RouteRegister:
		if a.login != nil {
			_, cmd := a.login.Update(msg)
			return a, cmd
		}
	case guard.RouteContacts:
		if a.contacts != nil {
			_, cmd := a.contacts.Update(msg)
			return a, cmd
		}
	case guard.RouteDetail:
		if a.detail != nil {
			_, cmd := a.detail.Update(msg)
			return a, cmd
		}
	}
	return a, nil
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.route {
	case guard.RouteLogin, guard.RouteRegister:
		if a.login != nil {
			content = a.login.View()
		}
	case guard.RouteContacts:
		if a.contacts != nil {
			content = a.contacts.View()
		}
	case guard.RouteDetail:
		if a.detail != nil {
			content = a.detail.View()
		}
	}

	return a.wrapWithFrame(content)
}

// renderHeader creates the header bar with app branding and session context
func (a *App) renderHeader() string {
	// Guard against zero/small width before WindowSizeMsg is received
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s", icons.App.String(), titleStyle.Render("contactctl"))

	rightText := ""
	if a.store.IsAuthenticated() {
		rightText = contextStyle.Render(icons.Unlock.String()+" "+a.store.Username()) + " "
	}

	leftRendered := lipgloss.NewStyle().Render(leftText)
	rightRendered := lipgloss.NewStyle().Align(lipgloss.Right).Render(rightText)

	leftWidth := lipgloss.Width(leftRendered)
	rightWidth := lipgloss.Width(rightRendered)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}

	fill := strings.Repeat("─", fillWidth)

	return borderStyle.Render("╭─" + leftRendered + fill + rightRendered + "─╮")
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	// Guard against zero/small width before WindowSizeMsg is received
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var shortcuts []string
	switch a.route {
	case guard.RouteLogin:
		shortcuts = []string{"Enter Submit", "ctrl+r Register", "Esc Quit"}
	case guard.RouteRegister:
		shortcuts = []string{"Enter Submit", "ctrl+r Login", "Esc Quit"}
	case guard.RouteContacts:
		shortcuts = []string{"↑↓ Navigate", "←→ Page", "/ Search", "n New", "d Delete", "s Sign out", "q Quit"}
	case guard.RouteDetail:
		shortcuts = []string{"e Edit", "p Photo", "d Delete", "r Refresh", "Esc Back"}
	}

	var styledShortcuts []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styledShortcuts = append(styledShortcuts, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styledShortcuts = append(styledShortcuts, s)
		}
	}

	leftText := " " + strings.Join(styledShortcuts, "  ")
	leftPlainText := " " + strings.Join(shortcuts, "  ")

	rightText := ""
	rightPlainText := ""
	if !a.lastUpdate.IsZero() && a.route.Protected() {
		elapsed := a.formatTimeSince(a.lastUpdate)
		rightText = statusStyle.Render("Updated "+elapsed) + " "
		rightPlainText = "Updated " + elapsed + " "
	}

	leftWidth := lipgloss.Width(leftPlainText)
	rightWidth := lipgloss.Width(rightPlainText)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		fillWidth = 0
	}

	fill := strings.Repeat("─", fillWidth)

	return borderStyle.Render("╰─" + leftText + fill + rightText + "─╯")
}

// formatTimeSince formats a duration since the given time in human-readable form
func (a *App) formatTimeSince(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}

	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	}

	hours := int(d.Hours())
	if hours == 1 {
		return "1h ago"
	}
	return fmt.Sprintf("%dh ago", hours)
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI
func Run(apiClient *client.Client, store *session.Store, pageSize int) error {
	app := New(apiClient, store, pageSize)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
