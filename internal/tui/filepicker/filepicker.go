// ABOUTME: Photo picker TUI component for selecting contact photos
// ABOUTME: Shows recent photos and a path input, validating image extensions

package filepicker

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kdichter/contactctl/internal/tui/recentfiles"
)

// state represents the current UI state
type state int

const (
	stateList state = iota
	stateInput
)

// PhotoSelectedMsg is sent when a photo file is chosen
type PhotoSelectedMsg struct {
	Path string
}

// CancelledMsg is sent when the user cancels
type CancelledMsg struct{}

// FilePicker is the photo selection component
type FilePicker struct {
	recentFiles []string
	cursor      int
	state       state
	textInput   textinput.Model
	err         string
	width       int
	height      int
}

// Styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// New creates a FilePicker seeded with recent photo paths
func New(recentFiles []string) *FilePicker {
	ti := textinput.New()
	ti.Placeholder = "/path/to/photo.jpg"
	ti.CharLimit = 256
	ti.Width = 60

	return &FilePicker{
		recentFiles: recentFiles,
		state:       stateList,
		textInput:   ti,
	}
}

// Init implements tea.Model
func (fp *FilePicker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (fp *FilePicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		fp.width = msg.Width
		fp.height = msg.Height
		return fp, nil

	case tea.KeyMsg:
		// Clear error on any key press
		fp.err = ""

		switch fp.state {
		case stateList:
			return fp.updateList(msg)
		case stateInput:
			return fp.updateInput(msg)
		}
	}

	return fp, nil
}

func (fp *FilePicker) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	maxItems := len(fp.recentFiles) + 1 // +1 for "Enter path..."

	switch msg.String() {
	case "up", "k":
		if fp.cursor > 0 {
			fp.cursor--
		}
	case "down", "j":
		if fp.cursor < maxItems-1 {
			fp.cursor++
		}
	case "enter":
		if fp.cursor < len(fp.recentFiles) {
			return fp.selectFile(fp.recentFiles[fp.cursor])
		}
		fp.state = stateInput
		fp.textInput.Focus()
		return fp, textinput.Blink
	case "esc", "b":
		return fp, func() tea.Msg { return CancelledMsg{} }
	}

	return fp, nil
}

func (fp *FilePicker) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fp.state = stateList
		fp.textInput.SetValue("")
		return fp, nil
	case "enter":
		path := fp.textInput.Value()
		if path == "" {
			fp.err = "Please enter a file path"
			return fp, nil
		}
		return fp.selectFile(path)
	}

	var cmd tea.Cmd
	fp.textInput, cmd = fp.textInput.Update(msg)
	return fp, cmd
}

// selectFile validates the path and emits PhotoSelectedMsg
func (fp *FilePicker) selectFile(path string) (tea.Model, tea.Cmd) {
	expandedPath := expandPath(path)

	if !recentfiles.IsImage(expandedPath) {
		fp.err = "Not an image file (jpg, png, or gif): " + path
		return fp, nil
	}

	info, err := os.Stat(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			fp.err = "File not found: " + path
		} else if os.IsPermission(err) {
			fp.err = "Cannot read file: permission denied"
		} else {
			fp.err = "Error reading file: " + err.Error()
		}
		return fp, nil
	}
	if info.IsDir() {
		fp.err = "Not a file: " + path
		return fp, nil
	}

	return fp, func() tea.Msg {
		return PhotoSelectedMsg{Path: expandedPath}
	}
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + path[1:]
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
	}
	return path
}

// SetError sets an error message to display
func (fp *FilePicker) SetError(msg string) {
	fp.err = msg
}

// View implements tea.Model
func (fp *FilePicker) View() string {
	if fp.state == stateInput {
		return fp.viewInput()
	}
	return fp.viewList()
}

func (fp *FilePicker) viewList() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Select photo"))
	b.WriteString("\n\n")

	if len(fp.recentFiles) > 0 {
		b.WriteString(helpStyle.Render("Recent photos:"))
		b.WriteString("\n")
		for i, path := range fp.recentFiles {
			cursor := "  "
			style := normalStyle
			if i == fp.cursor {
				cursor = "> "
				style = selectedStyle
			}
			// Truncate long paths
			display := path
			if len(display) > fp.width-10 && fp.width > 20 {
				display = "..." + display[len(display)-(fp.width-13):]
			}
			b.WriteString(cursor + style.Render(display) + "\n")
		}
		b.WriteString("\n")
	}

	cursor := "  "
	style := normalStyle
	if fp.cursor == len(fp.recentFiles) {
		cursor = "> "
		style = selectedStyle
	}
	b.WriteString(cursor + style.Render("Enter path...") + "\n")

	if fp.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + fp.err))
	}

	return b.String()
}

func (fp *FilePicker) viewInput() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Enter photo path"))
	b.WriteString("\n\n")
	b.WriteString(fp.textInput.View())

	if fp.err != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render("Error: " + fp.err))
	}

	return b.String()
}
