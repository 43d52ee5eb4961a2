// Package tui is the interactive query box.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pdfsearch/internal/domain"
	"pdfsearch/internal/summarizer"
)

// Exporter yields the full text of a document and its download file name.
type Exporter interface {
	Export(id string) (io.Reader, string, error)
}

// SearchPort is the TUI-facing subset of the query service.
type SearchPort interface {
	Exporter
	Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error)
	Info() domain.Info
}

// Options configures the TUI.
type Options struct {
	TopK      int
	ExportDir string
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	service   SearchPort
	opts      Options
	info      domain.Info
	input     textinput.Model
	viewport  viewport.Model
	results   []domain.SearchResult
	status    string
	cursor    int
	ready     bool
	showInfo  bool
	showFull  bool
	lastQuery string
}

// New creates a new TUI model instance.
func New(service SearchPort, opts Options) Model {
	if opts.TopK <= 0 {
		opts.TopK = 3
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type query and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	info := service.Info()
	return Model{
		service:  service,
		opts:     opts,
		info:     info,
		input:    ti,
		viewport: viewport.New(0, 0),
		status:   fmt.Sprintf("%d documents indexed. Type to search.", info.Documents),
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and query boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header + summary, status, query box, spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, max(3, msg.Height-reserved)-rh)
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if q := strings.TrimSpace(m.input.Value()); q != "" {
				m.runQuery(q)
				return m, nil
			}
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.refresh()
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.refresh()
				return m, nil
			}
		case "tab":
			m.showInfo = !m.showInfo
			m.refresh()
			return m, nil
		case "ctrl+f":
			m.showFull = !m.showFull
			m.refresh()
			return m, nil
		case "ctrl+s":
			m.exportCurrent()
			return m, nil
		case "pgdown", "pgup":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) runQuery(q string) {
	res, err := m.service.Search(context.Background(), q, m.opts.TopK)
	if err != nil {
		m.status = "Error: " + err.Error()
		m.results = nil
	} else {
		m.status = fmt.Sprintf("%d results for %q", len(res), q)
		m.results = res
		m.cursor = 0
		m.lastQuery = q
		m.showInfo = false
	}
	m.refresh()
}

func (m *Model) exportCurrent() {
	if len(m.results) == 0 {
		m.status = "Nothing to save."
		return
	}
	r := m.results[m.cursor]
	path, err := SaveExport(m.service, r.ID, m.opts.ExportDir)
	if err != nil {
		m.status = "Error: " + err.Error()
		return
	}
	m.status = "Saved " + path
}

// SaveExport writes the full text of document id into dir and returns the
// file path.
func SaveExport(port Exporter, id, dir string) (string, error) {
	r, name, err := port.Export(id)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", err
	}
	return path, f.Close()
}

func (m *Model) refresh() {
	if m.showInfo {
		m.viewport.SetContent(m.renderInfo())
	} else {
		m.viewport.SetContent(m.renderCurrentResult())
	}
	m.viewport.GotoTop()
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("PDF Semantic Search")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.info.Summary)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderCurrentResult() string {
	if len(m.results) == 0 {
		return "No results yet."
	}
	r := m.results[m.cursor]
	title := fmt.Sprintf("%s  [%d/%d]", FormatTitle(r), m.cursor+1, len(m.results))
	text := r.Preview
	if m.showFull {
		text = r.FullText
	}
	hint := helpStyle.Render("up/down: browse  ctrl+f: full text  ctrl+s: save  tab: info")
	return title + "\n\n" + highlightBestSentence(text, m.lastQuery) + "\n\n" + hint
}

func (m Model) renderInfo() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("System information"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Model:       %s\n", m.info.Model)
	fmt.Fprintf(&b, "Location:    %s\n", m.info.Location)
	fmt.Fprintf(&b, "Documents:   %d\n", m.info.Documents)
	fmt.Fprintf(&b, "Total chars: %d\n", m.info.TotalChars)
	fmt.Fprintf(&b, "Dimension:   %d\n", m.info.Dimension)
	return b.String()
}

// FormatTitle renders the heading line of a result.
func FormatTitle(r domain.SearchResult) string {
	return fmt.Sprintf("#%d: %s (Score: %.2f)", r.Rank, r.ID, r.Score)
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func highlightBestSentence(text, query string) string {
	best := summarizer.BestSentence(query, text)
	if best == "" {
		return text
	}
	return strings.Replace(text, best, highlightStyle.Render(best), 1)
}
