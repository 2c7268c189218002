// Package tui provides a Bubble Tea terminal user interface for artnorm.
package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/handiism/artnorm/internal/batch"
	"github.com/handiism/artnorm/internal/config"
	"github.com/handiism/artnorm/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateScanning
	StatePlanned
	StateProcessing
	StateComplete
	StateError
)

// maxLogs is the number of progress lines kept on screen.
const maxLogs = 10

// errCancelled is reported when the operator aborts a run.
var errCancelled = errors.New("cancelled by user")

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   batch.ProgressLevel
}

// Options configures the TUI.
type Options struct {
	Settings *config.Settings
	Root     string
	Logger   zerolog.Logger

	// Open starts a session; it defaults to batch.Open.
	Open func(ctx context.Context, settings *config.Settings, root string, logger zerolog.Logger) (*batch.Session, error)
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logger    zerolog.Logger
	open      func(context.Context, *config.Settings, string, zerolog.Logger) (*batch.Session, error)
	logs      []LogEntry
	err       error

	ctx    context.Context
	cancel context.CancelFunc

	session *batch.Session
	manager *batch.Manager
	events  chan batch.ProgressEvent
	plan    *batch.Plan
	summary model.Summary
	logPath string
	logErr  error

	doneAlbums  int
	totalAlbums int

	// Options
	safeEmbed   bool
	folderCover bool
	verbose     bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(opts Options) Model {
	settings := opts.Settings
	if settings == nil {
		settings = config.DefaultSettings()
	}
	open := opts.Open
	if open == nil {
		open = batch.Open
	}

	ti := textinput.New()
	ti.Placeholder = "/path/to/music"
	ti.SetValue(opts.Root)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:       StateInput,
		textInput:   ti,
		spinner:     sp,
		progress:    prog,
		settings:    settings,
		logger:      opts.Logger,
		open:        open,
		logs:        make([]LogEntry, 0),
		ctx:         ctx,
		cancel:      cancel,
		safeEmbed:   settings.SafeEmbed,
		folderCover: settings.UseFolderCover,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg carries one manager progress event.
	ProgressMsg struct {
		Event batch.ProgressEvent
	}

	// PlanDoneMsg is sent when scanning and planning complete.
	PlanDoneMsg struct {
		Session *batch.Session
		Manager *batch.Manager
		Plan    *batch.Plan
		LogPath string
		LogErr  error
		Err     error
	}

	// CommitDoneMsg is sent when processing completes.
	CommitDoneMsg struct {
		Summary model.Summary
		LogPath string
		Err     error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			m.closeSession()
			return m, tea.Quit

		case "esc":
			switch m.state {
			case StateInput:
				return m, tea.Quit
			case StateScanning:
				m.cancel()
			case StateProcessing:
				// The album in progress finishes; CommitDoneMsg follows.
				m.cancel()
				m.appendLog(batch.ProgressEvent{Message: "Stopping after the current album...", Level: batch.LevelWarning})
			case StatePlanned:
				m.closeSession()
				m.reset()
				return m, nil
			}

		case "enter":
			switch m.state {
			case StateInput:
				if strings.TrimSpace(m.textInput.Value()) != "" {
					m.state = StateScanning
					m.textInput.Blur()
					m.events = make(chan batch.ProgressEvent, 64)
					return m, tea.Batch(m.startPlan(), m.waitForEvent(), m.spinner.Tick)
				}
			case StatePlanned:
				if m.plan != nil && m.plan.NeedsWork() {
					m.state = StateProcessing
					m.logs = nil
					return m, tea.Batch(m.startCommit(), m.tickProgress())
				}
			}

		case "ctrl+b":
			if m.state == StateInput {
				m.safeEmbed = !m.safeEmbed
				return m, nil
			}

		case "ctrl+f":
			if m.state == StateInput {
				m.folderCover = !m.folderCover
				return m, nil
			}

		case "ctrl+v":
			if m.state == StateInput {
				m.verbose = !m.verbose
				return m, nil
			}

		case "q":
			if m.state == StateComplete || m.state == StateError || m.state == StatePlanned {
				m.closeSession()
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.closeSession()
				m.reset()
				return m, nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if msg.Event.Level != batch.LevelVerbose || m.verbose {
			m.appendLog(msg.Event)
		}
		cmds = append(cmds, m.waitForEvent())

	case PlanDoneMsg:
		m.session = msg.Session
		m.manager = msg.Manager
		m.plan = msg.Plan
		switch {
		case errors.Is(msg.Err, context.Canceled):
			m.closeSession()
			m.state = StateError
			m.err = errCancelled
		case msg.Err != nil:
			m.closeSession()
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StatePlanned
			m.logPath = msg.LogPath
			m.logErr = msg.LogErr
		}

	case CommitDoneMsg:
		m.summary = msg.Summary
		m.logPath = msg.LogPath
		m.logErr = nil
		m.doneAlbums, m.totalAlbums = m.manager.GetProgress()
		m.closeSession()
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateProcessing {
			m.doneAlbums, m.totalAlbums = m.manager.GetProgress()
			var percent float64
			if m.totalAlbums > 0 {
				percent = float64(m.doneAlbums) / float64(m.totalAlbums)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) appendLog(event batch.ProgressEvent) {
	m.logs = append(m.logs, LogEntry{Message: event.Message, Level: event.Level})
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// reset returns to the input screen, keeping the entered path and options.
func (m *Model) reset() {
	m.state = StateInput
	m.logs = nil
	m.err = nil
	m.plan = nil
	m.manager = nil
	m.summary = model.Summary{}
	m.logPath = ""
	m.logErr = nil
	m.doneAlbums, m.totalAlbums = 0, 0
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.textInput.Focus()
}

func (m *Model) closeSession() {
	if m.session == nil {
		return
	}
	if err := m.session.Close(); err != nil {
		m.logger.Warn().Err(err).Msg("could not release library lock")
	}
	m.session = nil
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent delivers the next progress event. Every ProgressMsg issues
// the next wait, so one chain of waits serves both phases of a run.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event}
	}
}

// runSettings applies the on-screen toggles to a copy of the settings.
func (m Model) runSettings() *config.Settings {
	settings := *m.settings
	settings.SafeEmbed = m.safeEmbed
	settings.UseFolderCover = m.folderCover
	return &settings
}

// startPlan opens the library, scans it and classifies every album.
func (m Model) startPlan() tea.Cmd {
	ctx := m.ctx
	root := strings.TrimSpace(m.textInput.Value())
	settings := m.runSettings()
	events := m.events
	open := m.open
	logger := m.logger
	logPath := settings.LogFile

	send := func(e batch.ProgressEvent) {
		select {
		case events <- e:
		default:
			// Dropped; a full buffer must not stall the run.
		}
	}

	return func() tea.Msg {
		session, err := open(ctx, settings, root, logger)
		if err != nil {
			return PlanDoneMsg{Err: err}
		}

		send(batch.ProgressEvent{Message: "Scanning " + session.Root, Level: batch.LevelInfo})
		albums, err := session.Scan(ctx)
		if err != nil {
			return PlanDoneMsg{Session: session, Err: err}
		}
		send(batch.ProgressEvent{Message: fmt.Sprintf("Found %d album(s)", len(albums)), Level: batch.LevelInfo})

		manager := session.NewManager(send)
		plan, err := manager.Plan(ctx, albums)
		if err != nil {
			return PlanDoneMsg{Session: session, Manager: manager, Plan: plan, Err: err}
		}
		// A later commit replaces this log with its own findings.
		written, logErr := writeAttention(logPath, plan.Summary)
		return PlanDoneMsg{Session: session, Manager: manager, Plan: plan, LogPath: written, LogErr: logErr}
	}
}

// startCommit processes the planned albums and writes the attention log.
func (m Model) startCommit() tea.Cmd {
	ctx := m.ctx
	manager := m.manager
	albums := m.plan.Albums()
	logPath := m.settings.LogFile

	return func() tea.Msg {
		summary := manager.Commit(ctx, albums)
		written, err := writeAttention(logPath, summary)
		return CommitDoneMsg{Summary: summary, LogPath: written, Err: err}
	}
}

// writeAttention writes the flagged tracks of summary to path and returns
// the path written, or "" when there was nothing to write.
func writeAttention(path string, summary model.Summary) (string, error) {
	if path == "" || !summary.NeedsAttention() {
		return "", nil
	}
	if err := batch.WriteAttentionLog(path, summary.Attention); err != nil {
		return "", err
	}
	return path, nil
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🎨 artnorm"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Normalize embedded album art"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateScanning:
		b.WriteString(m.viewScanning())
	case StatePlanned:
		b.WriteString(m.viewPlanned())
	case StateProcessing:
		b.WriteString(m.viewProcessing())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func check(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Library root:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Back up tracks while embedding (ctrl+b)\n", check(m.safeEmbed)))
	b.WriteString(fmt.Sprintf("  %s Use folder cover when tracks have no art (ctrl+f)\n", check(m.folderCover)))
	b.WriteString(fmt.Sprintf("  %s Verbose output (ctrl+v)\n", check(m.verbose)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Max size: %dpx | Quality: %d | Backends: %s/%s",
		m.settings.MaxSize, m.settings.Quality, m.settings.PictureBackend, m.settings.ImageBackend)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewScanning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Scanning and inspecting albums..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewPlanned() string {
	var b strings.Builder

	b.WriteString(batch.RenderSummary(m.plan.Summary))
	b.WriteString("\n\n")
	if m.plan.NeedsWork() {
		b.WriteString(subtitleStyle.Render("Proceed with actual processing?"))
	} else {
		b.WriteString(successStyle.Render("✓ Nothing to do, every album is compliant or has no art."))
	}
	b.WriteString("\n")
	b.WriteString(m.viewAttention(len(m.plan.Summary.Attention)))

	return b.String()
}

func (m Model) viewProcessing() string {
	var b strings.Builder

	var percent float64
	if m.totalAlbums > 0 {
		percent = float64(m.doneAlbums) / float64(m.totalAlbums)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Albums: %d/%d", m.doneAlbums, m.totalAlbums)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	heading := "✨ Done!"
	if m.summary.Interrupted {
		heading = "Stopped early"
	}
	b.WriteString(boxStyle.Render(heading + "\n\n" + batch.RenderSummary(m.summary)))
	b.WriteString("\n")
	b.WriteString(m.viewAttention(len(m.summary.Attention)))

	return b.String()
}

// viewAttention points at the attention log, or reports why it is missing.
func (m Model) viewAttention(n int) string {
	switch {
	case m.logErr != nil:
		return errorStyle.Render(fmt.Sprintf("Could not write attention log: %v", m.logErr)) + "\n"
	case m.logPath != "":
		abs, err := filepath.Abs(m.logPath)
		if err != nil {
			abs = m.logPath
		}
		return warningStyle.Render(fmt.Sprintf("%d track(s) need attention, see %s", n, abs)) + "\n"
	default:
		return ""
	}
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case batch.LevelError:
			style = errorStyle
			prefix = "✗"
		case batch.LevelWarning:
			style = warningStyle
			prefix = "!"
		case batch.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case batch.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + strings.TrimSpace(log.Message)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: scan • ctrl+b: safe embed • ctrl+f: folder cover • ctrl+v: verbose • esc: quit"
	case StateScanning:
		return "esc: cancel"
	case StatePlanned:
		if m.plan != nil && m.plan.NeedsWork() {
			return "enter: process • esc: back • q: quit"
		}
		return "esc: back • q: quit"
	case StateProcessing:
		return "esc: stop after current album"
	case StateComplete, StateError:
		return "r: start over • q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
