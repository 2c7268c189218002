package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/artnorm/internal/batch"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ECDC4"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1A3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A8DADC"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D"))
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// printer renders progress events as styled lines.
type printer struct {
	out      io.Writer
	renderer *lipgloss.Renderer
	verbose  bool
}

func newPrinter(out io.Writer, verbose bool) *printer {
	return &printer{out: out, renderer: lipgloss.NewRenderer(out), verbose: verbose}
}

func (p *printer) render(style lipgloss.Style, s string) string {
	return style.Renderer(p.renderer).Render(s)
}

func (p *printer) banner() {
	fmt.Fprintln(p.out, p.render(titleStyle, "🎨 artnorm"))
	fmt.Fprintln(p.out, p.render(dimStyle, rule))
}

func (p *printer) section(name string) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.render(sectionStyle, name))
}

// print writes one event. Verbose events are dropped unless verbose is set.
func (p *printer) print(event batch.ProgressEvent) {
	if event.Level == batch.LevelVerbose && !p.verbose {
		return
	}

	// Keep the manager's indentation in front of the marker.
	msg := strings.TrimLeft(event.Message, " ")
	indent := event.Message[:len(event.Message)-len(msg)]

	var line string
	switch event.Level {
	case batch.LevelError:
		line = p.render(errorStyle, msg)
	case batch.LevelWarning:
		line = p.render(warningStyle, "! "+msg)
	case batch.LevelSuccess:
		line = p.render(successStyle, msg)
	case batch.LevelInfo:
		line = p.render(infoStyle, msg)
	default:
		line = p.render(dimStyle, msg)
	}
	fmt.Fprintln(p.out, indent+line)
}

func (p *printer) info(msg string) {
	p.print(batch.ProgressEvent{Message: msg, Level: batch.LevelInfo})
}

func (p *printer) warn(msg string) {
	p.print(batch.ProgressEvent{Message: msg, Level: batch.LevelWarning})
}

func (p *printer) success(msg string) {
	p.print(batch.ProgressEvent{Message: "✓ " + msg, Level: batch.LevelSuccess})
}

func (p *printer) fail(msg string) {
	p.print(batch.ProgressEvent{Message: "✗ " + msg, Level: batch.LevelError})
}
