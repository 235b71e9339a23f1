package markup

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/fatih/color"
)

var errUnknownMode = errors.New("unknown color mode")

// Mode selects a renderer. It is chosen once at startup and never changes mid-run.
type Mode int

const (
	ModePlain Mode = iota
	ModeANSI
	ModeHTML
)

func (m Mode) String() string {
	switch m {
	case ModePlain:
		return "plain"
	case ModeANSI:
		return "ansi"
	case ModeHTML:
		return "html"
	}

	return "unknown"
}

// ParseMode resolves a mode name. "auto" picks ANSI when interactive is true, plain otherwise.
func ParseMode(name string, interactive bool) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		if interactive {
			return ModeANSI, nil
		}

		return ModePlain, nil
	case "plain", "never", "off":
		return ModePlain, nil
	case "ansi", "always", "on":
		return ModeANSI, nil
	case "html":
		return ModeHTML, nil
	}

	return ModePlain, fmt.Errorf("%w: %q", errUnknownMode, name)
}

// Renderer turns tagged text into a concrete string.
type Renderer interface {
	Render(text Text) string
}

// NewRenderer returns the renderer for mode.
func NewRenderer(mode Mode) Renderer {
	switch mode {
	case ModeANSI:
		return newANSI()
	case ModeHTML:
		return htmlRenderer{}
	case ModePlain:
	}

	return plainRenderer{}
}

type plainRenderer struct{}

func (plainRenderer) Render(text Text) string {
	return text.String()
}

type ansiRenderer struct {
	styles map[Category]*color.Color
}

func newANSI() *ansiRenderer {
	styles := map[Category]*color.Color{
		Error:      color.New(color.FgRed, color.Bold),
		LineNumber: color.New(color.FgYellow, color.Bold),
		Filename:   color.New(color.FgCyan, color.Underline),
		Warning:    color.New(color.FgMagenta, color.Bold),
	}

	// Mode was decided by the caller, ignore the library's own tty sniffing.
	for _, style := range styles {
		style.EnableColor()
	}

	return &ansiRenderer{styles: styles}
}

func (r *ansiRenderer) Render(text Text) string {
	var sb strings.Builder

	for _, f := range text {
		style, ok := r.styles[f.Category]
		if !ok {
			sb.WriteString(f.Text)

			continue
		}

		sb.WriteString(style.Sprint(f.Text))
	}

	return sb.String()
}

type htmlRenderer struct{}

func (htmlRenderer) Render(text Text) string {
	var sb strings.Builder

	for _, f := range text {
		if f.Category == None {
			sb.WriteString(html.EscapeString(f.Text))

			continue
		}

		fmt.Fprintf(&sb, `<span class="texlog-%s">%s</span>`, f.Category, html.EscapeString(f.Text))
	}

	return sb.String()
}
