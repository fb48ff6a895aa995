package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/architeacher/mobile-devices/internal/domain/model"
	"github.com/charmbracelet/lipgloss"
)

const emptyDevicesText = "Devices is Empty"

// Renderer styles output for the writer it was created for. Plain writers,
// such as pipes and buffers, get unstyled text.
type Renderer struct {
	out     io.Writer
	title   lipgloss.Style
	row     lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
}

func NewRenderer(out io.Writer) *Renderer {
	r := lipgloss.NewRenderer(out)

	return &Renderer{
		out:     out,
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		row:     r.NewStyle().PaddingLeft(2),
		muted:   r.NewStyle().Foreground(lipgloss.Color("240")),
		success: r.NewStyle().Foreground(lipgloss.Color("42")),
		warning: r.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

func (r *Renderer) Devices(devices []model.Device) {
	if len(devices) == 0 {
		r.println(r.muted.Render(emptyDevicesText))

		return
	}

	for _, device := range devices {
		r.println(r.row.Render(device.String()))
	}

	r.println(r.muted.Render(fmt.Sprintf("Total: %d devices", len(devices))))
}

func (r *Renderer) Overview(overview *model.Overview) {
	r.println(r.title.Render("Saved devices"))
	r.Devices(overview.Devices)
	r.println("")

	if overview.CurrentSaved {
		r.Success("This device is saved: %s", overview.Current)

		return
	}

	r.Warning("This device is not saved yet: %s (run `devices register`)", overview.Current)
}

func (r *Renderer) Success(format string, args ...any) {
	r.println(r.success.Render(fmt.Sprintf(format, args...)))
}

func (r *Renderer) Warning(format string, args ...any) {
	r.println(r.warning.Render(fmt.Sprintf(format, args...)))
}

func (r *Renderer) Plain(format string, args ...any) {
	r.println(fmt.Sprintf(format, args...))
}

func (r *Renderer) println(s string) {
	_, _ = io.WriteString(r.out, strings.TrimRight(s, " ")+"\n")
}
