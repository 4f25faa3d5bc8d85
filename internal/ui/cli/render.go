package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"crossbind/internal/api"
	"crossbind/internal/engine/pipeline"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	renameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))
)

// RenderOutcome prints a run summary: entity counts, rename decisions and
// compiler-style diagnostics.
func RenderOutcome(w io.Writer, out *pipeline.Outcome) {
	var pods, opaques, aliases, ignored int
	for _, e := range out.Entities {
		switch d := e.Detail.(type) {
		case api.Struct:
			if d.Kind == api.KindPod {
				pods++
			} else {
				opaques++
			}
		case api.Alias:
			aliases++
		case api.Ignored:
			ignored++
		}
	}

	fmt.Fprintln(w, titleStyle.Render("crossbind analysis"))
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("  %d entities analyzed", len(out.Entities)-ignored)))
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("  pod=%d opaque=%d alias=%d", pods, opaques, aliases)))

	for _, r := range out.Renames {
		ns := r.Namespace
		if ns == "" {
			ns = "(global)"
		}
		fmt.Fprintln(w, renameStyle.Render(fmt.Sprintf("  rename: %s was %s in %s", r.BridgeName, r.OriginalName, ns)))
	}
	for _, d := range out.Diagnostics {
		fmt.Fprintln(w, errorStyle.Render("  error: "+d.Render()))
	}
}
