package report

import (
	"fmt"
	"strings"

	"crossbind/internal/api"
	"crossbind/internal/engine/pipeline"
)

// GenerateMarkdown renders a human-readable summary of one analysis run:
// every surviving entity with its classification and dependencies, followed
// by rename decisions and diagnostics.
func GenerateMarkdown(out *pipeline.Outcome) string {
	var b strings.Builder

	b.WriteString("# Bridge analysis summary\n\n")
	b.WriteString("| Entity | Kind | Classification | Renamed from | Deps |\n")
	b.WriteString("|--------|------|----------------|--------------|------|\n")
	for _, e := range out.Entities {
		kind, classification := describeDetail(e.Detail)
		if kind == "" {
			continue
		}
		renamed := ""
		if e.RenameTo != "" {
			renamed = e.RenameTo
		}
		deps := make([]string, 0, e.Deps.Len())
		for _, d := range e.Deps.Sorted() {
			deps = append(deps, "`"+d.String()+"`")
		}
		fmt.Fprintf(&b, "| `%s` | %s | %s | %s | %s |\n",
			e.Name.String(), kind, classification, renamed, strings.Join(deps, ", "))
	}

	if len(out.Renames) > 0 {
		b.WriteString("\n## Renames\n\n")
		for _, r := range out.Renames {
			ns := r.Namespace
			if ns == "" {
				ns = "(global)"
			}
			fmt.Fprintf(&b, "- `%s` was `%s` in %s\n", r.BridgeName, r.OriginalName, ns)
		}
	}

	if len(out.Diagnostics) > 0 {
		b.WriteString("\n## Diagnostics\n\n")
		for _, d := range out.Diagnostics {
			fmt.Fprintf(&b, "- %s\n", d.Render())
		}
	}
	return b.String()
}

func describeDetail(d api.Detail) (kind, classification string) {
	switch det := d.(type) {
	case api.Struct:
		return "struct", det.Kind.String()
	case api.Enum:
		return "enum", "pod"
	case api.Alias:
		if det.Resolved != nil {
			return "alias", "-> `" + det.Resolved.Describe() + "`"
		}
		return "alias", "unresolved"
	case api.Function:
		return "function", ""
	case api.Const:
		return "const", ""
	case api.ForwardDeclaration:
		return "forward", "opaque"
	case api.ConcreteType:
		return "concrete", det.ForeignDefinition
	case api.StringConstructor:
		return "utility", ""
	case api.Primitive:
		return "primitive", "pod"
	case api.Ignored:
		// Reported in the diagnostics section instead.
		return "", ""
	default:
		return "", ""
	}
}
