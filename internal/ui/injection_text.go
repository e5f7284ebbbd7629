package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/getlawrence/injectgen/internal/codegen/edit"
	"github.com/getlawrence/injectgen/internal/codegen/injector"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	changedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Outcome is the result of one injection target.
type Outcome struct {
	Context injector.InjectionContext
	Result  *injector.Result
	Err     error
}

// RenderInjection returns a styled summary of an inject run.
func RenderInjection(outcomes []Outcome, dryRun bool) string {
	sorted := append([]Outcome(nil), outcomes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Context.FilePath < sorted[j].Context.FilePath
	})

	var b strings.Builder
	title := "💉 Injection Results"
	if dryRun {
		title += " (dry run)"
	}
	fmt.Fprintf(&b, "%s\n", titleStyle.Render(title))
	b.WriteString(strings.Repeat("=", 24))
	b.WriteString("\n\n")

	var changed, skipped, failed int
	for _, o := range sorted {
		switch {
		case o.Err != nil:
			failed++
			fmt.Fprintf(&b, "%s %s\n", failedStyle.Render("✗"), o.Context.FilePath)
			fmt.Fprintf(&b, "    %s\n", failedStyle.Render(o.Err.Error()))
		case o.Result != nil && o.Result.Changed:
			changed++
			fmt.Fprintf(&b, "%s %s\n", changedStyle.Render("✓"), o.Context.FilePath)
			for _, d := range o.Result.Directives {
				if !d.IsNoop() {
					fmt.Fprintf(&b, "    %s at offset %d\n", d.Kind, d.Offset)
				}
			}
		default:
			skipped++
			fmt.Fprintf(&b, "%s %s\n", skippedStyle.Render("•"), o.Context.FilePath)
			fmt.Fprintf(&b, "    %s already injected into %s\n", o.Context.TypeName, o.Context.ClassName)
		}
	}

	fmt.Fprintf(&b, "\nChanged: %d, Unchanged: %d, Failed: %d\n", changed, skipped, failed)
	return b.String()
}

// RenderPlan writes the directives planned for ic as a table.
func RenderPlan(w io.Writer, ic injector.InjectionContext, directives []edit.Directive) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Kind", "Offset", "Text"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})

	pending := 0
	for _, d := range directives {
		if d.IsNoop() {
			table.Append([]string{string(d.Kind), "-", "(already present)"})
			continue
		}
		pending++
		table.Append([]string{string(d.Kind), fmt.Sprintf("%d", d.Offset), fmt.Sprintf("%q", d.Text)})
	}

	table.SetFooter([]string{
		fmt.Sprintf("%s in %s", ic.ClassName, ic.FilePath),
		"",
		fmt.Sprintf("%d pending", pending),
	})

	table.Render()
}
