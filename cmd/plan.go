package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getlawrence/injectgen/internal/codegen/edit"
	"github.com/getlawrence/injectgen/internal/codegen/injector"
	"github.com/getlawrence/injectgen/internal/detector"
	"github.com/getlawrence/injectgen/internal/ui"
	"github.com/getlawrence/injectgen/internal/workspace"
)

var planCmd = &cobra.Command{
	Use:   "plan [files...]",
	Short: "Show the edits inject would make, without writing",
	Long: `Plan resolves the same targets as inject and prints the insertions that
would be applied to each file. Nothing is written.`,
	RunE: runPlan,
}

var planTargets targetFlags

func init() {
	rootCmd.AddCommand(planCmd)
	planTargets.register(planCmd)
}

type directiveEntry struct {
	Kind   edit.Kind `json:"kind" yaml:"kind"`
	Offset int       `json:"offset" yaml:"offset"`
	Text   string    `json:"text" yaml:"text"`
}

func directiveEntries(directives []edit.Directive) []directiveEntry {
	var entries []directiveEntry
	for _, d := range directives {
		if d.IsNoop() {
			continue
		}
		entries = append(entries, directiveEntry{Kind: d.Kind, Offset: d.Offset, Text: d.Text})
	}
	return entries
}

type planReport struct {
	File  string           `json:"file" yaml:"file"`
	Class string           `json:"class" yaml:"class"`
	Edits []directiveEntry `json:"edits" yaml:"edits"`
	Error string           `json:"error,omitempty" yaml:"error,omitempty"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, err := appConfigFrom(cmd)
	if err != nil {
		return err
	}
	outputFormat, _ := cmd.Flags().GetString("output")

	targets, err := planTargets.resolve(app.Config, args)
	if err != nil {
		return err
	}

	host := workspace.NewFSHost(workspace.Options{DryRun: true, Logger: app.Logger})
	inj := injector.NewInjector(styleFrom(app.Config), app.Logger).WithGuard(detector.RequireTypeScript)

	var reports []planReport
	failed := 0
	for _, ic := range targets {
		report := planReport{File: ic.FilePath, Class: ic.ClassName}

		directives, err := planFile(ctx, host, inj, ic)
		if err != nil {
			failed++
			report.Error = err.Error()
			if outputFormat == "text" {
				ui.Logf("✗ %s: %v\n", ic.FilePath, err)
			}
		} else {
			report.Edits = directiveEntries(directives)
			if outputFormat == "text" {
				ui.RenderPlan(cmd.OutOrStdout(), ic, directives)
				fmt.Fprintln(cmd.OutOrStdout())
			}
		}
		reports = append(reports, report)
	}

	if _, err := writeStructured(cmd.OutOrStdout(), outputFormat, reports); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d targets cannot be planned", failed, len(targets))
	}
	return nil
}

func planFile(ctx context.Context, host workspace.Host, inj *injector.Injector, ic injector.InjectionContext) ([]edit.Directive, error) {
	content, err := host.Read(ic.FilePath)
	if err != nil {
		return nil, err
	}
	return inj.Plan(ctx, ic, content)
}
