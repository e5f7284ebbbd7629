package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/getlawrence/injectgen/internal/codegen/injector"
	"github.com/getlawrence/injectgen/internal/detector"
	"github.com/getlawrence/injectgen/internal/ui"
	"github.com/getlawrence/injectgen/internal/workspace"
)

var injectCmd = &cobra.Command{
	Use:   "inject [files...]",
	Short: "Inject a dependency into a class constructor",
	Long: `Inject adds a constructor parameter for a dependency to a TypeScript class and
imports the dependency's type, creating the constructor when the class has
none. Files that already receive the dependency are left unchanged.

Example usage:
  injectgen inject --name logger --component user-list
  injectgen inject --type HttpClient --module @angular/common/http -f src/app/app.component.ts
  injectgen inject --name audit --service-path src/app/shared/audit.service.ts src/app/*/*.component.ts`,
	RunE: runInject,
}

var (
	injectTargets targetFlags
	injectDryRun  bool
	injectBackup  bool
)

func init() {
	rootCmd.AddCommand(injectCmd)

	injectTargets.register(injectCmd)
	injectCmd.Flags().BoolVar(&injectDryRun, "dry-run", false, "Show what would change without writing files")
	injectCmd.Flags().BoolVar(&injectBackup, "backup", false, "Keep a .backup copy of every modified file")
}

func runInject(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, err := appConfigFrom(cmd)
	if err != nil {
		return err
	}
	cfg := app.Config
	outputFormat, _ := cmd.Flags().GetString("output")

	targets, err := injectTargets.resolve(cfg, args)
	if err != nil {
		return err
	}

	lockTimeout, err := cfg.Write.LockTimeoutDuration()
	if err != nil {
		return err
	}
	dryRun := injectDryRun || cfg.Write.DryRun
	host := workspace.NewFSHost(workspace.Options{
		DryRun:      dryRun,
		Backup:      injectBackup || cfg.Write.Backup,
		LockTimeout: lockTimeout,
		Logger:      app.Logger,
	})
	inj := injector.NewInjector(styleFrom(cfg), app.Logger).WithGuard(detector.RequireTypeScript)

	outcomes := make([]ui.Outcome, len(targets))
	run := func(ctx context.Context) error {
		var g errgroup.Group
		g.SetLimit(cfg.Concurrency)
		for i, ic := range targets {
			g.Go(func() error {
				res, err := inj.Inject(ctx, host, ic)
				outcomes[i] = ui.Outcome{Context: ic, Result: res, Err: err}
				return nil
			})
		}
		return g.Wait()
	}

	if ui.IsInteractive(os.Stdout) && outputFormat == "text" {
		err = ui.RunSpinner(ctx, fmt.Sprintf("Injecting into %d file(s)...", len(targets)), run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		return err
	}

	structured, err := writeStructured(cmd.OutOrStdout(), outputFormat, outcomeReports(outcomes))
	if err != nil {
		return err
	}
	if !structured {
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderInjection(outcomes, dryRun))
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d injections failed", failed, len(outcomes))
	}
	return nil
}

type outcomeReport struct {
	File    string           `json:"file" yaml:"file"`
	Class   string           `json:"class" yaml:"class"`
	Type    string           `json:"type" yaml:"type"`
	Module  string           `json:"module" yaml:"module"`
	Changed bool             `json:"changed" yaml:"changed"`
	Edits   []directiveEntry `json:"edits,omitempty" yaml:"edits,omitempty"`
	Error   string           `json:"error,omitempty" yaml:"error,omitempty"`
}

func outcomeReports(outcomes []ui.Outcome) []outcomeReport {
	reports := make([]outcomeReport, 0, len(outcomes))
	for _, o := range outcomes {
		r := outcomeReport{
			File:   o.Context.FilePath,
			Class:  o.Context.ClassName,
			Type:   o.Context.TypeName,
			Module: o.Context.ModulePath,
		}
		if o.Err != nil {
			r.Error = o.Err.Error()
		}
		if o.Result != nil {
			r.Changed = o.Result.Changed
			r.Edits = directiveEntries(o.Result.Directives)
		}
		reports = append(reports, r)
	}
	return reports
}
