package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/getlawrence/injectgen/internal/detector"
	"github.com/getlawrence/injectgen/internal/naming"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List patchable TypeScript sources",
	Long: `List scans the project source root for TypeScript files that inject can
patch. Declaration files, specs and dependency directories are skipped.

Available subcommands:
  components  List *.component.ts files
  services    List dependency files (*.<suffix>.ts)
  sources     List every patchable source file`,
}

var listRoot string

func newListSubcommand(use, short string, suffix func(*AppConfig) string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [path]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appConfigFrom(cmd)
			if err != nil {
				return err
			}

			root := listRoot
			if len(args) > 0 {
				root = args[0]
			}
			if root == "" {
				root = app.Config.Project.SourceRoot
			}
			absRoot, err := filepath.Abs(root)
			if err != nil {
				return fmt.Errorf("failed to resolve path: %w", err)
			}

			files, err := detector.FindSources(absRoot, suffix(app))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintf(out, "No matching sources under %s\n", absRoot)
				return nil
			}
			for _, f := range files {
				rel, err := filepath.Rel(absRoot, f)
				if err != nil {
					rel = f
				}
				fmt.Fprintf(out, "📄 %s (%s)\n", rel, detector.DetectFileLanguage(f, nil))
			}
			fmt.Fprintf(out, "\n%d file(s)\n", len(files))
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.PersistentFlags().StringVarP(&listRoot, "path", "p", "", "Directory to scan (defaults to project.source_root)")

	listCmd.AddCommand(newListSubcommand("components", "List component files", func(*AppConfig) string {
		return ".component.ts"
	}))
	listCmd.AddCommand(newListSubcommand("services", "List dependency files", func(app *AppConfig) string {
		return "." + naming.Dasherize(app.Config.Project.Suffix) + ".ts"
	}))
	listCmd.AddCommand(newListSubcommand("sources", "List every patchable source file", func(*AppConfig) string {
		return ""
	}))
}
