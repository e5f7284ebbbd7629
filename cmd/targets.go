package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/getlawrence/injectgen/internal/codegen/injector"
	"github.com/getlawrence/injectgen/internal/config"
)

// targetFlags are the flags shared by inject and plan.
type targetFlags struct {
	name        string
	component   string
	root        string
	suffix      string
	servicePath string
	files       []string
	class       string
	typeName    string
	module      string
}

func (f *targetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "Dependency base name, e.g. logger")
	cmd.Flags().StringVar(&f.component, "component", "", "Target component base name, e.g. user-list")
	cmd.Flags().StringVarP(&f.root, "path", "p", "", "Project source root (defaults to project.source_root)")
	cmd.Flags().StringVar(&f.root, "project-root", "", "Alias for --path")
	cmd.Flags().StringVar(&f.suffix, "suffix", "", "Dependency suffix (defaults to project.suffix)")
	cmd.Flags().StringVar(&f.servicePath, "service-path", "", "Path of the file defining the dependency")
	cmd.Flags().StringSliceVarP(&f.files, "file", "f", nil, "Explicit target file (repeatable)")
	cmd.Flags().StringVar(&f.class, "class", "", "Target class name")
	cmd.Flags().StringVar(&f.typeName, "type", "", "Dependency type name")
	cmd.Flags().StringVar(&f.module, "module", "", "Import specifier of the dependency")
}

func (f *targetFlags) resolve(cfg *config.Config, args []string) ([]injector.InjectionContext, error) {
	root := f.root
	if root == "" {
		root = cfg.Project.SourceRoot
	}
	suffix := f.suffix
	if suffix == "" {
		suffix = cfg.Project.Suffix
	}

	targets, err := injector.ResolveTargets(injector.Options{
		Name:        f.name,
		Component:   f.component,
		Root:        root,
		Suffix:      suffix,
		ServicePath: f.servicePath,
		Files:       append(append([]string(nil), f.files...), args...),
		Class:       f.class,
		Type:        f.typeName,
		Module:      f.module,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve targets: %w", err)
	}
	return targets, nil
}

func styleFrom(cfg *config.Config) injector.Style {
	return injector.Style{
		Quote:     cfg.Style.QuoteChar(),
		Indent:    cfg.Style.IndentString(),
		UsageHint: cfg.Style.UsageHint,
	}
}

// writeStructured encodes v as json or yaml. It reports false for text output.
func writeStructured(w io.Writer, format string, v interface{}) (bool, error) {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return true, enc.Encode(v)
	case "text", "":
		return false, nil
	default:
		return true, fmt.Errorf("unsupported output format: %s", format)
	}
}
