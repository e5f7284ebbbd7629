package injector

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/getlawrence/injectgen/internal/naming"
)

// InjectionContext holds the facts resolved once per pass: which file and
// class to patch and which dependency to inject.
type InjectionContext struct {
	// FilePath is the absolute path of the file to modify.
	FilePath string `json:"file_path"`
	// ClassName is the class that receives the dependency.
	ClassName string `json:"class_name"`
	// TypeName is the dependency's class name.
	TypeName string `json:"type_name"`
	// ModulePath is the import specifier of the dependency's defining file.
	ModulePath string `json:"module_path"`
}

// FieldName is the constructor parameter / field name for the dependency.
func (c InjectionContext) FieldName() string {
	return naming.Camelize(c.TypeName)
}

func (c InjectionContext) validate() error {
	switch {
	case c.ClassName == "":
		return fmt.Errorf("class name is required")
	case c.TypeName == "":
		return fmt.Errorf("dependency type name is required")
	case c.ModulePath == "":
		return fmt.Errorf("dependency module path is required")
	}
	return nil
}

// Style controls the text the injector writes.
type Style struct {
	// Quote wraps import specifiers: ' or ".
	Quote string
	// Indent is one level of class member indentation.
	Indent string
	// UsageHint adds a comment inside a generated constructor.
	UsageHint bool
}

// DefaultStyle matches Angular CLI output.
func DefaultStyle() Style {
	return Style{Quote: "'", Indent: "  ", UsageHint: true}
}

func (s Style) normalized() Style {
	d := DefaultStyle()
	if s.Quote != `"` && s.Quote != "'" {
		s.Quote = d.Quote
	}
	if s.Indent == "" {
		s.Indent = d.Indent
	}
	return s
}

// Options are the user-facing inputs of the inject command.
type Options struct {
	// Name is the dependency base name, e.g. "logger".
	Name string
	// Component is the target component base name, e.g. "user-list".
	Component string
	// Root is the project source root holding one folder per component/service.
	Root string
	// Suffix is appended to Name for the type and file, e.g. "service".
	Suffix string
	// ServicePath overrides the dependency file location.
	ServicePath string

	// Files, Class, Type and Module override the values derived above.
	Files  []string
	Class  string
	Type   string
	Module string
}

// ResolveTargets turns options into one InjectionContext per target file.
// With no explicit files the component is located under Root using the
// <name>/<name>.component.ts convention.
func ResolveTargets(o Options) ([]InjectionContext, error) {
	root, err := filepath.Abs(defaultString(o.Root, "."))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}

	files := o.Files
	if len(files) == 0 {
		if o.Component == "" {
			return nil, fmt.Errorf("either a component name or a target file is required")
		}
		dash := naming.Dasherize(o.Component)
		files = []string{naming.Join(root, dash, dash+".component.ts")}
	}

	typeName := o.Type
	if typeName == "" {
		if o.Name == "" {
			return nil, fmt.Errorf("either a dependency name or a type name is required")
		}
		typeName = naming.Classify(o.Name)
		if suffix := naming.Classify(o.Suffix); suffix != "" && !strings.HasSuffix(typeName, suffix) {
			typeName += suffix
		}
	}

	servicePath := o.ServicePath
	if servicePath == "" && o.Module == "" {
		base := naming.Dasherize(defaultString(o.Name, strings.TrimSuffix(typeName, naming.Classify(o.Suffix))))
		fileName := base
		if o.Suffix != "" {
			fileName += "." + naming.Dasherize(o.Suffix)
		}
		servicePath = naming.Join(root, base, fileName+".ts")
	}
	if servicePath != "" {
		if servicePath, err = filepath.Abs(servicePath); err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", o.ServicePath, err)
		}
	}

	targets := make([]InjectionContext, 0, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", f, err)
		}

		className := o.Class
		if className == "" {
			className = classFromFile(abs, o.Component, len(o.Files) == 0)
		}

		module := o.Module
		if module == "" {
			module, err = naming.RelativeModule(filepath.Dir(abs), servicePath)
			if err != nil {
				return nil, fmt.Errorf("failed to build module path for %s: %w", abs, err)
			}
		}

		targets = append(targets, InjectionContext{
			FilePath:   abs,
			ClassName:  className,
			TypeName:   typeName,
			ModulePath: module,
		})
	}
	return targets, nil
}

// classFromFile derives the class name Angular would generate for a file:
// user-list.component.ts -> UserListComponent.
func classFromFile(path, component string, fromComponent bool) string {
	if fromComponent && component != "" {
		return naming.Classify(component) + "Component"
	}
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return naming.Classify(base)
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
