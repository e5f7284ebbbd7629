package injector

import (
	"fmt"
	"strings"

	"github.com/getlawrence/injectgen/internal/codegen/edit"
	"github.com/getlawrence/injectgen/internal/syntax"
)

const existingImportsQuery = `(import_statement (string) @import_path) @import_location`

// importStatement is a top-level ES import found in the file.
type importStatement struct {
	node       *syntax.Node
	module     string
	typeOnly   bool
	bindings   []string     // local names the statement introduces
	named      *syntax.Node // the { ... } clause, nil for default/namespace imports
	lastMember *syntax.Node
}

// analyzeImports collects the top-level import statements in source order.
func analyzeImports(tree *syntax.Tree) ([]importStatement, error) {
	matches, err := tree.Query(existingImportsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze imports: %w", err)
	}

	var imports []importStatement
	for _, m := range matches {
		location := m.Get("import_location")
		path := m.Get("import_path")
		if location == nil || path == nil || location.Parent() != tree.Root {
			continue
		}
		imp := importStatement{
			node:   location,
			module: strings.Trim(tree.Text(path), `"'`),
		}
		for _, child := range location.Children() {
			if child.Kind == "type" || child.Kind == "typeof" {
				imp.typeOnly = true
			}
		}
		if clause := syntax.SuccessorAlongPath(location, "import_clause"); clause != nil {
			imp.collect(tree, clause)
		}
		imports = append(imports, imp)
	}
	return imports, nil
}

// collect records the bindings of an import clause: the default import, a
// namespace import, and each named specifier under its alias when it has one.
func (imp *importStatement) collect(tree *syntax.Tree, clause *syntax.Node) {
	for _, child := range clause.Children() {
		switch child.Kind {
		case "identifier":
			imp.bindings = append(imp.bindings, tree.Text(child))
		case "namespace_import":
			if id := syntax.SuccessorAlongPath(child, "identifier"); id != nil {
				imp.bindings = append(imp.bindings, tree.Text(id))
			}
		case "named_imports":
			imp.named = child
			for _, spec := range syntax.ChildrenOfKind(child, "import_specifier") {
				imp.lastMember = spec
				local := spec.ChildByField("alias")
				if local == nil {
					local = spec.ChildByField("name")
				}
				if local != nil {
					imp.bindings = append(imp.bindings, tree.Text(local))
				}
			}
		}
	}
}

// InsertImport returns the directive that makes symbol importable from module.
// An import from module that already binds symbol locally, as a default,
// namespace or named import, yields a no-op; an existing
// value import from module with named bindings is extended; otherwise a new
// import line goes after the last import, or at the top of the file.
func InsertImport(tree *syntax.Tree, symbol, module string, style Style) (edit.Directive, error) {
	style = style.normalized()

	imports, err := analyzeImports(tree)
	if err != nil {
		return edit.Directive{}, err
	}

	var extend *importStatement
	for i := range imports {
		imp := &imports[i]
		if imp.module != module {
			continue
		}
		for _, name := range imp.bindings {
			if name == symbol {
				return edit.Noop(tree.Path), nil
			}
		}
		if extend == nil && imp.named != nil && !imp.typeOnly {
			extend = imp
		}
	}

	if extend != nil {
		if extend.lastMember != nil {
			return edit.Directive{
				Kind:   edit.KindExtendImport,
				Path:   tree.Path,
				Offset: extend.lastMember.End,
				Text:   ", " + symbol,
			}, nil
		}
		// import {} from 'module'
		return edit.Directive{
			Kind:   edit.KindExtendImport,
			Path:   tree.Path,
			Offset: extend.named.Start + 1,
			Text:   " " + symbol + " ",
		}, nil
	}

	line := fmt.Sprintf("import { %s } from %s%s%s;", symbol, style.Quote, module, style.Quote)
	nl := newline(tree.Source)
	if len(imports) == 0 {
		return edit.Directive{
			Kind:   edit.KindAddImport,
			Path:   tree.Path,
			Offset: 0,
			Text:   line + nl,
		}, nil
	}
	last := imports[len(imports)-1]
	return edit.Directive{
		Kind:   edit.KindAddImport,
		Path:   tree.Path,
		Offset: last.node.End,
		Text:   nl + line,
	}, nil
}
