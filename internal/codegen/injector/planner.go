package injector

import (
	"context"
	"fmt"

	"github.com/getlawrence/injectgen/internal/codegen/edit"
	"github.com/getlawrence/injectgen/internal/logger"
	"github.com/getlawrence/injectgen/internal/syntax"
	"github.com/getlawrence/injectgen/internal/workspace"
)

// Guard vets a file before it is planned, e.g. rejecting non-TypeScript sources.
type Guard func(path string, content []byte) error

// Injector plans and applies constructor injections.
type Injector struct {
	style  Style
	logger logger.Logger
	guard  Guard
}

// NewInjector creates an injector writing code in the given style.
func NewInjector(style Style, log logger.Logger) *Injector {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Injector{style: style.normalized(), logger: log}
}

// WithGuard returns a copy of the injector that runs guard before planning.
func (i *Injector) WithGuard(guard Guard) *Injector {
	cp := *i
	cp.guard = guard
	return &cp
}

// Result describes one completed injection.
type Result struct {
	Context    InjectionContext `json:"context"`
	Directives []edit.Directive `json:"directives"`
	Changed    bool             `json:"changed"`
	Content    []byte           `json:"-"`
}

// PlanInjection computes the directives that inject the dependency typed
// dependencyTypeName (defined in dependencyModulePath) into className. It
// returns [constructor-or-parameter, import] or a *StructureError.
func PlanInjection(fileText, className, dependencyTypeName, dependencyModulePath string) ([]edit.Directive, error) {
	ic := InjectionContext{
		ClassName:  className,
		TypeName:   dependencyTypeName,
		ModulePath: dependencyModulePath,
	}
	return NewInjector(DefaultStyle(), nil).Plan(context.Background(), ic, []byte(fileText))
}

// Plan parses content and returns the ordered directives for ic. Offsets are
// all computed against content as given; nothing is applied here. Any
// structural problem aborts the whole plan.
func (i *Injector) Plan(ctx context.Context, ic InjectionContext, content []byte) ([]edit.Directive, error) {
	if err := ic.validate(); err != nil {
		return nil, err
	}
	if i.guard != nil {
		if err := i.guard(ic.FilePath, content); err != nil {
			return nil, err
		}
	}

	tree, err := syntax.Parse(ctx, ic.FilePath, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	r := Resolver{Path: ic.FilePath, Source: content, Style: i.style}

	cls, err := r.LocateClass(syntax.Flatten(tree.Root), ic.ClassName)
	if err != nil {
		return nil, err
	}
	if tree.HasError {
		return nil, malformed(tree)
	}

	ctorEdit, err := r.constructorDirective(cls, ic)
	if err != nil {
		return nil, err
	}

	importEdit, err := InsertImport(tree, ic.TypeName, ic.ModulePath, i.style)
	if err != nil {
		return nil, err
	}
	if !importEdit.IsNoop() && importEdit.Offset >= cls.Body.Start {
		return nil, structureErrorf(ic.FilePath, CauseImportAfterClass, "offset %d, class body at %d", importEdit.Offset, cls.Body.Start)
	}

	if ctorEdit.IsNoop() {
		i.logger.Logf("%s: %s is already injected into %s\n", ic.FilePath, ic.TypeName, ic.ClassName)
	}
	if importEdit.IsNoop() {
		i.logger.Logf("%s: %s is already imported from %s\n", ic.FilePath, ic.TypeName, ic.ModulePath)
	}

	directives := []edit.Directive{ctorEdit, importEdit}
	for _, d := range directives {
		if !d.IsNoop() {
			i.logger.Logf("%s: planned %s at offset %d\n", ic.FilePath, d.Kind, d.Offset)
		}
	}
	return directives, nil
}

// malformed reports where the parser had to recover.
func malformed(tree *syntax.Tree) *StructureError {
	bad := syntax.FirstError(tree.Root)
	if bad == nil {
		return &StructureError{Path: tree.Path, Cause: CauseMalformedSource}
	}
	what := "syntax error"
	if bad.Missing {
		what = "missing " + bad.Kind
	}
	return structureErrorf(tree.Path, CauseMalformedSource, "%s at offset %d", what, bad.Start)
}

// Inject runs one full pass on ic.FilePath: lock, read, plan, commit. Nothing
// is written when planning fails.
func (i *Injector) Inject(ctx context.Context, host workspace.Host, ic InjectionContext) (res *Result, err error) {
	release, err := host.Lock(ctx, ic.FilePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr := release(); rerr != nil && err == nil {
			err = fmt.Errorf("failed to release lock on %s: %w", ic.FilePath, rerr)
		}
	}()

	content, err := host.Read(ic.FilePath)
	if err != nil {
		return nil, err
	}

	directives, err := i.Plan(ctx, ic, content)
	if err != nil {
		return nil, err
	}

	rec := host.BeginEdit(ic.FilePath)
	if err := rec.Apply(directives...); err != nil {
		return nil, err
	}

	out, err := host.Commit(ctx, rec)
	if err != nil {
		return nil, err
	}

	return &Result{
		Context:    ic,
		Directives: directives,
		Changed:    !rec.Batch().Empty(),
		Content:    out,
	}, nil
}
