package injector

import (
	"bytes"
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/getlawrence/injectgen/internal/codegen/edit"
	"github.com/getlawrence/injectgen/internal/syntax"
)

// Node kinds of the TypeScript grammar the resolver navigates.
const (
	kindClassKeyword  = "class"
	kindTypeIdent     = "type_identifier"
	kindClassBody     = "class_body"
	kindOpenBrace     = "{"
	kindOpenParen     = "("
	kindMethod        = "method_definition"
	kindParameters    = "formal_parameters"
	kindRequiredParam = "required_parameter"
	kindOptionalParam = "optional_parameter"
	kindTypeReference = "type_annotation"
	kindRestPattern   = "rest_pattern"
	constructorName   = "constructor"
)

// Class is the located target class.
type Class struct {
	Keyword   *syntax.Node
	Name      *syntax.Node
	Body      *syntax.Node
	OpenBrace *syntax.Node
}

// Resolver decides where text goes in one file. All offsets refer to Source.
type Resolver struct {
	Path   string
	Source []byte
	Style  Style
}

// LocateClass finds the first class in nodes and checks that it is named
// className and has a body. Only a specifically named class is ever modified.
func (r Resolver) LocateClass(nodes iter.Seq[*syntax.Node], className string) (*Class, error) {
	keyword := syntax.FirstOfKind(nodes, kindClassKeyword)
	if keyword == nil {
		return nil, &StructureError{Path: r.Path, Cause: CauseNoClass}
	}

	siblings, err := syntax.SiblingsFrom(keyword)
	if err != nil {
		return nil, r.detached(err)
	}

	body := syntax.FirstOfKind(slices.Values(siblings), kindClassBody)

	name := syntax.FirstOfKind(slices.Values(siblings), kindTypeIdent)
	if name == nil {
		if body == nil {
			// cut short after the keyword: the recovered tree holds neither
			return nil, &StructureError{Path: r.Path, Cause: CauseNoClassBody}
		}
		return nil, structureErrorf(r.Path, CauseClassNameMismatch, "anonymous class, expected %s", className)
	}
	if got := name.Text(r.Source); got != className {
		return nil, structureErrorf(r.Path, CauseClassNameMismatch, "found %s, expected %s", got, className)
	}

	if body == nil {
		return nil, &StructureError{Path: r.Path, Cause: CauseNoClassBody}
	}
	brace := syntax.FirstOfKind(slices.Values(body.Children()), kindOpenBrace)
	if brace == nil || brace.Missing {
		return nil, &StructureError{Path: r.Path, Cause: CauseNoClassBody}
	}

	return &Class{Keyword: keyword, Name: name, Body: body, OpenBrace: brace}, nil
}

// Constructor returns the constructor declared directly in the class body, or nil.
func (r Resolver) Constructor(cls *Class) *syntax.Node {
	for _, member := range cls.Body.Children() {
		if member.Kind != kindMethod {
			continue
		}
		if name := member.ChildByField("name"); name != nil && name.Text(r.Source) == constructorName {
			return member
		}
	}
	return nil
}

// LocateOrCreateConstructor extends the class constructor with the dependency,
// or inserts a new constructor right after the class's opening brace.
func (r Resolver) LocateOrCreateConstructor(nodes iter.Seq[*syntax.Node], ic InjectionContext) (edit.Directive, error) {
	cls, err := r.LocateClass(nodes, ic.ClassName)
	if err != nil {
		return edit.Directive{}, err
	}
	return r.constructorDirective(cls, ic)
}

func (r Resolver) constructorDirective(cls *Class, ic InjectionContext) (edit.Directive, error) {
	if ctor := r.Constructor(cls); ctor != nil {
		return r.LocateOrExtendParameters(ctor, ic)
	}
	return r.createConstructor(cls, ic), nil
}

func (r Resolver) createConstructor(cls *Class, ic InjectionContext) edit.Directive {
	style := r.Style.normalized()
	field := ic.FieldName()
	nl := newline(r.Source)

	var b bytes.Buffer
	fmt.Fprintf(&b, "%s%sconstructor(private %s: %s) {%s", nl, style.Indent, field, ic.TypeName, nl)
	if style.UsageHint {
		fmt.Fprintf(&b, "%s%s// this.%s is ready to use%s", style.Indent, style.Indent, field, nl)
	}
	fmt.Fprintf(&b, "%s}%s", style.Indent, nl)

	return edit.Directive{
		Kind:   edit.KindAddConstructor,
		Path:   r.Path,
		Offset: cls.OpenBrace.End,
		Text:   b.String(),
	}
}

// LocateOrExtendParameters adds the dependency to ctor's parameter list unless
// a parameter of the same type is already there. Matching is by type name
// only: the parameter's own name is ignored, so two distinct dependencies
// sharing a type name are treated as the same one.
func (r Resolver) LocateOrExtendParameters(ctor *syntax.Node, ic InjectionContext) (edit.Directive, error) {
	list := syntax.FirstOfKind(slices.Values(ctor.Children()), kindParameters)
	if list == nil {
		return edit.Directive{}, &StructureError{Path: r.Path, Cause: CauseNoParameterList}
	}
	paren := syntax.FirstOfKind(slices.Values(list.Children()), kindOpenParen)
	if paren == nil {
		return edit.Directive{}, &StructureError{Path: r.Path, Cause: CauseNoParameterList}
	}

	params := syntax.ChildrenOfKind(list, kindRequiredParam, kindOptionalParam)
	for _, p := range params {
		typ := syntax.SuccessorAlongPath(p, kindTypeReference, kindTypeIdent)
		if typ != nil && typ.Text(r.Source) == ic.TypeName {
			return edit.Noop(r.Path), nil
		}
	}

	param := fmt.Sprintf("private %s: %s", ic.FieldName(), ic.TypeName)
	if len(params) == 0 {
		return edit.Directive{
			Kind:   edit.KindAddParameter,
			Path:   r.Path,
			Offset: paren.End,
			Text:   param,
		}, nil
	}

	last := params[len(params)-1]
	sep := ", "
	if bytes.ContainsRune(r.Source[paren.End:last.Start], '\n') {
		sep = "," + newline(r.Source) + r.lineIndent(last.Start)
	}

	// A rest parameter must stay last.
	if syntax.FirstOfKind(slices.Values(last.Children()), kindRestPattern) != nil {
		return edit.Directive{
			Kind:   edit.KindAddParameter,
			Path:   r.Path,
			Offset: last.Start,
			Text:   param + sep,
		}, nil
	}
	return edit.Directive{
		Kind:   edit.KindAddParameter,
		Path:   r.Path,
		Offset: last.End,
		Text:   sep + param,
	}, nil
}

// newline returns the line terminator src uses: CRLF when it has any, LF otherwise.
func newline(src []byte) string {
	if bytes.Contains(src, []byte("\r\n")) {
		return "\r\n"
	}
	return "\n"
}

// lineIndent returns the leading blanks of the line holding offset.
func (r Resolver) lineIndent(offset int) string {
	start := bytes.LastIndexByte(r.Source[:offset], '\n') + 1
	end := start
	for end < offset && (r.Source[end] == ' ' || r.Source[end] == '\t') {
		end++
	}
	return string(r.Source[start:end])
}

func (r Resolver) detached(err error) error {
	if errors.Is(err, syntax.ErrNoParent) {
		return &StructureError{Path: r.Path, Cause: CauseDetachedNode, Err: err}
	}
	return err
}
