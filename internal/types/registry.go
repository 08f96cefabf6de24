package types

import (
	"fmt"

	"github.com/liminal-lang/liminal/internal/ast"
)

// Registry resolves AST type syntax into semantic Types, and holds every
// named type (record/schema/enum/alias) declared by a program so that
// later references by name resolve to the same composite instance.
type Registry struct {
	named map[string]Type
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{named: map[string]Type{}}
}

// Declare registers a named type declaration. Composite types (Record,
// Schema, Enum) are built fresh and owned by the registry; primitives
// reuse the shared singletons.
func (r *Registry) Declare(decl *ast.TypeDecl) (Type, error) {
	ty, err := r.build(decl.Type)
	if err != nil {
		return nil, err
	}
	switch t := ty.(type) {
	case *Record:
		t.Name = decl.Name
	case *Schema:
		t.Name = decl.Name
	case *Enum:
		t.Name = decl.Name
	default:
		ty = &Alias{Name: decl.Name, Target: ty}
	}
	r.named[decl.Name] = ty
	return ty, nil
}

// Lookup resolves a declared name to its semantic type.
func (r *Registry) Lookup(name string) (Type, bool) {
	t, ok := r.named[name]
	return t, ok
}

// Resolve converts an AST type node into a semantic Type, resolving
// NamedType references against previously declared names.
func (r *Registry) Resolve(t ast.Type) (Type, error) {
	return r.build(t)
}

func (r *Registry) build(t ast.Type) (Type, error) {
	switch n := t.(type) {
	case nil:
		return Unknown, nil
	case *ast.PrimitiveType:
		if p := PrimitiveByName(n.Name); p != nil {
			return p, nil
		}
		return nil, fmt.Errorf("unknown primitive type %q", n.Name)
	case *ast.NamedType:
		if ty, ok := r.named[n.Name]; ok {
			return ty, nil
		}
		return nil, fmt.Errorf("undeclared type %q", n.Name)
	case *ast.ArrayType:
		elem, err := r.build(n.Elem)
		if err != nil {
			return nil, err
		}
		return &Array{Elem: elem}, nil
	case *ast.TupleType:
		elems := make([]Type, len(n.Elems))
		for i, e := range n.Elems {
			elemTy, err := r.build(e)
			if err != nil {
				return nil, err
			}
			elems[i] = elemTy
		}
		return &Tuple{Elems: elems}, nil
	case *ast.RecordType:
		fields, err := r.buildFields(n.Fields)
		if err != nil {
			return nil, err
		}
		return &Record{Fields: fields}, nil
	case *ast.SchemaType:
		fields, err := r.buildFields(n.Fields)
		if err != nil {
			return nil, err
		}
		return &Schema{Name: n.Name, Fields: fields}, nil
	case *ast.EnumType:
		return &Enum{Variants: append([]string(nil), n.Names...)}, nil
	case *ast.OptionalType:
		inner, err := r.build(n.Inner)
		if err != nil {
			return nil, err
		}
		return &Optional{Inner: inner}, nil
	case *ast.ResultType:
		ok, err := r.build(n.Ok)
		if err != nil {
			return nil, err
		}
		errTy := Type(Unknown)
		if n.Err != nil {
			errTy, err = r.build(n.Err)
			if err != nil {
				return nil, err
			}
		}
		return &Result{Ok: ok, Err: errTy}, nil
	case *ast.ConstrainedType:
		base, err := r.build(n.Base)
		if err != nil {
			return nil, err
		}
		return base, nil
	default:
		return nil, fmt.Errorf("unsupported type syntax %T", t)
	}
}

func (r *Registry) buildFields(astFields []*ast.RecordField) ([]Field, error) {
	fields := make([]Field, len(astFields))
	for i, f := range astFields {
		ty, err := r.build(f.Type)
		if err != nil {
			return nil, err
		}
		field := Field{Name: f.Name, Type: ty, Description: f.Description}
		if ct, ok := f.Type.(*ast.ConstrainedType); ok {
			field.Min = ct.Min
			field.Max = ct.Max
			field.Regex = ct.Regex
		}
		fields[i] = field
	}
	return fields, nil
}
