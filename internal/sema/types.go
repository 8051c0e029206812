package sema

import "strings"

// Type is the semantic type of an expression. Prose is gradually typed: the
// Unknown type stands in for anything the analyzer cannot pin down and is
// compatible with every other type, so untyped code never produces type
// errors, only typed code does.
type Type interface {
	String() string
}

// Primitive is a built-in scalar type.
type Primitive struct {
	name string
}

func (p *Primitive) String() string { return p.name }

var (
	TypeInteger = &Primitive{name: "Integer"}
	TypeFloat   = &Primitive{name: "Float"}
	TypeString  = &Primitive{name: "String"}
	TypeBoolean = &Primitive{name: "Boolean"}
	TypeVoid    = &Primitive{name: "Void"}
	TypeUnknown = &Primitive{name: "Unknown"}
)

// List is an ordered collection type.
type List struct {
	Elem Type
}

func (l *List) String() string {
	if l.Elem == nil || l.Elem == TypeUnknown {
		return "List"
	}
	return "List of " + l.Elem.String()
}

// Object is the type of object literals: an open bag of fields.
type Object struct {
	Fields map[string]Type
}

func (o *Object) String() string { return "Object" }

// Function is the type of a callable.
type Function struct {
	Name   string
	Params []Type
	Result Type
}

func (f *Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	s := "function(" + strings.Join(parts, ", ") + ")"
	if f.Result != nil && f.Result != TypeVoid {
		s += " returns " + f.Result.String()
	}
	return s
}

// Class describes a user-defined class. The same value serves as the type of
// instances of the class.
type Class struct {
	Name    string
	Fields  map[string]Type
	Methods map[string]*Function
	Ctor    *Function
}

func (c *Class) String() string { return c.Name }

// PrimitiveByName resolves a built-in type name. The name "Any" is the
// catalogue's spelling of Unknown.
func PrimitiveByName(name string) (Type, bool) {
	switch name {
	case "Integer":
		return TypeInteger, true
	case "Float":
		return TypeFloat, true
	case "String":
		return TypeString, true
	case "Boolean":
		return TypeBoolean, true
	case "Void", "Nothing":
		return TypeVoid, true
	case "Any", "Unknown":
		return TypeUnknown, true
	case "Object":
		return &Object{}, true
	case "List":
		return &List{Elem: TypeUnknown}, true
	default:
		return nil, false
	}
}

// Equal reports whether two types are identical.
func Equal(a, b Type) bool {
	if a == b {
		return true
	}
	la, aok := a.(*List)
	lb, bok := b.(*List)
	if aok && bok {
		return Equal(la.Elem, lb.Elem)
	}
	return false
}

// Compatible reports whether a value of type from may flow into a slot of
// type to. Unknown absorbs everything in both directions; Integer promotes
// to Float.
func Compatible(from, to Type) bool {
	if from == nil || to == nil {
		return true
	}
	if from == TypeUnknown || to == TypeUnknown {
		return true
	}
	if Equal(from, to) {
		return true
	}
	if from == TypeInteger && to == TypeFloat {
		return true
	}
	lf, fok := from.(*List)
	lt, tok := to.(*List)
	if fok && tok {
		return Compatible(lf.Elem, lt.Elem)
	}
	if _, ok := from.(*Object); ok {
		if _, ok := to.(*Object); ok {
			return true
		}
	}
	return false
}

// IsNumeric reports whether t is Integer or Float.
func IsNumeric(t Type) bool {
	return t == TypeInteger || t == TypeFloat
}
