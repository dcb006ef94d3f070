package internal

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Rights are the access rights of a property.
type Rights uint8

const (
	Read Rights = 1 << iota
	Write

	ReadWrite = Read | Write
)

func (r Rights) Has(want Rights) bool {
	return r&want == want
}

func (r Rights) String() string {
	switch r {
	case Read:
		return "r"
	case Write:
		return "w"
	case ReadWrite:
		return "rw"
	default:
		return "-"
	}
}

// PropertyDescriptor is the static part of a property: its name, the exact
// value type and the rights it grants.
type PropertyDescriptor struct {
	Name   string
	Type   reflect.Type
	Rights Rights
}

// DescriptorOf describes a property holding values of type T.
func DescriptorOf[T any](name string, rights Rights) PropertyDescriptor {
	return PropertyDescriptor{Name: name, Type: reflect.TypeFor[T](), Rights: rights}
}

func (d PropertyDescriptor) String() string {
	return fmt.Sprintf("%s:%s(%s)", d.Name, d.Type, d.Rights)
}

// Format describes what an object is: its type names, most derived first,
// and the properties it exposes.
type Format struct {
	TypeNames  []string
	Properties []PropertyDescriptor

	undefined bool
}

// Undefined is returned for names nothing was registered under. It includes
// itself and nothing else, and no other format includes it.
var Undefined = Format{undefined: true}

// NewFormat returns a format made of the given type names.
func NewFormat(typeNames ...string) Format {
	return Format{TypeNames: slices.Clone(typeNames)}
}

func (f Format) IsUndefined() bool {
	return f.undefined
}

func (f Format) IsEmpty() bool {
	return !f.undefined && len(f.TypeNames) == 0 && len(f.Properties) == 0
}

// With returns a copy of f that also carries props.
func (f Format) With(props ...PropertyDescriptor) Format {
	return f.Union(Format{Properties: props})
}

// Union returns a format holding the type names and properties of both.
// The type names of f come first.
func (f Format) Union(other Format) Format {
	if f.undefined || other.undefined {
		if f.undefined && other.undefined {
			return Undefined
		}
		if f.undefined {
			return other.clone()
		}
		return f.clone()
	}

	out := f.clone()
	for _, name := range other.TypeNames {
		if !slices.Contains(out.TypeNames, name) {
			out.TypeNames = append(out.TypeNames, name)
		}
	}
	for _, p := range other.Properties {
		if !slices.Contains(out.Properties, p) {
			out.Properties = append(out.Properties, p)
		}
	}
	return out
}

// Includes reports whether f's type names and properties are supersets of
// other's. This is the only compatibility test used for wiring.
func (f Format) Includes(other Format) bool {
	if f.undefined || other.undefined {
		return f.undefined && other.undefined
	}

	for _, name := range other.TypeNames {
		if !slices.Contains(f.TypeNames, name) {
			return false
		}
	}
	for _, p := range other.Properties {
		if !slices.Contains(f.Properties, p) {
			return false
		}
	}
	return true
}

func (f Format) String() string {
	if f.undefined {
		return "<undefined>"
	}
	props := make([]string, len(f.Properties))
	for i, p := range f.Properties {
		props[i] = p.String()
	}
	return fmt.Sprintf("%s{%s}", strings.Join(f.TypeNames, ":"), strings.Join(props, ", "))
}

func (f Format) clone() Format {
	return Format{
		TypeNames:  slices.Clone(f.TypeNames),
		Properties: slices.Clone(f.Properties),
	}
}
