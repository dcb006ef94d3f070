package internal

import (
	"slices"

	"github.com/google/uuid"
)

// Object is what every runtime entity is: something with an identity, a
// format and a set of properties.
type Object interface {
	ID() uuid.UUID
	Format() Format
	Properties() *PropertySet
}

// Destroyer is implemented by objects that must be torn down explicitly.
type Destroyer interface {
	Destroy()
}

// Base implements Object. Embed it and call Derive to add a type name.
type Base struct {
	id        uuid.UUID
	typeNames []string
	props     PropertySet
}

// NewBase returns a base whose type chain is typeNames (most derived first)
// followed by "Object".
func NewBase(typeNames ...string) *Base {
	return &Base{
		id:        uuid.New(),
		typeNames: append(slices.Clone(typeNames), "Object"),
	}
}

func (b *Base) ID() uuid.UUID {
	return b.id
}

// TypeName returns the most derived type name.
func (b *Base) TypeName() string {
	return b.typeNames[0]
}

// Derive pushes a more derived type name in front of the chain.
func (b *Base) Derive(typeName string) {
	if typeName == "" || slices.Contains(b.typeNames, typeName) {
		return
	}
	b.typeNames = slices.Insert(b.typeNames, 0, typeName)
}

func (b *Base) Format() Format {
	return Format{
		TypeNames:  slices.Clone(b.typeNames),
		Properties: b.props.Descriptors(),
	}
}

func (b *Base) Properties() *PropertySet {
	return &b.props
}
