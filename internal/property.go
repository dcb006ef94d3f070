package internal

import (
	"fmt"
	"reflect"

	"github.com/AnatoleLucet/blok/errors"
)

// Property binds a descriptor to its accessors.
type Property struct {
	desc PropertyDescriptor
	get  func() any
	set  func(any)
}

func (p *Property) Descriptor() PropertyDescriptor {
	return p.desc
}

// PropertySet is the name -> property map owned by an object.
type PropertySet struct {
	props map[string]*Property
	order []string
}

// Lookup returns the property registered under name.
func (ps *PropertySet) Lookup(name string) (*Property, bool) {
	p, ok := ps.props[name]
	return p, ok
}

// Descriptors lists the descriptors in declaration order.
func (ps *PropertySet) Descriptors() []PropertyDescriptor {
	out := make([]PropertyDescriptor, 0, len(ps.order))
	for _, name := range ps.order {
		out = append(out, ps.props[name].desc)
	}
	return out
}

func (ps *PropertySet) add(p *Property) {
	if ps.props == nil {
		ps.props = make(map[string]*Property)
	}
	if _, exists := ps.props[p.desc.Name]; exists {
		panic(fmt.Sprintf("property %q declared twice", p.desc.Name))
	}
	ps.props[p.desc.Name] = p
	ps.order = append(ps.order, p.desc.Name)
}

// Define declares a property of type T on ps. A nil get or set removes the
// matching right. Declaring the same name twice panics: it is a mistake in
// the object's own declaration.
func Define[T any](ps *PropertySet, name string, get func() T, set func(T)) {
	p := &Property{desc: PropertyDescriptor{Name: name, Type: reflect.TypeFor[T]()}}

	if get != nil {
		p.desc.Rights |= Read
		p.get = func() any { return get() }
	}
	if set != nil {
		p.desc.Rights |= Write
		p.set = func(v any) { set(as[T](v)) }
	}

	ps.add(p)
}

// Get reads the property name of o. T must be exactly the declared type.
func Get[T any](o Object, name string) (T, error) {
	var zero T

	p, err := lookup[T](o, name, Read, "Get")
	if err != nil {
		return zero, err
	}

	return as[T](p.get()), nil
}

// Set writes the property name of o. T must be exactly the declared type.
func Set[T any](o Object, name string, v T) error {
	p, err := lookup[T](o, name, Write, "Set")
	if err != nil {
		return err
	}

	p.set(v)
	return nil
}

func lookup[T any](o Object, name string, want Rights, method string) (*Property, error) {
	p, ok := o.Properties().Lookup(name)
	if !ok {
		return nil, errors.WrapFatal(
			fmt.Errorf("%w: %q", errors.ErrNoSuchProperty, name), "Object", method, "property lookup")
	}

	if typ := reflect.TypeFor[T](); typ != p.desc.Type {
		return nil, errors.WrapFatal(
			fmt.Errorf("%w: %q is %s, not %s", errors.ErrTypeMismatch, name, p.desc.Type, typ),
			"Object", method, "type check")
	}

	if !p.desc.Rights.Has(want) {
		return nil, errors.WrapFatal(
			fmt.Errorf("%w: %q grants %s", errors.ErrAccessDenied, name, p.desc.Rights),
			"Object", method, "access check")
	}

	return p, nil
}

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}
