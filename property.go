package blok

import (
	"github.com/AnatoleLucet/blok/errors"
	"github.com/AnatoleLucet/blok/internal"
)

// Get reads property name of o. T must be exactly the declared type and the
// property must be readable.
func Get[T any](o Object, name string) (T, error) {
	return internal.Get[T](o, name)
}

// Set writes property name of o. T must be exactly the declared type and
// the property must be writable.
func Set[T any](o Object, name string, v T) error {
	return internal.Set(o, name, v)
}

// DefineProperty declares a property of type T on o. Passing a nil get or
// set makes the property write-only or read-only. Declaring a name twice
// panics.
func DefineProperty[T any](o Object, name string, get func() T, set func(T)) {
	internal.Define(o.Properties(), name, get, set)
}

// Describe builds the descriptor of a property of type T, for declaring
// formats up front.
func Describe[T any](name string, rights Rights) PropertyDescriptor {
	return internal.DescriptorOf[T](name, rights)
}

// Cell is the generic data item stored in sockets. Its value is also the
// read/write property "value".
type Cell[T any] = internal.Cell[T]

// NewCell wraps v in a data item.
func NewCell[T any](v T) *Cell[T] {
	return internal.NewCell(v)
}

// CellFormat is the format of a Cell holding T.
func CellFormat[T any]() Format {
	return NewFormat(internal.CellTypeName[T](), "Cell", "Object").With(Describe[T]("value", ReadWrite))
}

// Value reads the value of a data item produced as a Cell[T]. A nil item,
// a key that was not produced yet, is an error.
func Value[T any](item Object) (T, error) {
	if item == nil {
		var zero T
		return zero, errors.WrapInvalid(errors.ErrNotProduced, "Cell", "Value", "item check")
	}
	return Get[T](item, "value")
}
