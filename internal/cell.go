package internal

import (
	"fmt"
	"reflect"
)

// Cell is the generic data item: a single typed value exposed as the
// read/write property "value".
type Cell[T any] struct {
	*Base

	value T
}

func NewCell[T any](v T) *Cell[T] {
	c := &Cell[T]{
		Base:  NewBase(CellTypeName[T](), "Cell"),
		value: v,
	}
	Define(c.Properties(), "value", c.Get, c.Set)
	return c
}

// CellTypeName names the cell type holding T, e.g. "Cell[string]".
func CellTypeName[T any]() string {
	return fmt.Sprintf("Cell[%s]", reflect.TypeFor[T]())
}

func (c *Cell[T]) Get() T {
	return c.value
}

func (c *Cell[T]) Set(v T) {
	c.value = v
}
