// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package valuetype defines ValueType, the type of a tensor value: a set of named dimensions,
// each either mapped (sparse) or indexed (dense), plus the cell type.
//
// ## Glossary
//
//   - Mapped dimension: an open label space. A value holds any number of labels along it, and
//     a set of labels, one per mapped dimension, is an address.
//   - Indexed dimension: a fixed size axis, indexed 0..size-1.
//   - Subspace: the dense block of cells of all indexed dimensions, for one address. Its size is
//     the product of the indexed dimension sizes.
//   - Trivial dimension: an indexed dimension of size 1; it doesn't change the layout of cells.
//
// Dimensions are always kept sorted by name, and cells of a subspace are laid out in row-major
// order of the sorted indexed dimensions: the first name is the outermost (slowest) axis.
//
// Example: `tensor<float>(id{},x[3])` has one mapped dimension "id" and one indexed dimension
// "x" of size 3. Each address (a label for "id") maps to 3 float cells.
package valuetype

import (
	"slices"
	"strconv"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/mixedtensor/pkg/core/dtypes"
	"github.com/pkg/errors"
)

// MappedSize is the Size of mapped (sparse) dimensions.
const MappedSize = 0

// Dimension of a ValueType.
type Dimension struct {
	Name string

	// Size of an indexed dimension, or MappedSize for mapped dimensions.
	Size int
}

// Mapped returns a mapped (sparse) dimension with the given name.
func Mapped(name string) Dimension { return Dimension{Name: name, Size: MappedSize} }

// Indexed returns an indexed (dense) dimension with the given name and size.
func Indexed(name string, size int) Dimension { return Dimension{Name: name, Size: size} }

// IsMapped returns whether it's a mapped (sparse) dimension.
func (d Dimension) IsMapped() bool { return d.Size == MappedSize }

// IsIndexed returns whether it's an indexed (dense) dimension.
func (d Dimension) IsIndexed() bool { return d.Size != MappedSize }

// IsTrivial returns whether it's an indexed dimension of size 1.
func (d Dimension) IsTrivial() bool { return d.Size == 1 }

// String implements fmt.Stringer, in the type spec format, e.g.: "x[3]" or "id{}".
func (d Dimension) String() string {
	if d.IsMapped() {
		return d.Name + "{}"
	}
	return d.Name + "[" + strconv.Itoa(d.Size) + "]"
}

// ValueType is the type of a tensor value. Use Make to create a new one.
//
// ValueType is immutable: methods that return slices of dimensions return the internal
// slices, and they should not be modified.
type ValueType struct {
	CellType   dtypes.DType
	dimensions []Dimension
}

// Invalid returns the invalid (error) type.
//
// Invalid().Ok() == false.
func Invalid() ValueType {
	return ValueType{CellType: dtypes.InvalidDType}
}

// Double returns the scalar type, which always holds one Float64 cell.
func Double() ValueType {
	return ValueType{CellType: dtypes.Float64}
}

// Make returns a ValueType with the given cell type and dimensions, in any order.
//
// Dimension names must be unique and non-empty, and indexed dimensions must have a positive size.
// Scalars (no dimensions) are always Float64, regardless of the cell type requested.
func Make(cellType dtypes.DType, dimensions ...Dimension) (ValueType, error) {
	if !cellType.IsSupported() {
		return Invalid(), errors.Errorf("valuetype.Make: unsupported cell type %s", cellType)
	}
	if len(dimensions) == 0 {
		return Double(), nil
	}
	dims := slices.Clone(dimensions)
	slices.SortFunc(dims, func(a, b Dimension) int { return strings.Compare(a.Name, b.Name) })
	for ii, dim := range dims {
		if dim.Name == "" {
			return Invalid(), errors.Errorf("valuetype.Make: dimension #%d has an empty name", ii)
		}
		if dim.Size < 0 {
			return Invalid(), errors.Errorf("valuetype.Make: indexed dimension %q has invalid size %d", dim.Name, dim.Size)
		}
		if ii > 0 && dims[ii-1].Name == dim.Name {
			return Invalid(), errors.Errorf("valuetype.Make: duplicate dimension name %q", dim.Name)
		}
	}
	return ValueType{CellType: cellType, dimensions: dims}, nil
}

// MustMake is like Make, but panics on error.
func MustMake(cellType dtypes.DType, dimensions ...Dimension) ValueType {
	t, err := Make(cellType, dimensions...)
	if err != nil {
		exceptions.Panicf("%+v", err)
	}
	return t
}

// Ok returns whether this is a valid type. A zero ValueType{} is invalid.
func (t ValueType) Ok() bool { return t.CellType != dtypes.InvalidDType }

// Rank returns the number of dimensions.
func (t ValueType) Rank() int { return len(t.dimensions) }

// IsScalar returns whether the type has no dimensions.
func (t ValueType) IsScalar() bool { return t.Ok() && len(t.dimensions) == 0 }

// Dimensions returns all dimensions sorted by name. Don't modify the returned slice.
func (t ValueType) Dimensions() []Dimension { return t.dimensions }

// MappedDimensions returns the mapped dimensions sorted by name.
func (t ValueType) MappedDimensions() []Dimension {
	return t.filter(Dimension.IsMapped)
}

// IndexedDimensions returns the indexed dimensions sorted by name.
func (t ValueType) IndexedDimensions() []Dimension {
	return t.filter(Dimension.IsIndexed)
}

// NontrivialIndexedDimensions returns the indexed dimensions with size > 1, sorted by name.
func (t ValueType) NontrivialIndexedDimensions() []Dimension {
	return t.filter(func(d Dimension) bool { return d.IsIndexed() && !d.IsTrivial() })
}

func (t ValueType) filter(keep func(d Dimension) bool) []Dimension {
	var dims []Dimension
	for _, dim := range t.dimensions {
		if keep(dim) {
			dims = append(dims, dim)
		}
	}
	return dims
}

// NumMappedDimensions returns the number of mapped dimensions, that is, the length of an address.
func (t ValueType) NumMappedDimensions() int {
	count := 0
	for _, dim := range t.dimensions {
		if dim.IsMapped() {
			count++
		}
	}
	return count
}

// IsDense returns whether the type has dimensions, and they are all indexed.
func (t ValueType) IsDense() bool {
	return t.Ok() && len(t.dimensions) > 0 && t.NumMappedDimensions() == 0
}

// IsSparse returns whether the type has dimensions, and they are all mapped.
func (t ValueType) IsSparse() bool {
	return t.Ok() && len(t.dimensions) > 0 && t.NumMappedDimensions() == len(t.dimensions)
}

// DenseSubspaceSize returns the number of cells per address: the product of the indexed
// dimension sizes. It is 1 for scalars and for sparse types.
func (t ValueType) DenseSubspaceSize() int {
	size := 1
	for _, dim := range t.dimensions {
		if dim.IsIndexed() {
			size *= dim.Size
		}
	}
	return size
}

// DimensionIndex returns the position of the named dimension in Dimensions, or -1 if not present.
func (t ValueType) DimensionIndex(name string) int {
	idx, found := slices.BinarySearchFunc(t.dimensions, name, func(d Dimension, name string) int {
		return strings.Compare(d.Name, name)
	})
	if !found {
		return -1
	}
	return idx
}

// Dimension returns the named dimension, and whether it was found.
func (t ValueType) Dimension(name string) (Dimension, bool) {
	idx := t.DimensionIndex(name)
	if idx < 0 {
		return Dimension{}, false
	}
	return t.dimensions[idx], true
}

// Equal returns whether t and t2 have the same cell type and dimensions.
func (t ValueType) Equal(t2 ValueType) bool {
	return t.CellType == t2.CellType && slices.Equal(t.dimensions, t2.dimensions)
}

// String implements fmt.Stringer, in the type spec format. E.g.: "tensor<float>(id{},x[3])".
func (t ValueType) String() string {
	if !t.Ok() {
		return "error"
	}
	if len(t.dimensions) == 0 {
		return "double"
	}
	var sb strings.Builder
	sb.WriteString("tensor")
	if t.CellType != dtypes.Float64 {
		sb.WriteString("<" + t.CellType.SpecName() + ">")
	}
	sb.WriteByte('(')
	for ii, dim := range t.dimensions {
		if ii > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(dim.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
