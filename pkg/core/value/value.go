// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package value holds tensor values: a ValueType, a sparse Index from addresses to subspaces,
// and the packed cells of all subspaces, plus the builders used by operations to create new
// values.
//
// Cells are always stored as a flat slice of the Go type corresponding to the cell type
// (see dtypes.Supported), with the subspaces stored contiguously in index order: subspace i
// occupies cells [i*subspaceSize, (i+1)*subspaceSize).
package value

import (
	"reflect"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/mixedtensor/pkg/core/dtypes"
	"github.com/gomlx/mixedtensor/pkg/core/valuetype"
	"github.com/pkg/errors"
)

// Value is a tensor value. It is immutable once built, and safe for concurrent reads.
type Value struct {
	vtype valuetype.ValueType
	index Index

	// cells is always a slice of the Go type of vtype.CellType.
	cells any

	// release, if set, returns the cells to the pool they were taken from.
	release func()
}

// Type returns the value type.
func (v *Value) Type() valuetype.ValueType { return v.vtype }

// Index returns the sparse index of the value.
func (v *Value) Index() Index { return v.index }

// Cells returns the flat cells slice, of type []T where T is the Go type of the cell type.
func (v *Value) Cells() any { return v.cells }

// NumSubspaces returns the number of addresses (and subspaces) in the value.
func (v *Value) NumSubspaces() int { return v.index.Size() }

// Finalize releases the cells of the value back to its factory pool, if any.
// The value should not be used afterwards.
func (v *Value) Finalize() {
	if v.release != nil {
		v.release()
		v.release = nil
	}
	v.cells = nil
	v.index = nil
}

// CellsAs returns the flat cells of v as []T. It panics if T doesn't match the cell type.
func CellsAs[T dtypes.Supported](v *Value) []T {
	cells, ok := v.cells.([]T)
	if !ok {
		exceptions.Panicf("value of type %s has cells %T, not []%s", v.vtype, v.cells, dtypes.FromGenericsType[T]())
	}
	return cells
}

// SubspaceCells returns the cells of the subspace at the given address, or nil if the address
// is not in the value.
func SubspaceCells[T dtypes.Supported](v *Value, address ...string) []T {
	numDims := v.index.NumMappedDimensions()
	if len(address) != numDims {
		exceptions.Panicf("SubspaceCells(%q): value of type %s takes %d labels", address, v.vtype, numDims)
	}
	var viewDims []int
	for dim := range numDims {
		viewDims = append(viewDims, dim)
	}
	view := v.index.CreateView(viewDims)
	view.Lookup(address)
	subspace, found := view.Next(nil)
	if !found {
		return nil
	}
	size := v.vtype.DenseSubspaceSize()
	return CellsAs[T](v)[subspace*size : (subspace+1)*size]
}

// FromCells creates a value with the given type from a list of addresses (in order), and the
// flat cells of the corresponding subspaces.
//
// Dense values (no mapped dimensions) take one empty address, or addresses can be nil.
func FromCells[T dtypes.Supported](vtype valuetype.ValueType, addresses [][]string, cells []T) (*Value, error) {
	if !vtype.Ok() {
		return nil, errors.Errorf("FromCells: invalid value type")
	}
	if dtype := dtypes.FromGenericsType[T](); dtype != vtype.CellType {
		return nil, errors.Errorf("FromCells: cells of %s given for value type %s", dtype, vtype)
	}
	numDims := vtype.NumMappedDimensions()
	if numDims == 0 && addresses == nil {
		addresses = [][]string{{}}
	}
	subspaceSize := vtype.DenseSubspaceSize()
	if len(cells) != len(addresses)*subspaceSize {
		return nil, errors.Errorf("FromCells: %d addresses of %d cells require %d cells, got %d for type %s",
			len(addresses), subspaceSize, len(addresses)*subspaceSize, len(cells), vtype)
	}
	index := NewFastIndex(numDims, len(addresses))
	for ii, address := range addresses {
		if len(address) != numDims {
			return nil, errors.Errorf("FromCells: address #%d %q has %d labels, type %s requires %d",
				ii, address, len(address), vtype, numDims)
		}
		if _, added := index.Add(address); !added {
			return nil, errors.Errorf("FromCells: address #%d %q is duplicate", ii, address)
		}
	}
	return &Value{vtype: vtype, index: index, cells: cells}, nil
}

// MustFromCells is like FromCells, but panics on error.
func MustFromCells[T dtypes.Supported](vtype valuetype.ValueType, addresses [][]string, cells []T) *Value {
	v, err := FromCells(vtype, addresses, cells)
	if err != nil {
		exceptions.Panicf("%+v", err)
	}
	return v
}

// FromDense creates a value for a type without mapped dimensions.
func FromDense[T dtypes.Supported](vtype valuetype.ValueType, cells []T) (*Value, error) {
	if vtype.NumMappedDimensions() > 0 {
		return nil, errors.Errorf("FromDense: type %s has mapped dimensions", vtype)
	}
	return FromCells(vtype, nil, cells)
}

// newValue is used by builders, which guarantee the consistency of the parts.
func newValue(vtype valuetype.ValueType, index Index, cells any, release func()) *Value {
	if elem := reflect.TypeOf(cells).Elem(); dtypes.FromGoType(elem) != vtype.CellType {
		exceptions.Panicf("cells of type %s built for value type %s", elem, vtype)
	}
	return &Value{vtype: vtype, index: index, cells: cells, release: release}
}
