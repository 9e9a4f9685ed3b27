// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package value

import (
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/mixedtensor/pkg/core/dtypes"
	"github.com/gomlx/mixedtensor/pkg/core/valuetype"
)

// Builder creates a new Value, one subspace at a time.
type Builder[T dtypes.Supported] interface {
	// AddSubspace adds the address to the value being built, and returns the cells of its
	// subspace, to be filled by the caller. The returned slice is only valid until the next call
	// to AddSubspace or Build.
	//
	// Adding an address that was already added returns the cells of the existing subspace.
	AddSubspace(address []string) []T

	// Build finalizes the value. The builder should not be used afterwards.
	Build() *Value
}

// BuilderFactory creates builders for new values.
type BuilderFactory interface {
	// Name of the factory, as registered with RegisterFactory.
	Name() string

	// CreateBuilder returns a Builder[T] (as any), where T is the Go type of vtype.CellType.
	//
	// numMappedDims and subspaceSize must match vtype, and expectedSubspaces is a hint on the
	// number of subspaces that will be added. Use NewBuilder for a typed version.
	CreateBuilder(vtype valuetype.ValueType, numMappedDims, subspaceSize, expectedSubspaces int) any
}

// NewBuilder returns a typed Builder created by factory.
//
// It panics if T is not the Go type of vtype.CellType.
func NewBuilder[T dtypes.Supported](factory BuilderFactory, vtype valuetype.ValueType,
	numMappedDims, subspaceSize, expectedSubspaces int) Builder[T] {
	if dtype := dtypes.FromGenericsType[T](); dtype != vtype.CellType {
		exceptions.Panicf("NewBuilder[%s] for value type %s", dtype, vtype)
	}
	builder, ok := factory.CreateBuilder(vtype, numMappedDims, subspaceSize, expectedSubspaces).(Builder[T])
	if !ok {
		exceptions.Panicf("factory %q created a builder of the wrong type for %s", factory.Name(), vtype)
	}
	return builder
}

// createBuilder picks the builder layout for the given type.
func createBuilder[T dtypes.Supported](pool *bufferPool, vtype valuetype.ValueType,
	numMappedDims, subspaceSize, expectedSubspaces int) Builder[T] {
	if numMappedDims != vtype.NumMappedDimensions() || subspaceSize != vtype.DenseSubspaceSize() {
		exceptions.Panicf("builder for %s requested with %d mapped dimensions and subspaces of %d cells",
			vtype, numMappedDims, subspaceSize)
	}
	if numMappedDims == 0 {
		return newDenseBuilder[T](pool, vtype, subspaceSize)
	}
	return newMixedBuilder[T](vtype, numMappedDims, subspaceSize, expectedSubspaces)
}

// denseBuilder builds values without mapped dimensions: there is always exactly one subspace.
type denseBuilder[T dtypes.Supported] struct {
	vtype   valuetype.ValueType
	cells   []T
	release func()
}

func newDenseBuilder[T dtypes.Supported](pool *bufferPool, vtype valuetype.ValueType, size int) *denseBuilder[T] {
	b := &denseBuilder[T]{vtype: vtype}
	if pool != nil && pool.accepts(size) {
		pooled := pool.get(vtype.CellType, size)
		b.cells = pooled.flat.([]T)
		clear(b.cells)
		b.release = func() { pool.put(pooled) }
	} else {
		b.cells = make([]T, size)
	}
	return b
}

func (b *denseBuilder[T]) AddSubspace(address []string) []T {
	if len(address) != 0 {
		exceptions.Panicf("AddSubspace(%q) for dense type %s", address, b.vtype)
	}
	return b.cells
}

func (b *denseBuilder[T]) Build() *Value {
	index := NewFastIndex(0, 1)
	index.Add(nil)
	return newValue(b.vtype, index, b.cells, b.release)
}

// mixedBuilder builds values with mapped dimensions. Sparse values are the special case of
// subspaces with a single cell.
type mixedBuilder[T dtypes.Supported] struct {
	vtype        valuetype.ValueType
	subspaceSize int
	index        *FastIndex
	cells        []T
}

func newMixedBuilder[T dtypes.Supported](vtype valuetype.ValueType, numMappedDims, subspaceSize, expectedSubspaces int) *mixedBuilder[T] {
	return &mixedBuilder[T]{
		vtype:        vtype,
		subspaceSize: subspaceSize,
		index:        NewFastIndex(numMappedDims, expectedSubspaces),
		cells:        make([]T, 0, expectedSubspaces*subspaceSize),
	}
}

func (b *mixedBuilder[T]) AddSubspace(address []string) []T {
	subspace, added := b.index.Add(address)
	size := b.subspaceSize
	if added {
		start := len(b.cells)
		b.cells = slices.Grow(b.cells, size)[:start+size]
	}
	return b.cells[subspace*size : (subspace+1)*size]
}

func (b *mixedBuilder[T]) Build() *Value {
	return newValue(b.vtype, b.index, b.cells, nil)
}
