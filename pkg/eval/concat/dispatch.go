// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package concat

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/mixedtensor/pkg/core/dtypes"
	"github.com/gomlx/mixedtensor/pkg/core/value"
)

// concatFn executes a concat Plan on the given operands.
type concatFn func(plan *Plan, lhs, rhs *value.Value) *value.Value

// concatKernels are the two executors of a concat, for one combination of cell types.
type concatKernels struct {
	// generic handles any combination of mapped and indexed dimensions.
	generic concatFn

	// flat requires dense operands whose cells can be copied back-to-back into the result.
	flat concatFn
}

// registerPriority of a kernel: a registration only replaces a previous one of lower or equal priority.
type registerPriority int

const (
	priorityGeneric registerPriority = iota

	// priorityTyped is used for kernels specialized to some combination of cell types.
	priorityTyped
)

// DTypeTripleMap holds concat kernels keyed by (left cell type, right cell type, result cell type).
type DTypeTripleMap struct {
	Name     string
	kernels  [dtypes.MaxDTypes][dtypes.MaxDTypes][dtypes.MaxDTypes]concatKernels
	priority [dtypes.MaxDTypes][dtypes.MaxDTypes][dtypes.MaxDTypes]registerPriority
}

// NewDTypeTripleMap creates an empty map.
func NewDTypeTripleMap(name string) *DTypeTripleMap {
	return &DTypeTripleMap{Name: name}
}

func (m *DTypeTripleMap) checkDTypes(lhs, rhs, out dtypes.DType) {
	for _, dtype := range []dtypes.DType{lhs, rhs, out} {
		if dtype <= dtypes.InvalidDType || dtype >= dtypes.MaxDTypes {
			exceptions.Panicf("%s: dtype %s not supported", m.Name, dtype)
		}
	}
}

// Register the kernels for a combination of cell types. It is a no-op if kernels were already
// registered with a higher priority.
func (m *DTypeTripleMap) Register(lhs, rhs, out dtypes.DType, priority registerPriority, kernels concatKernels) {
	m.checkDTypes(lhs, rhs, out)
	if m.kernels[lhs][rhs][out].generic != nil && m.priority[lhs][rhs][out] > priority {
		return
	}
	m.kernels[lhs][rhs][out] = kernels
	m.priority[lhs][rhs][out] = priority
}

// Get returns the kernels registered for the combination of cell types, and whether they were found.
func (m *DTypeTripleMap) Get(lhs, rhs, out dtypes.DType) (kernels concatKernels, found bool) {
	if lhs <= dtypes.InvalidDType || lhs >= dtypes.MaxDTypes ||
		rhs <= dtypes.InvalidDType || rhs >= dtypes.MaxDTypes ||
		out <= dtypes.InvalidDType || out >= dtypes.MaxDTypes {
		return concatKernels{}, false
	}
	kernels = m.kernels[lhs][rhs][out]
	return kernels, kernels.generic != nil
}

//go:generate go run ../../../internal/cmd/concat_dispatcher

// concatDTypeMap is filled by gen_register_dtypes.go.
var concatDTypeMap = NewDTypeTripleMap("Concat")

// useFlatConcat returns whether plan can use the flat kernel: no mapped dimensions, and the
// operands' cells laid out back-to-back in the result.
func useFlatConcat(plan *Plan) bool {
	dense := &plan.DenseConcat
	return plan.SparseJoin.NumMappedDimensions() == 0 &&
		plan.ResultType.IsDense() &&
		dense.OutputSize == dense.Left.InputSize+dense.Right.InputSize &&
		dense.RightOffset == dense.Left.InputSize
}
