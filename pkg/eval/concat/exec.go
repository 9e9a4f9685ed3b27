// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package concat

import (
	"github.com/gomlx/mixedtensor/pkg/core/dtypes"
	"github.com/gomlx/mixedtensor/pkg/core/value"
)

// execConcatConverted returns the kernels for operands whose cells are converted to the result
// cell type O.
func execConcatConverted[L, R, O dtypes.Supported](convertLHS func(L) O, convertRHS func(R) O) concatKernels {
	return concatKernels{
		generic: func(plan *Plan, lhs, rhs *value.Value) *value.Value {
			return execConcatGeneric(plan, lhs, rhs, convertLHS, convertRHS)
		},
		flat: func(plan *Plan, lhs, rhs *value.Value) *value.Value {
			return execConcatFlat(plan, lhs, rhs, convertLHS, convertRHS)
		},
	}
}

// execConcatSameType returns the kernels for operands and result all of cell type T.
func execConcatSameType[T dtypes.Supported]() concatKernels {
	return concatKernels{
		generic: execConcatGenericSameType[T],
		flat:    execConcatFlatSameType[T],
	}
}

// execConcatGeneric joins the addresses of the operands, and for each pair of joined subspaces,
// copies the cells of both operands into the result subspace.
func execConcatGeneric[L, R, O dtypes.Supported](plan *Plan, lhs, rhs *value.Value,
	convertLHS func(L) O, convertRHS func(R) O) *value.Value {
	lhsCells, rhsCells := value.CellsAs[L](lhs), value.CellsAs[R](rhs)
	var dst []O
	copyLHS := func(inIdx, outIdx int) { dst[outIdx] = convertLHS(lhsCells[inIdx]) }
	copyRHS := func(inIdx, outIdx int) { dst[outIdx] = convertRHS(rhsCells[inIdx]) }
	return runGenericConcat(plan, lhs, rhs, func(subspaceCells []O) { dst = subspaceCells }, copyLHS, copyRHS)
}

func execConcatGenericSameType[T dtypes.Supported](plan *Plan, lhs, rhs *value.Value) *value.Value {
	lhsCells, rhsCells := value.CellsAs[T](lhs), value.CellsAs[T](rhs)
	var dst []T
	copyLHS := func(inIdx, outIdx int) { dst[outIdx] = lhsCells[inIdx] }
	copyRHS := func(inIdx, outIdx int) { dst[outIdx] = rhsCells[inIdx] }
	return runGenericConcat(plan, lhs, rhs, func(subspaceCells []T) { dst = subspaceCells }, copyLHS, copyRHS)
}

// runGenericConcat creates the result builder and, for each pair of joined subspaces of lhs and
// rhs, adds the result subspace (passed to setDst) and runs the loop plans of both operands.
//
// copyLHS and copyRHS copy one cell of the corresponding operand into the current result subspace.
func runGenericConcat[O dtypes.Supported](plan *Plan, lhs, rhs *value.Value,
	setDst func(subspaceCells []O), copyLHS, copyRHS func(inIdx, outIdx int)) *value.Value {
	dense := &plan.DenseConcat
	state := NewSparseJoinState(&plan.SparseJoin, lhs.Index(), rhs.Index())
	builder := value.NewBuilder[O](plan.factory, plan.ResultType, plan.SparseJoin.NumMappedDimensions(),
		dense.OutputSize, state.FirstIndex.Size())
	for lhsSubspace, rhsSubspace := range state.Join() {
		setDst(builder.AddSubspace(state.FullAddress))
		dense.Left.Execute(lhsSubspace*dense.Left.InputSize, dense.LeftOffset(), copyLHS)
		dense.Right.Execute(rhsSubspace*dense.Right.InputSize, dense.RightOffset, copyRHS)
	}
	return builder.Build()
}

// execConcatFlat copies the cells of both dense operands one after the other.
func execConcatFlat[L, R, O dtypes.Supported](plan *Plan, lhs, rhs *value.Value,
	convertLHS func(L) O, convertRHS func(R) O) *value.Value {
	lhsCells, rhsCells := value.CellsAs[L](lhs), value.CellsAs[R](rhs)
	builder := value.NewBuilder[O](plan.factory, plan.ResultType, 0, plan.DenseConcat.OutputSize, 1)
	dst := builder.AddSubspace(nil)
	for ii, cell := range lhsCells {
		dst[ii] = convertLHS(cell)
	}
	dst = dst[len(lhsCells):]
	for ii, cell := range rhsCells {
		dst[ii] = convertRHS(cell)
	}
	return builder.Build()
}

func execConcatFlatSameType[T dtypes.Supported](plan *Plan, lhs, rhs *value.Value) *value.Value {
	lhsCells, rhsCells := value.CellsAs[T](lhs), value.CellsAs[T](rhs)
	builder := value.NewBuilder[T](plan.factory, plan.ResultType, 0, plan.DenseConcat.OutputSize, 1)
	dst := builder.AddSubspace(nil)
	n := copy(dst, lhsCells)
	copy(dst[n:], rhsCells)
	return builder.Build()
}
