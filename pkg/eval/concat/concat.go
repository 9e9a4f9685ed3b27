// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package concat implements the concatenation of two mixed tensor values along an indexed
// dimension.
//
// A concat is planned once per combination of operand types (NewPlan), and the resulting
// Instruction is executed on many pairs of values. The plan has two parts:
//
//   - SparseJoinPlan: the result addresses are the inner join of the operands' addresses on the
//     mapped dimensions they share.
//   - DenseConcatPlan: for each joined pair of subspaces, a loop plan per operand copies its cells
//     into its slice of the result subspace. Dimensions with the same layout are fused into a
//     single loop level.
//
// When both operands are dense and their cells go back-to-back in the result, a flat kernel
// that copies both cell arrays is used instead.
package concat

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/mixedtensor/pkg/core/value"
	"github.com/gomlx/mixedtensor/pkg/core/valuetype"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Plan of the concatenation of values of two given types along a dimension.
//
// It is immutable once created, and can be shared by concurrent executions.
type Plan struct {
	LHSType, RHSType, ResultType valuetype.ValueType
	Dimension                    string

	SparseJoin  SparseJoinPlan
	DenseConcat DenseConcatPlan

	factory value.BuilderFactory
	kernels concatKernels
	flat    bool
}

// NewPlan plans the concatenation of values of type lhsType and rhsType along dimension.
// The result values are created with factory.
//
// It returns an error if the types cannot be concatenated.
func NewPlan(lhsType, rhsType valuetype.ValueType, dimension string, factory value.BuilderFactory) (*Plan, error) {
	resultType, err := valuetype.Concat(lhsType, rhsType, dimension)
	if err != nil {
		return nil, err
	}
	plan := &Plan{
		LHSType:    lhsType,
		RHSType:    rhsType,
		ResultType: resultType,
		Dimension:  dimension,
		SparseJoin: NewSparseJoinPlan(lhsType, rhsType),
		factory:    factory,
	}
	plan.DenseConcat, err = NewDenseConcatPlan(lhsType, rhsType, dimension, resultType)
	if err != nil {
		return nil, errors.WithMessagef(err, "concat(%s, %s, %q)", lhsType, rhsType, dimension)
	}
	var found bool
	plan.kernels, found = concatDTypeMap.Get(lhsType.CellType, rhsType.CellType, resultType.CellType)
	if !found {
		return nil, errors.Errorf("concat(%s, %s, %q): cell types %s, %s -> %s not supported",
			lhsType, rhsType, dimension, lhsType.CellType, rhsType.CellType, resultType.CellType)
	}
	plan.flat = useFlatConcat(plan)
	if klog.V(1).Enabled() {
		klog.Infof("concat plan: %s", plan)
	}
	return plan, nil
}

// MustNewPlan is like NewPlan, but panics on error.
func MustNewPlan(lhsType, rhsType valuetype.ValueType, dimension string, factory value.BuilderFactory) *Plan {
	plan, err := NewPlan(lhsType, rhsType, dimension, factory)
	if err != nil {
		panic(err)
	}
	return plan
}

// IsFlat returns whether the plan executes with the flat kernel: both operands dense and laid out
// back-to-back in the result.
func (p *Plan) IsFlat() bool { return p.flat }

// Factory used to create the result values.
func (p *Plan) Factory() value.BuilderFactory { return p.factory }

// String implements fmt.Stringer, with a multi-line description of the plan.
func (p *Plan) String() string {
	var sb strings.Builder
	kernel := "generic"
	if p.flat {
		kernel = "flat"
	}
	_, _ = fmt.Fprintf(&sb, "concat(%s, %s, %q) -> %s [%s kernel, factory %q]\n",
		p.LHSType, p.RHSType, p.Dimension, p.ResultType, kernel, p.factory.Name())
	_, _ = fmt.Fprintf(&sb, "  sparse: sources=%v lhs_overlap=%v rhs_overlap=%v\n",
		p.SparseJoin.Sources, p.SparseJoin.LHSOverlap, p.SparseJoin.RHSOverlap)
	subspaceBytes := uint64(p.DenseConcat.OutputSize * p.ResultType.CellType.Size())
	_, _ = fmt.Fprintf(&sb, "  dense: output_size=%s (%s per subspace), right_offset=%d\n",
		humanize.Comma(int64(p.DenseConcat.OutputSize)), humanize.IBytes(subspaceBytes), p.DenseConcat.RightOffset)
	_, _ = fmt.Fprintf(&sb, "  left:  %s\n", &p.DenseConcat.Left)
	_, _ = fmt.Fprintf(&sb, "  right: %s", &p.DenseConcat.Right)
	return sb.String()
}

// checkOperands panics if the operands don't have the types the plan was created for.
func (p *Plan) checkOperands(lhs, rhs *value.Value) {
	if !lhs.Type().Equal(p.LHSType) || !rhs.Type().Equal(p.RHSType) {
		exceptions.Panicf("concat plan for (%s, %s) executed with values of types (%s, %s)",
			p.LHSType, p.RHSType, lhs.Type(), rhs.Type())
	}
}

// Instruction is a Plan bound to the kernel selected for it.
type Instruction struct {
	plan *Plan
	fn   concatFn
}

// MakeInstruction plans the concatenation of values of type lhsType and rhsType along dimension,
// and selects its kernel.
func MakeInstruction(lhsType, rhsType valuetype.ValueType, dimension string, factory value.BuilderFactory) (*Instruction, error) {
	plan, err := NewPlan(lhsType, rhsType, dimension, factory)
	if err != nil {
		return nil, err
	}
	return NewInstruction(plan), nil
}

// NewInstruction selects the kernel for the plan.
func NewInstruction(plan *Plan) *Instruction {
	inst := &Instruction{plan: plan, fn: plan.kernels.generic}
	if plan.flat {
		inst.fn = plan.kernels.flat
	}
	return inst
}

// Plan returns the plan executed by the instruction.
func (inst *Instruction) Plan() *Plan { return inst.plan }

// Execute concatenates lhs and rhs, whose types must be the ones the instruction was made for,
// and returns a new value created with the plan's factory.
//
// It is safe for concurrent use.
func (inst *Instruction) Execute(lhs, rhs *value.Value) *value.Value {
	inst.plan.checkOperands(lhs, rhs)
	return inst.fn(inst.plan, lhs, rhs)
}

// Concat concatenates lhs and rhs along dimension, creating the result with factory.
//
// It plans the concatenation for the types of the values and always executes the generic
// kernel: use MakeInstruction (or a PlanCache) to execute the same concat repeatedly.
func Concat(lhs, rhs *value.Value, dimension string, factory value.BuilderFactory) (*value.Value, error) {
	plan, err := NewPlan(lhs.Type(), rhs.Type(), dimension, factory)
	if err != nil {
		return nil, err
	}
	return plan.kernels.generic(plan, lhs, rhs), nil
}

// MustConcat is like Concat, but panics on error.
func MustConcat(lhs, rhs *value.Value, dimension string, factory value.BuilderFactory) *value.Value {
	result, err := Concat(lhs, rhs, dimension, factory)
	if err != nil {
		panic(err)
	}
	return result
}
