// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package concat

import (
	"fmt"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/mixedtensor/pkg/core/valuetype"
	"github.com/pkg/errors"
)

// LoopCase classifies a position of the merge-walk over the input and output dense dimensions.
// Adjacent positions with the same LoopCase are fused into one loop level.
type LoopCase int

const (
	caseNone LoopCase = iota

	// CaseShared is a dimension present with the same size in the input and the output.
	CaseShared

	// CaseConcatAxis is the concat dimension: the input covers only part of the output extent.
	CaseConcatAxis

	// CaseOutputOnly is a dimension only present in the output. It's never valid for concat:
	// the operand would have to be replicated along it.
	CaseOutputOnly

	// CaseInputOnly is a dimension only present in the input. It's never valid for concat.
	CaseInputOnly
)

// String implements fmt.Stringer.
func (c LoopCase) String() string {
	switch c {
	case CaseShared:
		return "Shared"
	case CaseConcatAxis:
		return "ConcatAxis"
	case CaseOutputOnly:
		return "OutputOnly"
	case CaseInputOnly:
		return "InputOnly"
	default:
		return "None"
	}
}

// LoopLevel is one (possibly fused) level of the loop nest copying one operand's subspace
// into the output subspace.
type LoopLevel struct {
	Case LoopCase

	// InCount is the number of iterations of the level, and OutCount the extent of the level
	// in the output. They only differ for the concat axis.
	InCount, OutCount int

	// InStride is 0 if the input doesn't vary along the level.
	InStride, OutStride int
}

// String implements fmt.Stringer.
func (l LoopLevel) String() string {
	return fmt.Sprintf("{%s in:%d/%d out:%d/%d}", l.Case, l.InCount, l.InStride, l.OutCount, l.OutStride)
}

// InOutLoop is the loop plan to copy the cells of one operand's subspace into the cells of the
// output subspace, for a concatenation.
//
// Levels go from the outermost to the innermost loop.
type InOutLoop struct {
	Levels []LoopLevel

	// InputSize is the number of cells of one input subspace.
	InputSize int
}

// String implements fmt.Stringer.
func (l *InOutLoop) String() string {
	parts := make([]string, len(l.Levels))
	for ii, level := range l.Levels {
		parts[ii] = level.String()
	}
	return fmt.Sprintf("in_size=%d loops=[%s]", l.InputSize, strings.Join(parts, " "))
}

// PlanLoop builds the InOutLoop of an operand with the given non-trivial dense dimensions,
// relative to the non-trivial dense dimensions of the output. Both lists must be sorted by name.
//
// It returns the loop plan, the offset in the output subspace right after the operand's
// slice along the concat axis (which is where the next operand starts), and the output
// subspace size.
//
// Dimensions of the output missing in the input (other than the concat dimension), or the
// other way around, cannot be concatenated and return an error.
func PlanLoop(inDims []valuetype.Dimension, concatDimension string, outDims []valuetype.Dimension) (
	loop InOutLoop, concatSpan, outputSize int, err error) {
	prevCase := caseNone
	addLevel := func(c LoopCase, inCount, outCount, inStride int) {
		if c == prevCase {
			last := &loop.Levels[len(loop.Levels)-1]
			last.InCount *= inCount
			last.OutCount *= outCount
			return
		}
		loop.Levels = append(loop.Levels, LoopLevel{Case: c, InCount: inCount, OutCount: outCount, InStride: inStride, OutStride: 1})
		prevCase = c
	}

	// Ordered merge-walk over the sorted dimensions.
	inIdx, outIdx := 0, 0
	for inIdx < len(inDims) || outIdx < len(outDims) {
		var cmp int
		switch {
		case inIdx == len(inDims):
			cmp = 1
		case outIdx == len(outDims):
			cmp = -1
		default:
			cmp = strings.Compare(inDims[inIdx].Name, outDims[outIdx].Name)
		}
		switch {
		case cmp < 0:
			// Input only.
			in := inDims[inIdx]
			inIdx++
			return InOutLoop{}, 0, 0, errors.Errorf("dimension %s (%s) of the input is not in the output %v",
				in, CaseInputOnly, outDims)
		case cmp > 0:
			// Output only: the operand has a trivial extent along it.
			out := outDims[outIdx]
			outIdx++
			if out.Name == concatDimension {
				addLevel(CaseConcatAxis, 1, out.Size, 0)
				continue
			}
			return InOutLoop{}, 0, 0, errors.Errorf("dimension %s (%s) of the output is not in the input %v: "+
				"replicating operands is not supported", out, CaseOutputOnly, inDims)
		default:
			in, out := inDims[inIdx], outDims[outIdx]
			inIdx++
			outIdx++
			if out.Name == concatDimension {
				addLevel(CaseConcatAxis, in.Size, out.Size, 1)
				continue
			}
			if in.Size != out.Size {
				return InOutLoop{}, 0, 0, errors.Errorf("dimension %s of the input has a different size in the output (%s)",
					in, out)
			}
			addLevel(CaseShared, in.Size, out.Size, 1)
		}
	}

	// Strides assuming row-major packing: from the innermost to the outermost loop.
	loop.InputSize = 1
	outputSize = 1
	for ii := len(loop.Levels) - 1; ii >= 0; ii-- {
		level := &loop.Levels[ii]
		if level.InStride != 0 {
			level.InStride = loop.InputSize
			loop.InputSize *= level.InCount
		}
		if level.OutCount <= 0 {
			exceptions.Panicf("concat loop plan: invalid output count %d at level %d", level.OutCount, ii)
		}
		level.OutStride = outputSize
		outputSize *= level.OutCount
		// Loop counts differ if and only if this is the concat dimension.
		if level.InCount != level.OutCount {
			if concatSpan != 0 {
				exceptions.Panicf("concat loop plan: more than one level with different input and output counts: %v",
					loop.Levels)
			}
			concatSpan = level.InCount * level.OutStride
		}
	}
	if concatSpan <= 0 {
		exceptions.Panicf("concat loop plan: no concat axis found in %v (concat dimension %q)", loop.Levels, concatDimension)
	}
	return loop, concatSpan, outputSize, nil
}

// Execute runs the loop nest, starting from the given offsets in the input and output cells, and
// calls fn for each pair of input and output cell indices.
func (l *InOutLoop) Execute(inOffset, outOffset int, fn func(inIdx, outIdx int)) {
	if len(l.Levels) == 0 {
		fn(inOffset, outOffset)
		return
	}
	runNestedLoop(l.Levels, inOffset, outOffset, fn)
}

func runNestedLoop(levels []LoopLevel, inIdx, outIdx int, fn func(inIdx, outIdx int)) {
	level := &levels[0]
	if len(levels) == 1 {
		for range level.InCount {
			fn(inIdx, outIdx)
			inIdx += level.InStride
			outIdx += level.OutStride
		}
		return
	}
	inner := levels[1:]
	for range level.InCount {
		runNestedLoop(inner, inIdx, outIdx, fn)
		inIdx += level.InStride
		outIdx += level.OutStride
	}
}

// DenseConcatPlan holds the loop plans for the dense part of the concatenation of two operands.
type DenseConcatPlan struct {
	Left, Right InOutLoop

	// OutputSize is the number of cells of one output subspace.
	OutputSize int

	// RightOffset is the offset in the output subspace where the right operand's cells start.
	// The left operand always starts at 0.
	RightOffset int
}

// NewDenseConcatPlan plans the dense part of the concatenation of operands of types lhs and rhs
// along dimension, given the result type res computed by valuetype.Concat.
func NewDenseConcatPlan(lhs, rhs valuetype.ValueType, dimension string, res valuetype.ValueType) (DenseConcatPlan, error) {
	var plan DenseConcatPlan
	outDims := res.NontrivialIndexedDimensions()
	var err error
	plan.Left, plan.RightOffset, plan.OutputSize, err = PlanLoop(lhs.NontrivialIndexedDimensions(), dimension, outDims)
	if err != nil {
		return DenseConcatPlan{}, errors.WithMessagef(err, "planning left operand %s", lhs)
	}
	var rightSpan, rightOutputSize int
	plan.Right, rightSpan, rightOutputSize, err = PlanLoop(rhs.NontrivialIndexedDimensions(), dimension, outDims)
	if err != nil {
		return DenseConcatPlan{}, errors.WithMessagef(err, "planning right operand %s", rhs)
	}
	if rightSpan <= 0 {
		exceptions.Panicf("concat(%s, %s, %q): right operand has non-positive concat span %d", lhs, rhs, dimension, rightSpan)
	}
	if plan.OutputSize != rightOutputSize || plan.OutputSize != res.DenseSubspaceSize() {
		exceptions.Panicf("concat(%s, %s, %q): inconsistent output subspace sizes: left=%d, right=%d, result type %s=%d",
			lhs, rhs, dimension, plan.OutputSize, rightOutputSize, res, res.DenseSubspaceSize())
	}
	return plan, nil
}

// LeftOffset is the offset in the output subspace where the left operand's cells start: always 0.
func (p *DenseConcatPlan) LeftOffset() int { return 0 }
