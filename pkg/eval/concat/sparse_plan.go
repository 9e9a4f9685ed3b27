// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package concat

import (
	"iter"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/mixedtensor/pkg/core/value"
	"github.com/gomlx/mixedtensor/pkg/core/valuetype"
)

// Source of a mapped dimension of the result of a join.
type Source int

const (
	SourceLeft Source = iota
	SourceRight
	SourceBoth
)

// String implements fmt.Stringer.
func (s Source) String() string {
	switch s {
	case SourceLeft:
		return "Left"
	case SourceRight:
		return "Right"
	case SourceBoth:
		return "Both"
	default:
		return "Unknown"
	}
}

// SparseJoinPlan describes how the addresses of the result are composed from the addresses of
// the two operands: an inner join on the mapped dimensions they share.
type SparseJoinPlan struct {
	// Sources has one entry per mapped dimension of the result, sorted by name.
	Sources []Source

	// LHSOverlap and RHSOverlap are the positions of the shared dimensions in the addresses of
	// the left and right operands. They have the same length.
	LHSOverlap, RHSOverlap []int
}

// NewSparseJoinPlan plans the join of the mapped dimensions of lhs and rhs.
func NewSparseJoinPlan(lhs, rhs valuetype.ValueType) SparseJoinPlan {
	var plan SparseJoinPlan
	lhsDims, rhsDims := lhs.MappedDimensions(), rhs.MappedDimensions()
	lhsIdx, rhsIdx := 0, 0
	for lhsIdx < len(lhsDims) || rhsIdx < len(rhsDims) {
		var cmp int
		switch {
		case lhsIdx == len(lhsDims):
			cmp = 1
		case rhsIdx == len(rhsDims):
			cmp = -1
		default:
			cmp = strings.Compare(lhsDims[lhsIdx].Name, rhsDims[rhsIdx].Name)
		}
		switch {
		case cmp < 0:
			plan.Sources = append(plan.Sources, SourceLeft)
			lhsIdx++
		case cmp > 0:
			plan.Sources = append(plan.Sources, SourceRight)
			rhsIdx++
		default:
			plan.Sources = append(plan.Sources, SourceBoth)
			plan.LHSOverlap = append(plan.LHSOverlap, lhsIdx)
			plan.RHSOverlap = append(plan.RHSOverlap, rhsIdx)
			lhsIdx++
			rhsIdx++
		}
	}
	return plan
}

// NumMappedDimensions of the result.
func (p *SparseJoinPlan) NumMappedDimensions() int { return len(p.Sources) }

// SparseJoinState is the per-execution state of a SparseJoinPlan over the indexes of two values.
//
// The smallest index is enumerated in full ("first"), and for each of its addresses the other
// index ("second") is looked up on the shared dimensions.
type SparseJoinState struct {
	plan *SparseJoinPlan

	// Swapped is true if the first index is the right operand's.
	Swapped bool

	FirstIndex, SecondIndex value.Index

	// SecondViewDims are the positions of the shared dimensions in the second index addresses.
	SecondViewDims []int

	// FullAddress is the address of the current result subspace.
	FullAddress []string

	firstAddress, addressOverlap, secondOnlyAddress []string

	// firstOverlap are the positions of the shared dimensions in the first index addresses.
	firstOverlap []int

	// fullFromFirst[i] is the position in firstAddress of result dimension i, or -1 if it comes
	// from secondOnlyAddress, at position fullFromSecond[i].
	fullFromFirst, fullFromSecond []int
}

// NewSparseJoinState creates the state to join the given indexes, of the left and right operands.
func NewSparseJoinState(plan *SparseJoinPlan, lhsIndex, rhsIndex value.Index) *SparseJoinState {
	s := &SparseJoinState{plan: plan}
	s.Swapped = rhsIndex.Size() < lhsIndex.Size()
	if s.Swapped {
		s.FirstIndex, s.SecondIndex = rhsIndex, lhsIndex
		s.firstOverlap, s.SecondViewDims = plan.RHSOverlap, plan.LHSOverlap
	} else {
		s.FirstIndex, s.SecondIndex = lhsIndex, rhsIndex
		s.firstOverlap, s.SecondViewDims = plan.LHSOverlap, plan.RHSOverlap
	}
	numDims := len(plan.Sources)
	s.FullAddress = make([]string, numDims)
	s.firstAddress = make([]string, s.FirstIndex.NumMappedDimensions())
	s.addressOverlap = make([]string, len(s.firstOverlap))
	s.secondOnlyAddress = make([]string, s.SecondIndex.NumMappedDimensions()-len(s.SecondViewDims))
	s.fullFromFirst = make([]int, numDims)
	s.fullFromSecond = make([]int, numDims)

	lhsPos, rhsPos, secondOnlyPos := 0, 0, 0
	fromSecondOnly := func(dim int) {
		s.fullFromFirst[dim] = -1
		s.fullFromSecond[dim] = secondOnlyPos
		secondOnlyPos++
	}
	for dim, source := range plan.Sources {
		switch source {
		case SourceLeft:
			if s.Swapped {
				fromSecondOnly(dim)
			} else {
				s.fullFromFirst[dim] = lhsPos
			}
			lhsPos++
		case SourceRight:
			if s.Swapped {
				s.fullFromFirst[dim] = rhsPos
			} else {
				fromSecondOnly(dim)
			}
			rhsPos++
		case SourceBoth:
			if s.Swapped {
				s.fullFromFirst[dim] = rhsPos
			} else {
				s.fullFromFirst[dim] = lhsPos
			}
			lhsPos++
			rhsPos++
		}
	}
	if lhsPos != lhsIndex.NumMappedDimensions() || rhsPos != rhsIndex.NumMappedDimensions() ||
		secondOnlyPos != len(s.secondOnlyAddress) {
		exceptions.Panicf("sparse join plan with sources %v doesn't match indexes with %d and %d mapped dimensions",
			plan.Sources, lhsIndex.NumMappedDimensions(), rhsIndex.NumMappedDimensions())
	}
	return s
}

// Join enumerates the pairs of (left, right) subspaces whose addresses agree on the shared
// mapped dimensions. FullAddress holds the address of the result subspace during each yield.
//
// With no shared dimensions it enumerates the cartesian product.
func (s *SparseJoinState) Join() iter.Seq2[int, int] {
	return func(yield func(lhsSubspace, rhsSubspace int) bool) {
		outer := s.FirstIndex.CreateView(nil)
		inner := s.SecondIndex.CreateView(s.SecondViewDims)
		outer.Lookup(nil)
		for {
			firstSubspace, ok := outer.Next(s.firstAddress)
			if !ok {
				return
			}
			for ii, pos := range s.firstOverlap {
				s.addressOverlap[ii] = s.firstAddress[pos]
			}
			inner.Lookup(s.addressOverlap)
			for {
				secondSubspace, ok := inner.Next(s.secondOnlyAddress)
				if !ok {
					break
				}
				for dim, pos := range s.fullFromFirst {
					if pos >= 0 {
						s.FullAddress[dim] = s.firstAddress[pos]
					} else {
						s.FullAddress[dim] = s.secondOnlyAddress[s.fullFromSecond[dim]]
					}
				}
				lhsSubspace, rhsSubspace := firstSubspace, secondSubspace
				if s.Swapped {
					lhsSubspace, rhsSubspace = rhsSubspace, lhsSubspace
				}
				if !yield(lhsSubspace, rhsSubspace) {
					return
				}
			}
		}
	}
}
