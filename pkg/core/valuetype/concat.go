// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package valuetype

import (
	"strings"

	"github.com/gomlx/mixedtensor/pkg/core/dtypes"
	"github.com/pkg/errors"
)

// Concat returns the type of the concatenation of values of types a and b along the indexed
// dimension named dimension.
//
// Rules:
//
//   - The concat dimension must be indexed in the operands where it is present. An operand
//     without it counts as having extent 1 along it. The result extent is the sum of both.
//   - Mapped dimensions are the union of both operands' mapped dimensions (values are joined
//     on the shared ones).
//   - Every other indexed dimension must be present in both operands with the same size:
//     replicating an operand along a dimension it lacks is not supported.
//   - The cell type is dtypes.Unify of both cell types.
//
// On error it returns Invalid() and an error describing the incompatibility.
func Concat(a, b ValueType, dimension string) (ValueType, error) {
	if !a.Ok() || !b.Ok() {
		return Invalid(), errors.Errorf("concat(%s, %s, %q): invalid operand type", a, b, dimension)
	}
	if dimension == "" {
		return Invalid(), errors.Errorf("concat(%s, %s): empty concat dimension name", a, b)
	}
	concatSize := 0
	for _, operand := range []ValueType{a, b} {
		dim, found := operand.Dimension(dimension)
		switch {
		case !found:
			concatSize++
		case dim.IsMapped():
			return Invalid(), errors.Errorf("concat(%s, %s, %q): concat dimension is mapped in %s",
				a, b, dimension, operand)
		default:
			concatSize += dim.Size
		}
	}

	// Ordered merge of the two sorted dimension lists.
	dims := make([]Dimension, 0, a.Rank()+b.Rank()+1)
	dims = append(dims, Indexed(dimension, concatSize))
	aDims, bDims := a.Dimensions(), b.Dimensions()
	aIdx, bIdx := 0, 0
	for aIdx < len(aDims) || bIdx < len(bDims) {
		var cmp int
		switch {
		case aIdx == len(aDims):
			cmp = 1
		case bIdx == len(bDims):
			cmp = -1
		default:
			cmp = strings.Compare(aDims[aIdx].Name, bDims[bIdx].Name)
		}
		var dim Dimension
		switch {
		case cmp < 0:
			dim = aDims[aIdx]
			aIdx++
			if dim.Name != dimension && dim.IsIndexed() {
				return Invalid(), errors.Errorf("concat(%s, %s, %q): indexed dimension %q only present in the first operand",
					a, b, dimension, dim.Name)
			}
		case cmp > 0:
			dim = bDims[bIdx]
			bIdx++
			if dim.Name != dimension && dim.IsIndexed() {
				return Invalid(), errors.Errorf("concat(%s, %s, %q): indexed dimension %q only present in the second operand",
					a, b, dimension, dim.Name)
			}
		default:
			dim = aDims[aIdx]
			other := bDims[bIdx]
			aIdx++
			bIdx++
			if dim.Name != dimension && dim.Size != other.Size {
				return Invalid(), errors.Errorf("concat(%s, %s, %q): dimension %q differs: %s vs %s",
					a, b, dimension, dim.Name, dim, other)
			}
		}
		if dim.Name == dimension {
			continue
		}
		dims = append(dims, dim)
	}
	result, err := Make(dtypes.Unify(a.CellType, b.CellType), dims...)
	if err != nil {
		return Invalid(), errors.WithMessagef(err, "concat(%s, %s, %q)", a, b, dimension)
	}
	return result, nil
}
