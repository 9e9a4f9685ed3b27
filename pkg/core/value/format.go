// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package value

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/gomlx/mixedtensor/pkg/core/dtypes"
	"github.com/x448/float16"
)

// String implements fmt.Stringer. It prints the type followed by the subspaces in index order,
// e.g.: `tensor<float>(id{},x[2]):{["a"]:[1 2], ["b"]:[3 4]}`. Dense values print only the cells.
func (v *Value) String() string {
	if v == nil || v.index == nil {
		return "<nil value>"
	}
	switch v.vtype.CellType {
	case dtypes.Float64:
		return formatValue[float64](v)
	case dtypes.Float32:
		return formatValue[float32](v)
	case dtypes.BFloat16:
		return formatValue[bfloat16.BFloat16](v)
	case dtypes.Float16:
		return formatValue[float16.Float16](v)
	case dtypes.Int8:
		return formatValue[int8](v)
	default:
		return fmt.Sprintf("%s:<invalid cells>", v.vtype)
	}
}

func formatValue[T dtypes.Supported](v *Value) string {
	// Easy string building.
	var buf bytes.Buffer
	w := func(format string, args ...any) { _, _ = fmt.Fprintf(&buf, format, args...) }

	cells := CellsAs[T](v)
	size := v.vtype.DenseSubspaceSize()
	writeSubspace := func(subspace int) {
		w("[")
		for ii, cell := range cells[subspace*size : (subspace+1)*size] {
			if ii > 0 {
				w(" ")
			}
			w("%s", formatCell(cell))
		}
		w("]")
	}

	w("%s:", v.vtype)
	numDims := v.index.NumMappedDimensions()
	if numDims == 0 {
		if v.index.Size() > 0 {
			writeSubspace(0)
		}
		return buf.String()
	}
	w("{")
	address := make([]string, numDims)
	view := v.index.CreateView(nil)
	view.Lookup(nil)
	for count := 0; ; count++ {
		subspace, ok := view.Next(address)
		if !ok {
			break
		}
		if count > 0 {
			w(", ")
		}
		w("%q:", address)
		writeSubspace(subspace)
	}
	w("}")
	return buf.String()
}

func formatCell[T dtypes.Supported](cell T) string {
	switch c := any(cell).(type) {
	case float64:
		return strconv.FormatFloat(c, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(c), 'g', -1, 32)
	case bfloat16.BFloat16:
		return strconv.FormatFloat(float64(c.Float32()), 'g', -1, 32)
	case float16.Float16:
		return strconv.FormatFloat(float64(c.Float32()), 'g', -1, 32)
	case int8:
		return strconv.Itoa(int(c))
	}
	return fmt.Sprint(cell)
}
