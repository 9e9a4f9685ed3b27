// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"strconv"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/gomlx/mixedtensor/pkg/core/dtypes"
	"github.com/gomlx/mixedtensor/pkg/core/value"
	"github.com/gomlx/mixedtensor/pkg/core/valuetype"
	"github.com/x448/float16"
)

// sequentialAddresses returns all the addresses with numLabels labels ("0", "1", ...) per mapped
// dimension.
func sequentialAddresses(numDims, numLabels int) [][]string {
	addresses := [][]string{{}}
	for range numDims {
		next := make([][]string, 0, len(addresses)*numLabels)
		for _, prefix := range addresses {
			for label := range numLabels {
				address := append(append([]string{}, prefix...), strconv.Itoa(label))
				next = append(next, address)
			}
		}
		addresses = next
	}
	return addresses
}

// sequentialValue creates a value of the given type, with cells start, 2*start, 3*start, ...
func sequentialValue(vtype valuetype.ValueType, numLabels int, start float32) (*value.Value, error) {
	addresses := sequentialAddresses(vtype.NumMappedDimensions(), numLabels)
	numCells := len(addresses) * vtype.DenseSubspaceSize()
	switch vtype.CellType {
	case dtypes.Float64:
		return value.FromCells(vtype, addresses, sequentialCells(numCells, start, func(v float32) float64 { return float64(v) }))
	case dtypes.Float32:
		return value.FromCells(vtype, addresses, sequentialCells(numCells, start, func(v float32) float32 { return v }))
	case dtypes.BFloat16:
		return value.FromCells(vtype, addresses, sequentialCells(numCells, start, bfloat16.FromFloat32))
	case dtypes.Float16:
		return value.FromCells(vtype, addresses, sequentialCells(numCells, start, float16.Fromfloat32))
	case dtypes.Int8:
		return value.FromCells(vtype, addresses, sequentialCells(numCells, start, func(v float32) int8 { return int8(v) }))
	}
	exceptions.Panicf("sequentialValue: cell type %s not supported", vtype.CellType)
	return nil, nil
}

func sequentialCells[T dtypes.Supported](numCells int, start float32, convert func(float32) T) []T {
	cells := make([]T, numCells)
	for ii := range cells {
		cells[ii] = convert(start * float32(ii+1))
	}
	return cells
}
