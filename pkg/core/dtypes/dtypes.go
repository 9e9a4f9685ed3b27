// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package dtypes defines the closed set of cell encodings (DType) supported by tensor values.
//
// It is a trimmed down version of the GoMLX dtypes: only the encodings the tensor evaluator
// knows how to store and copy are included. It also includes the generic constraints used
// to instantiate typed kernels, and the unification rule used to pick the cell type of the
// result of an operation over two values.
package dtypes

import (
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// panicf panics with the formatted description.
//
// It is only used for "bugs in the code" -- when parameters don't follow the specifications.
func panicf(format string, args ...any) {
	panic(errors.Errorf(format, args...))
}

func init() {
	// Add a mapping to the lower-case version of dtypes.
	keys := slices.Collect(maps.Keys(MapOfNames))
	for _, key := range keys {
		lowerKey := strings.ToLower(key)
		if lowerKey == key {
			continue
		}
		if _, found := MapOfNames[lowerKey]; found {
			continue
		}
		MapOfNames[lowerKey] = MapOfNames[key]
	}
}

// Supported lists the Go types used for the cells of a value. Used as traits for generics.
type Supported interface {
	float64 | float32 | bfloat16.BFloat16 | float16.Float16 | int8
}

// POD lists the Go native (plain-old-data) numeric types among the Supported ones: they can
// be converted to each other with a simple Go conversion.
type POD interface {
	float64 | float32 | int8
}

// FromName returns the DType for the given name or alias (case-insensitive), or an error if
// it's not one of the supported dtypes.
func FromName(name string) (DType, error) {
	dtype, found := MapOfNames[name]
	if !found {
		dtype, found = MapOfNames[strings.ToLower(name)]
	}
	if !found || dtype == InvalidDType {
		return InvalidDType, errors.Errorf("unknown cell type %q", name)
	}
	return dtype, nil
}

// FromGenericsType returns the DType enum for the given type.
func FromGenericsType[T Supported]() DType {
	var t T
	switch (any(t)).(type) {
	case float64:
		return Float64
	case float32:
		return Float32
	case bfloat16.BFloat16:
		return BFloat16
	case float16.Float16:
		return Float16
	case int8:
		return Int8
	}
	return InvalidDType
}

// Pre-generate constant reflect.TypeOf for convenience.
var (
	int8Type     = reflect.TypeOf(int8(0))
	float32Type  = reflect.TypeOf(float32(0))
	float64Type  = reflect.TypeOf(float64(0))
	float16Type  = reflect.TypeOf(float16.Float16(0))
	bfloat16Type = reflect.TypeOf(bfloat16.BFloat16(0))
)

// GoType returns the Go `reflect.Type` corresponding to the DType.
func (dtype DType) GoType() reflect.Type {
	switch dtype {
	case Int8:
		return int8Type
	case Float16:
		return float16Type
	case BFloat16:
		return bfloat16Type
	case Float32:
		return float32Type
	case Float64:
		return float64Type
	default:
		panicf("unknown dtype %q (%d) in DType.GoType", dtype, dtype)
		panic(nil)
	}
}

// FromGoType returns the DType for the given "reflect.Type", or InvalidDType if not supported.
func FromGoType(t reflect.Type) DType {
	switch t {
	case int8Type:
		return Int8
	case float16Type:
		return Float16
	case bfloat16Type:
		return BFloat16
	case float32Type:
		return Float32
	case float64Type:
		return Float64
	default:
		return InvalidDType
	}
}

// Size returns the number of bytes for one cell of the given DType.
func (dtype DType) Size() int {
	return int(dtype.GoType().Size())
}

// SizeForCells returns the size in bytes used for numCells cells.
func (dtype DType) SizeForCells(numCells int) int {
	if numCells < 0 {
		panicf("number of cells cannot be negative for SizeForCells, got %d", numCells)
	}
	return numCells * dtype.Size()
}

// IsSupported returns whether dtype is one of the supported cell encodings.
func (dtype DType) IsSupported() bool {
	return dtype == Float64 || dtype == Float32 || dtype == BFloat16 || dtype == Float16 || dtype == Int8
}

// Unify returns the cell type of the result of combining cells of types a and b.
//
// Equal types are preserved. Otherwise, Float64 wins over anything, and any other mix (including
// the 16-bit floats and Int8) is promoted to Float32, which can represent all of them.
// It returns InvalidDType if either input is not supported.
func Unify(a, b DType) DType {
	if !a.IsSupported() || !b.IsSupported() {
		return InvalidDType
	}
	if a == b {
		return a
	}
	if a == Float64 || b == Float64 {
		return Float64
	}
	return Float32
}
