// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package dtypes

// DType is an enum with the cell encodings a tensor value can hold.
//
// The numbering follows the PJRT buffer types (github.com/gomlx/gopjrt/dtypes), so values
// can be exchanged with code using those constants, but only the small closed set below is
// supported by the tensor evaluator.
type DType int32

const (
	// InvalidDType is the zero value, used for invalid or error types.
	InvalidDType DType = 0

	// Int8 is a signed 8-bit integer cell.
	Int8 DType = 2

	// Float16 is an IEEE 754 half-precision cell, backed by github.com/x448/float16.
	Float16 DType = 10

	// Float32 is a single precision cell. It's the "float" cell type in type specs.
	Float32 DType = 11

	// Float64 is a double precision cell. It's the "double" cell type in type specs, and the
	// default when no cell type is given.
	Float64 DType = 12

	// BFloat16 is a truncated float32 (1 sign bit, 8 exponent bits, 7 mantissa bits),
	// backed by github.com/gomlx/gopjrt/dtypes/bfloat16.
	BFloat16 DType = 13
)

// MaxDTypes is an upper bound on the DType values, used to size dispatch tables.
const MaxDTypes = 16

// All lists the supported dtypes, in order of decreasing precision.
var All = []DType{Float64, Float32, BFloat16, Float16, Int8}

// String implements fmt.Stringer.
func (dtype DType) String() string {
	switch dtype {
	case Int8:
		return "Int8"
	case Float16:
		return "Float16"
	case Float32:
		return "Float32"
	case Float64:
		return "Float64"
	case BFloat16:
		return "BFloat16"
	default:
		return "InvalidDType"
	}
}

// SpecName returns the name used for the cell type in value type specs, e.g. "float" in
// "tensor<float>(x[3])".
func (dtype DType) SpecName() string {
	switch dtype {
	case Int8:
		return "int8"
	case Float16:
		return "float16"
	case Float32:
		return "float"
	case Float64:
		return "double"
	case BFloat16:
		return "bfloat16"
	default:
		return "error"
	}
}

// MapOfNames to their dtypes. It includes also aliases and the names used in type specs.
// It is also later initialized to include the lower-case version of the names.
var MapOfNames = map[string]DType{
	"InvalidDType": InvalidDType,
	"Int8":         Int8,
	"S8":           Int8,
	"Float16":      Float16,
	"F16":          Float16,
	"Float32":      Float32,
	"F32":          Float32,
	"float":        Float32,
	"Float64":      Float64,
	"F64":          Float64,
	"double":       Float64,
	"BFloat16":     BFloat16,
	"BF16":         BFloat16,
}
