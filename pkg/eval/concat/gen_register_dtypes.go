/***** File generated by ./internal/cmd/concat_dispatcher. Don't edit it directly. *****/

package concat

import (
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/gomlx/mixedtensor/pkg/core/dtypes"
	"github.com/x448/float16"
)

func init() {
	// DTypeTripleMap: concatDTypeMap, all combinations of cell types.
	concatDTypeMap.Register(dtypes.Float64, dtypes.Float64, dtypes.Float64, priorityGeneric,
		execConcatConverted[float64, float64, float64](convertIdentity[float64], convertIdentity[float64]))
	concatDTypeMap.Register(dtypes.Float64, dtypes.Float32, dtypes.Float64, priorityGeneric,
		execConcatConverted[float64, float32, float64](convertIdentity[float64], convertPOD[float32, float64]))
	concatDTypeMap.Register(dtypes.Float64, dtypes.BFloat16, dtypes.Float64, priorityGeneric,
		execConcatConverted[float64, bfloat16.BFloat16, float64](convertIdentity[float64], convertFromBFloat16[float64]))
	concatDTypeMap.Register(dtypes.Float64, dtypes.Float16, dtypes.Float64, priorityGeneric,
		execConcatConverted[float64, float16.Float16, float64](convertIdentity[float64], convertFromFloat16[float64]))
	concatDTypeMap.Register(dtypes.Float64, dtypes.Int8, dtypes.Float64, priorityGeneric,
		execConcatConverted[float64, int8, float64](convertIdentity[float64], convertPOD[int8, float64]))
	concatDTypeMap.Register(dtypes.Float32, dtypes.Float64, dtypes.Float64, priorityGeneric,
		execConcatConverted[float32, float64, float64](convertPOD[float32, float64], convertIdentity[float64]))
	concatDTypeMap.Register(dtypes.Float32, dtypes.Float32, dtypes.Float32, priorityGeneric,
		execConcatConverted[float32, float32, float32](convertIdentity[float32], convertIdentity[float32]))
	concatDTypeMap.Register(dtypes.Float32, dtypes.BFloat16, dtypes.Float32, priorityGeneric,
		execConcatConverted[float32, bfloat16.BFloat16, float32](convertIdentity[float32], convertFromBFloat16[float32]))
	concatDTypeMap.Register(dtypes.Float32, dtypes.Float16, dtypes.Float32, priorityGeneric,
		execConcatConverted[float32, float16.Float16, float32](convertIdentity[float32], convertFromFloat16[float32]))
	concatDTypeMap.Register(dtypes.Float32, dtypes.Int8, dtypes.Float32, priorityGeneric,
		execConcatConverted[float32, int8, float32](convertIdentity[float32], convertPOD[int8, float32]))
	concatDTypeMap.Register(dtypes.BFloat16, dtypes.Float64, dtypes.Float64, priorityGeneric,
		execConcatConverted[bfloat16.BFloat16, float64, float64](convertFromBFloat16[float64], convertIdentity[float64]))
	concatDTypeMap.Register(dtypes.BFloat16, dtypes.Float32, dtypes.Float32, priorityGeneric,
		execConcatConverted[bfloat16.BFloat16, float32, float32](convertFromBFloat16[float32], convertIdentity[float32]))
	concatDTypeMap.Register(dtypes.BFloat16, dtypes.BFloat16, dtypes.BFloat16, priorityGeneric,
		execConcatConverted[bfloat16.BFloat16, bfloat16.BFloat16, bfloat16.BFloat16](convertIdentity[bfloat16.BFloat16], convertIdentity[bfloat16.BFloat16]))
	concatDTypeMap.Register(dtypes.BFloat16, dtypes.Float16, dtypes.Float32, priorityGeneric,
		execConcatConverted[bfloat16.BFloat16, float16.Float16, float32](convertFromBFloat16[float32], convertFromFloat16[float32]))
	concatDTypeMap.Register(dtypes.BFloat16, dtypes.Int8, dtypes.Float32, priorityGeneric,
		execConcatConverted[bfloat16.BFloat16, int8, float32](convertFromBFloat16[float32], convertPOD[int8, float32]))
	concatDTypeMap.Register(dtypes.Float16, dtypes.Float64, dtypes.Float64, priorityGeneric,
		execConcatConverted[float16.Float16, float64, float64](convertFromFloat16[float64], convertIdentity[float64]))
	concatDTypeMap.Register(dtypes.Float16, dtypes.Float32, dtypes.Float32, priorityGeneric,
		execConcatConverted[float16.Float16, float32, float32](convertFromFloat16[float32], convertIdentity[float32]))
	concatDTypeMap.Register(dtypes.Float16, dtypes.BFloat16, dtypes.Float32, priorityGeneric,
		execConcatConverted[float16.Float16, bfloat16.BFloat16, float32](convertFromFloat16[float32], convertFromBFloat16[float32]))
	concatDTypeMap.Register(dtypes.Float16, dtypes.Float16, dtypes.Float16, priorityGeneric,
		execConcatConverted[float16.Float16, float16.Float16, float16.Float16](convertIdentity[float16.Float16], convertIdentity[float16.Float16]))
	concatDTypeMap.Register(dtypes.Float16, dtypes.Int8, dtypes.Float32, priorityGeneric,
		execConcatConverted[float16.Float16, int8, float32](convertFromFloat16[float32], convertPOD[int8, float32]))
	concatDTypeMap.Register(dtypes.Int8, dtypes.Float64, dtypes.Float64, priorityGeneric,
		execConcatConverted[int8, float64, float64](convertPOD[int8, float64], convertIdentity[float64]))
	concatDTypeMap.Register(dtypes.Int8, dtypes.Float32, dtypes.Float32, priorityGeneric,
		execConcatConverted[int8, float32, float32](convertPOD[int8, float32], convertIdentity[float32]))
	concatDTypeMap.Register(dtypes.Int8, dtypes.BFloat16, dtypes.Float32, priorityGeneric,
		execConcatConverted[int8, bfloat16.BFloat16, float32](convertPOD[int8, float32], convertFromBFloat16[float32]))
	concatDTypeMap.Register(dtypes.Int8, dtypes.Float16, dtypes.Float32, priorityGeneric,
		execConcatConverted[int8, float16.Float16, float32](convertPOD[int8, float32], convertFromFloat16[float32]))
	concatDTypeMap.Register(dtypes.Int8, dtypes.Int8, dtypes.Int8, priorityGeneric,
		execConcatConverted[int8, int8, int8](convertIdentity[int8], convertIdentity[int8]))

	// DTypeTripleMap: concatDTypeMap, operands and result of the same cell type.
	concatDTypeMap.Register(dtypes.Float64, dtypes.Float64, dtypes.Float64, priorityTyped, execConcatSameType[float64]())
	concatDTypeMap.Register(dtypes.Float32, dtypes.Float32, dtypes.Float32, priorityTyped, execConcatSameType[float32]())
	concatDTypeMap.Register(dtypes.BFloat16, dtypes.BFloat16, dtypes.BFloat16, priorityTyped, execConcatSameType[bfloat16.BFloat16]())
	concatDTypeMap.Register(dtypes.Float16, dtypes.Float16, dtypes.Float16, priorityTyped, execConcatSameType[float16.Float16]())
	concatDTypeMap.Register(dtypes.Int8, dtypes.Int8, dtypes.Int8, priorityTyped, execConcatSameType[int8]())
}
