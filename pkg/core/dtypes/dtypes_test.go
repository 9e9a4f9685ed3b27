// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package dtypes

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func TestMapOfNames(t *testing.T) {
	if MapOfNames["Float16"] != Float16 {
		t.Fatalf("expected MapOfNames[\"Float16\"] to be Float16, got %v", MapOfNames["Float16"])
	}
	if MapOfNames["float16"] != Float16 {
		t.Fatalf("expected MapOfNames[\"float16\"] to be Float16, got %v", MapOfNames["float16"])
	}
	if MapOfNames["bf16"] != BFloat16 {
		t.Fatalf("expected MapOfNames[\"bf16\"] to be BFloat16, got %v", MapOfNames["bf16"])
	}
	if MapOfNames["double"] != Float64 {
		t.Fatalf("expected MapOfNames[\"double\"] to be Float64, got %v", MapOfNames["double"])
	}

	for _, dtype := range All {
		got, err := FromName(dtype.SpecName())
		require.NoError(t, err)
		assert.Equal(t, dtype, got)
	}
	_, err := FromName("complex64")
	require.Error(t, err)
	_, err = FromName("InvalidDType")
	require.Error(t, err)
}

func TestGoTypes(t *testing.T) {
	assert.Equal(t, Float64, FromGenericsType[float64]())
	assert.Equal(t, Float32, FromGenericsType[float32]())
	assert.Equal(t, BFloat16, FromGenericsType[bfloat16.BFloat16]())
	assert.Equal(t, Float16, FromGenericsType[float16.Float16]())
	assert.Equal(t, Int8, FromGenericsType[int8]())

	for _, dtype := range All {
		assert.Equal(t, dtype, FromGoType(dtype.GoType()))
	}
	assert.Equal(t, 8, Float64.Size())
	assert.Equal(t, 2, BFloat16.Size())
	assert.Equal(t, 1, Int8.Size())
	assert.Equal(t, 12, Float32.SizeForCells(3))
	assert.Panics(t, func() { InvalidDType.GoType() })
}

func TestUnify(t *testing.T) {
	for _, dtype := range All {
		assert.Equal(t, dtype, Unify(dtype, dtype))
		assert.Equal(t, Float64, Unify(dtype, Float64))
		assert.Equal(t, Float64, Unify(Float64, dtype))
	}
	assert.Equal(t, Float32, Unify(BFloat16, Float16))
	assert.Equal(t, Float32, Unify(Int8, BFloat16))
	assert.Equal(t, Float32, Unify(Float32, Int8))
	assert.Equal(t, InvalidDType, Unify(InvalidDType, Float32))
}
