// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package valuetype

import (
	"testing"

	"github.com/gomlx/mixedtensor/pkg/core/dtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	vt := MustMake(dtypes.Float32, Indexed("y", 3), Mapped("id"), Indexed("x", 2), Indexed("a", 1))
	require.True(t, vt.Ok())
	assert.Equal(t, "tensor<float>(a[1],id{},x[2],y[3])", vt.String())
	assert.Equal(t, 4, vt.Rank())
	assert.Equal(t, 1, vt.NumMappedDimensions())
	assert.Equal(t, []Dimension{Mapped("id")}, vt.MappedDimensions())
	assert.Equal(t, []Dimension{Indexed("a", 1), Indexed("x", 2), Indexed("y", 3)}, vt.IndexedDimensions())
	assert.Equal(t, []Dimension{Indexed("x", 2), Indexed("y", 3)}, vt.NontrivialIndexedDimensions())
	assert.Equal(t, 6, vt.DenseSubspaceSize())
	assert.False(t, vt.IsDense())
	assert.False(t, vt.IsSparse())
	assert.Equal(t, 2, vt.DimensionIndex("x"))
	assert.Equal(t, -1, vt.DimensionIndex("z"))
	dim, found := vt.Dimension("y")
	require.True(t, found)
	assert.Equal(t, 3, dim.Size)

	// Scalars are always double.
	scalar := MustMake(dtypes.Int8)
	assert.True(t, scalar.IsScalar())
	assert.Equal(t, dtypes.Float64, scalar.CellType)
	assert.Equal(t, "double", scalar.String())

	_, err := Make(dtypes.Float32, Indexed("x", 2), Mapped("x"))
	require.Error(t, err)
	_, err = Make(dtypes.Float32, Indexed("x", -1))
	require.Error(t, err)
	_, err = Make(dtypes.InvalidDType, Indexed("x", 1))
	require.Error(t, err)
	assert.Panics(t, func() { MustMake(dtypes.Float32, Indexed("", 1)) })

	assert.False(t, Invalid().Ok())
	assert.Equal(t, "error", Invalid().String())
}

func TestParse(t *testing.T) {
	for _, spec := range []string{
		"double",
		"tensor(x[3])",
		"tensor<float>(id{},x[3])",
		"tensor<bfloat16>(a{},b{})",
		"tensor<int8>(x[2],y[5])",
		"tensor<float16>(cat{})",
	} {
		vt, err := Parse(spec)
		require.NoErrorf(t, err, "parsing %q", spec)
		assert.Equal(t, spec, vt.String())
	}

	vt := MustParse(" tensor < float > ( x[3] , id{} ) ")
	assert.Equal(t, "tensor<float>(id{},x[3])", vt.String())
	assert.Equal(t, "double", MustParse("tensor()").String())

	for _, spec := range []string{
		"", "float", "tensor(x[0])", "tensor(x[])", "tensor(x)", "tensor<complex>(x[2])",
		"tensor(x[2]", "tensor(x[2],x{})", "double(x[2])", "tensor(x[2])y",
	} {
		_, err := Parse(spec)
		assert.Errorf(t, err, "expected error parsing %q", spec)
	}
}

func TestParseSizes(t *testing.T) {
	vt, err := Parse("\ttensor<int8>(y[7],\n x[1024])\n")
	require.NoError(t, err)
	assert.Equal(t, dtypes.Int8, vt.CellType)
	x, found := vt.Dimension("x")
	require.True(t, found)
	assert.Equal(t, 1024, x.Size)
	assert.Equal(t, 7*1024, vt.DenseSubspaceSize())

	for _, spec := range []string{
		"tensor(x[-1])", "tensor(x[2a])", "tensor(x[99999999999999999999999])", "tensor(x[2],)", "tensor(,x[2])",
	} {
		_, err := Parse(spec)
		assert.Errorf(t, err, "expected error parsing %q", spec)
	}
}

func TestConcat(t *testing.T) {
	testCases := []struct {
		a, b, dim, want string
	}{
		{"tensor(x[2])", "tensor(x[3])", "x", "tensor(x[5])"},
		{"double", "double", "x", "tensor(x[2])"},
		{"tensor(x[2])", "double", "x", "tensor(x[3])"},
		{"tensor(y[4])", "tensor(y[4])", "x", "tensor(x[2],y[4])"},
		{"tensor<float>(id{},x[2])", "tensor<float>(id{},x[1])", "x", "tensor<float>(id{},x[3])"},
		{"tensor<float>(a{},x[2])", "tensor<float>(b{},x[2])", "x", "tensor<float>(a{},b{},x[4])"},
		{"tensor<float>(x[2])", "tensor<bfloat16>(x[2])", "x", "tensor<float>(x[4])"},
		{"tensor<int8>(x[2])", "tensor(x[2])", "x", "tensor(x[4])"},
		{"tensor<bfloat16>(x[2],y[3])", "tensor<bfloat16>(x[1],y[3])", "x", "tensor<bfloat16>(x[3],y[3])"},
	}
	for _, tc := range testCases {
		got, err := Concat(MustParse(tc.a), MustParse(tc.b), tc.dim)
		require.NoErrorf(t, err, "concat(%s, %s, %s)", tc.a, tc.b, tc.dim)
		assert.Equalf(t, tc.want, got.String(), "concat(%s, %s, %s)", tc.a, tc.b, tc.dim)
	}

	for _, tc := range []struct{ a, b, dim string }{
		{"tensor(x[2],y[3])", "tensor(x[2],y[4])", "x"}, // Non-concat dimension disagrees.
		{"tensor(id{})", "tensor(id{})", "id"},          // Mapped concat dimension.
		{"tensor(x[2],y{})", "tensor(x[2],y[3])", "x"},  // Kind mismatch.
		{"tensor(x[2],y[3])", "tensor(x[2])", "x"},      // Dimension only in one operand.
		{"tensor(x[2])", "tensor(x[2])", ""},
	} {
		got, err := Concat(MustParse(tc.a), MustParse(tc.b), tc.dim)
		assert.Errorf(t, err, "concat(%s, %s, %q) should fail", tc.a, tc.b, tc.dim)
		assert.False(t, got.Ok())
	}
	_, err := Concat(Invalid(), MustParse("double"), "x")
	require.Error(t, err)
}
