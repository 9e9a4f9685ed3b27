// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"testing"

	"github.com/gomlx/mixedtensor/pkg/core/value"
	"github.com/gomlx/mixedtensor/pkg/core/valuetype"
	"github.com/gomlx/mixedtensor/pkg/eval/concat"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequentialAddresses(t *testing.T) {
	assert.Equal(t, [][]string{{}}, sequentialAddresses(0, 3))
	assert.Equal(t, [][]string{{"0", "0"}, {"0", "1"}, {"1", "0"}, {"1", "1"}}, sequentialAddresses(2, 2))
}

func TestSequentialValue(t *testing.T) {
	v := must.M1(sequentialValue(valuetype.MustParse("tensor<int8>(id{},x[2])"), 2, -1))
	assert.Equal(t, []int8{-1, -2, -3, -4}, value.CellsAs[int8](v))
	assert.Equal(t, []int8{-3, -4}, value.SubspaceCells[int8](v, "1"))

	for _, spec := range []string{"double", "tensor<float>(x[3])", "tensor<bfloat16>(a{},x[2])", "tensor<float16>(x[2])"} {
		vtype := valuetype.MustParse(spec)
		v, err := sequentialValue(vtype, 3, 1)
		require.NoError(t, err)
		assert.True(t, v.Type().Equal(vtype))
	}

	// Generated operands can be concatenated.
	inst := must.M1(concat.MakeInstruction(valuetype.MustParse("tensor(id{},x[2])"),
		valuetype.MustParse("tensor<float>(id{},x[1])"), "x", value.DefaultFactory()))
	lhs := must.M1(sequentialValue(inst.Plan().LHSType, 2, 1))
	rhs := must.M1(sequentialValue(inst.Plan().RHSType, 2, -1))
	result := inst.Execute(lhs, rhs)
	assert.Equal(t, []float64{3, 4, -2}, value.SubspaceCells[float64](result, "1"))
}
