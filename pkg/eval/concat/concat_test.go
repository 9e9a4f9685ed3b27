// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package concat

import (
	"fmt"
	"sync"
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/gomlx/mixedtensor/pkg/core/dtypes"
	"github.com/gomlx/mixedtensor/pkg/core/value"
	"github.com/gomlx/mixedtensor/pkg/core/valuetype"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
	"k8s.io/klog/v2"
)

func init() {
	klog.InitFlags(nil)
}

var factory = value.DefaultFactory()

func dense[T dtypes.Supported](spec string, cells ...T) *value.Value {
	return must.M1(value.FromDense(valuetype.MustParse(spec), cells))
}

func TestConcatVectors(t *testing.T) {
	lhs := dense[float64]("tensor(x[2])", 1, 2)
	rhs := dense[float64]("tensor(x[3])", 3, 4, 5)
	inst := must.M1(MakeInstruction(lhs.Type(), rhs.Type(), "x", factory))
	require.True(t, inst.Plan().IsFlat())
	result := inst.Execute(lhs, rhs)
	assert.Equal(t, "tensor(x[5])", result.Type().String())
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, value.CellsAs[float64](result))

	// The direct entry point always takes the generic path.
	result = must.M1(Concat(lhs, rhs, "x", factory))
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, value.CellsAs[float64](result))
}

func TestConcatMixed(t *testing.T) {
	lhs := value.MustFromCells(valuetype.MustParse("tensor(id{},x[2])"),
		[][]string{{"a"}, {"b"}}, []float64{1, 2, 3, 4})
	rhs := value.MustFromCells(valuetype.MustParse("tensor(id{},x[1])"),
		[][]string{{"b"}, {"c"}}, []float64{5, 6})
	inst := must.M1(MakeInstruction(lhs.Type(), rhs.Type(), "x", factory))
	require.False(t, inst.Plan().IsFlat())
	result := inst.Execute(lhs, rhs)
	assert.Equal(t, "tensor(id{},x[3])", result.Type().String())
	require.Equal(t, 1, result.NumSubspaces())
	assert.Equal(t, []float64{3, 4, 5}, value.SubspaceCells[float64](result, "b"))
	assert.Nil(t, value.SubspaceCells[float64](result, "a"))
	assert.Nil(t, value.SubspaceCells[float64](result, "c"))
}

func TestConcatTypeErrors(t *testing.T) {
	for _, tc := range []struct{ lhs, rhs, dim string }{
		{"tensor(x[2],y[3])", "tensor(x[2],y[4])", "x"},
		{"tensor(x[2],y[3])", "tensor(x[2])", "x"},
		{"tensor(x{})", "tensor(x{})", "x"},
		{"tensor(x[2])", "tensor(x[2])", ""},
		{"tensor(id{},x[2])", "tensor(id[2],x[2])", "x"},
	} {
		lhsType, rhsType := valuetype.MustParse(tc.lhs), valuetype.MustParse(tc.rhs)
		_, err := NewPlan(lhsType, rhsType, tc.dim, factory)
		require.Errorf(t, err, "concat(%s, %s, %q) should fail", tc.lhs, tc.rhs, tc.dim)
		_, err = MakeInstruction(lhsType, rhsType, tc.dim, factory)
		require.Error(t, err)
		require.Panics(t, func() { MustNewPlan(lhsType, rhsType, tc.dim, factory) })
	}
}

// TestFlatEqualsGeneric checks that both kernels produce the same result whenever the flat one
// is selected.
func TestFlatEqualsGeneric(t *testing.T) {
	testCases := []struct {
		lhs, rhs *value.Value
		dim      string
		want     any
	}{
		{dense[float64]("tensor(x[2])", 1, 2), dense[float64]("tensor(x[3])", 3, 4, 5), "x",
			[]float64{1, 2, 3, 4, 5}},
		{dense[float64]("double", 7), dense[float64]("tensor(x[2])", 8, 9), "x",
			[]float64{7, 8, 9}},
		{dense[float64]("double", 1), dense[float64]("double", 2), "y",
			[]float64{1, 2}},
		{dense[float32]("tensor<float>(a[2],x[2])", 1, 2, 3, 4), dense[int8]("tensor<int8>(a[1],x[2])", 5, 6), "a",
			[]float32{1, 2, 3, 4, 5, 6}},
		{dense[int8]("tensor<int8>(x[2])", -1, 2), dense[int8]("tensor<int8>(x[1])", 3), "x",
			[]int8{-1, 2, 3}},
		{dense("tensor<bfloat16>(x[1])", bfloat16.FromFloat32(0.5)), dense[float64]("tensor(x[1])", 2), "x",
			[]float64{0.5, 2}},
		{dense("tensor<float16>(x[2])", float16.Fromfloat32(1.5), float16.Fromfloat32(-1)),
			dense("tensor<bfloat16>(x[1])", bfloat16.FromFloat32(4)), "x",
			[]float32{1.5, -1, 4}},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s|%s", tc.lhs.Type(), tc.rhs.Type()), func(t *testing.T) {
			plan := must.M1(NewPlan(tc.lhs.Type(), tc.rhs.Type(), tc.dim, factory))
			require.True(t, plan.IsFlat())
			assert.Equal(t, plan.DenseConcat.Left.InputSize+plan.DenseConcat.Right.InputSize, plan.DenseConcat.OutputSize)
			flat := plan.kernels.flat(plan, tc.lhs, tc.rhs)
			generic := plan.kernels.generic(plan, tc.lhs, tc.rhs)
			assert.Equal(t, tc.want, flat.Cells())
			assert.Equal(t, tc.want, generic.Cells())
			assert.Equal(t, flat.String(), generic.String())
		})
	}
}

func TestConcatInterleaved(t *testing.T) {
	// Concat along the inner dimension interleaves the operands: no flat kernel.
	lhs := dense[float32]("tensor<float>(a[2],x[2])", 1, 2, 3, 4)
	rhs := dense[float32]("tensor<float>(a[2],x[1])", 5, 6)
	inst := must.M1(MakeInstruction(lhs.Type(), rhs.Type(), "x", factory))
	plan := inst.Plan()
	require.False(t, plan.IsFlat())
	assert.Equal(t, 0, plan.DenseConcat.LeftOffset())
	assert.Equal(t, 2, plan.DenseConcat.RightOffset)
	assert.Equal(t, []float32{1, 2, 5, 3, 4, 6}, value.CellsAs[float32](inst.Execute(lhs, rhs)))
}

func TestConcatRoundTrip(t *testing.T) {
	// Both operands have 2 addresses in common: for each, slicing the result along y recovers the
	// cells of the operands.
	const m, n = 3, 2
	lhsType := valuetype.MustParse(fmt.Sprintf("tensor<float>(id{},x[2],y[%d])", m))
	rhsType := valuetype.MustParse(fmt.Sprintf("tensor<float>(id{},x[2],y[%d])", n))
	lhsCells := make([]float32, 3*2*m)
	for ii := range lhsCells {
		lhsCells[ii] = float32(ii)
	}
	rhsCells := make([]float32, 2*2*n)
	for ii := range rhsCells {
		rhsCells[ii] = -float32(ii + 1)
	}
	lhs := value.MustFromCells(lhsType, [][]string{{"p"}, {"q"}, {"r"}}, lhsCells)
	rhs := value.MustFromCells(rhsType, [][]string{{"r"}, {"p"}}, rhsCells)
	result := must.M1(MakeInstruction(lhsType, rhsType, "y", factory)).Execute(lhs, rhs)
	require.Equal(t, 2, result.NumSubspaces())
	for _, label := range []string{"p", "r"} {
		got := value.SubspaceCells[float32](result, label)
		lhsSubspace := value.SubspaceCells[float32](lhs, label)
		rhsSubspace := value.SubspaceCells[float32](rhs, label)
		require.Len(t, got, 2*(m+n))
		for x := range 2 {
			assert.Equal(t, lhsSubspace[x*m:(x+1)*m], got[x*(m+n):x*(m+n)+m], "address %q, x=%d", label, x)
			assert.Equal(t, rhsSubspace[x*n:(x+1)*n], got[x*(m+n)+m:(x+1)*(m+n)], "address %q, x=%d", label, x)
		}
	}
	assert.Nil(t, value.SubspaceCells[float32](result, "q"))
}

func TestConcatInnerJoinCardinality(t *testing.T) {
	vtype := valuetype.MustParse("tensor<int8>(id{},x[1])")
	makeValue := func(labels ...string) *value.Value {
		addresses := make([][]string, len(labels))
		cells := make([]int8, len(labels))
		for ii, label := range labels {
			addresses[ii] = []string{label}
			cells[ii] = int8(ii)
		}
		return value.MustFromCells(vtype, addresses, cells)
	}
	for _, tc := range []struct {
		lhs, rhs []string
		want     int
	}{
		{[]string{"a", "b", "c"}, []string{"b", "c", "d"}, 2},
		{[]string{"a", "b"}, []string{"c", "d"}, 0},
		{[]string{"a"}, []string{"a", "b", "c", "d"}, 1},
		{[]string{"a", "b", "c", "d"}, []string{"d", "c", "b", "a"}, 4},
	} {
		result := must.M1(Concat(makeValue(tc.lhs...), makeValue(tc.rhs...), "x", factory))
		assert.Equal(t, tc.want, result.NumSubspaces(), "lhs=%v, rhs=%v", tc.lhs, tc.rhs)
	}

	// Cells follow the matched subspaces, also when the right operand is the smallest.
	result := must.M1(Concat(makeValue("a", "b", "c"), makeValue("c"), "x", factory))
	assert.Equal(t, []int8{2, 0}, value.SubspaceCells[int8](result, "c"))
}

func TestConcatCartesian(t *testing.T) {
	lhs := value.MustFromCells(valuetype.MustParse("tensor(a{})"), [][]string{{"a0"}, {"a1"}}, []float64{1, 2})
	rhs := value.MustFromCells(valuetype.MustParse("tensor(b{})"), [][]string{{"b0"}}, []float64{3})
	result := must.M1(Concat(lhs, rhs, "x", factory))
	assert.Equal(t, "tensor(a{},b{},x[2])", result.Type().String())
	assert.Equal(t, 2, result.NumSubspaces())
	assert.Equal(t, []float64{2, 3}, value.SubspaceCells[float64](result, "a1", "b0"))
}

func TestConcatCellTypes(t *testing.T) {
	for _, lhsDType := range dtypes.All {
		for _, rhsDType := range dtypes.All {
			lhsType := valuetype.MustMake(lhsDType, valuetype.Indexed("x", 2))
			rhsType := valuetype.MustMake(rhsDType, valuetype.Indexed("x", 1))
			plan, err := NewPlan(lhsType, rhsType, "x", factory)
			require.NoError(t, err)
			assert.Equal(t, dtypes.Unify(lhsDType, rhsDType), plan.ResultType.CellType)
			assert.True(t, plan.IsFlat())
		}
	}

	lhs := dense[int8]("tensor<int8>(x[2])", -3, 4)
	rhs := dense[float64]("tensor(x[1])", 0.25)
	result := must.M1(Concat(lhs, rhs, "x", factory))
	assert.Equal(t, []float64{-3, 4, 0.25}, value.CellsAs[float64](result))
}

func TestDTypeTripleMap(t *testing.T) {
	kernels, found := concatDTypeMap.Get(dtypes.Float32, dtypes.Int8, dtypes.Float32)
	assert.True(t, found)
	assert.NotNil(t, kernels.flat)
	_, found = concatDTypeMap.Get(dtypes.Int8, dtypes.Int8, dtypes.Float32)
	assert.False(t, found)
	_, found = concatDTypeMap.Get(dtypes.InvalidDType, dtypes.Int8, dtypes.Int8)
	assert.False(t, found)

	m := NewDTypeTripleMap("test")
	calls := 0
	typed := concatKernels{generic: func(*Plan, *value.Value, *value.Value) *value.Value { calls++; return nil }}
	m.Register(dtypes.Float32, dtypes.Float32, dtypes.Float32, priorityTyped, typed)
	m.Register(dtypes.Float32, dtypes.Float32, dtypes.Float32, priorityGeneric, execConcatSameType[float32]())
	kernels, found = m.Get(dtypes.Float32, dtypes.Float32, dtypes.Float32)
	require.True(t, found)
	kernels.generic(nil, nil, nil)
	assert.Equal(t, 1, calls)
	require.Panics(t, func() { m.Register(dtypes.MaxDTypes, dtypes.Float32, dtypes.Float32, priorityGeneric, typed) })
}

func TestInstructionOperandTypes(t *testing.T) {
	inst := must.M1(MakeInstruction(valuetype.MustParse("tensor(x[2])"), valuetype.MustParse("tensor(x[2])"), "x", factory))
	err := exceptions.TryCatch[error](func() {
		inst.Execute(dense[float32]("tensor<float>(x[2])", 1, 2), dense[float64]("tensor(x[2])", 3, 4))
	})
	require.Error(t, err)
}

func TestPooledFactory(t *testing.T) {
	pooled := must.M1(value.NewPooledFactory("max_cells=64"))
	lhs := dense[float32]("tensor<float>(x[2],y[2])", 1, 2, 3, 4)
	rhs := dense[float32]("tensor<float>(x[1],y[2])", 5, 6)
	inst := must.M1(MakeInstruction(lhs.Type(), rhs.Type(), "x", pooled))
	for range 3 {
		result := inst.Execute(lhs, rhs)
		assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, value.CellsAs[float32](result))
		result.Finalize()
	}
	assert.Contains(t, inst.Plan().String(), `factory "pooled"`)
}

func TestPlanString(t *testing.T) {
	plan := must.M1(NewPlan(valuetype.MustParse("tensor(id{},x[2])"), valuetype.MustParse("tensor(id{},x[1])"), "x", factory))
	want := `concat(tensor(id{},x[2]), tensor(id{},x[1]), "x") -> tensor(id{},x[3]) [generic kernel, factory "default"]
  sparse: sources=[Both] lhs_overlap=[0] rhs_overlap=[0]
  dense: output_size=3 (24 B per subspace), right_offset=2
  left:  in_size=2 loops=[{ConcatAxis in:2/1 out:3/1}]
  right: in_size=1 loops=[{ConcatAxis in:1/0 out:3/1}]`
	assert.Equal(t, want, plan.String())
}

func TestPlanCache(t *testing.T) {
	var cache PlanCache
	lhsType, rhsType := valuetype.MustParse("tensor(x[2])"), valuetype.MustParse("tensor(x[3])")
	var wg sync.WaitGroup
	instructions := make([]*Instruction, 8)
	for ii := range instructions {
		wg.Add(1)
		go func() {
			defer wg.Done()
			instructions[ii] = must.M1(cache.Get(lhsType, rhsType, "x", factory))
		}()
	}
	wg.Wait()
	for _, inst := range instructions {
		assert.Same(t, instructions[0], inst)
	}
	hits, misses := cache.Stats()
	assert.Equal(t, 7, hits)
	assert.Equal(t, 1, misses)

	result := must.M1(cache.Concat(dense[float64]("tensor(x[2])", 1, 2), dense[float64]("tensor(x[3])", 3, 4, 5), "x", factory))
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, value.CellsAs[float64](result))
	assert.Equal(t, 1, cache.Len())

	// Errors are not cached.
	_, err := cache.Get(lhsType, valuetype.MustParse("tensor(x[3],y[2])"), "x", factory)
	require.Error(t, err)
	assert.Equal(t, 1, cache.Len())
}
