// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package value

import (
	"reflect"
	"sync"

	"github.com/gomlx/mixedtensor/pkg/core/dtypes"
)

type bufferPoolKey struct {
	dtype  dtypes.DType
	length int
}

// pooledCells is what is stored in the pools: the flat slice is held by pointer, so Put
// doesn't allocate.
type pooledCells struct {
	key  bufferPoolKey
	flat any
}

// bufferPool reuses cell slices, per dtype and length.
type bufferPool struct {
	// pools are a map to pools of buffers that can be reused.
	// The underlying type is map[bufferPoolKey]*sync.Pool.
	pools sync.Map

	// maxCells is the largest buffer kept in the pools. If 0 there is no limit.
	maxCells int
}

func (p *bufferPool) accepts(length int) bool {
	return p.maxCells <= 0 || length <= p.maxCells
}

// getPool for given dtype/length.
func (p *bufferPool) getPool(key bufferPoolKey) *sync.Pool {
	poolInterface, ok := p.pools.Load(key)
	if !ok {
		poolInterface, _ = p.pools.LoadOrStore(key, &sync.Pool{
			New: func() interface{} {
				return &pooledCells{
					key:  key,
					flat: reflect.MakeSlice(reflect.SliceOf(key.dtype.GoType()), key.length, key.length).Interface(),
				}
			},
		})
	}
	return poolInterface.(*sync.Pool)
}

// get a buffer from the pool. Its contents are undefined.
func (p *bufferPool) get(dtype dtypes.DType, length int) *pooledCells {
	return p.getPool(bufferPoolKey{dtype: dtype, length: length}).Get().(*pooledCells)
}

// put buffer back into the pool. After this any references to the buffer should be dropped.
func (p *bufferPool) put(buffer *pooledCells) {
	if buffer == nil {
		return
	}
	p.getPool(buffer.key).Put(buffer)
}
