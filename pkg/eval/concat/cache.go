// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package concat

import (
	"sync"

	"github.com/gomlx/mixedtensor/pkg/core/value"
	"github.com/gomlx/mixedtensor/pkg/core/valuetype"
	"k8s.io/klog/v2"
)

type planCacheKey struct {
	lhs, rhs, dimension string
	factory             value.BuilderFactory
}

// PlanCache memoizes Instructions by operand types, concat dimension and factory.
//
// It is safe for concurrent use. The zero value is ready to use.
type PlanCache struct {
	mu           sync.Mutex
	instructions map[planCacheKey]*Instruction
	hits, misses int
}

// Get returns the Instruction for the given types, dimension and factory, creating it on the first
// call. Errors are not cached.
func (c *PlanCache) Get(lhsType, rhsType valuetype.ValueType, dimension string, factory value.BuilderFactory) (*Instruction, error) {
	key := planCacheKey{lhs: lhsType.String(), rhs: rhsType.String(), dimension: dimension, factory: factory}
	c.mu.Lock()
	defer c.mu.Unlock()
	if inst, found := c.instructions[key]; found {
		c.hits++
		return inst, nil
	}
	c.misses++
	klog.V(2).Infof("concat plan cache miss for (%s, %s, %q) with factory %q", key.lhs, key.rhs, dimension, factory.Name())
	inst, err := MakeInstruction(lhsType, rhsType, dimension, factory)
	if err != nil {
		return nil, err
	}
	if c.instructions == nil {
		c.instructions = make(map[planCacheKey]*Instruction)
	}
	c.instructions[key] = inst
	return inst, nil
}

// Concat is like the package's Concat, but uses the cached Instruction for the types of the values.
func (c *PlanCache) Concat(lhs, rhs *value.Value, dimension string, factory value.BuilderFactory) (*value.Value, error) {
	inst, err := c.Get(lhs.Type(), rhs.Type(), dimension, factory)
	if err != nil {
		return nil, err
	}
	return inst.Execute(lhs, rhs), nil
}

// Stats returns the number of cache hits and misses so far.
func (c *PlanCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Len returns the number of cached instructions.
func (c *PlanCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.instructions)
}
