// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package value

import (
	"encoding/binary"
	"slices"

	"github.com/gomlx/exceptions"
)

// Index maps the addresses of a value (one label per mapped dimension) to subspaces, numbered
// 0..Size()-1 in insertion order.
type Index interface {
	// NumMappedDimensions is the length of the addresses in the index.
	NumMappedDimensions() int

	// Size returns the number of addresses (and subspaces) in the index.
	Size() int

	// CreateView returns a View that enumerates addresses constrained on the labels of the given
	// viewDims (positions in the address, sorted). An empty viewDims enumerates all addresses.
	CreateView(viewDims []int) View
}

// View enumerates subspaces of an Index matching labels on a subset of the mapped dimensions.
//
// A View is not safe for concurrent use, but many views can be created over the same Index.
type View interface {
	// Lookup (re-)starts the enumeration of the subspaces whose labels on the view dimensions
	// match labels. len(labels) must be equal to the number of view dimensions.
	Lookup(labels []string)

	// Next returns the next matching subspace, and writes to addressOut the labels of the
	// dimensions not in the view (in order). It returns ok=false when the enumeration is over.
	Next(addressOut []string) (subspace int, ok bool)
}

// FastIndex is the default Index implementation: addresses are stored flat, and full addresses
// are hashed for constant time lookup.
type FastIndex struct {
	numDims int

	// labels hold numDims labels per subspace.
	labels []string

	// lookup maps the encoded full address to its subspace.
	lookup map[string]int
}

var _ Index = (*FastIndex)(nil)

// NewFastIndex creates an empty index for addresses with numDims labels. expectedSize is
// optional, and is used to reserve space.
func NewFastIndex(numDims int, expectedSize ...int) *FastIndex {
	capacity := 0
	if len(expectedSize) > 0 {
		capacity = expectedSize[0]
	}
	return &FastIndex{
		numDims: numDims,
		labels:  make([]string, 0, capacity*numDims),
		lookup:  make(map[string]int, capacity),
	}
}

// appendKey appends the encoding of labels to buf: each label is prefixed by its length, so
// there are no ambiguities.
func appendKey(buf []byte, labels ...string) []byte {
	for _, label := range labels {
		buf = binary.AppendUvarint(buf, uint64(len(label)))
		buf = append(buf, label...)
	}
	return buf
}

// NumMappedDimensions implements Index.
func (idx *FastIndex) NumMappedDimensions() int { return idx.numDims }

// Size implements Index.
func (idx *FastIndex) Size() int { return len(idx.lookup) }

// Add address to the index, and returns its subspace. If the address is already present, it
// returns the existing subspace and added=false.
func (idx *FastIndex) Add(address []string) (subspace int, added bool) {
	if len(address) != idx.numDims {
		exceptions.Panicf("FastIndex.Add(%q): expected address with %d labels", address, idx.numDims)
	}
	var keyBuf [64]byte
	key := appendKey(keyBuf[:0], address...)
	if subspace, found := idx.lookup[string(key)]; found {
		return subspace, false
	}
	subspace = len(idx.lookup)
	idx.lookup[string(key)] = subspace
	idx.labels = append(idx.labels, address...)
	return subspace, true
}

// Find returns the subspace of the given full address.
func (idx *FastIndex) Find(address []string) (subspace int, found bool) {
	var keyBuf [64]byte
	subspace, found = idx.lookup[string(appendKey(keyBuf[:0], address...))]
	return
}

// Address returns the labels of the given subspace. Don't modify the returned slice.
func (idx *FastIndex) Address(subspace int) []string {
	return idx.labels[subspace*idx.numDims : (subspace+1)*idx.numDims]
}

// CreateView implements Index.
func (idx *FastIndex) CreateView(viewDims []int) View {
	for ii, dim := range viewDims {
		if dim < 0 || dim >= idx.numDims || (ii > 0 && viewDims[ii-1] >= dim) {
			exceptions.Panicf("FastIndex.CreateView(%v): invalid view dimensions for index with %d mapped dimensions",
				viewDims, idx.numDims)
		}
	}
	v := &fastView{index: idx, viewDims: slices.Clone(viewDims), next: -1}
	if len(viewDims) < idx.numDims {
		v.outDims = make([]int, 0, idx.numDims-len(viewDims))
		for dim := range idx.numDims {
			if !slices.Contains(viewDims, dim) {
				v.outDims = append(v.outDims, dim)
			}
		}
	}
	return v
}

// fastView implements View for FastIndex.
//
// Three cases: no view dimensions (enumerate all), all dimensions (hash lookup) and partial
// (linear scan filtering on the view dimensions).
type fastView struct {
	index    *FastIndex
	viewDims []int
	outDims  []int
	labels   []string
	keyBuf   []byte

	// next subspace to check, or -1 if the enumeration is over.
	next int
}

func (v *fastView) Lookup(labels []string) {
	if len(labels) != len(v.viewDims) {
		exceptions.Panicf("View.Lookup(%q): expected %d labels", labels, len(v.viewDims))
	}
	v.labels = labels
	if len(v.viewDims) > 0 && len(v.viewDims) == v.index.numDims {
		v.keyBuf = appendKey(v.keyBuf[:0], labels...)
		subspace, found := v.index.lookup[string(v.keyBuf)]
		if !found {
			v.next = -1
			return
		}
		v.next = subspace
		return
	}
	v.next = 0
}

func (v *fastView) Next(addressOut []string) (subspace int, ok bool) {
	if v.next < 0 {
		return -1, false
	}
	idx := v.index
	if len(v.viewDims) > 0 && len(v.viewDims) == idx.numDims {
		// Full lookup: at most one match.
		subspace = v.next
		v.next = -1
		return subspace, true
	}
	size := idx.Size()
	for v.next < size {
		subspace = v.next
		v.next++
		address := idx.Address(subspace)
		if !v.matches(address) {
			continue
		}
		for ii, dim := range v.outDims {
			addressOut[ii] = address[dim]
		}
		return subspace, true
	}
	v.next = -1
	return -1, false
}

func (v *fastView) matches(address []string) bool {
	for ii, dim := range v.viewDims {
		if address[dim] != v.labels[ii] {
			return false
		}
	}
	return true
}
