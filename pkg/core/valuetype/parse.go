// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package valuetype

import (
	"strconv"
	"unicode"

	"github.com/gomlx/mixedtensor/pkg/core/dtypes"
	"github.com/pkg/errors"
)

// Parse a type spec, as generated by ValueType.String.
//
// Accepted forms: "double", "tensor(x[3])", "tensor<float>(id{},x[3])", "tensor<bfloat16>()".
// White spaces between tokens are ignored. Dimensions can be given in any order.
func Parse(spec string) (ValueType, error) {
	p := &specParser{input: spec}
	t, err := p.parse()
	if err != nil {
		return Invalid(), errors.WithMessagef(err, "parsing value type %q", spec)
	}
	return t, nil
}

// MustParse is like Parse, but panics on error.
func MustParse(spec string) ValueType {
	t, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return t
}

type specParser struct {
	input string
	pos   int
}

func (p *specParser) skipSpaces() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func (p *specParser) peek() byte {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *specParser) expect(c byte) error {
	if p.peek() != c {
		return errors.Errorf("expected %q at position %d", c, p.pos)
	}
	p.pos++
	return nil
}

func (p *specParser) identifier() string {
	p.skipSpaces()
	start := p.pos
	for p.pos < len(p.input) {
		c := rune(p.input[p.pos])
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' {
			break
		}
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *specParser) parse() (ValueType, error) {
	keyword := p.identifier()
	switch keyword {
	case "double":
		if p.peek() != 0 {
			return Invalid(), errors.Errorf("unexpected trailing input at position %d", p.pos)
		}
		return Double(), nil
	case "tensor":
	default:
		return Invalid(), errors.Errorf("expected \"double\" or \"tensor\", got %q", keyword)
	}

	cellType := dtypes.Float64
	if p.peek() == '<' {
		p.pos++
		var err error
		cellType, err = dtypes.FromName(p.identifier())
		if err != nil {
			return Invalid(), err
		}
		if err = p.expect('>'); err != nil {
			return Invalid(), err
		}
	}
	if err := p.expect('('); err != nil {
		return Invalid(), err
	}
	var dims []Dimension
	for p.peek() != ')' {
		if len(dims) > 0 {
			if err := p.expect(','); err != nil {
				return Invalid(), err
			}
		}
		dim, err := p.dimension()
		if err != nil {
			return Invalid(), err
		}
		dims = append(dims, dim)
	}
	p.pos++
	if p.peek() != 0 {
		return Invalid(), errors.Errorf("unexpected trailing input at position %d", p.pos)
	}
	return Make(cellType, dims...)
}

func (p *specParser) dimension() (Dimension, error) {
	name := p.identifier()
	if name == "" {
		return Dimension{}, errors.Errorf("expected dimension name at position %d", p.pos)
	}
	switch p.peek() {
	case '{':
		p.pos++
		if err := p.expect('}'); err != nil {
			return Dimension{}, err
		}
		return Mapped(name), nil
	case '[':
		p.pos++
		sizeStr := p.identifier()
		size, err := strconv.Atoi(sizeStr)
		if err != nil || size <= 0 {
			return Dimension{}, errors.Errorf("invalid size %q for dimension %q", sizeStr, name)
		}
		if err = p.expect(']'); err != nil {
			return Dimension{}, err
		}
		return Indexed(name, size), nil
	default:
		return Dimension{}, errors.Errorf("expected '{' or '[' after dimension name %q", name)
	}
}
