package shape

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/latticetile/pkg/geom"
)

// ErrSyntax is returned by [Parse] for malformed notation.
var ErrSyntax = errors.New("shape syntax error")

// Parse reads a configuration in bracket notation and returns its seed.
// The empty branch "[ ]" is a single cell.
func Parse(s string) (*Junction, error) {
	p := &parser{src: s}
	p.skipSpace()
	root := Leaf()
	if err := p.branch(root, true); err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected %q after configuration", p.src[p.pos])
	}
	return root, nil
}

// MustParse is like [Parse] but panics on error. It is meant for shapes
// written in Go source, such as tests and built-in tables.
func MustParse(s string) *Junction {
	j, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return j
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() && strings.IndexByte(" \t\r\n", p.src[p.pos]) >= 0 {
		p.pos++
	}
}

func (p *parser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		if p.eof() {
			return p.errorf("expected %q, got end of input", c)
		}
		return p.errorf("expected %q, got %q", c, p.peek())
	}
	p.pos++
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, p.pos, fmt.Sprintf(format, args...))
}

// branch parses "[ elem, ... ]" and attaches its cells below at. Only the
// outermost branch may be empty.
func (p *parser) branch(at *Junction, allowEmpty bool) error {
	if err := p.expect('['); err != nil {
		return err
	}
	p.skipSpace()
	if p.peek() == ']' {
		if !allowEmpty {
			return p.errorf("empty branch")
		}
		p.pos++
		return nil
	}

	cur := at
	for {
		p.skipSpace()
		switch p.peek() {
		case '(':
			d, err := p.direction()
			if err != nil {
				return err
			}
			next := Leaf()
			cur.Add(d, next)
			cur = next
		case '[':
			if err := p.fork(cur); err != nil {
				return err
			}
			p.skipSpace()
			if p.peek() != ']' {
				return p.errorf("fork must be the last element of a branch")
			}
		default:
			if p.eof() {
				return p.errorf("unterminated branch")
			}
			return p.errorf("unexpected %q", p.peek())
		}

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return nil
		default:
			if p.eof() {
				return p.errorf("unterminated branch")
			}
			return p.errorf("expected ',' or ']', got %q", p.peek())
		}
	}
}

// fork parses "[ branch, branch, ... ]"; every branch starts at at.
func (p *parser) fork(at *Junction) error {
	if err := p.expect('['); err != nil {
		return err
	}
	for {
		if err := p.branch(at, false); err != nil {
			return err
		}
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return nil
		default:
			if p.eof() {
				return p.errorf("unterminated fork")
			}
			return p.errorf("expected ',' or ']' in fork, got %q", p.peek())
		}
	}
}

func (p *parser) direction() (geom.Direction, error) {
	end := strings.IndexByte(p.src[p.pos:], ')')
	if end < 0 {
		return geom.Direction{}, p.errorf("unterminated direction")
	}
	d, err := geom.ParseDirection(p.src[p.pos : p.pos+end+1])
	if err != nil {
		return geom.Direction{}, fmt.Errorf("%w at offset %d: %v", ErrSyntax, p.pos, err)
	}
	if d.IsZero() {
		return geom.Direction{}, p.errorf("zero direction")
	}
	p.pos += end + 1
	return d, nil
}
