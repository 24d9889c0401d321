package ga

import (
	"fmt"
	"strings"

	"bitevolve/internal/rng"
)

// Genome is a fixed-length bit string. Operators never modify a Genome in
// place; every transformation returns a new value.
type Genome struct {
	bits []byte
}

// NewGenome copies bits into a new genome. Each element must be 0 or 1.
func NewGenome(bits []byte) (Genome, error) {
	for i, b := range bits {
		if b > 1 {
			return Genome{}, fmt.Errorf("%w: bit %d has value %d", ErrInvalidArgument, i, b)
		}
	}
	return Genome{bits: append([]byte(nil), bits...)}, nil
}

// ParseGenome decodes a string of '0' and '1' characters
func ParseGenome(s string) (Genome, error) {
	bits := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
		case '1':
			bits[i] = 1
		default:
			return Genome{}, fmt.Errorf("%w: invalid character %q at %d", ErrInvalidArgument, s[i], i)
		}
	}
	return Genome{bits: bits}, nil
}

// MustParseGenome is ParseGenome for literals known to be valid
func MustParseGenome(s string) Genome {
	g, err := ParseGenome(s)
	if err != nil {
		panic(err)
	}
	return g
}

// RandomGenome draws length independent uniform bits
func RandomGenome(length int, src *rng.Source) Genome {
	bits := make([]byte, length)
	for i := range bits {
		bits[i] = byte(src.UniformInt(0, 2))
	}
	return Genome{bits: bits}
}

// Len returns the number of loci
func (g Genome) Len() int {
	return len(g.bits)
}

// Bit returns the value at locus i
func (g Genome) Bit(i int) byte {
	return g.bits[i]
}

// Ones counts set bits
func (g Genome) Ones() int {
	n := 0
	for _, b := range g.bits {
		n += int(b)
	}
	return n
}

// Bits returns a copy of the underlying bits
func (g Genome) Bits() []byte {
	return append([]byte(nil), g.bits...)
}

// Clone returns an independent copy
func (g Genome) Clone() Genome {
	return Genome{bits: g.Bits()}
}

// Equal reports whether both genomes carry the same bits
func (g Genome) Equal(other Genome) bool {
	if len(g.bits) != len(other.bits) {
		return false
	}
	for i := range g.bits {
		if g.bits[i] != other.bits[i] {
			return false
		}
	}
	return true
}

// String encodes the genome as '0'/'1' characters
func (g Genome) String() string {
	var sb strings.Builder
	sb.Grow(len(g.bits))
	for _, b := range g.bits {
		sb.WriteByte('0' + b)
	}
	return sb.String()
}

// MarshalText implements encoding.TextMarshaler
func (g Genome) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (g *Genome) UnmarshalText(text []byte) error {
	parsed, err := ParseGenome(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
