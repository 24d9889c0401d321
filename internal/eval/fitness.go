package eval

import (
	"fmt"
	"sort"

	"bitevolve/internal/ga"
)

// Fitness modes
const (
	ModeOneMax      = "onemax"
	ModeLeadingOnes = "leading_ones"
	ModeTarget      = "target"
	ModeTrap        = "trap"
)

// Spec selects and parameterizes a fitness function
type Spec struct {
	Mode   string
	Target string
	TrapK  int
}

// OneMax counts set bits
func OneMax(g ga.Genome) float64 {
	return float64(g.Ones())
}

// LeadingOnes counts consecutive set bits from locus 0
func LeadingOnes(g ga.Genome) float64 {
	n := 0
	for n < g.Len() && g.Bit(n) == 1 {
		n++
	}
	return float64(n)
}

// TargetMatch scores the number of loci equal to target
func TargetMatch(target ga.Genome) ga.FitnessFunc {
	return func(g ga.Genome) float64 {
		n := 0
		for i := 0; i < g.Len() && i < target.Len(); i++ {
			if g.Bit(i) == target.Bit(i) {
				n++
			}
		}
		return float64(n)
	}
}

// Trap sums deceptive k-bit trap blocks. A block with u set bits scores k when
// u == k and k-1-u otherwise, so local search is pulled toward all zeros.
func Trap(k int) ga.FitnessFunc {
	return func(g ga.Genome) float64 {
		total := 0
		for start := 0; start+k <= g.Len(); start += k {
			u := 0
			for i := start; i < start+k; i++ {
				u += int(g.Bit(i))
			}
			if u == k {
				total += k
			} else {
				total += k - 1 - u
			}
		}
		return float64(total)
	}
}

// Lookup resolves a fitness function for genomes of the given length
func Lookup(spec Spec, genomeLength int) (ga.FitnessFunc, error) {
	switch spec.Mode {
	case "", ModeOneMax:
		return OneMax, nil
	case ModeLeadingOnes:
		return LeadingOnes, nil
	case ModeTarget:
		target, err := ga.ParseGenome(spec.Target)
		if err != nil {
			return nil, fmt.Errorf("fitness target: %w", err)
		}
		if target.Len() != genomeLength {
			return nil, fmt.Errorf("%w: target has %d bits, genome length is %d", ga.ErrInvalidArgument, target.Len(), genomeLength)
		}
		return TargetMatch(target), nil
	case ModeTrap:
		if spec.TrapK < 1 || genomeLength%spec.TrapK != 0 {
			return nil, fmt.Errorf("%w: trap block size %d must divide genome length %d", ga.ErrInvalidArgument, spec.TrapK, genomeLength)
		}
		return Trap(spec.TrapK), nil
	default:
		return nil, fmt.Errorf("%w: unknown fitness mode %q (known: %v)", ga.ErrInvalidArgument, spec.Mode, Modes())
	}
}

// MaxScore returns the optimum score. Every registered function peaks at the
// genome length.
func MaxScore(genomeLength int) float64 {
	return float64(genomeLength)
}

// Modes lists the registered fitness modes
func Modes() []string {
	modes := []string{ModeOneMax, ModeLeadingOnes, ModeTarget, ModeTrap}
	sort.Strings(modes)
	return modes
}
