package eval

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitevolve/internal/ga"
)

func TestFitnessFunctions(t *testing.T) {
	tests := []struct {
		name    string
		fitness ga.FitnessFunc
		genome  string
		want    float64
	}{
		{"onemax empty", OneMax, "0000", 0},
		{"onemax mixed", OneMax, "1011", 3},
		{"leading ones", LeadingOnes, "1101", 2},
		{"leading ones full", LeadingOnes, "1111", 4},
		{"leading ones none", LeadingOnes, "0111", 0},
		{"target exact", TargetMatch(ga.MustParseGenome("1010")), "1010", 4},
		{"target inverse", TargetMatch(ga.MustParseGenome("1010")), "0101", 0},
		{"trap optimum", Trap(4), "11111111", 8},
		{"trap deceptive zeros", Trap(4), "00000000", 6},
		{"trap one short", Trap(4), "11101111", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fitness(ga.MustParseGenome(tt.genome)))
		})
	}
}

func TestLookup(t *testing.T) {
	f, err := Lookup(Spec{}, 8)
	require.NoError(t, err)
	assert.Equal(t, 3.0, f(ga.MustParseGenome("10101000")))

	f, err = Lookup(Spec{Mode: ModeTarget, Target: "1100"}, 4)
	require.NoError(t, err)
	assert.Equal(t, 4.0, f(ga.MustParseGenome("1100")))

	f, err = Lookup(Spec{Mode: ModeTrap, TrapK: 2}, 4)
	require.NoError(t, err)
	assert.Equal(t, 4.0, f(ga.MustParseGenome("1111")))

	_, err = Lookup(Spec{Mode: ModeLeadingOnes}, 4)
	assert.NoError(t, err)
}

func TestLookupErrors(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"unknown mode", Spec{Mode: "royal_road"}},
		{"target length mismatch", Spec{Mode: ModeTarget, Target: "101"}},
		{"target bad characters", Spec{Mode: ModeTarget, Target: "10x1"}},
		{"trap does not divide", Spec{Mode: ModeTrap, TrapK: 3}},
		{"trap zero", Spec{Mode: ModeTrap}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lookup(tt.spec, 4)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ga.ErrInvalidArgument))
		})
	}
}

func TestMaxScoreAndModes(t *testing.T) {
	assert.Equal(t, 80.0, MaxScore(80))
	assert.Equal(t, []string{"leading_ones", "onemax", "target", "trap"}, Modes())
}
