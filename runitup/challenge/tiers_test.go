package challenge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		name   string
		points int
		want   string
	}{
		{"zero points", 0, "OBSERVER"},
		{"top of observer", 49, "OBSERVER"},
		{"bottom of builder", 50, "BUILDER"},
		{"top of builder", 149, "BUILDER"},
		{"bottom of operator", 150, "OPERATOR"},
		{"top of operator", 299, "OPERATOR"},
		{"bottom of elite", 300, "ELITE"},
		{"deep into elite", 100000, "ELITE"},
		{"negative total stays observer", -20, "OBSERVER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TierFor(tt.points).Name)
		})
	}
}

func TestTierByName(t *testing.T) {
	tier, ok := TierByName("OPERATOR")
	assert.True(t, ok)
	assert.Equal(t, 150, tier.Min)
	assert.Equal(t, 299, tier.Max)

	_, ok = TierByName("LEGEND")
	assert.False(t, ok)
}

func TestTiersAreContiguous(t *testing.T) {
	for i := 1; i < len(Tiers); i++ {
		assert.Equal(t, Tiers[i-1].Max+1, Tiers[i].Min,
			"gap between %s and %s", Tiers[i-1].Name, Tiers[i].Name)
	}
}
