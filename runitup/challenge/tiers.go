package challenge

import "math"

// Tier is one rung of the challenge ladder. Min and Max are inclusive
// point bounds.
type Tier struct {
	Name     string
	Min      int
	Max      int
	RoleName string
	Emoji    string
}

var Tiers = []Tier{
	{Name: "OBSERVER", Min: 0, Max: 49, RoleName: "Q1 — Challenger", Emoji: "🟤"},
	{Name: "BUILDER", Min: 50, Max: 149, RoleName: "Q1 — Builder", Emoji: "🟢"},
	{Name: "OPERATOR", Min: 150, Max: 299, RoleName: "Q1 — Operator", Emoji: "🔵"},
	{Name: "ELITE", Min: 300, Max: math.MaxInt, RoleName: "Q1 — Elite", Emoji: "🟣"},
}

// TierFor maps a point total onto the ladder. Totals below the first rung
// (possible after reversals) fall back to the first tier.
func TierFor(points int) Tier {
	for _, t := range Tiers {
		if points >= t.Min && points <= t.Max {
			return t
		}
	}
	return Tiers[0]
}

// TierByName looks a tier up by its stored name.
func TierByName(name string) (Tier, bool) {
	for _, t := range Tiers {
		if t.Name == name {
			return t, true
		}
	}
	return Tier{}, false
}
