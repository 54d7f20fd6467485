package types

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genUsage() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 1_000_000), // input
		gen.IntRange(0, 1_000_000), // output
		gen.IntRange(0, 100),       // cache read percent of input
		gen.IntRange(0, 1_000_000), // cache creation
		// Whole milliseconds keep float addition exact, so the algebraic
		// properties below hold without an epsilon.
		gen.IntRange(0, 3_600_000),
	).Map(func(vals []interface{}) UsageStats {
		input := vals[0].(int)
		output := vals[1].(int)
		cacheRead := input * vals[2].(int) / 100
		return UsageStats{
			InputTokens:              input,
			OutputTokens:             output,
			TotalTokens:              input + output,
			CacheReadInputTokens:     cacheRead,
			CacheCreationInputTokens: vals[3].(int),
			LatencyMS:                float64(vals[4].(int)),
		}
	})
}

func TestProperty_UsageAggregation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("generated records satisfy every invariant", prop.ForAll(
		func(u UsageStats) bool {
			return u.Validate() == nil
		},
		genUsage(),
	))

	properties.Property("addition is closed over valid records", prop.ForAll(
		func(a, b UsageStats) bool {
			return a.Add(b).Validate() == nil
		},
		genUsage(), genUsage(),
	))

	properties.Property("addition is commutative and associative", prop.ForAll(
		func(a, b, c UsageStats) bool {
			if a.Add(b) != b.Add(a) {
				return false
			}
			return a.Add(b).Add(c) == a.Add(b.Add(c))
		},
		genUsage(), genUsage(), genUsage(),
	))

	properties.Property("zero is the additive identity", prop.ForAll(
		func(u UsageStats) bool {
			return u.Add(ZeroUsage()) == u && ZeroUsage().Add(u) == u
		},
		genUsage(),
	))

	properties.Property("cache efficiency stays within [0, 1]", prop.ForAll(
		func(u UsageStats) bool {
			eff := u.CacheEfficiency()
			return eff >= 0 && eff <= 1
		},
		genUsage(),
	))

	properties.TestingRun(t)
}
