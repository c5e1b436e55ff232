package scoring

import (
	"errors"
	"testing"

	"robo-advisor/internal/model"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_Extremes(t *testing.T) {
	b, total, err := Score(Conservative())
	require.NoError(t, err)
	assert.Equal(t, model.BucketConservative, b)
	assert.Equal(t, "Conservador", b.Label())
	assert.Equal(t, MinScore, total)

	b, total, err = Score(Aggressive())
	require.NoError(t, err)
	assert.Equal(t, model.BucketAggressive, b)
	assert.Equal(t, "Agresivo", b.Label())
	assert.Equal(t, MaxScore, total)
}

func TestScore_Middle(t *testing.T) {
	a := Answers{
		Age:       30,
		Horizon:   Horizon5To10,
		Income:    Income5To10,
		Knowledge: KnowledgeIntermediate,
		MaxDrop:   MaxDrop20,
		Reaction:  ReactionHold,
		Liquidity: LiquidityMedium,
		Goal:      GoalBalanced,
		Inflation: InflationModerate,
		Digital:   DigitalMedium,
	}
	b, total, err := Score(a)
	require.NoError(t, err)
	// 4 (age) + 4 + 2 + 3 + 3 + 4 + 3 + 4 + 3 + 3
	assert.Equal(t, 33, total)
	assert.Equal(t, model.BucketBalanced, b)
}

func TestScore_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Answers)
		field  string
	}{
		{"age too low", func(a *Answers) { a.Age = 17 }, "age"},
		{"age too high", func(a *Answers) { a.Age = 76 }, "age"},
		{"unknown horizon", func(a *Answers) { a.Horizon = "mañana" }, "horizon"},
		{"empty goal", func(a *Answers) { a.Goal = "" }, "goal"},
		{"case matters", func(a *Answers) { a.Digital = "alta" }, "digital"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Conservative()
			tt.mutate(&a)
			_, _, err := Score(a)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestBucketFor_Breakpoints(t *testing.T) {
	tests := []struct {
		total int
		want  model.Bucket
	}{
		{10, 0}, {17, 0}, {18, 1}, {25, 1}, {26, 2}, {33, 2}, {34, 3}, {41, 3}, {42, 4}, {50, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BucketFor(tt.total), "total=%d", tt.total)
	}
}

func TestOptions_MatchValidation(t *testing.T) {
	qs := Options()
	require.Len(t, qs, 10)
	assert.Equal(t, "age", qs[0].Field)
	for _, q := range qs[1:] {
		assert.GreaterOrEqual(t, len(q.Options), 3, q.Field)
		assert.LessOrEqual(t, len(q.Options), 5, q.Field)
	}
}

// answersFrom picks option idx[i] (modulo the option count) for question i.
func answersFrom(age int, idx []int) Answers {
	a := Answers{Age: age}
	set := []func(string){
		func(v string) { a.Horizon = v },
		func(v string) { a.Income = v },
		func(v string) { a.Knowledge = v },
		func(v string) { a.MaxDrop = v },
		func(v string) { a.Reaction = v },
		func(v string) { a.Liquidity = v },
		func(v string) { a.Goal = v },
		func(v string) { a.Inflation = v },
		func(v string) { a.Digital = v },
	}
	for i, q := range questions {
		set[i](q.Options[idx[i]%len(q.Options)].Value)
	}
	return a
}

func TestScore_Properties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("valid answers score within bounds", prop.ForAll(
		func(age int, idx []int) bool {
			b, total, err := Score(answersFrom(age, idx))
			return err == nil && b.Valid() && total >= MinScore && total <= MaxScore && BucketFor(total) == b
		},
		gen.IntRange(MinAge, MaxAge),
		gen.SliceOfN(len(questions), gen.IntRange(0, 4)),
	))

	properties.Property("scoring is pure", prop.ForAll(
		func(age int, idx []int) bool {
			a := answersFrom(age, idx)
			b1, t1, _ := Score(a)
			b2, t2, _ := Score(a)
			return b1 == b2 && t1 == t2
		},
		gen.IntRange(MinAge, MaxAge),
		gen.SliceOfN(len(questions), gen.IntRange(0, 4)),
	))

	properties.Property("out of range ages are rejected", prop.ForAll(
		func(age int) bool {
			a := Conservative()
			a.Age = age
			_, _, err := Score(a)
			return errors.Is(err, ErrInvalidInput)
		},
		gen.OneGenOf(gen.IntRange(-100, MinAge-1), gen.IntRange(MaxAge+1, 200)),
	))

	properties.TestingRun(t)
}
