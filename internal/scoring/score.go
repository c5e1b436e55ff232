// Package scoring maps questionnaire answers to a risk score and bucket.
package scoring

import (
	"errors"
	"fmt"

	"robo-advisor/internal/model"
)

// ErrInvalidInput is returned when an answer is outside its enumerated domain.
var ErrInvalidInput = errors.New("invalid input")

// FieldError names the offending field of an invalid answer.
type FieldError struct {
	Field string
	Value string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %q is not a valid %s answer", ErrInvalidInput, e.Value, e.Field)
}

func (e *FieldError) Unwrap() error { return ErrInvalidInput }

const (
	// MinScore and MaxScore bound the total over the ten questions.
	MinScore = 10
	MaxScore = 50
)

// breakpoints are inclusive upper bounds of buckets 0..3; anything above is bucket 4.
var breakpoints = [model.NumBuckets - 1]int{17, 25, 33, 41}

// option is one allowed literal and its points.
type option struct {
	Value  string
	Points int
}

// question is a categorical question with its ordered options, most conservative first.
type question struct {
	Field   string
	Prompt  string
	Options []option
	get     func(Answers) string
}

var questions = []question{
	{
		Field:  "horizon",
		Prompt: "Horizonte de inversión",
		Options: []option{
			{HorizonUnder3, 1}, {Horizon3To5, 2}, {Horizon5To10, 4}, {HorizonOver10, 5},
		},
		get: func(a Answers) string { return a.Horizon },
	},
	{
		Field:  "income",
		Prompt: "% de ingresos para invertir",
		Options: []option{
			{IncomeUnder5, 1}, {Income5To10, 2}, {Income10To20, 4}, {IncomeOver20, 5},
		},
		get: func(a Answers) string { return a.Income },
	},
	{
		Field:  "knowledge",
		Prompt: "Conocimiento financiero",
		Options: []option{
			{KnowledgeBeginner, 1}, {KnowledgeIntermediate, 3}, {KnowledgeAdvanced, 5},
		},
		get: func(a Answers) string { return a.Knowledge },
	},
	{
		Field:  "max_drop",
		Prompt: "Caída máxima tolerable",
		Options: []option{
			{MaxDrop5, 1}, {MaxDrop10, 2}, {MaxDrop20, 3}, {MaxDrop30, 4}, {MaxDropOver30, 5},
		},
		get: func(a Answers) string { return a.MaxDrop },
	},
	{
		Field:  "reaction",
		Prompt: "Si tu portafolio cae 15%",
		Options: []option{
			{ReactionSellAll, 1}, {ReactionSellPart, 2}, {ReactionHold, 4}, {ReactionBuyMore, 5},
		},
		get: func(a Answers) string { return a.Reaction },
	},
	{
		Field:  "liquidity",
		Prompt: "Necesidad de liquidez",
		Options: []option{
			{LiquidityHigh, 1}, {LiquidityMedium, 3}, {LiquidityLow, 5},
		},
		get: func(a Answers) string { return a.Liquidity },
	},
	{
		Field:  "goal",
		Prompt: "Objetivo principal",
		Options: []option{
			{GoalProtect, 1}, {GoalIncome, 2}, {GoalBalanced, 4}, {GoalMax, 5},
		},
		get: func(a Answers) string { return a.Goal },
	},
	{
		Field:  "inflation",
		Prompt: "Preocupación por inflación",
		Options: []option{
			{InflationNone, 1}, {InflationModerate, 3}, {InflationHigh, 5},
		},
		get: func(a Answers) string { return a.Inflation },
	},
	{
		Field:  "digital",
		Prompt: "Confianza en plataformas digitales",
		Options: []option{
			{DigitalLow, 1}, {DigitalMedium, 3}, {DigitalHigh, 5},
		},
		get: func(a Answers) string { return a.Digital },
	},
}

// agePoints gives younger investors more points.
func agePoints(age int) int {
	switch {
	case age < 30:
		return 5
	case age < 40:
		return 4
	case age < 50:
		return 3
	case age < 60:
		return 2
	default:
		return 1
	}
}

// Validate reports the first answer outside its domain.
func Validate(a Answers) error {
	if a.Age < MinAge || a.Age > MaxAge {
		return &FieldError{Field: "age", Value: fmt.Sprint(a.Age)}
	}
	for _, q := range questions {
		if _, ok := q.points(q.get(a)); !ok {
			return &FieldError{Field: q.Field, Value: q.get(a)}
		}
	}
	return nil
}

func (q question) points(v string) (int, bool) {
	for _, o := range q.Options {
		if o.Value == v {
			return o.Points, true
		}
	}
	return 0, false
}

// Score returns the risk bucket and the total score of the answers.
// Answers outside their domain fail with an error wrapping ErrInvalidInput.
func Score(a Answers) (model.Bucket, int, error) {
	if err := Validate(a); err != nil {
		return 0, 0, err
	}
	total := agePoints(a.Age)
	for _, q := range questions {
		p, _ := q.points(q.get(a))
		total += p
	}
	return BucketFor(total), total, nil
}

// BucketFor maps a total score onto its bucket.
func BucketFor(total int) model.Bucket {
	for i, upper := range breakpoints {
		if total <= upper {
			return model.Bucket(i)
		}
	}
	return model.BucketAggressive
}
