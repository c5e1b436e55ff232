package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"robo-advisor/internal/report"
	"robo-advisor/internal/scoring"

	"github.com/google/subcommands"
	"gopkg.in/yaml.v3"
)

type questionsCmd struct{}

func (*questionsCmd) Name() string     { return "questions" }
func (*questionsCmd) Synopsis() string { return "lists the risk questionnaire and its allowed answers" }
func (*questionsCmd) Usage() string {
	return `cli questions

  Prints every question with its flag name and the allowed answers.
`
}
func (*questionsCmd) SetFlags(*flag.FlagSet) {}

func (*questionsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	for _, q := range scoring.Options() {
		fmt.Printf("%s (--%s)\n", q.Prompt, flagName(q.Field))
		if q.Kind == "range" {
			fmt.Printf("  %d..%d (default %d)\n", q.Min, q.Max, q.Default)
			continue
		}
		for _, o := range q.Options {
			fmt.Printf("  - %s\n", o)
		}
	}
	fmt.Println()
	fmt.Println(scoring.Disclaimer)
	return subcommands.ExitSuccess
}

// flagName maps an answer field to its command-line flag.
func flagName(field string) string { return strings.ReplaceAll(field, "_", "-") }

type profileCmd struct {
	answersFile string
	answers     scoring.Answers
	render      string
}

func (*profileCmd) Name() string     { return "profile" }
func (*profileCmd) Synopsis() string { return "scores answers and prints the recommended portfolio" }
func (*profileCmd) Usage() string {
	return `cli profile [--answers answers.yaml] [--age N --horizon ... ] [--render dark]

  Scores the questionnaire answers and prints the risk profile with its model
  portfolio as markdown. Answers come from a YAML file, from flags, or both
  (flags win). Run "cli questions" for the allowed literals.

Usage Examples:
$ cli profile --answers answers.yaml --render dark
`
}

func (p *profileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.answersFile, "answers", "", "YAML file with the answers (keys as in 'cli questions')")
	f.StringVar(&p.render, "render", "", "Render for the terminal with a glamour style (dark, light, notty)")
	f.IntVar(&p.answers.Age, "age", 0, "Age in years")
	f.StringVar(&p.answers.Horizon, "horizon", "", "Investment horizon")
	f.StringVar(&p.answers.Income, "income", "", "Share of income to invest")
	f.StringVar(&p.answers.Knowledge, "knowledge", "", "Financial knowledge")
	f.StringVar(&p.answers.MaxDrop, flagName("max_drop"), "", "Largest tolerated drop")
	f.StringVar(&p.answers.Reaction, "reaction", "", "Reaction to a 20% drop")
	f.StringVar(&p.answers.Liquidity, "liquidity", "", "Liquidity needs")
	f.StringVar(&p.answers.Goal, "goal", "", "Main goal")
	f.StringVar(&p.answers.Inflation, "inflation", "", "Concern about inflation")
	f.StringVar(&p.answers.Digital, "digital", "", "Trust in digital platforms")
}

func (p *profileCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := p.collect()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitUsageError
	}
	bucket, total, err := scoring.Score(a)
	if err != nil {
		var fe *scoring.FieldError
		if errors.As(err, &fe) {
			fail("invalid answer for --%s: %q", flagName(fe.Field), fe.Value)
		} else {
			fail("%v", err)
		}
		return subcommands.ExitUsageError
	}

	app, err := newApp()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	pf, err := app.catalog.Portfolio(bucket)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	md, err := report.Markdown(app.catalog, report.Input{Bucket: bucket, Score: total, Portfolio: pf})
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	if err := writeMarkdown(os.Stdout, md, p.render); err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// collect merges the answers file with the flags; non-empty flags win.
func (p *profileCmd) collect() (scoring.Answers, error) {
	var a scoring.Answers
	if p.answersFile != "" {
		raw, err := os.ReadFile(p.answersFile)
		if err != nil {
			return a, err
		}
		if err := yaml.Unmarshal(raw, &a); err != nil {
			return a, fmt.Errorf("parse %s: %w", p.answersFile, err)
		}
	}
	return mergeAnswers(a, p.answers), nil
}

func mergeAnswers(base, override scoring.Answers) scoring.Answers {
	out := base
	if override.Age != 0 {
		out.Age = override.Age
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&out.Horizon, override.Horizon)
	set(&out.Income, override.Income)
	set(&out.Knowledge, override.Knowledge)
	set(&out.MaxDrop, override.MaxDrop)
	set(&out.Reaction, override.Reaction)
	set(&out.Liquidity, override.Liquidity)
	set(&out.Goal, override.Goal)
	set(&out.Inflation, override.Inflation)
	set(&out.Digital, override.Digital)
	return out
}
