package main

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"investor-education/internal/education"
	"investor-education/internal/learnhub"
)

// completion describes the command tree for shell completion. Install it with
// COMP_INSTALL=1 <binary>.
func completion() *complete.Command {
	keys := make(predict.Set, 0, len(education.Lessons()))
	for _, l := range education.Lessons() {
		keys = append(keys, l.Key)
	}
	langs := make(predict.Set, 0, len(learnhub.Languages))
	for code := range learnhub.Languages {
		langs = append(langs, code)
	}

	order := &complete.Command{Flags: map[string]complete.Predictor{"q": predict.Something, "p": predict.Something}}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.yaml"),
			"plain":  predict.Nothing,
			"v":      predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"buy":         order,
			"sell":        order,
			"portfolio":   {},
			"history":     {},
			"export":      {Flags: map[string]complete.Predictor{"o": predict.Files("*.csv")}},
			"quote":       {Flags: map[string]complete.Predictor{"n": predict.Something}},
			"lessons":     {},
			"lesson":      {Args: keys},
			"done":        {Args: keys},
			"quiz":        {Flags: map[string]complete.Predictor{"a": predict.Something, "name": predict.Something}},
			"leaderboard": {},
			"risk":        {Flags: map[string]complete.Predictor{"a": predict.Something}},
			"dashboard":   {},
			"certificate": {Flags: map[string]complete.Predictor{"o": predict.Files("*.txt")}},
			"resources":   {},
			"learn": {Flags: map[string]complete.Predictor{
				"url":  predict.Something,
				"text": predict.Something,
				"lang": langs,
				"n":    predict.Set{"3", "4", "5", "6", "7", "8", "9", "10"},
				"raw":  predict.Nothing,
			}},
			"help":  {},
			"flags": {},
		},
	}
}
