package cmd

import (
	"flag"

	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"github.com/tickerlab/portfolio/docs"
	"github.com/tickerlab/portfolio/housing"
)

// predictors overrides the default prediction of some flags.
var predictors = map[string]complete.Predictor{
	"provider":     predict.Set{"yahoo", "eodhd", "alpaca"},
	"backend":      predict.Set{"openai", "gemini"},
	"xlsx":         predict.Files("*.xlsx"),
	"pdf":          predict.Files("*.pdf"),
	"charts":       predict.Dirs("*"),
	"knowledge":    predict.Files("*"),
	"model":        predict.Files("*.json"),
	"preprocessor": predict.Files("*.json"),
	"amenity":      predict.Set(housing.Amenities),
}

// Completion returns the shell completion tree of the application, with
// the global flags and the flags of every subcommand.
func Completion(global *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagPredictors(global),
	}
	for _, cmds := range Commands() {
		for _, c := range cmds {
			f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(f)
			root.Sub[c.Name()] = &complete.Command{Flags: flagPredictors(f)}
		}
	}
	if topics, err := docs.GetAllTopics(); err == nil {
		root.Sub["topic"].Args = predict.Set(topics)
	}
	return root
}

func flagPredictors(f *flag.FlagSet) map[string]complete.Predictor {
	m := make(map[string]complete.Predictor)
	f.VisitAll(func(fl *flag.Flag) {
		switch p, ok := predictors[fl.Name]; {
		case ok:
			m[fl.Name] = p
		case isBoolFlag(fl):
			m[fl.Name] = predict.Nothing
		default:
			m[fl.Name] = predict.Something
		}
	})
	return m
}

func isBoolFlag(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
