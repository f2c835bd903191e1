package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/tickerlab/portfolio/housing"
	"github.com/tidwall/pretty"
)

type housingCmd struct {
	model, preprocessor string
	listing             housing.Listing
	amenities           stringList
	mae                 float64
	json                bool
}

func (*housingCmd) Name() string     { return "housing" }
func (*housingCmd) Synopsis() string { return "Estimate the price of a Warsaw apartment." }
func (*housingCmd) Usage() string {
	return `pfa housing -model FILE -preprocessor FILE -size M2 [-monthly-cost PLN] [options]

Estimates the price of an apartment with a trained regression model and
prints the price with its likely range.

`
}

func (c *housingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.model, "model", "model.json", "Trained model coefficients.")
	f.StringVar(&c.preprocessor, "preprocessor", "preprocessor.json", "Feature preprocessor parameters.")
	f.Float64Var(&c.listing.Size, "size", 0, "Size in square meters.")
	f.Float64Var(&c.listing.MonthlyCost, "monthly-cost", 0, "Monthly rent and fees in PLN, 0 if unknown.")
	f.StringVar(&c.listing.Heating, "heating", "miejskie", "Heating: miejskie, gazowe, elektryczne, brak informacji.")
	f.StringVar(&c.listing.Floor, "floor", "1/3", "Floor, e.g. parter/3, 2/4, 4+.")
	f.StringVar(&c.listing.Condition, "condition", "do zamieszkania", "Condition: do zamieszkania, do remontu, deweloperski.")
	f.StringVar(&c.listing.Market, "market", "wtórny", "Market: wtórny or pierwotny.")
	f.StringVar(&c.listing.Ownership, "ownership", "pełna własność", "Ownership form.")
	f.StringVar(&c.listing.SellerType, "seller", "prywatny", "Seller: prywatny or biuro nieruchomości.")
	f.StringVar(&c.listing.Neighborhood, "neighborhood", "Mokotów", "Neighborhood of Warsaw.")
	f.Var(&c.amenities, "amenity", "Amenity of the apartment, repeatable.")
	f.Float64Var(&c.mae, "mae", housing.DefaultMAE, "Mean absolute error of the model, the half width of the range.")
	f.BoolVar(&c.json, "json", false, "Print the estimate as JSON.")
}

func (c *housingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	c.listing.Amenities = make(map[string]bool, len(c.amenities))
	for _, a := range c.amenities {
		c.listing.Amenities[a] = true
	}
	if err := c.listing.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	p, err := decodeFile(c.preprocessor, housing.DecodePreprocessor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	m, err := decodeFile(c.model, housing.DecodeLinearModel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	est, err := housing.Predict(m, p, c.listing, c.mae)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.json {
		b, err := json.Marshal(est)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		os.Stdout.Write(pretty.Color(pretty.Pretty(b), nil))
		return subcommands.ExitSuccess
	}
	fmt.Printf("Estimated price: %s\n", est)
	return subcommands.ExitSuccess
}

func decodeFile[T any](name string, decode func(io.Reader) (T, error)) (T, error) {
	var zero T
	r, err := os.Open(name)
	if err != nil {
		return zero, err
	}
	defer r.Close()
	v, err := decode(r)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}
