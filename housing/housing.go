// Package housing estimates the price of an apartment with a pre-trained regression model.
//
// The model predicts the logarithm of the price from a feature vector. Raw
// listing inputs are turned into that vector by a Preprocessor which one-hot
// encodes categorical fields and scales numeric ones, as the model was
// trained with.
package housing

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidListing is returned for listings that cannot be encoded.
var ErrInvalidListing = errors.New("invalid listing")

// DefaultMAE is the mean absolute error of the reference model, in PLN. It
// gives the width of the estimate range.
const DefaultMAE = 120000

// Amenities known to the model.
const (
	Balcony         = "balkon"
	Terrace         = "taras"
	Parking         = "garaż/miejsce parkingowe"
	Basement        = "piwnica"
	SeparateKitchen = "oddzielna kuchnia"
	Garden          = "ogródek"
	UtilityRoom     = "pom. użytkowe"
)

// Amenities lists the amenities in the order of the model features.
var Amenities = []string{Balcony, Terrace, Parking, Basement, SeparateKitchen, Garden, UtilityRoom}

// Listing holds the raw inputs describing an apartment.
type Listing struct {
	Size         float64         `json:"size"`         // m²
	MonthlyCost  float64         `json:"monthly_cost"` // rent and fees, PLN
	Heating      string          `json:"heating"`      // miejskie, gazowe, elektryczne, brak informacji
	Floor        string          `json:"floor"`        // parter/3, 1/3, ... 4+
	Condition    string          `json:"condition"`    // do zamieszkania, do remontu, deweloperski
	Market       string          `json:"market"`       // wtórny, pierwotny
	Ownership    string          `json:"ownership"`    // pełna własność, spółdzielcze własnościowe, brak informacji
	SellerType   string          `json:"seller_type"`  // prywatny, biuro nieruchomości
	Neighborhood string          `json:"neighborhood"` // Mokotów, Wola, ...
	Amenities    map[string]bool `json:"amenities"`    // keyed by Amenities
}

// Validate checks the numeric inputs.
func (l Listing) Validate() error {
	if !(l.Size > 0) || math.IsInf(l.Size, 0) {
		return fmt.Errorf("%w: size must be positive, got %v", ErrInvalidListing, l.Size)
	}
	if l.MonthlyCost < 0 || math.IsNaN(l.MonthlyCost) || math.IsInf(l.MonthlyCost, 0) {
		return fmt.Errorf("%w: monthly cost must not be negative, got %v", ErrInvalidListing, l.MonthlyCost)
	}
	return nil
}

// Features returns the named model inputs of a listing, numeric and categorical.
//
// Derived fields are computed the way the model was trained: has_czynsz is 1
// when there is a monthly cost, and price_per_sqm is size over monthly cost (0
// without a monthly cost).
func Features(l Listing) (numeric map[string]float64, categorical map[string]string) {
	hasCost, ratio := 0.0, 0.0
	if l.MonthlyCost > 0 {
		hasCost, ratio = 1, l.Size/l.MonthlyCost
	}
	numeric = map[string]float64{
		"size":          l.Size,
		"Czynsz":        l.MonthlyCost,
		"has_czynsz":    hasCost,
		"price_per_sqm": ratio,
	}
	for _, a := range Amenities {
		v := 0.0
		if l.Amenities[a] {
			v = 1
		}
		numeric[AmenityFeature(a)] = v
	}
	categorical = map[string]string{
		"Ogrzewanie":          l.Heating,
		"Piętro":              l.Floor,
		"Stan wykończenia":    l.Condition,
		"Rynek":               l.Market,
		"Forma własności":     l.Ownership,
		"Typ ogłoszeniodawcy": l.SellerType,
		"neighborhood":        l.Neighborhood,
	}
	return numeric, categorical
}

// AmenityFeature returns the feature name of an amenity: "has_" followed by
// the lower cased amenity where slashes and spaces are underscores.
func AmenityFeature(amenity string) string {
	r := strings.NewReplacer("/", "_", " ", "_")
	return "has_" + strings.ToLower(r.Replace(amenity))
}
