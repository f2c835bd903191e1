package housing

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/Rhymond/go-money"
)

// Model predicts the logarithm of a price from a feature vector.
type Model interface {
	Predict(features []float64) (float64, error)
}

// LinearModel is a linear regression on the feature vector.
type LinearModel struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

// DecodeLinearModel reads a JSON encoded LinearModel.
func DecodeLinearModel(r io.Reader) (*LinearModel, error) {
	m := new(LinearModel)
	if err := json.NewDecoder(r).Decode(m); err != nil {
		return nil, fmt.Errorf("cannot decode model: %w", err)
	}
	return m, nil
}

func (m *LinearModel) Predict(features []float64) (float64, error) {
	if len(features) != len(m.Coefficients) {
		return 0, fmt.Errorf("model expects %d features, got %d", len(m.Coefficients), len(features))
	}
	y := m.Intercept
	for i, x := range features {
		y += m.Coefficients[i] * x
	}
	return y, nil
}

// Estimate is a predicted price and its likely range.
type Estimate struct {
	Price float64 `json:"price"`
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
}

// Predict estimates the price of a listing. The range is the price plus or minus mae.
func Predict(m Model, p *Preprocessor, l Listing, mae float64) (Estimate, error) {
	v, err := p.Transform(l)
	if err != nil {
		return Estimate{}, err
	}
	logPrice, err := m.Predict(v)
	if err != nil {
		return Estimate{}, fmt.Errorf("prediction failed: %w", err)
	}
	price := math.Exp(logPrice)
	if math.IsInf(price, 0) || math.IsNaN(price) {
		return Estimate{}, fmt.Errorf("prediction failed: log price %v is out of range", logPrice)
	}
	return Estimate{Price: price, Low: price - mae, High: price + mae}, nil
}

// String formats the estimate in PLN, rounded to the złoty.
func (e Estimate) String() string {
	return fmt.Sprintf("%s (%s - %s)", pln(e.Price), pln(e.Low), pln(e.High))
}

func pln(v float64) string {
	return money.New(int64(math.Round(v))*100, money.PLN).Display()
}
