package housing

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// Scaler standardizes a numeric feature: (x - Mean) / Scale.
type Scaler struct {
	Name  string  `json:"name"`
	Mean  float64 `json:"mean"`
	Scale float64 `json:"scale"`
}

// OneHot encodes a categorical feature as one column per level.
type OneHot struct {
	Name   string   `json:"name"`
	Levels []string `json:"levels"`
}

// Preprocessor turns listing features into the model's input vector.
//
// The vector is made of the scaled numeric features, then the one-hot encoded
// categorical features, then the passthrough features, each in declaration
// order. An unknown categorical level encodes as all zeros.
type Preprocessor struct {
	Numeric     []Scaler `json:"numeric"`
	Categorical []OneHot `json:"categorical"`
	Passthrough []string `json:"passthrough"`
}

// DecodePreprocessor reads a JSON encoded Preprocessor.
func DecodePreprocessor(r io.Reader) (*Preprocessor, error) {
	p := new(Preprocessor)
	if err := json.NewDecoder(r).Decode(p); err != nil {
		return nil, fmt.Errorf("cannot decode preprocessor: %w", err)
	}
	return p, nil
}

// Width returns the length of the vectors produced by Transform.
func (p *Preprocessor) Width() int {
	n := len(p.Numeric) + len(p.Passthrough)
	for _, c := range p.Categorical {
		n += len(c.Levels)
	}
	return n
}

// FeatureNames returns the name of each column of the vectors, one-hot columns are named "feature_level".
func (p *Preprocessor) FeatureNames() []string {
	names := make([]string, 0, p.Width())
	for _, s := range p.Numeric {
		names = append(names, s.Name)
	}
	for _, c := range p.Categorical {
		for _, l := range c.Levels {
			names = append(names, c.Name+"_"+l)
		}
	}
	return append(names, p.Passthrough...)
}

// Transform encodes a listing.
func (p *Preprocessor) Transform(l Listing) ([]float64, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	numeric, categorical := Features(l)
	v := make([]float64, 0, p.Width())
	for _, s := range p.Numeric {
		x, ok := numeric[s.Name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown numeric feature %q", ErrInvalidListing, s.Name)
		}
		scale := s.Scale
		if scale == 0 {
			scale = 1
		}
		v = append(v, (x-s.Mean)/scale)
	}
	for _, c := range p.Categorical {
		level, ok := categorical[c.Name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown categorical feature %q", ErrInvalidListing, c.Name)
		}
		i := slices.Index(c.Levels, level)
		for j := range c.Levels {
			if j == i {
				v = append(v, 1)
			} else {
				v = append(v, 0)
			}
		}
	}
	for _, name := range p.Passthrough {
		x, ok := numeric[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown passthrough feature %q", ErrInvalidListing, name)
		}
		v = append(v, x)
	}
	return v, nil
}
