// Package network reads and writes reaction sets as YAML files.
package network

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	crn "github.com/njchilds90/gocrn"
	"github.com/njchilds90/gocrn/expr"
)

// File is the on-disk form of a reaction set.
type File struct {
	Reactions []ReactionSpec `yaml:"reactions"`
}

// ReactionSpec describes one reaction. At most one of Rate and
// KineticParam may be set; with neither the reaction is rate-less.
type ReactionSpec struct {
	ID           string `yaml:"id" json:"id"`
	Reactant     string `yaml:"reactant" json:"reactant"`
	Product      string `yaml:"product" json:"product"`
	Rate         string `yaml:"rate,omitempty" json:"rate,omitempty"`
	KineticParam string `yaml:"kinetic_param,omitempty" json:"kinetic_param,omitempty"`
}

// ValidationError is a problem with a single field of a reaction set file.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads, validates and builds the reaction set at path.
func Load(path string) ([]*crn.Reaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reaction file: %w", err)
	}
	f, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	rs, err := f.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

// Decode parses YAML, rejecting unknown fields, and validates the result.
// An empty document decodes to an empty reaction set.
func Decode(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if errs := f.Validate(); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("invalid reaction set: %s", strings.Join(msgs, "; "))
	}
	return &f, nil
}

// Validate returns every structural problem in f. Rate expressions and
// complexes are checked later by Build.
func (f *File) Validate() []ValidationError {
	var errs []ValidationError
	seen := make(map[string]int)
	for i, rs := range f.Reactions {
		field := fmt.Sprintf("reactions[%d]", i)
		if rs.ID == "" {
			errs = append(errs, ValidationError{Field: field + ".id", Message: "id is required"})
		} else if j, dup := seen[rs.ID]; dup {
			errs = append(errs, ValidationError{
				Field:   field + ".id",
				Message: fmt.Sprintf("duplicate id %q (first at reactions[%d])", rs.ID, j),
			})
		} else {
			seen[rs.ID] = i
		}
		if rs.Rate != "" && rs.KineticParam != "" {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: "rate and kinetic_param are mutually exclusive",
			})
		}
	}
	return errs
}

// Build constructs the reactions in file order.
func (f *File) Build() ([]*crn.Reaction, error) {
	out := make([]*crn.Reaction, 0, len(f.Reactions))
	for _, rs := range f.Reactions {
		r, err := rs.Build()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Build constructs a single reaction.
func (rs ReactionSpec) Build() (*crn.Reaction, error) {
	if rs.KineticParam == "" {
		return crn.ParseReaction(rs.ID, rs.Reactant, rs.Product, rs.Rate)
	}
	reactant, err := crn.ParseComplex(rs.Reactant)
	if err != nil {
		return nil, fmt.Errorf("reaction %q: reactant: %w", rs.ID, err)
	}
	product, err := crn.ParseComplex(rs.Product)
	if err != nil {
		return nil, fmt.Errorf("reaction %q: product: %w", rs.ID, err)
	}
	k, err := expr.Parse(rs.KineticParam)
	if err != nil {
		return nil, fmt.Errorf("reaction %q: kinetic_param: %w: %w", rs.ID, crn.ErrInvalidRate, err)
	}
	return crn.NewReactionFromKineticParam(rs.ID, reactant, product, k)
}

// FromReactions converts reactions to their file form. Rates are written
// as given.
func FromReactions(rs []*crn.Reaction) *File {
	f := &File{Reactions: make([]ReactionSpec, 0, len(rs))}
	for _, r := range rs {
		spec := ReactionSpec{
			ID:       r.ID(),
			Reactant: r.Reactant().String(),
			Product:  r.Product().String(),
		}
		if r.HasRate() {
			spec.Rate = r.Rate().String()
		}
		f.Reactions = append(f.Reactions, spec)
	}
	return f
}

// Encode writes rs as YAML.
func Encode(w io.Writer, rs []*crn.Reaction) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromReactions(rs)); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}
