package crn

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRate is returned when a rate or kinetic parameter is not a
	// ratio of polynomials.
	ErrInvalidRate = errors.New("crn: invalid rate")
	// ErrInvalidComplex is returned by ParseComplex.
	ErrInvalidComplex = errors.New("crn: invalid complex")
	// ErrStoichiometryUnderflow is returned when a coefficient would drop
	// below zero or a missing species is decremented.
	ErrStoichiometryUnderflow = errors.New("crn: stoichiometry underflow")
	// ErrNonTerminatingDecomposition is returned when a stoichiometry
	// fixpoint exceeds its pass budget.
	ErrNonTerminatingDecomposition = errors.New("crn: decomposition did not terminate")
	// ErrMissingRate is returned by algorithms that need kinetics on a
	// rate-less reaction.
	ErrMissingRate = errors.New("crn: reaction has no rate")
)

// Side names one side of a reaction.
type Side string

const (
	SideReactant Side = "reactant"
	SideProduct  Side = "product"
)

// StoichiometryError reports a coefficient that would have become
// negative. It matches ErrStoichiometryUnderflow with errors.Is.
type StoichiometryError struct {
	ReactionID string
	Species    string
	Side       Side
	Have       int
	Remove     int
}

func (e *StoichiometryError) Error() string {
	return fmt.Sprintf("crn: reaction %q: cannot remove %d %s from %s holding %d (coefficients must stay non-negative)",
		e.ReactionID, e.Remove, e.Species, e.Side, e.Have)
}

func (e *StoichiometryError) Unwrap() error { return ErrStoichiometryUnderflow }
