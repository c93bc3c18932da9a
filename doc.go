// Package crn models chemical reactions as symbolic objects and rewrites
// reaction sets while preserving their exact kinetics.
//
// A Reaction carries a reactant and a product Complex, a rate expressed as
// a rational function of species concentrations and parameters, and the
// derived kinetic parameter rate/ma(reactant). Every mutator re-derives one
// from the other so that
//
//	cancel(KineticParam() * Reactant().MA() - Rate()) == 0
//
// holds whenever a rate is attached.
//
// Quick start:
//
//	r, _ := crn.ParseReaction("r1", "A + E", "B + E", "k*A*E/(K + A)")
//	fmt.Println(r)                      // r1: A + E ->(k/(A + K)) B + E
//	parts, _ := crn.SplitByAddend(r)    // one reaction per numerator addend
//	merged, _ := crn.MergeReactions(parts)
//
// Splitting, merging, translation and path composition return new
// reactions. Only RemoveReactProd, InferMassActionStoichiometry and
// CancelDenominatorStoichiometry mutate a reaction in place. A Reaction is
// not safe for concurrent mutation.
package crn
