// Package tool dispatches JSON tool calls onto the reaction algorithms.
//
// Reactions travel as objects {id, reactant, product, rate | kinetic_param}
// with complexes and expressions in their string forms, e.g.
//
//	{"tool": "split_by_addend", "params": {"reactions": [
//	    {"id": "r3", "reactant": "A", "product": "B", "rate": "k1*A + k2*A^2"}]}}
package tool

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	crn "github.com/njchilds90/gocrn"
	"github.com/njchilds90/gocrn/internal/network"
)

// ============================================================
// Request / Response
// ============================================================

type Request struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type Response struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// PathResult is the result of the reaction_path tool.
type PathResult struct {
	Reactions []network.ReactionSpec `json:"reactions"`
	Additions []string               `json:"additions"`
}

// Options are the rendering defaults applied when a request does not set
// show_rate or precision.
type Options struct {
	ShowRate  bool
	Precision int
}

// DefaultOptions matches the configuration defaults.
var DefaultOptions = Options{Precision: 3}

// Handle runs a request with DefaultOptions.
func Handle(req Request) Response {
	return DefaultOptions.Handle(req)
}

// ============================================================
// Parameter access
// ============================================================

type params map[string]interface{}

func (p params) getString(key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", fmt.Errorf("missing param: %s", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("param %s must be a string", key)
	}
	return s, nil
}

func (p params) optString(key string) (string, error) {
	if _, ok := p[key]; !ok {
		return "", nil
	}
	return p.getString(key)
}

func (p params) getStrings(key string, required bool) ([]string, error) {
	v, ok := p[key]
	if !ok {
		if required {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		return nil, nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("param %s must be array", key)
	}
	result := make([]string, len(raw))
	for i, r := range raw {
		s, ok := r.(string)
		if !ok {
			return nil, fmt.Errorf("param %s[%d] must be string", key, i)
		}
		result[i] = s
	}
	return result, nil
}

func (p params) boolOr(key string, def bool) (bool, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("param %s must be boolean", key)
	}
	return b, nil
}

func (p params) intOr(key string, def int) (int, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	f, ok := v.(float64)
	if !ok || f != float64(int(f)) {
		return 0, fmt.Errorf("param %s must be integer", key)
	}
	return int(f), nil
}

func reactionSpec(v interface{}, where string) (network.ReactionSpec, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return network.ReactionSpec{}, fmt.Errorf("%s must be reaction object", where)
	}
	var rs network.ReactionSpec
	for key, dst := range map[string]*string{
		"id":            &rs.ID,
		"reactant":      &rs.Reactant,
		"product":       &rs.Product,
		"rate":          &rs.Rate,
		"kinetic_param": &rs.KineticParam,
	} {
		s, err := params(m).optString(key)
		if err != nil {
			return network.ReactionSpec{}, fmt.Errorf("%s: %w", where, err)
		}
		*dst = s
	}
	return rs, nil
}

func (p params) reactions(key string) ([]*crn.Reaction, error) {
	v, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("missing param: %s", key)
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("param %s must be array", key)
	}
	f := &network.File{Reactions: make([]network.ReactionSpec, len(raw))}
	for i, r := range raw {
		rs, err := reactionSpec(r, fmt.Sprintf("param %s[%d]", key, i))
		if err != nil {
			return nil, err
		}
		f.Reactions[i] = rs
	}
	if errs := f.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("param %s: %s", key, errs[0].Error())
	}
	return f.Build()
}

func (p params) reaction(key string) (*crn.Reaction, error) {
	v, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("missing param: %s", key)
	}
	rs, err := reactionSpec(v, "param "+key)
	if err != nil {
		return nil, err
	}
	return rs.Build()
}

// ============================================================
// Dispatch
// ============================================================

// Handle runs a request, using o for rendering defaults.
func (o Options) Handle(req Request) Response {
	p := params(req.Params)
	fail := func(err error) Response { return Response{Error: err.Error()} }

	showRate, err := p.boolOr("show_rate", o.ShowRate)
	if err != nil {
		return fail(err)
	}
	precision, err := p.intOr("precision", o.Precision)
	if err != nil {
		return fail(err)
	}
	if precision < 0 {
		return fail(fmt.Errorf("param precision must be >= 0"))
	}
	render := func(rs []*crn.Reaction) Response {
		lines := make([]string, len(rs))
		latex := make([]string, len(rs))
		for i, r := range rs {
			lines[i] = r.Format(showRate, precision)
			latex[i] = r.LaTeX(showRate)
		}
		return Response{
			Result: network.FromReactions(rs).Reactions,
			String: strings.Join(lines, "\n"),
			LaTeX:  strings.Join(latex, `\\`+"\n"),
		}
	}
	// mutate runs an in-place canonicalization over the request reactions.
	mutate := func(apply func(r *crn.Reaction, species []string) error) Response {
		rs, err := p.reactions("reactions")
		if err != nil {
			return fail(err)
		}
		species, err := p.getStrings("species", false)
		if err != nil {
			return fail(err)
		}
		for _, r := range rs {
			if err := apply(r, species); err != nil {
				return fail(err)
			}
		}
		return render(rs)
	}

	switch req.Tool {

	case "format":
		rs, err := p.reactions("reactions")
		if err != nil {
			return fail(err)
		}
		return render(rs)

	case "split_by_addend":
		rs, err := p.reactions("reactions")
		if err != nil {
			return fail(err)
		}
		out, err := crn.SplitAllByAddend(rs)
		if err != nil {
			return fail(err)
		}
		return render(out)

	case "split_by_monomial":
		rs, err := p.reactions("reactions")
		if err != nil {
			return fail(err)
		}
		species, err := p.getStrings("species", true)
		if err != nil {
			return fail(err)
		}
		out, err := crn.SplitAllByMonomial(rs, species)
		if err != nil {
			return fail(err)
		}
		return render(out)

	case "merge":
		rs, err := p.reactions("reactions")
		if err != nil {
			return fail(err)
		}
		out, err := crn.MergeReactions(rs)
		if err != nil {
			return fail(err)
		}
		return render(out)

	case "normalize_denominator":
		rs, err := p.reactions("reactions")
		if err != nil {
			return fail(err)
		}
		out, err := crn.NormalizeCommonDenominator(rs)
		if err != nil {
			return fail(err)
		}
		return render(out)

	case "translate":
		r, err := p.reaction("reaction")
		if err != nil {
			return fail(err)
		}
		cs, err := p.getString("complex")
		if err != nil {
			return fail(err)
		}
		c, err := crn.ParseComplex(cs)
		if err != nil {
			return fail(err)
		}
		return render([]*crn.Reaction{crn.Translate(r, c)})

	case "reaction_path":
		rs, err := p.reactions("reactions")
		if err != nil {
			return fail(err)
		}
		out, additions := crn.ReactionPath(rs)
		resp := render(out)
		adds := make([]string, len(additions))
		for i, a := range additions {
			adds[i] = a.String()
		}
		resp.Result = PathResult{Reactions: network.FromReactions(out).Reactions, Additions: adds}
		return resp

	case "infer_stoichiometry":
		return mutate(func(r *crn.Reaction, species []string) error {
			return r.InferMassActionStoichiometry(species...)
		})

	case "cancel_denominator":
		return mutate(func(r *crn.Reaction, species []string) error {
			return r.CancelDenominatorStoichiometry(species...)
		})

	case "remove_common":
		return mutate(func(r *crn.Reaction, species []string) error {
			return r.RemoveReactProd(species...)
		})

	case "spec":
		return Response{String: Spec()}
	}

	return fail(fmt.Errorf("unknown tool: %s", req.Tool))
}

// Tools lists the tool names Handle accepts.
func Tools() []string {
	names := make([]string, 0, len(schema))
	for _, t := range schema {
		names = append(names, t["name"].(string))
	}
	sort.Strings(names)
	return names
}

// ============================================================
// Schema
// ============================================================

var (
	reactionsProp = map[string]string{"reactions": "array", "show_rate": "boolean", "precision": "integer"}
	speciesProp   = map[string]string{"reactions": "array", "species": "array", "show_rate": "boolean", "precision": "integer"}
)

var schema = []map[string]interface{}{
	ts("format", "Render reactions as text and LaTeX", []string{"reactions"}, reactionsProp),
	ts("split_by_addend", "Split each reaction into one reaction per addend of its rate numerator", []string{"reactions"}, reactionsProp),
	ts("split_by_monomial", "Split each reaction into one reaction per monomial in the given species", []string{"reactions", "species"}, speciesProp),
	ts("merge", "Merge reactions sharing reactant and product, summing rates; drops self-loops", []string{"reactions"}, reactionsProp),
	ts("normalize_denominator", "Rewrite rates over the LCM of all rate denominators", []string{"reactions"}, reactionsProp),
	ts("translate", "Add a complex to both sides of a reaction. complex like \"2A + B\"", []string{"reaction", "complex"}, map[string]string{"reaction": "object", "complex": "string"}),
	ts("reaction_path", "Pad a chain of reactions so consecutive steps compose; returns additions", []string{"reactions"}, reactionsProp),
	ts("infer_stoichiometry", "Raise stoichiometry of listed species to match the rate numerator", []string{"reactions", "species"}, speciesProp),
	ts("cancel_denominator", "Drop listed species dividing the kinetic parameter denominator from both sides", []string{"reactions", "species"}, speciesProp),
	ts("remove_common", "Remove stoichiometry shared by reactant and product. Optional species", []string{"reactions"}, speciesProp),
	ts("spec", "Return this tool schema", []string{}, map[string]string{}),
}

// Spec returns the tool schema as indented JSON.
func Spec() string {
	spec := map[string]interface{}{"tools": schema}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
