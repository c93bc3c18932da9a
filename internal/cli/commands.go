package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	crn "github.com/njchilds90/gocrn"
	"github.com/njchilds90/gocrn/internal/network"
)

// load reads the reaction set named by the command argument.
func load(path string) ([]*crn.Reaction, error) {
	rs, err := network.Load(path)
	if err != nil {
		return nil, err
	}
	zap.L().Debug("reaction set loaded", zap.String("path", path), zap.Int("reactions", len(rs)))
	return rs, nil
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <reactions.yaml>",
		Short: "Print a reaction set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := load(args[0])
			if err != nil {
				return err
			}
			return writeReactions(cmd.OutOrStdout(), rootOpts, rs)
		},
	}
}

// SplitOptions holds flags for the split command.
type SplitOptions struct {
	By      string
	Species []string
}

// NewSplitCommand creates the split command.
func NewSplitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SplitOptions{}
	cmd := &cobra.Command{
		Use:   "split <reactions.yaml>",
		Short: "Split rates into one reaction per addend or monomial",
		Long: `Split every reaction whose rate numerator is a sum.

--by addend   one reaction per addend of the expanded numerator (ids id_0, id_1, ...)
--by monomial one reaction per monomial in --species (ids id_1, id_2, ...)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := load(args[0])
			if err != nil {
				return err
			}
			var out []*crn.Reaction
			switch opts.By {
			case "addend":
				out, err = crn.SplitAllByAddend(rs)
			case "monomial":
				if len(opts.Species) == 0 {
					return fmt.Errorf("--species is required with --by monomial")
				}
				out, err = crn.SplitAllByMonomial(rs, opts.Species)
			default:
				return fmt.Errorf("invalid --by %q: must be addend or monomial", opts.By)
			}
			if err != nil {
				return err
			}
			return writeReactions(cmd.OutOrStdout(), rootOpts, out)
		},
	}
	cmd.Flags().StringVar(&opts.By, "by", "addend", "split strategy (addend|monomial)")
	cmd.Flags().StringSliceVarP(&opts.Species, "species", "s", nil, "species for monomial splitting")
	return cmd
}

// NewMergeCommand creates the merge command.
func NewMergeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <reactions.yaml>",
		Short: "Merge reactions with equal reactant and product",
		Long: `Merge reactions with equal reactant and product into one reaction whose
rate is the sum of theirs. Reactions whose reactant equals their product are
dropped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := load(args[0])
			if err != nil {
				return err
			}
			out, err := crn.MergeReactions(rs)
			if err != nil {
				return err
			}
			return writeReactions(cmd.OutOrStdout(), rootOpts, out)
		},
	}
}

// NewNormalizeCommand creates the normalize command.
func NewNormalizeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <reactions.yaml>",
		Short: "Rewrite all rates over a common denominator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := load(args[0])
			if err != nil {
				return err
			}
			out, err := crn.NormalizeCommonDenominator(rs)
			if err != nil {
				return err
			}
			return writeReactions(cmd.OutOrStdout(), rootOpts, out)
		},
	}
}

// NewTranslateCommand creates the translate command.
func NewTranslateCommand(rootOpts *RootOptions) *cobra.Command {
	var complexFlag string
	cmd := &cobra.Command{
		Use:   "translate <reactions.yaml>",
		Short: "Add a complex to both sides of every reaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := crn.ParseComplex(complexFlag)
			if err != nil {
				return err
			}
			rs, err := load(args[0])
			if err != nil {
				return err
			}
			out := make([]*crn.Reaction, len(rs))
			for i, r := range rs {
				out[i] = crn.Translate(r, c)
			}
			return writeReactions(cmd.OutOrStdout(), rootOpts, out)
		},
	}
	cmd.Flags().StringVar(&complexFlag, "complex", "", `complex to add, e.g. "C + 2D"`)
	_ = cmd.MarkFlagRequired("complex")
	return cmd
}

// NewPathCommand creates the path command.
func NewPathCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path <reactions.yaml>",
		Short: "Pad a chain of reactions so consecutive steps compose",
		Long: `Treat the reactions as an ordered chain and translate each one by the
products of earlier steps and the reactants of later steps, minus what every
step would receive. The added complexes are listed after the reactions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := load(args[0])
			if err != nil {
				return err
			}
			out, additions := crn.ReactionPath(rs)
			w := cmd.OutOrStdout()
			if err := writeReactions(w, rootOpts, out); err != nil {
				return err
			}
			if rootOpts.Output != "text" || len(additions) == 0 {
				return nil
			}
			ids := make([]string, len(rs))
			for i, r := range rs {
				ids[i] = r.ID()
			}
			return writeAdditions(w, ids, additions)
		},
	}
}

// CanonicalizeOptions holds flags for the canonicalize command.
type CanonicalizeOptions struct {
	Common []string
	All    bool
	Infer  []string
	Cancel []string
}

// NewCanonicalizeCommand creates the canonicalize command.
func NewCanonicalizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CanonicalizeOptions{}
	cmd := &cobra.Command{
		Use:   "canonicalize <reactions.yaml>",
		Short: "Align stoichiometry with the structure of each rate",
		Long: `Rewrite reactant and product of every reaction in place. Steps run in
this order:

--remove-common    remove stoichiometry shared by reactant and product
--common A,B       the same, restricted to the listed species
                   (not combinable with --remove-common)
--infer A,B        raise stoichiometry to match the rate numerator
--cancel E         drop species dividing the kinetic parameter denominator`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := load(args[0])
			if err != nil {
				return err
			}
			for _, r := range rs {
				if opts.All || len(opts.Common) > 0 {
					if err := r.RemoveReactProd(opts.Common...); err != nil {
						return err
					}
				}
				if len(opts.Infer) > 0 && r.HasRate() {
					if err := r.InferMassActionStoichiometry(opts.Infer...); err != nil {
						return err
					}
				}
				if len(opts.Cancel) > 0 && r.HasRate() {
					if err := r.CancelDenominatorStoichiometry(opts.Cancel...); err != nil {
						return err
					}
				}
			}
			return writeReactions(cmd.OutOrStdout(), rootOpts, rs)
		},
	}
	cmd.Flags().BoolVar(&opts.All, "remove-common", false, "remove all shared stoichiometry")
	cmd.Flags().StringSliceVar(&opts.Common, "common", nil, "species to rebalance between reactant and product")
	cmd.Flags().StringSliceVar(&opts.Infer, "infer", nil, "species for mass-action stoichiometry inference")
	cmd.Flags().StringSliceVar(&opts.Cancel, "cancel", nil, "species to cancel from the denominator")
	cmd.MarkFlagsMutuallyExclusive("remove-common", "common")
	return cmd
}
