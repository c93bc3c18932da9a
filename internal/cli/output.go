package cli

import (
	"fmt"
	"io"

	crn "github.com/njchilds90/gocrn"
	"github.com/njchilds90/gocrn/internal/network"
)

// writeReactions renders rs in the selected output format.
func writeReactions(w io.Writer, opts *RootOptions, rs []*crn.Reaction) error {
	cfg := opts.settings()
	switch opts.Output {
	case "yaml":
		return network.Encode(w, rs)
	case "latex":
		for _, r := range rs {
			if _, err := fmt.Fprintln(w, r.LaTeX(cfg.Format.ShowRate)); err != nil {
				return err
			}
		}
	default:
		for _, r := range rs {
			if _, err := fmt.Fprintln(w, r.Format(cfg.Format.ShowRate, cfg.Format.Precision)); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeAdditions lists the complex added to each reaction of a path.
// It is only used with text output; yaml output carries reactions only.
func writeAdditions(w io.Writer, ids []string, additions []crn.Complex) error {
	if _, err := fmt.Fprintln(w, "\nadditions:"); err != nil {
		return err
	}
	for i, c := range additions {
		if _, err := fmt.Fprintf(w, "  %s: %s\n", ids[i], c); err != nil {
			return err
		}
	}
	return nil
}
