package rcs

import (
	"fmt"
	"os/exec"
)

// checkoutRevision implements the keyword-expansion alternative (spec.md
// section 4.C, 9): rather than re-implementing RCS keyword substitution,
// delegate to an external `co -q -p<rev>` invocation. This is the only
// external-process dependency of the core, kept behind Options.ExpandKeywords
// and degrading to delta replay if `co` is missing (spec.md section 9).
func checkoutRevision(file *RcsFile, rev *Revision, opts Options) ([]byte, error) {
	if opts.CheckoutFunc != nil {
		return opts.CheckoutFunc(opts.RCSPath, rev.ID)
	}
	return defaultCheckout(opts.RCSPath, rev.ID)
}

func defaultCheckout(rcsPath, revision string) ([]byte, error) {
	if _, err := exec.LookPath("co"); err != nil {
		return nil, fmt.Errorf("co not found on PATH: %w", err)
	}
	cmd := exec.Command("co", "-q", "-p"+revision, rcsPath)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("co -q -p%s %s: %w", revision, rcsPath, err)
	}
	return out, nil
}
