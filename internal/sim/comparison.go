package sim

import (
	"context"
	"fmt"

	"github.com/marisim/marisim/internal/model/core"
)

// Comparison pairs a baseline run (field sign untouched) with an
// override run (decision backend active) over the same scenario.
type Comparison struct {
	Baseline core.RunSummary `json:"baseline"`
	Override core.RunSummary `json:"override"`

	// SignAgreement is the fraction of steps on which both runs
	// realized the same avoidance sign.
	SignAgreement float64 `json:"signAgreement"`
}

// RunComparison executes the same scenario twice, without and with the
// decision backend, and reports how far the directive stream moved the
// run. Both runners must be freshly built over the same obstacle
// snapshot and step count.
func RunComparison(ctx context.Context, baseline, override *Runner) (*Comparison, error) {
	base, err := baseline.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("baseline run: %w", err)
	}
	over, err := override.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("override run: %w", err)
	}
	if len(base.Records) != len(over.Records) {
		return nil, fmt.Errorf("step count mismatch: %d vs %d", len(base.Records), len(over.Records))
	}

	cmp := &Comparison{Baseline: base.Summary, Override: over.Summary}
	if len(base.Records) > 0 {
		agree := 0
		for i := range base.Records {
			if base.Records[i].RealizedSign == over.Records[i].RealizedSign {
				agree++
			}
		}
		cmp.SignAgreement = float64(agree) / float64(len(base.Records))
	}
	return cmp, nil
}
