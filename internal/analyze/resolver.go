// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"fmt"
	"sort"

	"github.com/pdiddy/registry-engine/pkg/types"
)

// resolveBase picks the extinguishment base right: the earliest
// non-cancelled event of the highest-priority type present.
func (r *Result) resolveBase(p types.Policy) {
	r.base = -1
	r.method = types.ResolutionUnresolved

	var skipped []int
	for _, t := range p.PriorityOrder {
		for i := range r.events {
			e := &r.events[i]
			if e.EventType != t {
				continue
			}
			if e.Cancelled {
				if weakCancellation(e, p) {
					skipped = append(skipped, e.Seq)
				}
				continue
			}
			r.base = i
			r.method = types.ResolutionPriorityMatch
			if types.Contains(p.FallbackTypes, t) {
				r.method = types.ResolutionFallback
			}
			break
		}
		if r.base >= 0 {
			break
		}
	}

	if len(skipped) > 0 {
		sort.Ints(skipped)
		r.warnings = append(r.warnings, types.Warning{
			Kind: types.WarnLowConfidenceBase,
			Seqs: skipped,
			Message: fmt.Sprintf("base right candidates %v skipped on cancellation evidence below %.2f",
				skipped, p.CancelThreshold),
		})
	}

	base := r.baseEvent()
	if base == nil {
		r.warnings = append(r.warnings, types.Warning{
			Kind:    types.WarnBaseRightUnresolved,
			Message: fmt.Sprintf("no non-cancelled event of a priority type %v", p.PriorityOrder),
		})
		return
	}
	if base.ClassificationConfidence < p.UncertainThreshold {
		r.warnings = append(r.warnings, types.Warning{
			Kind: types.WarnLowConfidenceBase,
			Seqs: []int{base.Seq},
			Message: fmt.Sprintf("base right %s classified at %.2f, below %.2f",
				base.EventType, base.ClassificationConfidence, p.UncertainThreshold),
		})
	}
}
