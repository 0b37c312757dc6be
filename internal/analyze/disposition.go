// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"fmt"

	"github.com/pdiddy/registry-engine/pkg/types"
)

// Disposition reasons.
const (
	reasonBase          = "base right"
	reasonCancelled     = "cancelled"
	reasonNoBase        = "no base right"
	reasonUnclassified  = "unclassified"
	reasonLowConfidence = "classification confidence below threshold"
	reasonBefore        = "registered before base right"
	reasonAfter         = "registered after base right"
	reasonAlwaysSurvive = "survives regardless of order"
	reasonAlwaysExting  = "extinguished regardless of order"
)

// dispose assigns a disposition to every non-cancelled event relative to
// the base right. Cancelled events carry none.
func (r *Result) dispose(p types.Policy) {
	baseSeq := 0
	if b := r.baseEvent(); b != nil {
		baseSeq = b.Seq
	}

	for i := range r.events {
		e := &r.events[i]
		e.IsBeforeBase = baseSeq > 0 && e.Seq < baseSeq
		d, reason := disposition(e, baseSeq, p)
		e.WillExtinguish = d
		e.DispositionReason = reason
	}
}

func disposition(e *types.EventAnalysis, baseSeq int, p types.Policy) (types.Disposition, string) {
	switch {
	case e.Cancelled:
		if e.CancelledBy != nil {
			return "", fmt.Sprintf("%s by seq %d", reasonCancelled, *e.CancelledBy)
		}
		return "", reasonCancelled
	case e.Seq == baseSeq:
		return types.DispositionExtinguish, reasonBase
	case baseSeq == 0:
		return types.DispositionUncertain, reasonNoBase
	case e.EventType == types.EventUnclassified:
		return types.DispositionUncertain, reasonUnclassified
	case e.ClassificationConfidence < p.UncertainThreshold:
		return types.DispositionUncertain, reasonLowConfidence
	case e.Seq < baseSeq:
		if types.Contains(p.AlwaysExtinguish, e.EventType) {
			return types.DispositionExtinguish, reasonAlwaysExting
		}
		return types.DispositionSurvive, reasonBefore
	default:
		if types.Contains(p.AlwaysSurvive, e.EventType) {
			return types.DispositionSurvive, reasonAlwaysSurvive
		}
		return types.DispositionExtinguish, reasonAfter
	}
}
