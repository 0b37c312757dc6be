// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"fmt"
	"math"
	"strings"

	"github.com/pdiddy/registry-engine/pkg/types"
)

// score computes overall confidence: the section-weighted mean of
// non-cancelled classification confidences, penalized when a hard stop was
// demoted and capped when no base right was found.
func (r *Result) score(p types.Policy) {
	var sum, weights float64
	for _, e := range r.events {
		if e.Cancelled {
			continue
		}
		w := p.OwnershipWeight
		if e.Section == types.SectionEncumbrance {
			w = p.EncumbranceWeight
		}
		sum += w * e.ClassificationConfidence
		weights += w
	}

	c := 0.0
	if weights > 0 {
		c = sum / weights
	}
	if r.downgraded {
		c *= p.DowngradePenalty
	}
	if r.method == types.ResolutionUnresolved && c > p.UnresolvedCap {
		c = p.UnresolvedCap
	}
	r.confidence = round4(c)
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// summarize builds the fixed-shape summary from the finished arena.
func (r *Result) summarize(p types.Policy) {
	s := types.Summary{
		ResolutionMethod: r.method,
		HardStopCodes:    []types.HardStopCode{},
		YellowCodes:      []types.HardStopCode{},
		Confidence:       r.confidence,
	}

	if b := r.baseEvent(); b != nil {
		s.BaseRight = &types.BaseRightRef{
			Seq:          b.Seq,
			Section:      b.Section,
			RankNo:       b.RankNo,
			EventType:    b.EventType,
			AcceptedDate: b.AcceptedDate,
		}
	}

	for _, e := range r.events {
		switch e.WillExtinguish {
		case types.DispositionSurvive:
			s.Counts.Survive++
		case types.DispositionExtinguish:
			s.Counts.Extinguish++
		case types.DispositionUncertain:
			s.Counts.Uncertain++
		}
	}

	for _, h := range r.hardStops {
		s.HardStopCodes = append(s.HardStopCodes, h.Code)
	}
	for _, w := range r.warnings {
		if w.Code == "" || types.Contains(s.YellowCodes, w.Code) || r.HasHardStop(w.Code) {
			continue
		}
		if w.Kind == types.WarnHardStopAmbiguity || w.Kind == types.WarnSuperficiesTimeline {
			s.YellowCodes = append(s.YellowCodes, w.Code)
		}
	}

	s.NeedsManualReview = r.method == types.ResolutionUnresolved || r.confidence < p.ManualReviewThreshold
	s.Text = summaryText(s)
	r.summary = s
}

// summaryText renders the summary as one structured line.
func summaryText(s types.Summary) string {
	var b strings.Builder
	if s.BaseRight != nil {
		fmt.Fprintf(&b, "base=seq%d %s(%s %d)", s.BaseRight.Seq, s.BaseRight.EventType,
			s.BaseRight.Section.Label(), s.BaseRight.RankNo)
	} else {
		b.WriteString("base=none")
	}
	fmt.Fprintf(&b, " method=%s survive=%d extinguish=%d uncertain=%d",
		s.ResolutionMethod, s.Counts.Survive, s.Counts.Extinguish, s.Counts.Uncertain)
	fmt.Fprintf(&b, " hard_stops=[%s] yellow=[%s]", joinCodes(s.HardStopCodes), joinCodes(s.YellowCodes))
	fmt.Fprintf(&b, " confidence=%.4f review=%t", s.Confidence, s.NeedsManualReview)
	return b.String()
}

func joinCodes(codes []types.HardStopCode) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}
