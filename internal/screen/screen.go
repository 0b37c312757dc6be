// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package screen turns an analysis result into a listing verdict. It reads
// only the result's public accessors and never recomputes analysis.
package screen

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/registry-engine/internal/analyze"
	"github.com/pdiddy/registry-engine/pkg/types"
)

// Zone is the risk colour of a listing.
type Zone string

const (
	ZoneRed    Zone = "RED"
	ZoneYellow Zone = "YELLOW"
	ZoneGreen  Zone = "GREEN"
)

// Route is what the listing pipeline does next.
type Route string

const (
	RouteReject Route = "REJECT"
	RouteReview Route = "REVIEW"
	RoutePass   Route = "PASS"
)

// Verdict is the screening outcome for one document.
type Verdict struct {
	DocumentID  string               `json:"document_id" yaml:"document_id"`
	Zone        Zone                 `json:"zone" yaml:"zone"`
	Route       Route                `json:"route" yaml:"route"`
	HardStops   []types.HardStopCode `json:"hard_stops" yaml:"hard_stops"`
	YellowCodes []types.HardStopCode `json:"yellow_codes" yaml:"yellow_codes"`
	Uncertain   []int                `json:"uncertain_seqs" yaml:"uncertain_seqs"`
	Confidence  float64              `json:"confidence" yaml:"confidence"`
	Reasons     []string             `json:"reasons" yaml:"reasons"`
}

// Screen derives the verdict. A result that needs manual review is always
// routed to REVIEW, even when hard stops fired, because neither the stops
// nor their absence can be trusted.
func Screen(r *analyze.Result) Verdict {
	v := Verdict{
		DocumentID:  r.DocumentID(),
		HardStops:   []types.HardStopCode{},
		YellowCodes: r.YellowCodes(),
		Uncertain:   []int{},
		Confidence:  r.Confidence(),
	}
	for _, h := range r.HardStops() {
		v.HardStops = append(v.HardStops, h.Code)
		v.Reasons = append(v.Reasons, fmt.Sprintf("hard stop %s: %s (seqs %v)", h.Code, h.Name, h.TriggerSeqs))
	}
	for _, c := range v.YellowCodes {
		v.Reasons = append(v.Reasons, fmt.Sprintf("yellow %s", c))
	}
	for _, e := range r.Events() {
		if e.WillExtinguish == types.DispositionUncertain {
			v.Uncertain = append(v.Uncertain, e.Seq)
		}
	}

	switch {
	case r.NeedsManualReview():
		v.Route = RouteReview
		v.Zone = ZoneYellow
		if len(v.HardStops) > 0 {
			v.Zone = ZoneRed
		}
		if _, ok := r.BaseRight(); !ok {
			v.Reasons = append(v.Reasons, "base right unresolved")
		} else {
			v.Reasons = append(v.Reasons, fmt.Sprintf("confidence %.4f needs review", v.Confidence))
		}
	case len(v.HardStops) > 0:
		v.Zone, v.Route = ZoneRed, RouteReject
	case len(v.Uncertain) > 0 || len(v.YellowCodes) > 0:
		v.Zone, v.Route = ZoneYellow, RoutePass
		if len(v.Uncertain) > 0 {
			v.Reasons = append(v.Reasons, fmt.Sprintf("uncertain dispositions at seqs %v", v.Uncertain))
		}
	default:
		v.Zone, v.Route = ZoneGreen, RoutePass
	}
	return v
}

// Write prints the verdict as a short human-readable block.
func Write(w io.Writer, v Verdict) {
	fmt.Fprintf(w, "%s  %s/%s  confidence=%.4f\n", v.DocumentID, v.Zone, v.Route, v.Confidence)
	if len(v.Reasons) > 0 {
		fmt.Fprintf(w, "  %s\n", strings.Join(v.Reasons, "\n  "))
	}
}
