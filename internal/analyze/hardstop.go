// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/registry-engine/pkg/types"
)

// hardStopNames are the display names attached to triggered rules.
var hardStopNames = map[types.HardStopCode]string{
	types.HSPreliminaryNotice:       "preliminary notice registration (예고등기)",
	types.HSTrust:                   "trust registration (신탁)",
	types.HSDisposition:             "provisional disposition (가처분)",
	types.HSRepurchase:              "repurchase rider (환매특약)",
	types.HSStatutorySuperficies:    "possible statutory superficies (법정지상권)",
	types.HSProvisionalRegistration: "senior provisional registration (선순위 가등기)",
	types.HSSeniorSuperficies:       "senior superficies (선순위 지상권)",
	types.HSSeniorServitude:         "senior servitude (선순위 지역권)",
}

// HardStopName returns the display name of code.
func HardStopName(code types.HardStopCode) string {
	if name, ok := hardStopNames[code]; ok {
		return name
	}
	return string(code)
}

// finding is one rule's outcome. Firm triggers raise the code; ambiguous
// triggers alone demote it to a HARD_STOP_AMBIGUITY warning.
type finding struct {
	firm      []int
	ambiguous []int
	reasons   []string
}

func (f *finding) add(e *types.EventAnalysis, p types.Policy) {
	switch {
	case e.Cancelled:
		if weakCancellation(e, p) {
			f.ambiguous = append(f.ambiguous, e.Seq)
			f.reasons = append(f.reasons, fmt.Sprintf("seq %d cancelled by %s evidence at %.2f",
				e.Seq, e.CancelSource, e.CancelConfidence))
		}
	case e.ClassificationConfidence < p.UncertainThreshold:
		f.ambiguous = append(f.ambiguous, e.Seq)
		f.reasons = append(f.reasons, fmt.Sprintf("seq %d classified at %.2f", e.Seq, e.ClassificationConfidence))
	default:
		f.firm = append(f.firm, e.Seq)
	}
}

// weakCancellation reports whether e is cancelled only by inferred evidence
// below the policy threshold. A cancellation flagged without a source, or read
// from the table indicator, is authoritative.
func weakCancellation(e *types.EventAnalysis, p types.Policy) bool {
	if !e.Cancelled || e.CancelConfidence >= p.CancelThreshold {
		return false
	}
	return e.CancelSource == types.CancelTextAnnotation || e.CancelSource == types.CancelCrossReference
}

// rule evaluates one hard-stop condition over the arena.
type rule func(r *Result, p types.Policy) finding

var rules = map[types.HardStopCode]rule{
	types.HSPreliminaryNotice:       ownershipRule(types.EventPreliminaryNotice),
	types.HSTrust:                   ownershipRule(types.EventTrust),
	types.HSDisposition:             ownershipRule(types.EventProvisionalDisposition),
	types.HSRepurchase:              ownershipRule(types.EventRepurchase),
	types.HSStatutorySuperficies:    statutorySuperficies,
	types.HSProvisionalRegistration: seniorProvisionalRegistration,
	types.HSSeniorSuperficies:       seniorRule(types.EventSuperficies),
	types.HSSeniorServitude:         seniorRule(types.EventServitude),
}

// detectHardStops runs every enabled rule in code order.
func (r *Result) detectHardStops(p types.Policy) {
	for _, code := range types.AllHardStopCodes {
		if !types.Contains(p.HardStops, code) {
			continue
		}
		f := rules[code](r, p)
		switch {
		case len(f.firm) > 0:
			r.hardStops = append(r.hardStops, types.HardStop{
				Code:        code,
				Name:        HardStopName(code),
				TriggerSeqs: f.firm,
			})
		case len(f.ambiguous) > 0:
			r.demote(code, f.ambiguous, strings.Join(f.reasons, "; "))
		}
	}
}

// demote records code as a Yellow Zone signal instead of a hard stop.
func (r *Result) demote(code types.HardStopCode, seqs []int, reason string) {
	seqs = append([]int(nil), seqs...)
	sort.Ints(seqs)
	r.downgraded = true
	r.warnings = append(r.warnings, types.Warning{
		Kind:    types.WarnHardStopAmbiguity,
		Code:    code,
		Seqs:    seqs,
		Message: fmt.Sprintf("%s demoted: %s", code, reason),
	})
}

// ownershipRule triggers on any 갑구 event of type t.
func ownershipRule(t types.EventType) rule {
	return func(r *Result, p types.Policy) finding {
		var f finding
		for i := range r.events {
			e := &r.events[i]
			if e.EventType == t && e.Section == types.SectionOwnership {
				f.add(e, p)
			}
		}
		return f
	}
}

// seniorRule triggers on events of type t registered before the base right.
func seniorRule(t types.EventType) rule {
	return func(r *Result, p types.Policy) finding {
		var f finding
		base := r.baseEvent()
		if base == nil {
			return f
		}
		for i := range r.events {
			e := &r.events[i]
			if e.EventType == t && e.Seq < base.Seq {
				f.add(e, p)
			}
		}
		return f
	}
}

// seniorProvisionalRegistration triggers on a provisional registration
// before the base right unless it secures a debt (담보가등기), which is
// extinguished like a mortgage.
func seniorProvisionalRegistration(r *Result, p types.Policy) finding {
	var f finding
	base := r.baseEvent()
	if base == nil {
		return f
	}
	for i := range r.events {
		e := &r.events[i]
		if e.EventType != types.EventProvisionalRegistration || e.Seq >= base.Seq {
			continue
		}
		if isSecurityProvisional(e, p) {
			continue
		}
		f.add(e, p)
	}
	return f
}

func isSecurityProvisional(e *types.EventAnalysis, p types.Policy) bool {
	text := e.Purpose + " " + e.Cause
	for _, m := range p.SecurityProvisionalMarkers {
		if m != "" && strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// statutorySuperficies triggers when land and building now have different
// owners but had the same owner when the base mortgage was registered: the
// auction would then split land from building and give the building owner
// a statutory superficies over the land.
func statutorySuperficies(r *Result, p types.Policy) finding {
	var f finding
	base := r.baseEvent()
	if base == nil || base.EventType != types.EventMortgage {
		return f
	}
	land, building := r.title.LandOwner, r.title.BuildingOwner
	if land == "" || building == "" || sameOwner(land, building) {
		return f
	}

	date := base.RegisteredDate
	if date == "" {
		date = base.AcceptedDate
	}
	landThen, landOK := ownerAt(r.title.LandOwnership, date)
	buildingThen, buildingOK := ownerAt(r.title.BuildingOwnership, date)
	if !buildingOK {
		buildingThen, buildingOK = r.registeredOwnerAt(date)
	}

	if !landOK || !buildingOK {
		r.warnings = append(r.warnings, types.Warning{
			Kind: types.WarnSuperficiesTimeline,
			Code: types.HSStatutorySuperficies,
			Seqs: []int{base.Seq},
			Message: fmt.Sprintf("land owner %s and building owner %s differ but ownership on %s is unknown",
				land, building, date),
		})
		return f
	}
	if sameOwner(landThen, buildingThen) {
		f.add(base, p)
	}
	return f
}

// ownerAt returns the owner whose period covers date. Later periods win.
func ownerAt(periods []types.OwnershipPeriod, date string) (string, bool) {
	owner, ok := "", false
	for _, period := range periods {
		if period.Covers(date) {
			owner, ok = period.Owner, true
		}
	}
	return owner, ok
}

// registeredOwnerAt reads the owner on date from 갑구 preservation and
// transfer events.
func (r *Result) registeredOwnerAt(date string) (string, bool) {
	owner, ok := "", false
	for i := range r.events {
		e := &r.events[i]
		if e.Cancelled || e.Section != types.SectionOwnership || e.Holder == "" {
			continue
		}
		if e.EventType != types.EventOwnershipPreservation && e.EventType != types.EventOwnershipTransfer {
			continue
		}
		at := e.RegisteredDate
		if at == "" {
			at = e.AcceptedDate
		}
		if at <= date {
			owner, ok = e.Holder, true
		}
	}
	return owner, ok
}

func sameOwner(a, b string) bool {
	return strings.Join(strings.Fields(a), "") == strings.Join(strings.Fields(b), "")
}
