// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze determines the extinguishment base right (말소기준권리) of
// a registry document, the auction disposition of every other right, and
// the hard-stop conditions that disqualify a listing. Analysis is a pure
// function of the document and the policy.
package analyze

import (
	"fmt"
	"sort"

	"github.com/pdiddy/registry-engine/internal/classify"
	"github.com/pdiddy/registry-engine/pkg/types"
)

// Engine analyzes documents under one policy. It holds no mutable state and
// is safe for concurrent use.
type Engine struct {
	policy types.Policy
}

// NewEngine validates the policy and returns an engine that uses it.
func NewEngine(policy types.Policy) (*Engine, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Engine{policy: clonePolicy(policy)}, nil
}

// Policy returns a copy of the engine's policy.
func (e *Engine) Policy() types.Policy { return clonePolicy(e.policy) }

// Analyze classifies the document's events and derives the base right,
// dispositions, hard stops, confidence, and summary. A document whose
// sections or sequence cannot be trusted yields a *types.MalformedDocumentError
// and no result.
func (e *Engine) Analyze(doc types.RegistryDocument) (*Result, error) {
	if err := validate(doc); err != nil {
		return nil, err
	}

	classified, warnings := classify.Document(doc, e.policy)

	r := &Result{
		documentID: doc.ID,
		source:     doc.Source,
		title:      cloneTitle(doc.Title),
		warnings:   warnings,
	}
	r.load(classified)
	r.resolveBase(e.policy)
	r.dispose(e.policy)
	r.detectHardStops(e.policy)
	r.finish(e.policy)
	return r, nil
}

// load builds the seq-ordered arena and its index.
func (r *Result) load(doc types.RegistryDocument) {
	events := doc.Events()
	sort.SliceStable(events, func(i, j int) bool { return events[i].Seq < events[j].Seq })

	r.events = make([]types.EventAnalysis, len(events))
	r.index = make(map[int]int, len(events))
	for i, ev := range events {
		r.events[i] = types.EventAnalysis{RegistryEvent: ev}
		r.index[ev.Seq] = i
	}
}

// finish computes the confidence and summary once all warnings are in.
func (r *Result) finish(p types.Policy) {
	r.score(p)
	r.summarize(p)
}

// clone returns a deep copy for building a derived result.
func (r *Result) clone() *Result {
	c := *r
	c.title = cloneTitle(r.title)
	c.events = r.Events()
	c.index = make(map[int]int, len(r.index))
	for k, v := range r.index {
		c.index[k] = v
	}
	c.hardStops = r.HardStops()
	c.warnings = r.Warnings()
	c.summary = cloneSummary(r.summary)
	return &c
}

func clonePolicy(p types.Policy) types.Policy {
	c := p
	c.PriorityOrder = append([]types.EventType(nil), p.PriorityOrder...)
	c.FallbackTypes = append([]types.EventType(nil), p.FallbackTypes...)
	c.AlwaysSurvive = append([]types.EventType(nil), p.AlwaysSurvive...)
	c.AlwaysExtinguish = append([]types.EventType(nil), p.AlwaysExtinguish...)
	c.HardStops = append([]types.HardStopCode(nil), p.HardStops...)
	c.CancellationMarkers = append([]string(nil), p.CancellationMarkers...)
	c.SecurityProvisionalMarkers = append([]string(nil), p.SecurityProvisionalMarkers...)
	return c
}

func cloneTitle(t types.TitleSection) types.TitleSection {
	c := t
	c.LandOwnership = append([]types.OwnershipPeriod(nil), t.LandOwnership...)
	c.BuildingOwnership = append([]types.OwnershipPeriod(nil), t.BuildingOwnership...)
	return c
}

// receiptKey identifies an event across adapters.
func receiptKey(e types.RegistryEvent) string {
	return fmt.Sprintf("%s 제%d호", e.AcceptedDate, e.ReceiptNo)
}
