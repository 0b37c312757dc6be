// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// DefaultPolicy returns the policy tables for Korean residential auctions.
func DefaultPolicy() Policy {
	return Policy{
		PriorityOrder: []EventType{
			EventMortgage,
			EventProvisionalSeizure,
			EventSeizure,
			EventAuctionCommencement,
		},
		FallbackTypes:              []EventType{EventAuctionCommencement},
		AlwaysSurvive:              []EventType{EventPreliminaryNotice},
		AlwaysExtinguish:           []EventType{},
		HardStops:                  append([]HardStopCode(nil), AllHardStopCodes...),
		CancellationMarkers:        []string{"말소", "해제"},
		SecurityProvisionalMarkers: []string{"담보가등기", "담보"},
		CanonicalConfidence:        0.95,
		PartialConfidence:          0.7,
		UncertainThreshold:         0.5,
		CrossReferenceConfidence:   0.8,
		CancelThreshold:            0.7,
		EncumbranceWeight:          1.0,
		OwnershipWeight:            0.6,
		DowngradePenalty:           0.85,
		UnresolvedCap:              0.3,
		ManualReviewThreshold:      0.5,
	}
}

// DefaultIngestConfig returns the adapter cancellation confidences.
func DefaultIngestConfig() IngestConfig {
	return IngestConfig{
		TextCancelConfidence:  0.6,
		TableCancelConfidence: 1.0,
	}
}

// Validate reports every inconsistency in the policy tables.
func (p Policy) Validate() error {
	var errs []error

	if len(p.PriorityOrder) == 0 {
		errs = append(errs, errors.New("priority_order is empty"))
	}
	seen := make(map[EventType]bool)
	for _, t := range p.PriorityOrder {
		if !t.Valid() || t == EventUnclassified {
			errs = append(errs, fmt.Errorf("priority_order: unknown event type %q", t))
		}
		if seen[t] {
			errs = append(errs, fmt.Errorf("priority_order: duplicate event type %q", t))
		}
		seen[t] = true
	}
	for _, t := range p.FallbackTypes {
		if !seen[t] {
			errs = append(errs, fmt.Errorf("fallback_types: %q is not in priority_order", t))
		}
	}

	survive := make(map[EventType]bool)
	for _, t := range p.AlwaysSurvive {
		if !t.Valid() {
			errs = append(errs, fmt.Errorf("always_survive: unknown event type %q", t))
		}
		survive[t] = true
	}
	for _, t := range p.AlwaysExtinguish {
		if !t.Valid() {
			errs = append(errs, fmt.Errorf("always_extinguish: unknown event type %q", t))
		}
		if survive[t] {
			errs = append(errs, fmt.Errorf("%q is in both always_survive and always_extinguish", t))
		}
	}

	for _, c := range p.HardStops {
		if !c.Valid() {
			errs = append(errs, fmt.Errorf("hard_stops: unknown code %q", c))
		}
	}
	if len(p.CancellationMarkers) == 0 {
		errs = append(errs, errors.New("cancellation_markers is empty"))
	}

	unit := []struct {
		name  string
		value float64
	}{
		{"canonical_confidence", p.CanonicalConfidence},
		{"partial_confidence", p.PartialConfidence},
		{"uncertain_threshold", p.UncertainThreshold},
		{"cross_reference_confidence", p.CrossReferenceConfidence},
		{"cancel_threshold", p.CancelThreshold},
		{"downgrade_penalty", p.DowngradePenalty},
		{"unresolved_cap", p.UnresolvedCap},
		{"manual_review_threshold", p.ManualReviewThreshold},
	}
	for _, u := range unit {
		if u.value < 0 || u.value > 1 {
			errs = append(errs, fmt.Errorf("%s %v out of range [0,1]", u.name, u.value))
		}
	}
	if p.CanonicalConfidence < 0.9 {
		errs = append(errs, fmt.Errorf("canonical_confidence %v below 0.9", p.CanonicalConfidence))
	}
	if p.PartialConfidence < 0.5 || p.PartialConfidence >= 0.9 {
		errs = append(errs, fmt.Errorf("partial_confidence %v outside [0.5,0.9)", p.PartialConfidence))
	}
	if p.UnresolvedCap >= p.ManualReviewThreshold {
		errs = append(errs, fmt.Errorf("unresolved_cap %v must be below manual_review_threshold %v",
			p.UnresolvedCap, p.ManualReviewThreshold))
	}
	if p.EncumbranceWeight < 0 || p.OwnershipWeight < 0 || p.EncumbranceWeight+p.OwnershipWeight == 0 {
		errs = append(errs, errors.New("section weights must be non-negative and not both zero"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid policy: %w", errors.Join(errs...))
	}
	return nil
}

// Contains reports whether t is in list.
func Contains[T comparable](list []T, t T) bool {
	for _, v := range list {
		if v == t {
			return true
		}
	}
	return false
}
