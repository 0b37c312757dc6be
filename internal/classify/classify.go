// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify maps registration purposes (등기목적) onto the closed
// event taxonomy and links entries that cancel earlier entries by rank
// reference. Every function here is pure.
package classify

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/pdiddy/registry-engine/pkg/types"
)

// Result is the classifier output for one purpose.
type Result struct {
	Type       types.EventType
	Confidence float64
}

// rankRef matches a rank reference such as 3번 or 1-1번.
var rankRef = regexp.MustCompile(`(\d+)(?:-(\d+))?번`)

// annotationPrefixes are stripped before matching. They carry cancellation
// evidence, which the ingest adapters record separately.
var annotationPrefixes = []string{"[말소]", "(말소)"}

// Purpose classifies a registration purpose. An empty purpose yields
// UNCLASSIFIED with zero confidence.
func Purpose(purpose string, p types.Policy) Result {
	n := normalize(purpose)
	if n == "" {
		return Result{Type: types.EventUnclassified}
	}

	if marker, ok := cancellationMarker(n, p.CancellationMarkers); ok {
		if hasSuffixPhrase(n, marker) {
			return Result{Type: types.EventCancellation, Confidence: p.CanonicalConfidence}
		}
		return Result{Type: types.EventCancellation, Confidence: p.PartialConfidence}
	}

	for _, t := range terms {
		if !strings.Contains(n, t.phrase) {
			continue
		}
		if t.canonical && exact(n, t.phrase) {
			return Result{Type: t.eventType, Confidence: p.CanonicalConfidence}
		}
		return Result{Type: t.eventType, Confidence: p.PartialConfidence}
	}
	return Result{Type: types.EventUnclassified}
}

// Event classifies e from its purpose, falling back to the raw text at no
// more than partial confidence when the purpose is empty.
func Event(e types.RegistryEvent, p types.Policy) Result {
	if normalize(e.Purpose) != "" {
		return Purpose(e.Purpose, p)
	}
	r := Purpose(e.RawText, p)
	if r.Confidence > p.PartialConfidence {
		r.Confidence = p.PartialConfidence
	}
	return r
}

// Document classifies every event of doc and links cross-referenced
// cancellations. doc is not modified. Events that already carry a valid
// type with positive confidence (hand-normalized input) keep it.
func Document(doc types.RegistryDocument, p types.Policy) (types.RegistryDocument, []types.Warning) {
	out := doc.Clone()
	ordered := bySeq(&out)

	var warnings []types.Warning
	for _, e := range ordered {
		if !(e.EventType.Valid() && e.EventType != types.EventUnclassified && e.ClassificationConfidence > 0) {
			r := Event(*e, p)
			e.EventType = r.Type
			e.ClassificationConfidence = r.Confidence
		}

		if e.EventType == types.EventUnclassified {
			warnings = append(warnings, types.Warning{
				Kind:    types.WarnUnclassifiedEvent,
				Seqs:    []int{e.Seq},
				Message: fmt.Sprintf("purpose %q matches no known registration type", e.Purpose),
			})
			continue
		}
		if home, ok := e.EventType.HomeSection(); ok && home != e.Section {
			warnings = append(warnings, types.Warning{
				Kind: types.WarnSectionMismatch,
				Seqs: []int{e.Seq},
				Message: fmt.Sprintf("%s recorded in %s, expected %s",
					e.EventType, e.Section.Label(), home.Label()),
			})
		}
	}

	warnings = append(warnings, linkCancellations(ordered, p)...)
	return out, warnings
}

// linkCancellations resolves the rank references of every cancellation entry
// to the prior event of the same section and marks it cancelled.
func linkCancellations(ordered []*types.RegistryEvent, p types.Policy) []types.Warning {
	var warnings []types.Warning
	for _, c := range ordered {
		if c.EventType != types.EventCancellation {
			continue
		}

		text := c.Purpose
		if normalize(text) == "" {
			text = c.RawText
		}
		refs := rankRef.FindAllStringSubmatch(text, -1)
		if len(refs) == 0 {
			warnings = append(warnings, types.Warning{
				Kind:    types.WarnCancellationUnresolved,
				Seqs:    []int{c.Seq},
				Message: fmt.Sprintf("cancellation %q names no rank number", c.Purpose),
			})
			continue
		}

		for _, ref := range refs {
			rank, _ := strconv.Atoi(ref[1])
			sub := 0
			if ref[2] != "" {
				sub, _ = strconv.Atoi(ref[2])
			}

			target, later := findTarget(ordered, c, rank, sub)
			if target == nil {
				reason := "unknown"
				if later {
					reason = "later"
				}
				warnings = append(warnings, types.Warning{
					Kind:    types.WarnCancellationUnresolved,
					Seqs:    []int{c.Seq},
					Message: fmt.Sprintf("cancellation references %s %s entry %s", reason, c.Section.Label(), ref[0]),
				})
				continue
			}

			markCancelled(target, c.Seq, p.CrossReferenceConfidence)
			if c.CancelsRef == nil {
				c.CancelsRef = types.IntPtr(target.Seq)
			}
			if sub == 0 {
				// Cancelling a main entry cancels its supplementary entries.
				for _, e := range ordered {
					if e.Section == c.Section && e.RankNo == rank && e.SubRankNo > 0 && e.Seq < c.Seq {
						markCancelled(e, c.Seq, p.CrossReferenceConfidence)
					}
				}
			}
		}
	}
	return warnings
}

// findTarget returns the most recent event before c in c's section with the
// given rank. later reports whether a matching entry exists only after c.
func findTarget(ordered []*types.RegistryEvent, c *types.RegistryEvent, rank, sub int) (*types.RegistryEvent, bool) {
	var target *types.RegistryEvent
	later := false
	for _, e := range ordered {
		if e.Section != c.Section || e.RankNo != rank || e.SubRankNo != sub || e.Seq == c.Seq {
			continue
		}
		if e.Seq > c.Seq {
			later = true
			continue
		}
		target = e
	}
	return target, later
}

// markCancelled records a cross-reference cancellation on e. Stronger
// evidence already on e is kept.
func markCancelled(e *types.RegistryEvent, by int, confidence float64) {
	e.CancelledBy = types.IntPtr(by)
	if e.Cancelled && e.CancelConfidence >= confidence {
		return
	}
	e.Cancelled = true
	e.CancelSource = types.CancelCrossReference
	e.CancelConfidence = confidence
}

// bySeq returns pointers to every event of doc ordered by seq.
func bySeq(doc *types.RegistryDocument) []*types.RegistryEvent {
	out := make([]*types.RegistryEvent, 0, len(doc.Ownership)+len(doc.Encumbrance))
	for i := range doc.Ownership {
		out = append(out, &doc.Ownership[i])
	}
	for i := range doc.Encumbrance {
		out = append(out, &doc.Encumbrance[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// normalize removes whitespace, strikethrough markup, and annotation prefixes.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "~~", "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	for _, prefix := range annotationPrefixes {
		s = strings.TrimPrefix(s, prefix)
	}
	return s
}

// cancellationMarker returns the first marker contained in n. A restoration
// of a cancelled entry (말소회복) is not itself a cancellation.
func cancellationMarker(n string, markers []string) (string, bool) {
	if strings.Contains(n, "말소회복") {
		return "", false
	}
	for _, m := range markers {
		if m != "" && strings.Contains(n, m) {
			return m, true
		}
	}
	return "", false
}

// exact reports whether n is phrase, optionally followed by a registry suffix.
func exact(n, phrase string) bool {
	if n == phrase {
		return true
	}
	rest, ok := strings.CutPrefix(n, phrase)
	if !ok {
		return false
	}
	for _, suffix := range registrySuffixes {
		if rest == suffix {
			return true
		}
	}
	return false
}

// hasSuffixPhrase reports whether n ends with phrase, optionally followed by
// a registry suffix.
func hasSuffixPhrase(n, phrase string) bool {
	if strings.HasSuffix(n, phrase) {
		return true
	}
	for _, suffix := range registrySuffixes {
		if strings.HasSuffix(n, phrase+suffix) {
			return true
		}
	}
	return false
}
