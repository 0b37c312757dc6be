// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/registry-engine/pkg/types"
)

// AnalyzeCorroborated analyzes two adapter renderings of the same registry.
// The result is the primary analysis, except that a hard-stop code raised by
// only one adapter is demoted to a HARD_STOP_AMBIGUITY warning and an
// ADAPTER_DISAGREEMENT warning names the receipts involved.
func (e *Engine) AnalyzeCorroborated(primary, secondary types.RegistryDocument) (*Result, error) {
	first, err := e.Analyze(primary)
	if err != nil {
		return nil, fmt.Errorf("primary document: %w", err)
	}
	second, err := e.Analyze(secondary)
	if err != nil {
		return nil, fmt.Errorf("secondary document: %w", err)
	}
	return corroborate(first, second, e.policy), nil
}

func corroborate(first, second *Result, p types.Policy) *Result {
	out := first.clone()
	out.hardStops = nil

	firstStops := make(map[types.HardStopCode]types.HardStop)
	for _, h := range first.hardStops {
		firstStops[h.Code] = h
	}
	secondStops := make(map[types.HardStopCode]types.HardStop)
	for _, h := range second.hardStops {
		secondStops[h.Code] = h
	}

	for _, code := range types.AllHardStopCodes {
		h1, in1 := firstStops[code]
		h2, in2 := secondStops[code]
		switch {
		case in1 && in2:
			out.hardStops = append(out.hardStops, types.HardStop{
				Code:        h1.Code,
				Name:        h1.Name,
				TriggerSeqs: append([]int(nil), h1.TriggerSeqs...),
			})
		case in1:
			receipts := first.receipts(h1.TriggerSeqs)
			out.disagree(code, first.source, h1.TriggerSeqs, receipts)
		case in2:
			receipts := second.receipts(h2.TriggerSeqs)
			out.disagree(code, second.source, out.seqsForReceipts(second, h2.TriggerSeqs), receipts)
		}
	}
	out.carryDemotions(first, second, firstStops, secondStops)

	out.finish(p)
	return out
}

// carryDemotions copies HARD_STOP_AMBIGUITY warnings that only second
// produced onto r, mapped to r's seqs.
func (r *Result) carryDemotions(first, second *Result, firstStops, secondStops map[types.HardStopCode]types.HardStop) {
	demoted := make(map[types.HardStopCode]bool)
	for _, w := range first.warnings {
		if w.Kind == types.WarnHardStopAmbiguity {
			demoted[w.Code] = true
		}
	}
	for _, w := range second.warnings {
		if w.Kind != types.WarnHardStopAmbiguity || demoted[w.Code] {
			continue
		}
		if _, ok := firstStops[w.Code]; ok {
			continue
		}
		if _, ok := secondStops[w.Code]; ok {
			continue
		}
		demoted[w.Code] = true
		reason := strings.TrimPrefix(w.Message, string(w.Code)+" demoted: ")
		r.demote(w.Code, r.seqsForReceipts(second, w.Seqs), fmt.Sprintf("%s (%s adapter)", reason, second.source))
	}
}

// disagree demotes code raised only by the named adapter.
func (r *Result) disagree(code types.HardStopCode, source string, seqs []int, receipts []string) {
	r.demote(code, seqs, fmt.Sprintf("raised only by the %s adapter", source))
	sorted := append([]int(nil), seqs...)
	sort.Ints(sorted)
	r.warnings = append(r.warnings, types.Warning{
		Kind:    types.WarnAdapterDisagreement,
		Code:    code,
		Seqs:    sorted,
		Message: fmt.Sprintf("%s raised only by the %s adapter (receipts %s)", code, source, strings.Join(receipts, ", ")),
	})
}

// receipts renders the receipts of the given seqs.
func (r *Result) receipts(seqs []int) []string {
	out := make([]string, 0, len(seqs))
	for _, seq := range seqs {
		if i, ok := r.index[seq]; ok {
			out = append(out, receiptKey(r.events[i].RegistryEvent))
		}
	}
	return out
}

// seqsForReceipts maps seqs of other onto r's own seqs by receipt, section,
// and rank. Events that r lacks are dropped.
func (r *Result) seqsForReceipts(other *Result, seqs []int) []int {
	byReceipt := make(map[string][]int)
	for _, e := range r.events {
		key := matchKey(e.RegistryEvent)
		byReceipt[key] = append(byReceipt[key], e.Seq)
	}

	var out []int
	seen := make(map[int]bool)
	for _, seq := range seqs {
		i, ok := other.index[seq]
		if !ok {
			continue
		}
		for _, own := range byReceipt[matchKey(other.events[i].RegistryEvent)] {
			if !seen[own] {
				seen[own] = true
				out = append(out, own)
			}
		}
	}
	return out
}

func matchKey(e types.RegistryEvent) string {
	return fmt.Sprintf("%s/%s/%d-%d", receiptKey(e), e.Section, e.RankNo, e.SubRankNo)
}
