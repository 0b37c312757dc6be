// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest normalizes registry documents from extracted text, the
// lookup API's table JSON, and hand-normalized YAML into
// types.RegistryDocument. Adapters assign registration sequence numbers and
// record cancellation evidence; they never classify events.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/registry-engine/pkg/types"
)

// Adapter source names recorded on RegistryDocument.Source.
const (
	SourceText  = "text"
	SourceTable = "table"
	SourceYAML  = "yaml"
)

var (
	reDate    = regexp.MustCompile(`(\d{4})년\s?(\d{1,2})월\s?(\d{1,2})일`)
	reReceipt = regexp.MustCompile(`제\s?(\d+)\s?호`)
	reAmount  = regexp.MustCompile(`금\s?([\d,]+)\s?원`)
	reHolder  = regexp.MustCompile(`(?:소유자|근저당권자|저당권자|채권자|전세권자|지상권자|지역권자|임차권자|권리자|수탁자|가등기권자)\s+(.+?)(?:\s|$)`)
	reArea    = regexp.MustCompile(`([\d.]+)\s*㎡`)
	reRank    = regexp.MustCompile(`^(\d+)(?:-(\d+))?$`)
)

// Supported reports whether Load can read the file.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// DocumentID derives a document id from a file name.
func DocumentID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load reads a registry document, choosing the adapter by file extension.
func Load(path string, cfg types.IngestConfig) (types.RegistryDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.RegistryDocument{}, fmt.Errorf("reading %s: %w", path, err)
	}

	id := DocumentID(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return ParseText(id, string(data), cfg)
	case ".json":
		return ParseTable(id, data, cfg)
	case ".yaml", ".yml":
		return ReadYAML(id, data)
	}
	return types.RegistryDocument{}, fmt.Errorf("unsupported document format %q", filepath.Ext(path))
}

// parseDate returns the first 년월일 date in s as YYYY-MM-DD.
func parseDate(s string) (string, bool) {
	m := reDate.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	return fmt.Sprintf("%s-%02d-%02d", m[1], month, day), true
}

func parseReceipt(s string) int {
	m := reReceipt.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

func parseAmount(s string) *int64 {
	m := reAmount.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(m[1], ",", ""), 10, 64)
	if err != nil {
		return nil
	}
	return types.Int64Ptr(n)
}

func parseHolder(s string) string {
	m := reHolder.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// parseRank splits a printed rank such as 3 or 1-1.
func parseRank(s string) (rank, sub int, ok bool) {
	m := reRank.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, false
	}
	rank, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		sub, _ = strconv.Atoi(m[2])
	}
	return rank, sub, true
}

// parseArea returns the first ㎡ figure in s and the text before it.
func parseArea(s string) (float64, string, bool) {
	loc := reArea.FindStringSubmatchIndex(s)
	if loc == nil {
		return 0, "", false
	}
	area, err := strconv.ParseFloat(s[loc[2]:loc[3]], 64)
	if err != nil {
		return 0, "", false
	}
	return area, strings.TrimSpace(s[:loc[0]]), true
}

// isAnnotatedCancel reports whether an extracted purpose carries a
// strikethrough or 말소 annotation.
func isAnnotatedCancel(purpose string) bool {
	p := strings.TrimSpace(purpose)
	return strings.HasPrefix(p, "[말소]") || strings.HasPrefix(p, "(말소)") ||
		(strings.HasPrefix(p, "~~") && strings.HasSuffix(p, "~~") && len(p) > 4)
}

// assignSeqs orders every event by receipt (accepted date, then receipt
// number) and numbers them from 1. Registrations filed under one receipt
// keep ownership before encumbrance, then rank order. Each section slice is
// left sorted by seq.
func assignSeqs(doc *types.RegistryDocument) error {
	all := make([]*types.RegistryEvent, 0, len(doc.Ownership)+len(doc.Encumbrance))
	for i := range doc.Ownership {
		all = append(all, &doc.Ownership[i])
	}
	for i := range doc.Encumbrance {
		all = append(all, &doc.Encumbrance[i])
	}

	for _, e := range all {
		if e.AcceptedDate == "" || e.ReceiptNo == 0 {
			return types.Malformed(doc.ID, fmt.Sprintf("%s rank %s has no receipt date and number",
				e.Section.Label(), rankLabel(e)))
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.AcceptedDate != b.AcceptedDate {
			return a.AcceptedDate < b.AcceptedDate
		}
		if a.ReceiptNo != b.ReceiptNo {
			return a.ReceiptNo < b.ReceiptNo
		}
		if a.Section != b.Section {
			return a.Section == types.SectionOwnership
		}
		if a.RankNo != b.RankNo {
			return a.RankNo < b.RankNo
		}
		return a.SubRankNo < b.SubRankNo
	})

	for i, e := range all {
		if i > 0 {
			prev := all[i-1]
			if prev.AcceptedDate == e.AcceptedDate && prev.ReceiptNo == e.ReceiptNo &&
				prev.Section == e.Section && prev.RankNo == e.RankNo && prev.SubRankNo == e.SubRankNo {
				return types.Malformed(doc.ID, fmt.Sprintf("duplicate %s rank %s under receipt %s 제%d호",
					e.Section.Label(), rankLabel(e), e.AcceptedDate, e.ReceiptNo))
			}
		}
		e.Seq = i + 1
	}

	sortSection(doc.Ownership)
	sortSection(doc.Encumbrance)
	return nil
}

func sortSection(events []types.RegistryEvent) {
	sort.SliceStable(events, func(i, j int) bool { return events[i].Seq < events[j].Seq })
}

func rankLabel(e *types.RegistryEvent) string {
	if e.SubRankNo > 0 {
		return fmt.Sprintf("%d-%d", e.RankNo, e.SubRankNo)
	}
	return strconv.Itoa(e.RankNo)
}

// addPeriod records an ownership period under 토지 or 건물. An owner with an
// open period is the current owner.
func addPeriod(t *types.TitleSection, kind string, p types.OwnershipPeriod) {
	if kind == "토지" {
		t.LandOwnership = append(t.LandOwnership, p)
		if p.To == "" {
			t.LandOwner = p.Owner
		}
		return
	}
	t.BuildingOwnership = append(t.BuildingOwnership, p)
	if p.To == "" {
		t.BuildingOwner = p.Owner
	}
}
