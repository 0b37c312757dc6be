// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/registry-engine/pkg/types"
)

var (
	reTitleMarker       = regexp.MustCompile(`【\s*표\s*제\s*부\s*】`)
	reOwnershipMarker   = regexp.MustCompile(`【\s*갑\s*구\s*】`)
	reEncumbranceMarker = regexp.MustCompile(`【\s*을\s*구\s*】`)

	reRankRow = regexp.MustCompile(`^(\d+(?:-\d+)?)\s*\|`)

	// 토지소유자 홍길동 (2010년1월5일~2021년3월2일)
	reOwnerLine = regexp.MustCompile(`(토지|건물)\s?소유자\s*[:：]?\s*([^\s(|]+)\s*(?:\(([^)]*)\))?`)
)

// sectionText is the raw text of each division. The has fields are false when the
// marker was not found.
type sectionText struct {
	title, ownership, encumbrance          string
	hasTitle, hasOwnership, hasEncumbrance bool
}

// ParseText parses text extracted from a printed registry (등기부등본).
// Rows are pipe-delimited: rank | purpose | receipt | cause | holder, with
// continuation lines folded into the last cell. Cancellation annotations on
// the purpose are recorded at cfg.TextCancelConfidence.
func ParseText(id, text string, cfg types.IngestConfig) (types.RegistryDocument, error) {
	sections := splitSections(text)
	if !sections.hasOwnership && !sections.hasEncumbrance {
		return types.RegistryDocument{}, types.Malformed(id, "no 갑구 or 을구 section marker")
	}

	doc := types.RegistryDocument{ID: id, Source: SourceText}
	if sections.hasTitle {
		doc.Title = parseTitle(sections.title)
	}
	doc.Ownership = parseRows(sections.ownership, types.SectionOwnership, cfg)
	doc.Encumbrance = parseRows(sections.encumbrance, types.SectionEncumbrance, cfg)

	if err := assignSeqs(&doc); err != nil {
		return types.RegistryDocument{}, err
	}
	return doc, nil
}

// splitSections cuts text at each section marker, in the order the markers
// appear.
func splitSections(text string) sectionText {
	type mark struct {
		name  string
		start int
	}
	var marks []mark
	for name, re := range map[string]*regexp.Regexp{
		"title":       reTitleMarker,
		"ownership":   reOwnershipMarker,
		"encumbrance": reEncumbranceMarker,
	} {
		if loc := re.FindStringIndex(text); loc != nil {
			marks = append(marks, mark{name, loc[0]})
		}
	}
	sort.Slice(marks, func(i, j int) bool { return marks[i].start < marks[j].start })

	var s sectionText
	for i, m := range marks {
		end := len(text)
		if i+1 < len(marks) {
			end = marks[i+1].start
		}
		body := text[m.start:end]
		switch m.name {
		case "title":
			s.title, s.hasTitle = body, true
		case "ownership":
			s.ownership, s.hasOwnership = body, true
		case "encumbrance":
			s.encumbrance, s.hasEncumbrance = body, true
		}
	}
	return s
}

// parseRows splits a section body into rank-numbered row blocks. Lines
// before the 순위번호 header are ignored.
func parseRows(body string, section types.Section, cfg types.IngestConfig) []types.RegistryEvent {
	var blocks [][]string
	headerPassed := false
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.Contains(line, "순위번호") {
			headerPassed = true
			continue
		}
		if !headerPassed || line == "" {
			continue
		}
		if reRankRow.MatchString(line) {
			blocks = append(blocks, []string{line})
			continue
		}
		if len(blocks) > 0 {
			blocks[len(blocks)-1] = append(blocks[len(blocks)-1], line)
		}
	}

	events := make([]types.RegistryEvent, 0, len(blocks))
	for _, block := range blocks {
		events = append(events, parseRow(block, section, cfg))
	}
	return events
}

func parseRow(block []string, section types.Section, cfg types.IngestConfig) types.RegistryEvent {
	cells := strings.Split(block[0], "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	if len(block) > 1 {
		last := len(cells) - 1
		cells[last] = strings.TrimSpace(cells[last] + " " + strings.Join(block[1:], " "))
	}
	cell := func(i int) string {
		if i < len(cells) {
			return cells[i]
		}
		return ""
	}

	full := strings.Join(cells, " ")
	rank, sub, _ := parseRank(cell(0))

	e := types.RegistryEvent{
		Section:   section,
		RankNo:    rank,
		SubRankNo: sub,
		Purpose:   cell(1),
		Cause:     cell(3),
		RawText:   strings.Join(block, "\n"),
	}

	receipt := cell(2)
	if _, ok := parseDate(receipt); !ok {
		receipt = full
	}
	if date, ok := parseDate(receipt); ok {
		e.AcceptedDate = date
		e.RegisteredDate = date
	}
	e.ReceiptNo = parseReceipt(receipt)

	e.Amount = parseAmount(cell(4) + " " + cell(3))
	e.Holder = parseHolder(cell(4))

	if isAnnotatedCancel(e.Purpose) {
		e.Cancelled = true
		e.CancelSource = types.CancelTextAnnotation
		e.CancelConfidence = cfg.TextCancelConfidence
	}
	return e
}

// parseTitle reads address, structure, area, and owner history from the
// 표제부 rows.
func parseTitle(body string) types.TitleSection {
	t := types.TitleSection{RawText: body}

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "표시번호") || strings.Contains(line, "【") {
			continue
		}

		if m := reOwnerLine.FindStringSubmatch(line); m != nil {
			addOwner(&t, m[1], m[2], m[3])
			continue
		}

		if !strings.Contains(line, "|") {
			continue
		}
		parts := strings.Split(line, "|")
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if t.Address == "" && looksLikeAddress(part) {
				t.Address = part
			}
		}
		for _, part := range parts {
			if area, before, ok := parseArea(part); ok {
				t.Area = area
				if before != "" {
					t.Structure = before
				}
				break
			}
		}
	}
	return t
}

// looksLikeAddress matches a cell naming a 시 or 도 with some length to it.
func looksLikeAddress(s string) bool {
	return utf8.RuneCountInString(s) > 5 && (strings.Contains(s, "시") || strings.Contains(s, "도")) &&
		!reArea.MatchString(s)
}

// addOwner appends an ownership period parsed from "from~to".
func addOwner(t *types.TitleSection, kind, owner, period string) {
	p := types.OwnershipPeriod{Owner: owner}
	if period != "" {
		from, to, _ := strings.Cut(period, "~")
		p.From, _ = parseDate(from)
		p.To, _ = parseDate(to)
	}
	addPeriod(t, kind, p)
}
