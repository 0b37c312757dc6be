// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/registry-engine/pkg/types"
)

// Table column positions (resNumber) in 갑구 and 을구 rows.
const (
	colRank    = "0"
	colPurpose = "1"
	colReceipt = "2"
	colCause   = "3"
	colHolder  = "4"
)

// Table column positions in 표제부 rows.
const (
	colTitleAddress  = "2"
	colTitleBuilding = "3"
)

// headerRow marks a column-heading row (resType2).
const headerRow = "1"

// tableResponse is the lookup API's registry response.
type tableResponse struct {
	Entries []tableEntry `json:"resRegisterEntriesList"`
}

type tableEntry struct {
	UniqueNo       string         `json:"commUniqueNo"`
	Realty         string         `json:"resRealty"`
	History        []tableSection `json:"resRegistrationHisList"`
	LandOwners     []tableOwner   `json:"resLandOwnerHisList"`
	BuildingOwners []tableOwner   `json:"resBuildingOwnerHisList"`
}

type tableSection struct {
	Type     string     `json:"resType"`
	Contents []tableRow `json:"resContentsList"`
}

type tableRow struct {
	Type2    string      `json:"resType2"`
	CancelYN string      `json:"resCancelYN"`
	Details  []tableCell `json:"resDetailList"`
}

type tableCell struct {
	Number   columnNo `json:"resNumber"`
	Contents string   `json:"resContents"`
}

type tableOwner struct {
	Owner    string `json:"resOwner"`
	FromDate string `json:"resFromDate"`
	ToDate   string `json:"resToDate"`
}

// columnNo accepts resNumber as either a JSON string or number.
type columnNo string

func (c *columnNo) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = columnNo(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("resNumber: %w", err)
	}
	*c = columnNo(n.String())
	return nil
}

var reRealtyPrefix = regexp.MustCompile(`^\[.*?\]\s*`)

// ParseTable parses a lookup-API JSON response. Only the first register
// entry is read. Rows flagged resCancelYN=Y are cancelled at
// cfg.TableCancelConfidence.
func ParseTable(id string, data []byte, cfg types.IngestConfig) (types.RegistryDocument, error) {
	var resp tableResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return types.RegistryDocument{}, fmt.Errorf("decoding table response: %w", err)
	}
	if len(resp.Entries) == 0 {
		return types.RegistryDocument{}, types.Malformed(id, "response has no register entries")
	}
	entry := resp.Entries[0]
	if id == "" {
		id = entry.UniqueNo
	}

	doc := types.RegistryDocument{ID: id, Source: SourceTable}

	hasEvents := false
	for _, sec := range entry.History {
		switch {
		case strings.Contains(sec.Type, "표제부"):
			doc.Title = tableTitle(sec)
		case strings.Contains(sec.Type, "갑구"):
			hasEvents = true
			doc.Ownership = append(doc.Ownership, tableEvents(sec, types.SectionOwnership, cfg)...)
		case strings.Contains(sec.Type, "을구"):
			hasEvents = true
			doc.Encumbrance = append(doc.Encumbrance, tableEvents(sec, types.SectionEncumbrance, cfg)...)
		}
	}
	if !hasEvents {
		return types.RegistryDocument{}, types.Malformed(id, "no 갑구 or 을구 section in response")
	}

	if doc.Title.Address == "" {
		realtyTitle(&doc.Title, entry.Realty)
	}
	for _, o := range entry.LandOwners {
		addTableOwner(&doc.Title, "토지", o)
	}
	for _, o := range entry.BuildingOwners {
		addTableOwner(&doc.Title, "건물", o)
	}

	if err := assignSeqs(&doc); err != nil {
		return types.RegistryDocument{}, err
	}
	return doc, nil
}

func (r tableRow) columns() map[string]string {
	cols := make(map[string]string, len(r.Details))
	for _, d := range r.Details {
		cols[string(d.Number)] = d.Contents
	}
	return cols
}

func tableEvents(sec tableSection, section types.Section, cfg types.IngestConfig) []types.RegistryEvent {
	var events []types.RegistryEvent
	for _, row := range sec.Contents {
		if row.Type2 == headerRow {
			continue
		}
		cols := row.columns()

		purpose := firstLine(cols[colPurpose])
		if purpose == "" {
			continue
		}
		rank, sub, _ := parseRank(firstLine(cols[colRank]))
		receipt := cols[colReceipt]
		cause := strings.TrimSpace(cols[colCause])
		holder := cols[colHolder]

		e := types.RegistryEvent{
			Section:   section,
			RankNo:    rank,
			SubRankNo: sub,
			Purpose:   purpose,
			Cause:     strings.Join(strings.Fields(cause), " "),
			ReceiptNo: parseReceipt(receipt),
			Amount:    parseAmount(holder + " " + cause),
			Holder:    parseHolder(holder),
			RawText:   rawColumns(row),
		}
		if date, ok := parseDate(receipt); ok {
			e.AcceptedDate = date
			e.RegisteredDate = date
		}
		if strings.EqualFold(strings.TrimSpace(row.CancelYN), "Y") {
			e.Cancelled = true
			e.CancelSource = types.CancelTableIndicator
			e.CancelConfidence = cfg.TableCancelConfidence
		}
		events = append(events, e)
	}
	return events
}

// rawColumns joins the non-empty cells in column order.
func rawColumns(row tableRow) string {
	var parts []string
	for _, d := range row.Details {
		if s := strings.TrimSpace(d.Contents); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " | ")
}

func tableTitle(sec tableSection) types.TitleSection {
	var t types.TitleSection
	var raw []string
	for _, row := range sec.Contents {
		if row.Type2 == headerRow {
			continue
		}
		cols := row.columns()

		if addr := strings.Join(strings.Fields(cols[colTitleAddress]), " "); addr != "" && t.Address == "" {
			t.Address = addr
		}

		building := cols[colTitleBuilding]
		if building == "" {
			continue
		}
		raw = append(raw, building)
		if area, _, ok := parseArea(building); ok {
			t.Area = area
		}
		for _, line := range strings.Split(building, "\n") {
			line = strings.TrimSpace(line)
			if strings.Contains(line, "구조") || (strings.HasSuffix(line, "조") && len([]rune(line)) > 2) {
				t.Structure = line
				break
			}
		}
	}
	t.RawText = strings.Join(raw, " ")
	return t
}

// realtyTitle fills title fields from the one-line resRealty description,
// as in "[집합건물] 서울특별시 강남구 역삼동 123 철근콘크리트조 84.9㎡".
func realtyTitle(t *types.TitleSection, realty string) {
	if realty == "" {
		return
	}
	if t.RawText == "" {
		t.RawText = realty
	}
	clean := reRealtyPrefix.ReplaceAllString(realty, "")

	area, before, ok := parseArea(clean)
	if !ok {
		t.Address = clean
		return
	}
	t.Area = area
	addr := before
	if i := strings.LastIndex(before, " "); i >= 0 && strings.Contains(before[i+1:], "조") {
		t.Structure = before[i+1:]
		addr = strings.TrimSpace(before[:i])
	}
	t.Address = addr
}

func addTableOwner(t *types.TitleSection, kind string, o tableOwner) {
	owner := strings.TrimSpace(o.Owner)
	if owner == "" {
		return
	}
	addPeriod(t, kind, types.OwnershipPeriod{Owner: owner, From: tableDate(o.FromDate), To: tableDate(o.ToDate)})
}

// tableDate accepts YYYYMMDD, YYYY-MM-DD, YYYY.MM.DD, or a 년월일 date.
func tableDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if d, ok := parseDate(s); ok {
		return d
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if len(digits) != 8 {
		return ""
	}
	return digits[:4] + "-" + digits[4:6] + "-" + digits[6:]
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}
