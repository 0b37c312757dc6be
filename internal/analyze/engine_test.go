package analyze

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/registry-engine/pkg/types"
)

// --- test helpers ---

// event builds an unclassified event whose receipt date follows its seq.
func event(seq int, section types.Section, rank int, purpose string) types.RegistryEvent {
	date := fmt.Sprintf("%d-03-01", 2000+seq)
	return types.RegistryEvent{
		Seq:            seq,
		Section:        section,
		RankNo:         rank,
		Purpose:        purpose,
		AcceptedDate:   date,
		RegisteredDate: date,
		ReceiptNo:      seq * 100,
		RawText:        fmt.Sprintf("%d | %s", rank, purpose),
	}
}

func own(seq, rank int, purpose string) types.RegistryEvent {
	return event(seq, types.SectionOwnership, rank, purpose)
}

func enc(seq, rank int, purpose string) types.RegistryEvent {
	return event(seq, types.SectionEncumbrance, rank, purpose)
}

func document(events ...types.RegistryEvent) types.RegistryDocument {
	doc := types.RegistryDocument{ID: "doc", Source: "test"}
	for _, e := range events {
		if e.Section == types.SectionOwnership {
			doc.Ownership = append(doc.Ownership, e)
		} else {
			doc.Encumbrance = append(doc.Encumbrance, e)
		}
	}
	return doc
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(types.DefaultPolicy())
	require.NoError(t, err)
	return e
}

func analyze(t *testing.T, doc types.RegistryDocument) *Result {
	t.Helper()
	r, err := testEngine(t).Analyze(doc)
	require.NoError(t, err)
	return r
}

func baseSeq(t *testing.T, r *Result) int {
	t.Helper()
	b, ok := r.BaseRight()
	require.True(t, ok, "expected a base right")
	return b.Seq
}

func warningKinds(r *Result) []types.WarningKind {
	var kinds []types.WarningKind
	for _, w := range r.Warnings() {
		kinds = append(kinds, w.Kind)
	}
	return kinds
}

// typicalDocument is an apartment with a senior mortgage, a later lease
// right, and a cancelled provisional seizure.
func typicalDocument() types.RegistryDocument {
	return document(
		own(1, 1, "소유권보존"),
		own(2, 2, "소유권이전"),
		enc(3, 1, "근저당권설정"),
		enc(4, 2, "전세권설정"),
		own(5, 3, "가압류"),
		own(6, 4, "3번가압류등기말소"),
		own(7, 5, "임의경매개시결정"),
	)
}

// --- properties ---

func TestDeterminism(t *testing.T) {
	doc := typicalDocument()
	engine := testEngine(t)

	var yamls, jsons [][]byte
	for i := 0; i < 3; i++ {
		r, err := engine.Analyze(doc)
		require.NoError(t, err)

		y, err := yaml.Marshal(r)
		require.NoError(t, err)
		yamls = append(yamls, y)

		j, err := json.Marshal(r)
		require.NoError(t, err)
		jsons = append(jsons, j)
	}
	assert.Equal(t, yamls[0], yamls[1])
	assert.Equal(t, yamls[0], yamls[2])
	assert.Equal(t, jsons[0], jsons[1])
	assert.Equal(t, jsons[0], jsons[2])
}

func TestPriorityCorrectness(t *testing.T) {
	tests := []struct {
		name   string
		doc    types.RegistryDocument
		base   int
		method types.ResolutionMethod
	}{
		{
			name: "mortgage outranks earlier seizures",
			doc: document(
				own(1, 1, "압류"),
				own(2, 2, "가압류"),
				enc(5, 1, "근저당권설정"),
			),
			base:   5,
			method: types.ResolutionPriorityMatch,
		},
		{
			name: "provisional seizure outranks seizure",
			doc: document(
				own(1, 1, "압류"),
				own(2, 2, "가압류"),
				enc(3, 1, "전세권설정"),
			),
			base:   2,
			method: types.ResolutionPriorityMatch,
		},
		{
			name: "earliest instance of the winning type",
			doc: document(
				enc(2, 1, "근저당권설정"),
				enc(4, 2, "근저당권설정"),
			),
			base:   2,
			method: types.ResolutionPriorityMatch,
		},
		{
			name: "auction commencement is a fallback",
			doc: document(
				own(1, 1, "소유권보존"),
				own(3, 2, "강제경매개시결정"),
			),
			base:   3,
			method: types.ResolutionFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := analyze(t, tt.doc)
			assert.Equal(t, tt.base, baseSeq(t, r))
			assert.Equal(t, tt.method, r.ResolutionMethod())
			assert.Equal(t, tt.base, *r.Report().BaseRightSeq)
		})
	}
}

func TestNoPriorityType(t *testing.T) {
	r := analyze(t, document(own(1, 1, "소유권보존"), enc(2, 1, "전세권설정")))

	_, ok := r.BaseRight()
	assert.False(t, ok)
	assert.Nil(t, r.Report().BaseRightSeq)
	assert.Equal(t, types.ResolutionUnresolved, r.ResolutionMethod())
	assert.Less(t, r.Confidence(), types.DefaultPolicy().ManualReviewThreshold)
	assert.True(t, r.NeedsManualReview())
	assert.Empty(t, r.HardStops())
	assert.Empty(t, r.YellowCodes())
	assert.Contains(t, warningKinds(r), types.WarnBaseRightUnresolved)

	for _, e := range r.Events() {
		assert.Equal(t, types.DispositionUncertain, e.WillExtinguish, "seq %d", e.Seq)
		assert.False(t, e.IsBeforeBase)
	}
	assert.Equal(t, "base=none method=UNRESOLVED survive=0 extinguish=0 uncertain=2 hard_stops=[] yellow=[] confidence=0.3000 review=true",
		r.Summary().Text)
}

func TestCancellationToggling(t *testing.T) {
	active := document(
		own(1, 1, "소유권보존"),
		enc(2, 1, "근저당권설정"),
		own(3, 2, "신탁"),
		enc(4, 2, "근저당권설정"),
	)
	r := analyze(t, active)
	assert.Equal(t, 2, baseSeq(t, r))
	assert.True(t, r.HasHardStop(types.HSTrust))

	cancelled := document(
		own(1, 1, "소유권보존"),
		enc(2, 1, "근저당권설정"),
		own(3, 2, "신탁"),
		enc(4, 2, "근저당권설정"),
		own(5, 3, "2번신탁등기말소"),
		enc(6, 3, "1번근저당권설정등기말소"),
	)
	r = analyze(t, cancelled)
	assert.Equal(t, 4, baseSeq(t, r), "cancelled mortgage is no longer the base")
	assert.False(t, r.HasHardStop(types.HSTrust), "cancelled trust raises nothing")
	assert.Empty(t, r.YellowCodes())

	first, ok := r.Event(2)
	require.True(t, ok)
	assert.True(t, first.Cancelled)
	assert.Empty(t, first.WillExtinguish, "cancelled events carry no disposition")
	assert.Equal(t, "cancelled by seq 6", first.DispositionReason)

	counts := r.Summary().Counts
	assert.Equal(t, 4, counts.Survive+counts.Extinguish+counts.Uncertain, "two of six events are cancelled")
}

func TestFlaggedCancellationIsAuthoritative(t *testing.T) {
	notice := own(1, 1, "예고등기")
	r := analyze(t, document(notice))
	assert.True(t, r.HasHardStop(types.HSPreliminaryNotice))

	notice.Cancelled = true
	r = analyze(t, document(notice))
	assert.False(t, r.HasHardStop(types.HSPreliminaryNotice))
	assert.Empty(t, r.YellowCodes())
	assert.False(t, r.Downgraded())
	assert.NotContains(t, warningKinds(r), types.WarnHardStopAmbiguity)

	active := analyze(t, document(enc(1, 1, "근저당권설정"), own(2, 1, "예고등기")))
	flagged := own(2, 1, "예고등기")
	flagged.Cancelled = true
	cancelled := analyze(t, document(enc(1, 1, "근저당권설정"), flagged))
	assert.InDelta(t, 0.95, active.Confidence(), 1e-9)
	assert.InDelta(t, 0.95, cancelled.Confidence(), 1e-9)
}

func TestWeakCancellationOfBaseCandidate(t *testing.T) {
	weak := enc(2, 1, "[말소] 근저당권설정")
	weak.Cancelled = true
	weak.CancelSource = types.CancelTextAnnotation
	weak.CancelConfidence = 0.6

	r := analyze(t, document(own(1, 1, "소유권보존"), weak, enc(3, 2, "근저당권설정")))
	assert.Equal(t, 3, baseSeq(t, r))

	var found bool
	for _, w := range r.Warnings() {
		if w.Kind == types.WarnLowConfidenceBase {
			found = true
			assert.Equal(t, []int{2}, w.Seqs)
		}
	}
	assert.True(t, found, "skipped candidate is reported")

	firm := weak
	firm.CancelSource = types.CancelTableIndicator
	firm.CancelConfidence = 1.0
	r = analyze(t, document(own(1, 1, "소유권보존"), firm, enc(3, 2, "근저당권설정")))
	assert.Equal(t, 3, baseSeq(t, r))
	assert.NotContains(t, warningKinds(r), types.WarnLowConfidenceBase)
}

func TestSequenceBoundary(t *testing.T) {
	r := analyze(t, typicalDocument())
	base := baseSeq(t, r)
	assert.Equal(t, 3, base)

	for _, e := range r.Events() {
		switch {
		case e.Cancelled:
			assert.Empty(t, e.WillExtinguish, "seq %d", e.Seq)
		case e.Seq == base:
			assert.Equal(t, types.DispositionExtinguish, e.WillExtinguish)
			assert.Equal(t, reasonBase, e.DispositionReason)
		case e.Seq < base:
			assert.Equal(t, types.DispositionSurvive, e.WillExtinguish, "seq %d", e.Seq)
			assert.True(t, e.IsBeforeBase)
		default:
			assert.Equal(t, types.DispositionExtinguish, e.WillExtinguish, "seq %d", e.Seq)
			assert.False(t, e.IsBeforeBase)
		}
	}
}

func TestAlwaysSurviveOverride(t *testing.T) {
	r := analyze(t, document(
		enc(1, 1, "근저당권설정"),
		own(2, 1, "예고등기"),
	))
	notice, ok := r.Event(2)
	require.True(t, ok)
	assert.Equal(t, types.DispositionSurvive, notice.WillExtinguish)
	assert.Equal(t, reasonAlwaysSurvive, notice.DispositionReason)
	assert.True(t, r.HasHardStop(types.HSPreliminaryNotice))

	p := types.DefaultPolicy()
	p.AlwaysExtinguish = []types.EventType{types.EventLeaseRight}
	engine, err := NewEngine(p)
	require.NoError(t, err)
	r, err = engine.Analyze(document(enc(1, 1, "전세권설정"), enc(2, 2, "근저당권설정")))
	require.NoError(t, err)
	lease, _ := r.Event(1)
	assert.Equal(t, types.DispositionExtinguish, lease.WillExtinguish)
}

func TestUncertainDisposition(t *testing.T) {
	low := own(3, 2, "가처분")
	low.EventType = types.EventProvisionalDisposition
	low.ClassificationConfidence = 0.4

	r := analyze(t, document(
		enc(1, 1, "근저당권설정"),
		own(2, 1, "공유물분할금지약정"),
		low,
	))

	unclassified, _ := r.Event(2)
	assert.Equal(t, types.EventUnclassified, unclassified.EventType)
	assert.Equal(t, types.DispositionUncertain, unclassified.WillExtinguish)
	assert.Equal(t, reasonUnclassified, unclassified.DispositionReason)

	lowConf, _ := r.Event(3)
	assert.Equal(t, types.DispositionUncertain, lowConf.WillExtinguish)
	assert.Equal(t, reasonLowConfidence, lowConf.DispositionReason)
	assert.Equal(t, 2, r.Summary().Counts.Uncertain)
	assert.Contains(t, warningKinds(r), types.WarnUnclassifiedEvent)
}

func TestStatutorySuperficies(t *testing.T) {
	base := func() types.RegistryDocument {
		doc := document(
			own(1, 1, "소유권보존"),
			enc(2, 1, "근저당권설정"),
			own(3, 2, "소유권이전"),
		)
		doc.Title.LandOwner = "정대호"
		doc.Title.BuildingOwner = "한미래"
		doc.Title.LandOwnership = []types.OwnershipPeriod{{Owner: "정대호", From: "1990-01-01"}}
		return doc
	}

	t.Run("same owner at mortgage date", func(t *testing.T) {
		doc := base()
		doc.Title.BuildingOwnership = []types.OwnershipPeriod{
			{Owner: "정대호", From: "2001-03-01", To: "2003-03-01"},
			{Owner: "한미래", From: "2003-03-01"},
		}
		r := analyze(t, doc)
		require.True(t, r.HasHardStop(types.HSStatutorySuperficies))
		assert.Equal(t, []int{2}, r.HardStops()[0].TriggerSeqs)
	})

	t.Run("different owners at mortgage date", func(t *testing.T) {
		doc := base()
		doc.Title.BuildingOwnership = []types.OwnershipPeriod{
			{Owner: "김건물", From: "2001-03-01", To: "2003-03-01"},
			{Owner: "한미래", From: "2003-03-01"},
		}
		r := analyze(t, doc)
		assert.False(t, r.HasHardStop(types.HSStatutorySuperficies))
		assert.NotContains(t, warningKinds(r), types.WarnSuperficiesTimeline)
	})

	t.Run("building history from ownership events", func(t *testing.T) {
		doc := base()
		doc.Ownership[0].Holder = "정대호"
		doc.Ownership[1].Holder = "한미래"
		r := analyze(t, doc)
		assert.True(t, r.HasHardStop(types.HSStatutorySuperficies))
	})

	t.Run("timeline unknown", func(t *testing.T) {
		doc := base()
		doc.Title.LandOwnership = nil
		r := analyze(t, doc)
		assert.False(t, r.HasHardStop(types.HSStatutorySuperficies))
		assert.Contains(t, warningKinds(r), types.WarnSuperficiesTimeline)
		assert.Equal(t, []types.HardStopCode{types.HSStatutorySuperficies}, r.YellowCodes())
		assert.False(t, r.Downgraded())
	})

	t.Run("same current owner", func(t *testing.T) {
		doc := base()
		doc.Title.BuildingOwner = "정대호"
		r := analyze(t, doc)
		assert.False(t, r.HasHardStop(types.HSStatutorySuperficies))
		assert.Empty(t, r.Warnings())
	})

	t.Run("base is not a mortgage", func(t *testing.T) {
		doc := base()
		doc.Encumbrance[0].Purpose = "전세권설정"
		doc.Ownership = append(doc.Ownership, own(4, 3, "가압류"))
		r := analyze(t, doc)
		assert.False(t, r.HasHardStop(types.HSStatutorySuperficies))
		assert.NotContains(t, warningKinds(r), types.WarnSuperficiesTimeline)
	})
}

func TestDowngradePolicy(t *testing.T) {
	t.Run("low classification confidence", func(t *testing.T) {
		trust := own(3, 2, "신탁")
		trust.EventType = types.EventTrust
		trust.ClassificationConfidence = 0.4

		doc := document(own(1, 1, "소유권보존"), enc(2, 1, "근저당권설정"), trust)
		r := analyze(t, doc)

		assert.False(t, r.HasHardStop(types.HSTrust))
		assert.Equal(t, []types.HardStopCode{types.HSTrust}, r.YellowCodes())
		assert.True(t, r.Downgraded())

		var found bool
		for _, w := range r.Warnings() {
			if w.Kind == types.WarnHardStopAmbiguity {
				found = true
				assert.Equal(t, types.HSTrust, w.Code)
				assert.Equal(t, []int{3}, w.Seqs)
			}
		}
		assert.True(t, found)

		// (0.95*0.6 + 0.95*1.0 + 0.4*0.6) / 2.2 * 0.85
		want := round4((0.57 + 0.95 + 0.24) / 2.2 * 0.85)
		assert.InDelta(t, want, r.Confidence(), 1e-9)
	})

	t.Run("low-confidence cancellation", func(t *testing.T) {
		trust := own(3, 2, "[말소] 신탁")
		trust.Cancelled = true
		trust.CancelSource = types.CancelTextAnnotation
		trust.CancelConfidence = 0.6

		r := analyze(t, document(own(1, 1, "소유권보존"), enc(2, 1, "근저당권설정"), trust))
		assert.False(t, r.HasHardStop(types.HSTrust))
		assert.Equal(t, []types.HardStopCode{types.HSTrust}, r.YellowCodes())
	})

	t.Run("confident cancellation", func(t *testing.T) {
		trust := own(3, 2, "신탁")
		trust.Cancelled = true
		trust.CancelSource = types.CancelTableIndicator
		trust.CancelConfidence = 1.0

		r := analyze(t, document(own(1, 1, "소유권보존"), enc(2, 1, "근저당권설정"), trust))
		assert.False(t, r.HasHardStop(types.HSTrust))
		assert.Empty(t, r.YellowCodes())
		assert.False(t, r.Downgraded())
	})

	t.Run("firm trigger wins over ambiguous one", func(t *testing.T) {
		weak := own(3, 2, "신탁")
		weak.EventType = types.EventTrust
		weak.ClassificationConfidence = 0.4

		r := analyze(t, document(enc(1, 1, "근저당권설정"), own(2, 1, "신탁"), weak))
		require.True(t, r.HasHardStop(types.HSTrust))
		assert.Equal(t, []int{2}, r.HardStops()[0].TriggerSeqs)
		assert.Empty(t, r.YellowCodes())
	})
}

func TestOwnershipHardStops(t *testing.T) {
	r := analyze(t, document(
		enc(1, 1, "근저당권설정"),
		own(2, 1, "처분금지가처분"),
		own(3, 2, "예고등기"),
		own(4, 3, "신탁"),
		own(5, 4, "환매특약"),
	))

	var codes []types.HardStopCode
	for _, h := range r.HardStops() {
		codes = append(codes, h.Code)
		assert.NotEmpty(t, h.Name)
	}
	assert.Equal(t, []types.HardStopCode{
		types.HSPreliminaryNotice,
		types.HSTrust,
		types.HSDisposition,
		types.HSRepurchase,
	}, codes)
	assert.Equal(t, codes, r.Summary().HardStopCodes)
}

func TestSeniorHardStops(t *testing.T) {
	doc := document(
		enc(1, 1, "지상권설정"),
		enc(2, 2, "지역권설정"),
		own(3, 1, "소유권이전청구권가등기"),
		own(4, 2, "소유권이전담보가등기"),
		enc(5, 3, "근저당권설정"),
		enc(6, 4, "지상권설정"),
	)
	r := analyze(t, doc)

	require.True(t, r.HasHardStop(types.HSSeniorSuperficies))
	require.True(t, r.HasHardStop(types.HSSeniorServitude))
	require.True(t, r.HasHardStop(types.HSProvisionalRegistration))
	for _, h := range r.HardStops() {
		switch h.Code {
		case types.HSSeniorSuperficies:
			assert.Equal(t, []int{1}, h.TriggerSeqs, "junior superficies ignored")
		case types.HSProvisionalRegistration:
			assert.Equal(t, []int{3}, h.TriggerSeqs, "security provisional registration excluded")
		}
	}

	// Without a base right the senior rules have nothing to compare against.
	r = analyze(t, document(enc(1, 1, "지상권설정"), own(2, 1, "소유권이전청구권가등기")))
	assert.Empty(t, r.HardStops())
}

func TestHardStopsFollowPolicy(t *testing.T) {
	p := types.DefaultPolicy()
	p.HardStops = []types.HardStopCode{types.HSTrust}
	engine, err := NewEngine(p)
	require.NoError(t, err)

	r, err := engine.Analyze(document(enc(1, 1, "근저당권설정"), own(2, 1, "신탁"), own(3, 2, "예고등기")))
	require.NoError(t, err)
	require.Len(t, r.HardStops(), 1)
	assert.Equal(t, types.HSTrust, r.HardStops()[0].Code)
}

func TestConfidence(t *testing.T) {
	r := analyze(t, document(
		own(1, 1, "소유권보존"),
		enc(2, 1, "근저당권설정"),
		enc(3, 2, "전세권이전"),
	))
	// (0.95*0.6 + 0.95 + 0.7) / 2.6
	assert.InDelta(t, 0.8538, r.Confidence(), 1e-9)
	assert.False(t, r.NeedsManualReview())

	r = analyze(t, document(enc(1, 1, "근저당권설정")))
	assert.InDelta(t, 0.95, r.Confidence(), 1e-9)
}

func TestLowConfidenceBase(t *testing.T) {
	m := enc(1, 1, "근저당")
	m.EventType = types.EventMortgage
	m.ClassificationConfidence = 0.3

	r := analyze(t, document(m))
	assert.Equal(t, 1, baseSeq(t, r))
	assert.Contains(t, warningKinds(r), types.WarnLowConfidenceBase)
	assert.True(t, r.NeedsManualReview())
}

func TestWarningOrder(t *testing.T) {
	r := analyze(t, document(
		own(1, 1, "공유물분할금지약정"),
		own(2, 2, "9번가압류등기말소"),
		enc(3, 1, "전세권설정"),
	))
	assert.Equal(t, []types.WarningKind{
		types.WarnUnclassifiedEvent,
		types.WarnCancellationUnresolved,
		types.WarnBaseRightUnresolved,
	}, warningKinds(r))
}

func TestSummary(t *testing.T) {
	r := analyze(t, typicalDocument())
	s := r.Summary()

	require.NotNil(t, s.BaseRight)
	assert.Equal(t, types.BaseRightRef{
		Seq:          3,
		Section:      types.SectionEncumbrance,
		RankNo:       1,
		EventType:    types.EventMortgage,
		AcceptedDate: "2003-03-01",
	}, *s.BaseRight)
	assert.Equal(t, types.DispositionCounts{Survive: 2, Extinguish: 4, Uncertain: 0}, s.Counts)
	assert.Equal(t, types.ResolutionPriorityMatch, s.ResolutionMethod)
	assert.Contains(t, s.Text, "base=seq3 MORTGAGE(을구 1) method=PRIORITY_MATCH survive=2 extinguish=4 uncertain=0")
}

func TestMalformedDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  func() types.RegistryDocument
	}{
		{"duplicate seq", func() types.RegistryDocument {
			d := document(own(1, 1, "소유권보존"), enc(2, 1, "근저당권설정"))
			d.Encumbrance[0].Seq = 1
			return d
		}},
		{"section mismatch", func() types.RegistryDocument {
			d := document(own(1, 1, "소유권보존"))
			d.Ownership[0].Section = types.SectionEncumbrance
			return d
		}},
		{"missing seq", func() types.RegistryDocument {
			d := document(own(1, 1, "소유권보존"))
			d.Ownership[0].Seq = 0
			return d
		}},
		{"missing receipt", func() types.RegistryDocument {
			d := document(own(1, 1, "소유권보존"))
			d.Ownership[0].ReceiptNo = 0
			return d
		}},
		{"seq contradicts receipts", func() types.RegistryDocument {
			d := document(own(1, 1, "소유권보존"), enc(2, 1, "근저당권설정"))
			d.Ownership[0].AcceptedDate = "2030-01-01"
			return d
		}},
	}

	engine := testEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := engine.Analyze(tt.doc())
			require.Error(t, err)
			assert.Nil(t, r)
			assert.True(t, errors.Is(err, types.ErrMalformedDocument), "got %v", err)
		})
	}
}

func TestEmptyDocument(t *testing.T) {
	r := analyze(t, types.RegistryDocument{ID: "empty"})
	assert.Equal(t, types.ResolutionUnresolved, r.ResolutionMethod())
	assert.Zero(t, r.Confidence())
	assert.Empty(t, r.Events())
}

func TestResultIsImmutable(t *testing.T) {
	r := analyze(t, typicalDocument())

	events := r.Events()
	events[0].WillExtinguish = types.DispositionUncertain
	events[0].Purpose = "changed"
	*events[5].CancelsRef = 99

	rep := r.Report()
	rep.Summary.HardStopCodes = append(rep.Summary.HardStopCodes, types.HSTrust)
	rep.Summary.BaseRight.Seq = 42

	fresh := r.Events()
	assert.Equal(t, types.DispositionSurvive, fresh[0].WillExtinguish)
	assert.Equal(t, "소유권보존", fresh[0].Purpose)
	assert.Equal(t, 5, *fresh[5].CancelsRef)
	assert.Empty(t, r.HardStops())
	assert.Empty(t, r.Summary().HardStopCodes)
	assert.Equal(t, 3, r.Summary().BaseRight.Seq)
}

func TestAnalyzeDoesNotModifyInput(t *testing.T) {
	doc := typicalDocument()
	before := doc.Clone()
	_ = analyze(t, doc)
	assert.Equal(t, before, doc)
}

func TestNewEngineRejectsInvalidPolicy(t *testing.T) {
	p := types.DefaultPolicy()
	p.PriorityOrder = nil
	_, err := NewEngine(p)
	require.Error(t, err)
}
