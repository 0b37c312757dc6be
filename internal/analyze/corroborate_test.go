package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/registry-engine/pkg/types"
)

func trustDocument(source string) types.RegistryDocument {
	doc := document(
		own(1, 1, "소유권보존"),
		enc(2, 1, "근저당권설정"),
		own(3, 2, "신탁"),
		own(4, 3, "예고등기"),
	)
	doc.Source = source
	return doc
}

func TestCorroborateAgreement(t *testing.T) {
	engine := testEngine(t)
	r, err := engine.AnalyzeCorroborated(trustDocument("text"), trustDocument("table"))
	require.NoError(t, err)

	assert.True(t, r.HasHardStop(types.HSTrust))
	assert.True(t, r.HasHardStop(types.HSPreliminaryNotice))
	assert.Empty(t, r.YellowCodes())
	assert.NotContains(t, warningKinds(r), types.WarnAdapterDisagreement)

	single, err := engine.Analyze(trustDocument("text"))
	require.NoError(t, err)
	assert.Equal(t, single.Report(), r.Report())
}

func TestCorroboratePrimaryOnly(t *testing.T) {
	secondary := trustDocument("table")
	secondary.Ownership[1].Cancelled = true
	secondary.Ownership[1].CancelSource = types.CancelTableIndicator
	secondary.Ownership[1].CancelConfidence = 1.0

	r, err := testEngine(t).AnalyzeCorroborated(trustDocument("text"), secondary)
	require.NoError(t, err)

	assert.False(t, r.HasHardStop(types.HSTrust))
	assert.True(t, r.HasHardStop(types.HSPreliminaryNotice))
	assert.Equal(t, []types.HardStopCode{types.HSTrust}, r.YellowCodes())
	assert.True(t, r.Downgraded())

	var disagreement *types.Warning
	for _, w := range r.Warnings() {
		if w.Kind == types.WarnAdapterDisagreement {
			w := w
			disagreement = &w
		}
	}
	require.NotNil(t, disagreement)
	assert.Equal(t, types.HSTrust, disagreement.Code)
	assert.Equal(t, []int{3}, disagreement.Seqs)
	assert.Contains(t, disagreement.Message, "text adapter")
	assert.Contains(t, disagreement.Message, "2003-03-01 제300호")
}

func TestCorroborateSecondaryOnly(t *testing.T) {
	primary := trustDocument("text")
	primary.Ownership[1].Cancelled = true
	primary.Ownership[1].CancelSource = types.CancelTableIndicator
	primary.Ownership[1].CancelConfidence = 1.0

	single, err := testEngine(t).Analyze(primary)
	require.NoError(t, err)

	r, err := testEngine(t).AnalyzeCorroborated(primary, trustDocument("table"))
	require.NoError(t, err)

	assert.False(t, r.HasHardStop(types.HSTrust))
	assert.Equal(t, []types.HardStopCode{types.HSTrust}, r.YellowCodes())
	assert.Less(t, r.Confidence(), single.Confidence(), "demotion applies the downgrade penalty")

	for _, w := range r.Warnings() {
		if w.Kind == types.WarnAdapterDisagreement {
			assert.Equal(t, []int{3}, w.Seqs, "secondary seqs map onto the primary by receipt")
			assert.Contains(t, w.Message, "table adapter")
		}
	}
}

func TestCorroborateMalformed(t *testing.T) {
	bad := trustDocument("table")
	bad.Ownership[0].Seq = 2

	_, err := testEngine(t).AnalyzeCorroborated(trustDocument("text"), bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrMalformedDocument)
	assert.Contains(t, err.Error(), "secondary document")
}

func TestCorroborateCarriesSecondaryDemotion(t *testing.T) {
	secondary := trustDocument("table")
	secondary.Ownership[1].EventType = types.EventTrust
	secondary.Ownership[1].ClassificationConfidence = 0.4
	primary := trustDocument("text")
	primary.Ownership[1].Cancelled = true
	primary.Ownership[1].CancelSource = types.CancelTableIndicator
	primary.Ownership[1].CancelConfidence = 1.0

	r, err := testEngine(t).AnalyzeCorroborated(primary, secondary)
	require.NoError(t, err)

	assert.False(t, r.HasHardStop(types.HSTrust))
	assert.Equal(t, []types.HardStopCode{types.HSTrust}, r.YellowCodes())
	assert.True(t, r.Downgraded())

	var found bool
	for _, w := range r.Warnings() {
		if w.Kind == types.WarnHardStopAmbiguity && w.Code == types.HSTrust {
			found = true
			assert.Equal(t, []int{3}, w.Seqs)
			assert.Contains(t, w.Message, "table adapter")
		}
	}
	assert.True(t, found, "secondary demotion is kept")
}
