package types

// Policy holds the legal-policy tables the analysis engine is parameterized
// by. Jurisdiction or property-type variants swap a Policy, not the code.
type Policy struct {
	// PriorityOrder lists the base-right candidate types, highest first.
	PriorityOrder []EventType `json:"priority_order" yaml:"priority_order"`

	// FallbackTypes are priority types whose selection is reported as a
	// fallback resolution rather than a priority match.
	FallbackTypes []EventType `json:"fallback_types" yaml:"fallback_types"`

	// AlwaysSurvive types survive the auction even when registered after the base.
	AlwaysSurvive []EventType `json:"always_survive" yaml:"always_survive"`

	// AlwaysExtinguish types are extinguished even when registered before the base.
	AlwaysExtinguish []EventType `json:"always_extinguish" yaml:"always_extinguish"`

	// HardStops is the enabled rule battery.
	HardStops []HardStopCode `json:"hard_stops" yaml:"hard_stops"`

	// CancellationMarkers are phrases that, next to a rank reference, cancel
	// the referenced entry.
	CancellationMarkers []string `json:"cancellation_markers" yaml:"cancellation_markers"`

	// SecurityProvisionalMarkers exclude a provisional registration from the
	// provisional-registration hard stop (담보가등기).
	SecurityProvisionalMarkers []string `json:"security_provisional_markers" yaml:"security_provisional_markers"`

	// CanonicalConfidence is assigned on an exact canonical-phrase match.
	CanonicalConfidence float64 `json:"canonical_confidence" yaml:"canonical_confidence"`

	// PartialConfidence is assigned on a partial or synonym match.
	PartialConfidence float64 `json:"partial_confidence" yaml:"partial_confidence"`

	// UncertainThreshold is the classification confidence below which an
	// event's disposition is UNCERTAIN and its hard stops are downgraded.
	UncertainThreshold float64 `json:"uncertain_threshold" yaml:"uncertain_threshold"`

	// CrossReferenceConfidence is the cancellation confidence assigned when a
	// later entry cancels an earlier one by rank reference.
	CrossReferenceConfidence float64 `json:"cross_reference_confidence" yaml:"cross_reference_confidence"`

	// CancelThreshold is the cancellation confidence below which a cancelled
	// would-be hard-stop trigger is reported as ambiguous.
	CancelThreshold float64 `json:"cancel_threshold" yaml:"cancel_threshold"`

	// EncumbranceWeight and OwnershipWeight weight per-event confidence.
	EncumbranceWeight float64 `json:"encumbrance_weight" yaml:"encumbrance_weight"`
	OwnershipWeight   float64 `json:"ownership_weight" yaml:"ownership_weight"`

	// DowngradePenalty multiplies overall confidence when any hard stop was downgraded.
	DowngradePenalty float64 `json:"downgrade_penalty" yaml:"downgrade_penalty"`

	// UnresolvedCap caps overall confidence when no base right was found.
	UnresolvedCap float64 `json:"unresolved_cap" yaml:"unresolved_cap"`

	// ManualReviewThreshold is the overall confidence below which a result
	// must be reviewed by hand.
	ManualReviewThreshold float64 `json:"manual_review_threshold" yaml:"manual_review_threshold"`
}

// IngestConfig holds adapter settings.
type IngestConfig struct {
	// TextCancelConfidence is the cancellation confidence assigned to
	// strikethrough or annotation cues in extracted text.
	TextCancelConfidence float64 `json:"text_cancel_confidence" yaml:"text_cancel_confidence"`

	// TableCancelConfidence is assigned to the lookup API's cancellation indicator.
	TableCancelConfidence float64 `json:"table_cancel_confidence" yaml:"table_cancel_confidence"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	// Level is debug, info, warn, or error.
	Level string `json:"level" yaml:"level"`

	// Format is json or console.
	Format string `json:"format" yaml:"format"`
}

// BatchConfig holds settings for the batch analysis stage.
type BatchConfig struct {
	// InputDir contains .txt, .json, and .yaml registry documents.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir receives one <id>-analysis.yaml per document.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Workers bounds concurrent analyses (default 4).
	Workers int `json:"workers" yaml:"workers"`

	// Force re-analyzes documents whose output is newer than the input.
	Force bool `json:"force" yaml:"force"`
}

// LedgerConfig locates the audit ledger.
type LedgerConfig struct {
	// Dir contains ledger.db.
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default list limit (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
