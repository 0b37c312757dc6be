// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Disposition is a right's fate in a judicial auction relative to the base right.
type Disposition string

const (
	DispositionExtinguish Disposition = "EXTINGUISH"
	DispositionSurvive    Disposition = "SURVIVE"
	DispositionUncertain  Disposition = "UNCERTAIN"
)

// ResolutionMethod records how the base right was chosen.
type ResolutionMethod string

const (
	ResolutionPriorityMatch ResolutionMethod = "PRIORITY_MATCH"
	ResolutionFallback      ResolutionMethod = "FALLBACK"
	ResolutionUnresolved    ResolutionMethod = "UNRESOLVED"
)

// HardStopCode identifies a disqualifying legal condition.
type HardStopCode string

const (
	HSPreliminaryNotice       HardStopCode = "HS-PRELIMINARY-NOTICE"
	HSTrust                   HardStopCode = "HS-TRUST"
	HSDisposition             HardStopCode = "HS-DISPOSITION"
	HSRepurchase              HardStopCode = "HS-REPURCHASE"
	HSStatutorySuperficies    HardStopCode = "HS-STATUTORY-SUPERFICIES"
	HSProvisionalRegistration HardStopCode = "HS-PROVISIONAL-REGISTRATION"
	HSSeniorSuperficies       HardStopCode = "HS-SENIOR-SUPERFICIES"
	HSSeniorServitude         HardStopCode = "HS-SENIOR-SERVITUDE"
)

// AllHardStopCodes lists every code in evaluation order.
var AllHardStopCodes = []HardStopCode{
	HSPreliminaryNotice,
	HSTrust,
	HSDisposition,
	HSRepurchase,
	HSStatutorySuperficies,
	HSProvisionalRegistration,
	HSSeniorSuperficies,
	HSSeniorServitude,
}

// Valid reports whether c is a known hard-stop code.
func (c HardStopCode) Valid() bool {
	for _, known := range AllHardStopCodes {
		if c == known {
			return true
		}
	}
	return false
}

// HardStop is a triggered rule with the events that triggered it.
type HardStop struct {
	Code        HardStopCode `json:"code" yaml:"code"`
	Name        string       `json:"name" yaml:"name"`
	TriggerSeqs []int        `json:"trigger_seqs" yaml:"trigger_seqs"`
}

// WarningKind classifies a non-fatal notice.
type WarningKind string

const (
	WarnUnclassifiedEvent      WarningKind = "UNCLASSIFIED_EVENT"
	WarnBaseRightUnresolved    WarningKind = "BASE_RIGHT_UNRESOLVED"
	WarnLowConfidenceBase      WarningKind = "LOW_CONFIDENCE_BASE"
	WarnHardStopAmbiguity      WarningKind = "HARD_STOP_AMBIGUITY"
	WarnCancellationUnresolved WarningKind = "CANCELLATION_UNRESOLVED"
	WarnSectionMismatch        WarningKind = "SECTION_MISMATCH"
	WarnSuperficiesTimeline    WarningKind = "SUPERFICIES_TIMELINE_UNKNOWN"
	WarnAdapterDisagreement    WarningKind = "ADAPTER_DISAGREEMENT"
)

// Warning is a structured notice recorded during analysis. Code carries the
// hard-stop code for HARD_STOP_AMBIGUITY warnings.
type Warning struct {
	Kind    WarningKind  `json:"kind" yaml:"kind"`
	Code    HardStopCode `json:"code,omitempty" yaml:"code,omitempty"`
	Seqs    []int        `json:"seqs,omitempty" yaml:"seqs,omitempty"`
	Message string       `json:"message" yaml:"message"`
}

// EventAnalysis is a classified event with its derived fields. Cancelled
// events carry no disposition.
type EventAnalysis struct {
	RegistryEvent `yaml:",inline"`

	IsBeforeBase      bool        `json:"is_before_base" yaml:"is_before_base"`
	WillExtinguish    Disposition `json:"will_extinguish,omitempty" yaml:"will_extinguish,omitempty"`
	DispositionReason string      `json:"disposition_reason,omitempty" yaml:"disposition_reason,omitempty"`
}

// BaseRightRef identifies the base right in a summary.
type BaseRightRef struct {
	Seq          int       `json:"registration_seq" yaml:"registration_seq"`
	Section      Section   `json:"section" yaml:"section"`
	RankNo       int       `json:"rank_no" yaml:"rank_no"`
	EventType    EventType `json:"event_type" yaml:"event_type"`
	AcceptedDate string    `json:"accepted_date" yaml:"accepted_date"`
}

// DispositionCounts tallies dispositions over non-cancelled events.
type DispositionCounts struct {
	Survive    int `json:"survive" yaml:"survive"`
	Extinguish int `json:"extinguish" yaml:"extinguish"`
	Uncertain  int `json:"uncertain" yaml:"uncertain"`
}

// Summary is the fixed-shape digest consumed by reporting.
type Summary struct {
	BaseRight         *BaseRightRef     `json:"base_right" yaml:"base_right"`
	ResolutionMethod  ResolutionMethod  `json:"resolution_method" yaml:"resolution_method"`
	Counts            DispositionCounts `json:"counts" yaml:"counts"`
	HardStopCodes     []HardStopCode    `json:"hard_stop_codes" yaml:"hard_stop_codes"`
	YellowCodes       []HardStopCode    `json:"yellow_codes" yaml:"yellow_codes"`
	Confidence        float64           `json:"confidence" yaml:"confidence"`
	NeedsManualReview bool              `json:"needs_manual_review" yaml:"needs_manual_review"`
	Text              string            `json:"text" yaml:"text"`
}

// AnalysisReport is the serializable form of an analysis result. It is a
// snapshot; changing it does not affect the result it was taken from.
type AnalysisReport struct {
	DocumentID       string           `json:"document_id" yaml:"document_id"`
	Source           string           `json:"source" yaml:"source"`
	BaseRightSeq     *int             `json:"base_right_seq" yaml:"base_right_seq"`
	ResolutionMethod ResolutionMethod `json:"resolution_method" yaml:"resolution_method"`
	Events           []EventAnalysis  `json:"events" yaml:"events"`
	HardStops        []HardStop       `json:"hard_stops" yaml:"hard_stops"`
	Confidence       float64          `json:"confidence" yaml:"confidence"`
	Warnings         []Warning        `json:"warnings" yaml:"warnings"`
	Summary          Summary          `json:"summary" yaml:"summary"`
}
