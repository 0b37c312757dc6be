// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data model shared by the ingest adapters, the
// analysis engine, and downstream consumers.
package types

// Section identifies the registry division an event was recorded in.
type Section string

const (
	// SectionOwnership is 갑구, the ownership-related division.
	SectionOwnership Section = "OWNERSHIP"
	// SectionEncumbrance is 을구, rights other than ownership.
	SectionEncumbrance Section = "ENCUMBRANCE"
)

// Valid reports whether s is one of the two event-bearing sections.
func (s Section) Valid() bool {
	return s == SectionOwnership || s == SectionEncumbrance
}

// Label returns the Korean registry label for the section.
func (s Section) Label() string {
	switch s {
	case SectionOwnership:
		return "갑구"
	case SectionEncumbrance:
		return "을구"
	}
	return string(s)
}

// EventType is the closed taxonomy of registered legal acts.
type EventType string

const (
	EventOwnershipPreservation   EventType = "OWNERSHIP_PRESERVATION"
	EventOwnershipTransfer       EventType = "OWNERSHIP_TRANSFER"
	EventMortgage                EventType = "MORTGAGE"
	EventMortgageTransfer        EventType = "MORTGAGE_TRANSFER"
	EventProvisionalSeizure      EventType = "PROVISIONAL_SEIZURE"
	EventSeizure                 EventType = "SEIZURE"
	EventAuctionCommencement     EventType = "AUCTION_COMMENCEMENT"
	EventProvisionalRegistration EventType = "PROVISIONAL_REGISTRATION"
	EventTrust                   EventType = "TRUST"
	EventPreliminaryNotice       EventType = "PRELIMINARY_NOTICE"
	EventProvisionalDisposition  EventType = "PROVISIONAL_DISPOSITION"
	EventRepurchase              EventType = "REPURCHASE"
	EventSuperficies             EventType = "SUPERFICIES"
	EventServitude               EventType = "SERVITUDE"
	EventLeaseRight              EventType = "LEASE_RIGHT"
	EventLeasehold               EventType = "LEASEHOLD"
	EventCancellation            EventType = "CANCELLATION"
	EventCorrection              EventType = "CORRECTION"
	EventUnclassified            EventType = "UNCLASSIFIED"
)

// AllEventTypes lists every EventType, UNCLASSIFIED last.
var AllEventTypes = []EventType{
	EventOwnershipPreservation,
	EventOwnershipTransfer,
	EventMortgage,
	EventMortgageTransfer,
	EventProvisionalSeizure,
	EventSeizure,
	EventAuctionCommencement,
	EventProvisionalRegistration,
	EventTrust,
	EventPreliminaryNotice,
	EventProvisionalDisposition,
	EventRepurchase,
	EventSuperficies,
	EventServitude,
	EventLeaseRight,
	EventLeasehold,
	EventCancellation,
	EventCorrection,
	EventUnclassified,
}

// Valid reports whether t is a member of the taxonomy.
func (t EventType) Valid() bool {
	for _, known := range AllEventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// HomeSection returns the section an event of this type is legally recorded
// in. The second return value is false for types that may appear in either
// section (cancellation, correction, unclassified).
func (t EventType) HomeSection() (Section, bool) {
	switch t {
	case EventOwnershipPreservation, EventOwnershipTransfer,
		EventProvisionalSeizure, EventSeizure, EventAuctionCommencement,
		EventProvisionalRegistration, EventTrust, EventPreliminaryNotice,
		EventProvisionalDisposition, EventRepurchase:
		return SectionOwnership, true
	case EventMortgage, EventMortgageTransfer, EventSuperficies,
		EventServitude, EventLeaseRight, EventLeasehold:
		return SectionEncumbrance, true
	}
	return "", false
}

// CancelSource records which evidence marked an event cancelled.
type CancelSource string

const (
	CancelNone           CancelSource = ""
	CancelTextAnnotation CancelSource = "text-annotation"
	CancelCrossReference CancelSource = "cross-reference"
	CancelTableIndicator CancelSource = "table-indicator"
)

// RegistryEvent is one registered legal act.
type RegistryEvent struct {
	// Seq is the registration sequence: unique within the document and
	// strictly increasing in receipt order.
	Seq int `json:"registration_seq" yaml:"registration_seq"`

	Section Section `json:"section" yaml:"section"`

	// RankNo is the printed rank number (순위번호) within the section.
	RankNo int `json:"rank_no" yaml:"rank_no"`

	// SubRankNo is the supplementary (부기) number, as in rank 1-1.
	SubRankNo int `json:"sub_rank_no,omitempty" yaml:"sub_rank_no,omitempty"`

	// Purpose is the registration purpose (등기목적) as printed.
	Purpose string `json:"purpose" yaml:"purpose"`

	// EventType and ClassificationConfidence are filled by the classifier.
	EventType                EventType `json:"event_type,omitempty" yaml:"event_type,omitempty"`
	ClassificationConfidence float64   `json:"classification_confidence" yaml:"classification_confidence"`

	Holder string `json:"holder,omitempty" yaml:"holder,omitempty"`
	Amount *int64 `json:"amount,omitempty" yaml:"amount,omitempty"`
	Cause  string `json:"cause,omitempty" yaml:"cause,omitempty"`

	// AcceptedDate and RegisteredDate are YYYY-MM-DD.
	AcceptedDate   string `json:"accepted_date" yaml:"accepted_date"`
	RegisteredDate string `json:"registered_date" yaml:"registered_date"`
	ReceiptNo      int    `json:"receipt_no" yaml:"receipt_no"`

	// RawText is the verbatim source excerpt.
	RawText string `json:"raw_text" yaml:"raw_text"`

	Cancelled        bool         `json:"cancelled" yaml:"cancelled"`
	CancelSource     CancelSource `json:"cancel_source,omitempty" yaml:"cancel_source,omitempty"`
	CancelConfidence float64      `json:"cancel_confidence,omitempty" yaml:"cancel_confidence,omitempty"`

	// CancelledBy is the seq of the entry that cancels this event.
	CancelledBy *int `json:"cancelled_by,omitempty" yaml:"cancelled_by,omitempty"`

	// CancelsRef is set on a cancellation entry to the seq it cancels.
	CancelsRef *int `json:"cancels_ref,omitempty" yaml:"cancels_ref,omitempty"`
}

// OwnershipPeriod is one owner's tenure. To is empty while the tenure is open.
type OwnershipPeriod struct {
	Owner string `json:"owner" yaml:"owner"`
	From  string `json:"from,omitempty" yaml:"from,omitempty"`
	To    string `json:"to,omitempty" yaml:"to,omitempty"`
}

// Covers reports whether date (YYYY-MM-DD) falls inside the period. An empty
// From is unbounded in the past. The To date is exclusive.
func (p OwnershipPeriod) Covers(date string) bool {
	if date == "" {
		return false
	}
	if p.From != "" && date < p.From {
		return false
	}
	if p.To != "" && date >= p.To {
		return false
	}
	return true
}

// TitleSection is the parsed 표제부 metadata.
type TitleSection struct {
	Address   string  `json:"address,omitempty" yaml:"address,omitempty"`
	Structure string  `json:"structure,omitempty" yaml:"structure,omitempty"`
	Area      float64 `json:"area,omitempty" yaml:"area,omitempty"`

	// LandOwner and BuildingOwner are the current owners.
	LandOwner     string `json:"land_owner,omitempty" yaml:"land_owner,omitempty"`
	BuildingOwner string `json:"building_owner,omitempty" yaml:"building_owner,omitempty"`

	LandOwnership     []OwnershipPeriod `json:"land_ownership,omitempty" yaml:"land_ownership,omitempty"`
	BuildingOwnership []OwnershipPeriod `json:"building_ownership,omitempty" yaml:"building_ownership,omitempty"`

	RawText string `json:"raw_text,omitempty" yaml:"raw_text,omitempty"`
}

// RegistryDocument is the normalized output of an ingest adapter.
type RegistryDocument struct {
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source" yaml:"source"`

	Title TitleSection `json:"title" yaml:"title"`

	Ownership   []RegistryEvent `json:"ownership" yaml:"ownership"`
	Encumbrance []RegistryEvent `json:"encumbrance" yaml:"encumbrance"`
}

// Events returns deep copies of both sections concatenated, ownership first.
func (d RegistryDocument) Events() []RegistryEvent {
	out := make([]RegistryEvent, 0, len(d.Ownership)+len(d.Encumbrance))
	for _, e := range d.Ownership {
		out = append(out, e.Clone())
	}
	for _, e := range d.Encumbrance {
		out = append(out, e.Clone())
	}
	return out
}

// Clone returns a copy of e that shares no pointers with it.
func (e RegistryEvent) Clone() RegistryEvent {
	c := e
	if e.Amount != nil {
		c.Amount = Int64Ptr(*e.Amount)
	}
	if e.CancelledBy != nil {
		c.CancelledBy = IntPtr(*e.CancelledBy)
	}
	if e.CancelsRef != nil {
		c.CancelsRef = IntPtr(*e.CancelsRef)
	}
	return c
}

// Clone returns a deep copy of the document.
func (d RegistryDocument) Clone() RegistryDocument {
	c := d
	c.Title.LandOwnership = append([]OwnershipPeriod(nil), d.Title.LandOwnership...)
	c.Title.BuildingOwnership = append([]OwnershipPeriod(nil), d.Title.BuildingOwnership...)
	c.Ownership = make([]RegistryEvent, len(d.Ownership))
	for i, e := range d.Ownership {
		c.Ownership[i] = e.Clone()
	}
	c.Encumbrance = make([]RegistryEvent, len(d.Encumbrance))
	for i, e := range d.Encumbrance {
		c.Encumbrance[i] = e.Clone()
	}
	return c
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 { return &v }
