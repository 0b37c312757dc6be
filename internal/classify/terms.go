// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import "github.com/pdiddy/registry-engine/pkg/types"

// term maps a registry phrase to an event type. Canonical phrases score
// canonical confidence on an exact match; synonyms always score partial.
type term struct {
	phrase    string
	eventType types.EventType
	canonical bool
}

// terms is scanned in order and the first hit wins, so longer and more
// specific phrases precede the phrases they contain. 소유권이전청구권가등기
// must resolve before 소유권이전, 가압류 before 압류, 근저당권이전 before
// 근저당권설정, and trust or repurchase riders before the transfer they
// accompany.
var terms = []term{
	// A restoration (말소회복) revives a cancelled entry; it grants no right.
	{"말소회복", types.EventCorrection, false},

	{"소유권이전청구권가등기", types.EventProvisionalRegistration, true},
	{"소유권이전담보가등기", types.EventProvisionalRegistration, true},
	{"소유권이전가등기", types.EventProvisionalRegistration, true},
	{"담보가등기", types.EventProvisionalRegistration, true},
	{"가등기", types.EventProvisionalRegistration, false},

	{"등기명의인표시경정", types.EventCorrection, true},
	{"등기명의인표시변경", types.EventCorrection, true},
	{"근저당권변경", types.EventCorrection, true},
	{"전세권변경", types.EventCorrection, true},
	{"경정", types.EventCorrection, false},

	{"임의경매개시결정", types.EventAuctionCommencement, true},
	{"강제경매개시결정", types.EventAuctionCommencement, true},
	{"경매개시결정", types.EventAuctionCommencement, true},
	{"경매", types.EventAuctionCommencement, false},

	{"근저당권부채권가압류", types.EventProvisionalSeizure, false},
	{"근저당권부채권압류", types.EventSeizure, false},

	{"근저당권이전", types.EventMortgageTransfer, true},
	{"저당권이전", types.EventMortgageTransfer, true},
	{"근저당권설정", types.EventMortgage, true},
	{"저당권설정", types.EventMortgage, true},
	{"근저당", types.EventMortgage, false},

	{"전세권설정", types.EventLeaseRight, true},
	{"전세권", types.EventLeaseRight, false},

	{"주택임차권", types.EventLeasehold, true},
	{"상가건물임차권", types.EventLeasehold, true},
	{"임차권설정", types.EventLeasehold, true},
	{"임차권", types.EventLeasehold, false},

	{"구분지상권설정", types.EventSuperficies, true},
	{"지상권설정", types.EventSuperficies, true},
	{"지상권", types.EventSuperficies, false},

	{"지역권설정", types.EventServitude, true},
	{"지역권", types.EventServitude, false},

	{"처분금지가처분", types.EventProvisionalDisposition, true},
	{"가처분", types.EventProvisionalDisposition, true},
	{"처분금지", types.EventProvisionalDisposition, false},

	{"가압류", types.EventProvisionalSeizure, true},
	{"압류", types.EventSeizure, true},
	{"체납처분", types.EventSeizure, false},

	{"예고등기", types.EventPreliminaryNotice, true},
	{"예고", types.EventPreliminaryNotice, false},

	{"신탁", types.EventTrust, true},

	{"환매특약", types.EventRepurchase, true},
	{"환매", types.EventRepurchase, false},

	{"소유권보존", types.EventOwnershipPreservation, true},
	{"소유권일부이전", types.EventOwnershipTransfer, true},
	{"소유권이전", types.EventOwnershipTransfer, true},
	{"지분이전", types.EventOwnershipTransfer, false},
	{"소유권", types.EventOwnershipTransfer, false},
}

// registrySuffixes may trail a canonical phrase without demoting the match.
var registrySuffixes = []string{"등기", "청구"}
