// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"fmt"
	"sort"

	"github.com/pdiddy/registry-engine/pkg/types"
)

// validate rejects documents whose section boundaries or sequence cannot be
// trusted. Nothing downstream runs on a document that fails here.
func validate(doc types.RegistryDocument) error {
	all := make([]types.RegistryEvent, 0, len(doc.Ownership)+len(doc.Encumbrance))

	check := func(events []types.RegistryEvent, section types.Section) error {
		for _, e := range events {
			if e.Section != section {
				return types.Malformed(doc.ID, fmt.Sprintf("event listed under %s carries section %q",
					section.Label(), e.Section), e.Seq)
			}
			if e.Seq <= 0 {
				return types.Malformed(doc.ID, fmt.Sprintf("%s rank %d has no registration sequence",
					section.Label(), e.RankNo))
			}
			if e.AcceptedDate == "" || e.ReceiptNo <= 0 {
				return types.Malformed(doc.ID, "event has no receipt date and number", e.Seq)
			}
			all = append(all, e)
		}
		return nil
	}
	if err := check(doc.Ownership, types.SectionOwnership); err != nil {
		return err
	}
	if err := check(doc.Encumbrance, types.SectionEncumbrance); err != nil {
		return err
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Seq < all[j].Seq })
	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		if prev.Seq == cur.Seq {
			return types.Malformed(doc.ID, "duplicate registration sequence", cur.Seq)
		}
		if cur.AcceptedDate < prev.AcceptedDate ||
			(cur.AcceptedDate == prev.AcceptedDate && cur.ReceiptNo < prev.ReceiptNo) {
			return types.Malformed(doc.ID, "registration sequence contradicts receipt order", prev.Seq, cur.Seq)
		}
	}
	return nil
}
