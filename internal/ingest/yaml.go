// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"fmt"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/registry-engine/pkg/types"
)

// ReadYAML decodes an already-normalized RegistryDocument. Events without a
// section take the section of the list they appear in. When any event lacks
// a seq, seqs are assigned from receipts as the other adapters do.
func ReadYAML(id string, data []byte) (types.RegistryDocument, error) {
	var doc types.RegistryDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return types.RegistryDocument{}, fmt.Errorf("decoding registry document: %w", err)
	}
	if doc.ID == "" {
		doc.ID = id
	}
	if doc.Source == "" {
		doc.Source = SourceYAML
	}

	needSeqs := false
	fill := func(events []types.RegistryEvent, section types.Section) {
		for i := range events {
			if events[i].Section == "" {
				events[i].Section = section
			}
			if events[i].Seq == 0 {
				needSeqs = true
			}
		}
	}
	fill(doc.Ownership, types.SectionOwnership)
	fill(doc.Encumbrance, types.SectionEncumbrance)

	if needSeqs {
		if err := assignSeqs(&doc); err != nil {
			return types.RegistryDocument{}, err
		}
	}
	return doc, nil
}

// WriteYAML encodes a document in the form ReadYAML accepts.
func WriteYAML(doc types.RegistryDocument) ([]byte, error) {
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("encoding registry document: %w", err)
	}
	return data, nil
}
