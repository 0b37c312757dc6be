// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"fmt"
	"strings"
)

// Mismatch is a document and policy pair whose recorded analyses disagree.
type Mismatch struct {
	DocumentID     string   `json:"document_id" yaml:"document_id"`
	DocumentDigest string   `json:"document_digest" yaml:"document_digest"`
	PolicyDigest   string   `json:"policy_digest" yaml:"policy_digest"`
	ResultDigests  []string `json:"result_digests" yaml:"result_digests"`
}

// Verify checks determinism across the ledger: every analysis of the same
// document under the same policy must have produced the same result.
func (s *Store) Verify(ctx context.Context) ([]Mismatch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT MIN(document_id), document_digest, policy_digest, GROUP_CONCAT(DISTINCT result_digest)
		 FROM analyses
		 GROUP BY document_digest, policy_digest
		 HAVING COUNT(DISTINCT result_digest) > 1
		 ORDER BY MIN(id)`)
	if err != nil {
		return nil, fmt.Errorf("verifying ledger: %w", err)
	}
	defer rows.Close()

	var out []Mismatch
	for rows.Next() {
		var m Mismatch
		var digests string
		if err := rows.Scan(&m.DocumentID, &m.DocumentDigest, &m.PolicyDigest, &digests); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		m.ResultDigests = strings.Split(digests, ",")
		out = append(out, m)
	}
	return out, rows.Err()
}
