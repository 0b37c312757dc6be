// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedDocument is matched by every MalformedDocumentError.
var ErrMalformedDocument = errors.New("malformed registry document")

// MalformedDocumentError reports that section boundaries or sequence
// uniqueness could not be established. No partial result accompanies it.
type MalformedDocumentError struct {
	DocumentID string
	Reason     string
	Seqs       []int
}

func (e *MalformedDocumentError) Error() string {
	var b strings.Builder
	b.WriteString(ErrMalformedDocument.Error())
	if e.DocumentID != "" {
		fmt.Fprintf(&b, " %s", e.DocumentID)
	}
	fmt.Fprintf(&b, ": %s", e.Reason)
	if len(e.Seqs) > 0 {
		fmt.Fprintf(&b, " (seq %v)", e.Seqs)
	}
	return b.String()
}

// Is makes errors.Is(err, ErrMalformedDocument) succeed.
func (e *MalformedDocumentError) Is(target error) bool {
	return target == ErrMalformedDocument
}

// Malformed builds a MalformedDocumentError.
func Malformed(docID, reason string, seqs ...int) error {
	return &MalformedDocumentError{DocumentID: docID, Reason: reason, Seqs: seqs}
}
