// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"bytes"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/registry-engine/pkg/types"
)

// LoadPolicy reads a YAML policy file over types.DefaultPolicy. Keys absent
// from the file keep their defaults; lists present in the file replace the
// default list. An empty path returns the defaults.
func LoadPolicy(path string) (types.Policy, error) {
	p := types.DefaultPolicy()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return types.Policy{}, fmt.Errorf("reading policy %s: %w", path, err)
	}
	return ParsePolicy(data)
}

// ParsePolicy decodes YAML policy tables over the defaults and validates them.
func ParsePolicy(data []byte) (types.Policy, error) {
	p := types.DefaultPolicy()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil {
			return types.Policy{}, fmt.Errorf("decoding policy: %w", err)
		}
	}
	if err := p.Validate(); err != nil {
		return types.Policy{}, err
	}
	return p, nil
}

// MarshalPolicy renders p as YAML in the form ParsePolicy accepts.
func MarshalPolicy(p types.Policy) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&p); err != nil {
		return nil, fmt.Errorf("encoding policy: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding policy: %w", err)
	}
	return buf.Bytes(), nil
}
