package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Artifact is a unit of textual content returned by the wallet provider's
// natural-language query endpoint. Task-style responses carry one or more.
type Artifact struct {
	// Name identifies the artifact (e.g. "response.md").
	Name string `json:"name,omitempty"`
	// ContentType is the artifact media type when reported.
	ContentType string `json:"content_type,omitempty"`
	// Content is the textual payload, often markdown with tables.
	Content string `json:"content"`
}

// WalletQueryResponse is the provider's answer to an ask() query.
//
// The provider guarantees nothing about which shape comes back for a given
// query: it is either a task-style object carrying artifacts, or a flat
// object carrying fields (possibly a numeric balance) directly. Both shapes
// are preserved so the extractor can apply its precedence rules.
type WalletQueryResponse struct {
	// Artifacts holds the textual artifacts of a task-style response.
	Artifacts []Artifact
	// Fields holds the remaining top-level members of the response object.
	Fields map[string]any
}

// UnmarshalJSON accepts both response shapes from one wire representation.
func (r *WalletQueryResponse) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Artifacts = nil
	r.Fields = make(map[string]any, len(raw))

	for key, val := range raw {
		if key == "artifacts" {
			var artifacts []Artifact
			if err := json.Unmarshal(val, &artifacts); err == nil {
				r.Artifacts = artifacts
				continue
			}
			// Malformed artifacts degrade to an opaque field.
		}
		var v any
		if err := json.Unmarshal(val, &v); err != nil {
			return fmt.Errorf("decoding field %q: %w", key, err)
		}
		r.Fields[key] = v
	}

	return nil
}

// MarshalJSON renders the response back into its wire shape.
func (r WalletQueryResponse) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		out[k] = v
	}
	if len(r.Artifacts) > 0 {
		out["artifacts"] = r.Artifacts
	}
	return json.Marshal(out)
}

// Text returns the textual content the balance extractor scans: the
// concatenated artifact contents when artifacts are present, otherwise the
// stringified top-level fields in deterministic order.
func (r *WalletQueryResponse) Text() string {
	if len(r.Artifacts) > 0 {
		parts := make([]string, 0, len(r.Artifacts))
		for _, a := range r.Artifacts {
			parts = append(parts, a.Content)
		}
		return strings.Join(parts, "\n")
	}

	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %v\n", k, r.Fields[k])
	}
	return b.String()
}
