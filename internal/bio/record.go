// Package bio defines the structured records produced by the extraction
// pipeline: the deterministic Layer-1 record, the LLM-enriched Layer-2
// record, and their shared value types.
package bio

import (
	"encoding/json"
	"fmt"
)

// SiteBase is the canonical biography URL prefix. Slugs are derived by
// stripping it from biography links.
const SiteBase = "https://mathshistory.st-andrews.ac.uk/Biographies/"

// DateInfo describes a birth or death date as extracted from prose.
// Year is nil when no year could be found. Approx is true when the
// source gives no day/month precision or carries an approximation
// marker ("approx", "about").
type DateInfo struct {
	Year   *int    `json:"year"`
	Approx bool    `json:"approx"`
	Place  *string `json:"place"`
	Link   *string `json:"link"`
}

// Record is the Layer-1 record: deterministic, pattern-derived fields
// only. It is created once per document and never mutated afterwards.
type Record struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Summary     string   `json:"summary"`
	Born        DateInfo `json:"born"`
	Died        DateInfo `json:"died"`
	Picture     *string  `json:"picture"`
	Connections []string `json:"connections"`
}

// Connection is one reference to another biography subject.
//
// A connection exists in two forms. An untyped connection carries only
// Key (the target slug) and round-trips as a bare JSON string, which is
// what a Layer-1 promotion produces. A typed connection carries Person
// and ConnectionType from the relationship-typing stage and round-trips
// as a JSON object.
type Connection struct {
	Person         string  `json:"person"`
	Key            *string `json:"key,omitempty"`
	ConnectionType string  `json:"connection_type"`
}

// Typed reports whether the connection has been through relationship
// typing, i.e. both a person name and a relationship label are present.
func (c Connection) Typed() bool {
	return c.Person != "" && c.ConnectionType != ""
}

// MarshalJSON keeps untyped connections in their plain-identifier form.
func (c Connection) MarshalJSON() (b []byte, err error) {
	if !c.Typed() && c.Key != nil {
		return json.Marshal(*c.Key)
	}
	type alias Connection
	return json.Marshal(alias(c))
}

// UnmarshalJSON accepts both the plain-identifier and the object form.
func (c *Connection) UnmarshalJSON(b []byte) error {
	var key string
	if err := json.Unmarshal(b, &key); err == nil {
		*c = Connection{Key: &key}
		return nil
	}
	type alias Connection
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return fmt.Errorf("connection: %w", err)
	}
	*c = Connection(a)
	return nil
}

// EnrichedRecord is the Layer-2 record: the Layer-1 fields plus the
// LLM-extracted attributes and the typed connection list. Enrichment
// may populate it only partially; the merge stage mutates it in place.
type EnrichedRecord struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Summary string   `json:"summary"`
	Born    DateInfo `json:"born"`
	Died    DateInfo `json:"died"`
	Picture *string  `json:"picture"`

	LivedIn                []string `json:"lived_in"`
	WorkedIn               []string `json:"worked_in"`
	Religions              []string `json:"religions"`
	Profession             []string `json:"profession"`
	InstitutionAffiliation []string `json:"institution_affiliation"`

	Connections []Connection `json:"connections"`
}

// FullyTyped reports whether every connection carries both a person and
// a relationship label. The enrichment stage uses this to decide that a
// record has already been processed and can be skipped.
func (r *EnrichedRecord) FullyTyped() bool {
	if r.Connections == nil {
		return false
	}
	for _, c := range r.Connections {
		if !c.Typed() {
			return false
		}
	}
	return true
}

// Promote lifts a Layer-1 record into an enriched record with no
// LLM-derived fields. Connections stay plain identifiers.
func Promote(l1 Record) *EnrichedRecord {
	out := &EnrichedRecord{
		ID:      l1.ID,
		Name:    l1.Name,
		Summary: l1.Summary,
		Born:    l1.Born,
		Died:    l1.Died,
		Picture: l1.Picture,
	}
	out.Connections = make([]Connection, 0, len(l1.Connections))
	for _, id := range l1.Connections {
		id := id
		out.Connections = append(out.Connections, Connection{Key: &id})
	}
	return out
}
