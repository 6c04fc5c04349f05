// Package merge reconciles a Layer-1 record with its enriched Layer-2
// counterpart into one authoritative record per entity.
package merge

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/anatolykoptev/go_bio/internal/bio"
)

// foldTransformer strips combining marks after NFD decomposition, so
// "Erdős" and "Erdos" compare equal.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold lowercases a name and folds diacritics to their ASCII base form.
func fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// bareName reduces a slug to its comparable surname component: the part
// before the first underscore, folded.
func bareName(id string) string {
	name, _, _ := strings.Cut(id, "_")
	return fold(name)
}

// Merge combines a Layer-1 record with an existing enriched record.
//
// With no enriched record yet, the Layer-1 record is promoted verbatim
// and connections stay plain identifiers. Otherwise every Layer-1 field
// except connections overwrites its Layer-2 counterpart (deterministic
// extraction is authoritative for those), and the connection lists are
// reconciled: each Layer-1 identifier is matched by folded-name
// containment against the typed connections, first match in existing
// order wins and is tagged via its key; identifiers with no match are
// appended with connection type "Other". Key tags are cleared up front,
// which makes repeated merges converge on the same output.
func Merge(l1 bio.Record, l2 *bio.EnrichedRecord) *bio.EnrichedRecord {
	if l2 == nil {
		return bio.Promote(l1)
	}

	out := *l2
	out.ID = l1.ID
	out.Name = l1.Name
	out.Summary = l1.Summary
	out.Born = l1.Born
	out.Died = l1.Died
	out.Picture = l1.Picture
	out.Connections = reconcileConnections(l1.Connections, l2.Connections)
	return &out
}

func reconcileConnections(ids []string, typed []bio.Connection) []bio.Connection {
	conns := make([]bio.Connection, len(typed))
	copy(conns, typed)
	for i := range conns {
		conns[i].Key = nil
	}

	for _, id := range ids {
		id := id
		bare := bareName(id)
		matched := false
		for i := range conns {
			if conns[i].Key != nil {
				continue // claimed by an earlier identifier
			}
			if strings.Contains(fold(conns[i].Person), bare) {
				conns[i].Key = &id
				matched = true
				break
			}
		}
		if !matched {
			conns = append(conns, bio.Connection{
				Person:         id,
				Key:            &id,
				ConnectionType: "Other",
			})
		}
	}
	return conns
}
