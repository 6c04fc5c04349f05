// Package enrich implements the Layer-2 extractor: two LLM round trips
// per entity — attribute extraction and relationship typing — layered
// on top of the deterministic Layer-1 record.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_bio/internal/bio"
	"github.com/anatolykoptev/go_bio/internal/llm"
)

const attributesPrompt = `Given the markdown-formatted biography text, extract the following structured JSON fields:
- lived_in: list of places they lived at (array of strings)
- worked_in: list of places they worked at (array of strings)
- religions: specify any religions mentioned (array of strings, or null if none)
- profession: list of professions (array of strings)
- institution_affiliation: list of affiliations (array of strings)

Return ONLY a JSON object with those fields, ensure it's valid JSON without comments.`

const connectionsPromptFmt = `Given the markdown-formatted biography text, and the following connections:
[%s]
find for each connection the relationship type (e.g., "student of", "influenced by", "collaborator with").

Extract the following structured JSON fields:
- connections: list of objects with fields:
    - person: name of a connected person
    - connection_type: relationship (e.g., "student of", "influenced by", "collaborator with")

Return ONLY a valid JSON object with those fields, ensure it's proper JSON format.`

const (
	attributesMaxTokens  = 2000
	connectionsMaxTokens = 5000
)

// Querier is the LLM call surface; satisfied by *llm.Client. An empty
// return means no data was available.
type Querier interface {
	Query(ctx context.Context, text, prompt string, maxTokens int) string
}

// Extractor runs the enrichment stage against one LLM client.
type Extractor struct {
	client Querier
}

// New builds an extractor around the given client.
func New(client Querier) *Extractor {
	return &Extractor{client: client}
}

type attributes struct {
	LivedIn                []string `json:"lived_in"`
	WorkedIn               []string `json:"worked_in"`
	Religions              []string `json:"religions"`
	Profession             []string `json:"profession"`
	InstitutionAffiliation []string `json:"institution_affiliation"`
}

type typedConnections struct {
	Connections []bio.Connection `json:"connections"`
}

// Enrich produces the Layer-2 record for one entity. Both LLM calls see
// the full original document so the model keeps context for
// disambiguation. Each call degrades independently: an attribute
// failure falls back to the Layer-1 fields and the relationship call
// still runs; a relationship failure leaves connections absent for the
// merge stage to fill from Layer 1.
func (e *Extractor) Enrich(ctx context.Context, doc string, l1 bio.Record) *bio.EnrichedRecord {
	out := &bio.EnrichedRecord{
		ID:      l1.ID,
		Name:    l1.Name,
		Summary: l1.Summary,
		Born:    l1.Born,
		Died:    l1.Died,
		Picture: l1.Picture,
	}

	if attrs, err := e.extractAttributes(ctx, doc); err != nil {
		slog.Warn("attribute extraction failed, keeping layer-1 fields",
			slog.String("id", l1.ID), slog.Any("error", err))
	} else {
		out.LivedIn = attrs.LivedIn
		out.WorkedIn = attrs.WorkedIn
		out.Religions = attrs.Religions
		out.Profession = attrs.Profession
		out.InstitutionAffiliation = attrs.InstitutionAffiliation
	}

	if conns, err := e.typeConnections(ctx, doc, l1.Connections); err != nil {
		slog.Warn("relationship typing failed, connections deferred to merge",
			slog.String("id", l1.ID), slog.Any("error", err))
	} else {
		out.Connections = conns
	}

	return out
}

func (e *Extractor) extractAttributes(ctx context.Context, doc string) (*attributes, error) {
	raw := e.client.Query(ctx, doc, attributesPrompt, attributesMaxTokens)
	if raw == "" {
		return nil, fmt.Errorf("empty response")
	}
	var attrs attributes
	if err := json.Unmarshal([]byte(llm.ExtractJSONObject(raw)), &attrs); err != nil {
		return nil, fmt.Errorf("parse attributes: %w", err)
	}
	return &attrs, nil
}

func (e *Extractor) typeConnections(ctx context.Context, doc string, ids []string) ([]bio.Connection, error) {
	prompt := fmt.Sprintf(connectionsPromptFmt, strings.Join(ids, ", "))
	raw := e.client.Query(ctx, doc, prompt, connectionsMaxTokens)
	if raw == "" {
		return nil, fmt.Errorf("empty response")
	}
	var tc typedConnections
	if err := json.Unmarshal([]byte(llm.ExtractJSONObject(raw)), &tc); err != nil {
		return nil, fmt.Errorf("parse connections: %w", err)
	}
	if tc.Connections == nil {
		return nil, fmt.Errorf("response has no connections field")
	}
	return tc.Connections, nil
}
