package bio

import (
	"encoding/json"
	"testing"
)

func strptr(s string) *string { return &s }

func TestConnectionRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"plain identifier", `"Euler_Leonhard"`},
		{"typed object", `{"person":"Leonhard Euler","key":"Euler_Leonhard","connection_type":"student of"}`},
		{"typed without key", `{"person":"Johann Bernoulli","connection_type":"influenced by"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Connection
			if err := json.Unmarshal([]byte(tt.in), &c); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			out, err := json.Marshal(c)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var again Connection
			if err := json.Unmarshal(out, &again); err != nil {
				t.Fatalf("re-unmarshal: %v", err)
			}
			if again != c && (again.Key == nil || c.Key == nil || *again.Key != *c.Key ||
				again.Person != c.Person || again.ConnectionType != c.ConnectionType) {
				t.Errorf("round trip changed value: %+v vs %+v", again, c)
			}
		})
	}
}

func TestConnectionTyped(t *testing.T) {
	plain := Connection{Key: strptr("Euler_Leonhard")}
	if plain.Typed() {
		t.Error("plain identifier reported as typed")
	}
	typed := Connection{Person: "Leonhard Euler", ConnectionType: "student of"}
	if !typed.Typed() {
		t.Error("typed connection reported as untyped")
	}
}

func TestFullyTyped(t *testing.T) {
	tests := []struct {
		name  string
		conns []Connection
		want  bool
	}{
		{"nil connections", nil, false},
		{"empty list", []Connection{}, true},
		{"all typed", []Connection{{Person: "A", ConnectionType: "student of"}}, true},
		{"mixed", []Connection{
			{Person: "A", ConnectionType: "student of"},
			{Key: strptr("B_C")},
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &EnrichedRecord{Connections: tt.conns}
			if got := r.FullyTyped(); got != tt.want {
				t.Errorf("FullyTyped() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPromoteKeepsPlainIdentifiers(t *testing.T) {
	l1 := Record{
		ID:          "Euler_Leonhard",
		Name:        "Leonhard Euler",
		Connections: []string{"Bernoulli_Johann", "Goldbach"},
	}
	out := Promote(l1)
	if out.ID != l1.ID || out.Name != l1.Name {
		t.Errorf("promoted scalars differ: %+v", out)
	}
	if len(out.Connections) != 2 {
		t.Fatalf("expected 2 connections, got %d", len(out.Connections))
	}
	b, err := json.Marshal(out.Connections)
	if err != nil {
		t.Fatal(err)
	}
	want := `["Bernoulli_Johann","Goldbach"]`
	if string(b) != want {
		t.Errorf("connections serialized as %s, want %s", b, want)
	}
	if out.FullyTyped() {
		t.Error("promoted record must not report fully typed")
	}
}
