package cart

import (
	"encoding/json"
	"testing"

	"teahouse-storefront/internal/models"
)

func TestDecodeLines(t *testing.T) {
	tests := []struct {
		name      string
		raw       []byte
		wantErr   bool
		wantLines int
	}{
		{"empty array", []byte(`[]`), false, 0},
		{"null", []byte(`null`), false, 0},
		{"single line", []byte(`[{"id":"a","name":"Plov","price":650,"quantity":2}]`), false, 1},
		{"garbage bytes", []byte("{not json"), true, 0},
		{"wrong shape", []byte(`{"id":"a"}`), true, 0},
		{"empty payload", nil, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := decodeLines(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected decode error for %q", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeLines returned error: %v", err)
			}
			if len(lines) != tt.wantLines {
				t.Fatalf("expected %d lines, got %d", tt.wantLines, len(lines))
			}
		})
	}
}

func TestDecodeLines_RoundTrip(t *testing.T) {
	saved := []models.CartLine{
		{Dish: models.Dish{ID: "a", Name: "Plov Chaikhansky", Price: 650, Available: true}, Quantity: 2},
		{Dish: models.Dish{ID: "b", Name: "Green tea", Price: 150, Available: true}, Quantity: 1},
	}

	raw, err := json.Marshal(saved)
	if err != nil {
		t.Fatalf("failed to marshal lines: %v", err)
	}

	lines, err := decodeLines(raw)
	if err != nil {
		t.Fatalf("decodeLines returned error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].ID != "a" || lines[0].Quantity != 2 || lines[0].Price != 650 {
		t.Fatalf("first line did not survive the round trip: %+v", lines[0])
	}
	if lines[1].ID != "b" || lines[1].Quantity != 1 {
		t.Fatalf("second line did not survive the round trip: %+v", lines[1])
	}
}

func TestDecodeLines_CorruptPayloadResetsHydration(t *testing.T) {
	// A corrupt saved cart hydrates as empty; the decode error never reaches
	// the session.
	lines, err := decodeLines([]byte("corrupt"))
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if lines != nil {
		t.Fatalf("expected no lines from a corrupt payload, got %+v", lines)
	}
}
