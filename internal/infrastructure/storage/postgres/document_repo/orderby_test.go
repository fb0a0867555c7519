package document_repo

import "testing"

// The default sort used by the list handlers must parse: a plain GET with no
// orderBy query must never fail validation.
func TestParseOrderBy(t *testing.T) {
	repo := NewBaseDocumentRepo[any](nil, "test_docs", []string{"id", "number", "date", "status"}, func() any { return nil })

	tests := []struct {
		name    string
		orderBy string
		want    string
		wantErr bool
	}{
		{name: "empty falls back to date desc", orderBy: "", want: "date DESC"},
		{name: "whitespace falls back to date desc", orderBy: "   ", want: "date DESC"},
		{name: "handler default", orderBy: "-date", want: "date DESC"},
		{name: "bare column ascends", orderBy: "number", want: "number ASC"},
		{name: "plus prefix ascends", orderBy: "+date", want: "date ASC"},
		{name: "select column allowed", orderBy: "-status", want: "status DESC"},
		{name: "two tokens rejected", orderBy: "date DESC", wantErr: true},
		{name: "unknown column rejected", orderBy: "total_amount", wantErr: true},
		{name: "bare prefix rejected", orderBy: "-", wantErr: true},
		{name: "injection rejected", orderBy: "date; DROP TABLE orders", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.parseOrderBy(tt.orderBy)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseOrderBy(%q) = %q, want error", tt.orderBy, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseOrderBy(%q) failed: %v", tt.orderBy, err)
			}
			if got != tt.want {
				t.Errorf("parseOrderBy(%q) = %q, want %q", tt.orderBy, got, tt.want)
			}
		})
	}
}
