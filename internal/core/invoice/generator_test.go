package invoice

import (
	"context"
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	date := time.Date(2026, 8, 28, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		cfg  Config
		seq  int64
		want string
	}{
		{"sale first", SaleConfig(), 1, "SAL-260828-0001"},
		{"purchase padded", PurchaseConfig(), 42, "PUR-260828-0042"},
		{"adjustment overflow keeps digits", AdjustmentConfig(), 12345, "ADJ-260828-12345"},
		{"default pad width", Config{Prefix: "SAL"}, 7, "SAL-260828-0007"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.cfg, date, tt.seq)
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat_UsesUTCDate(t *testing.T) {
	// 23:30 in UTC+2 is 21:30 UTC the same day; the key must not jump ahead.
	loc := time.FixedZone("UTC+2", 2*3600)
	date := time.Date(2026, 8, 28, 23, 30, 0, 0, loc)

	got := Format(SaleConfig(), date, 1)
	if got != "SAL-260828-0001" {
		t.Errorf("Format() = %q, want SAL-260828-0001", got)
	}
}

func TestCounterKey(t *testing.T) {
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	if key := CounterKey(SaleConfig(), date); key != "SAL_260828" {
		t.Errorf("CounterKey() = %q, want SAL_260828", key)
	}

	nextDay := date.AddDate(0, 0, 1)
	if key := CounterKey(SaleConfig(), nextDay); key != "SAL_260829" {
		t.Errorf("CounterKey() next day = %q, want SAL_260829", key)
	}
}

func TestParseSequence(t *testing.T) {
	tests := []struct {
		formatted string
		want      int64
	}{
		{"SAL-260828-0001", 1},
		{"PUR-260828-0042", 42},
		{"ADJ-260828-12345", 12345},
		{"garbage", -1},
		{"", -1},
	}

	for _, tt := range tests {
		if got := ParseSequence(tt.formatted); got != tt.want {
			t.Errorf("ParseSequence(%q) = %d, want %d", tt.formatted, got, tt.want)
		}
	}
}

func TestMockGenerator_CountsPerKey(t *testing.T) {
	gen := &MockGenerator{}
	ctx := context.Background()
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	first, err := gen.Next(ctx, SaleConfig(), date)
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	second, _ := gen.Next(ctx, SaleConfig(), date)

	if first != "SAL-260828-0001" || second != "SAL-260828-0002" {
		t.Errorf("got %q then %q, want sequential numbers", first, second)
	}

	// Different prefix and different day each get their own counter.
	other, _ := gen.Next(ctx, PurchaseConfig(), date)
	if other != "PUR-260828-0001" {
		t.Errorf("purchase counter = %q, want PUR-260828-0001", other)
	}

	nextDay, _ := gen.Next(ctx, SaleConfig(), date.AddDate(0, 0, 1))
	if nextDay != "SAL-260829-0001" {
		t.Errorf("next day counter = %q, want SAL-260829-0001", nextDay)
	}
}
