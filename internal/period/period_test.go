package period

import (
	"errors"
	"testing"
	"time"
)

func TestParseValid(t *testing.T) {
	p, err := Parse("2025-07")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if p.Year != 2025 || p.Month != time.July {
		t.Fatalf("unexpected period: %+v", p)
	}
}

func TestParseMalformed(t *testing.T) {
	for _, input := range []string{"", "2025", "2025-7", "25-07", "2025-13", "2025-00", "2025/07", "abcd-ef"} {
		_, err := Parse(input)
		if err == nil {
			t.Fatalf("expected error for %q", input)
		}
		var fe *FormatError
		if !errors.As(err, &fe) {
			t.Fatalf("expected FormatError for %q, got %T", input, err)
		}
	}
}

func TestAddMonthsRollover(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"2025-01", -1, "2024-12"},
		{"2025-12", 1, "2026-01"},
		{"2025-07", 12, "2026-07"},
		{"2025-07", -12, "2024-07"},
		{"2025-02", -14, "2023-12"},
		{"2024-11", 3, "2025-02"},
		{"2025-06", 0, "2025-06"},
	}
	for _, tc := range cases {
		p, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		got := p.AddMonths(tc.n).String()
		if got != tc.want {
			t.Fatalf("%s + %d months = %s, want %s", tc.in, tc.n, got, tc.want)
		}
	}
}

func TestSubMonths(t *testing.T) {
	p := Period{Year: 2025, Month: time.January}
	if got := p.SubMonths(13).String(); got != "2023-12" {
		t.Fatalf("sub 13 months = %s, want 2023-12", got)
	}
}

func TestRoundTripText(t *testing.T) {
	p := Period{Year: 2024, Month: time.March}
	text, err := p.MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Period
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != p {
		t.Fatalf("round trip mismatch: %v != %v", back, p)
	}
}

func TestBefore(t *testing.T) {
	a := Period{Year: 2024, Month: time.December}
	b := Period{Year: 2025, Month: time.January}
	if !a.Before(b) || b.Before(a) {
		t.Fatal("ordering incorrect across year boundary")
	}
}
