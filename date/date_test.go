package date

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name    string
		in      string
		want    Date
		wantErr bool
	}{
		{name: "standard format", in: "2025-07-01", want: New(2025, time.July, 1)},
		{name: "lenient format", in: "2025-7-1", want: New(2025, time.July, 1)},
		{name: "not a date", in: "yesterday", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got %v", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestDaysUntil(t *testing.T) {
	testCases := []struct {
		name string
		from string
		to   string
		want int
	}{
		{name: "same day", from: "2025-01-01", to: "2025-01-01", want: 0},
		{name: "one day", from: "2025-01-01", to: "2025-01-02", want: 1},
		{name: "across leap day", from: "2024-02-28", to: "2024-03-01", want: 2},
		{name: "one year", from: "2024-03-01", to: "2025-03-01", want: 365},
		{name: "backwards", from: "2025-01-02", to: "2025-01-01", want: -1},
		{name: "just over a year", from: "2024-01-01", to: "2025-02-05", want: 401},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := MustParse(tc.from).DaysUntil(MustParse(tc.to))
			if got != tc.want {
				t.Errorf("DaysUntil(%s, %s) = %d, want %d", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestNormalization(t *testing.T) {
	// Out-of-range day components roll over like time.Date.
	got := New(2025, time.January, 32)
	want := New(2025, time.February, 1)
	if got != want {
		t.Errorf("New(2025, January, 32) = %v, want %v", got, want)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := MustParse("2025-06-30")
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `"2025-06-30"` {
		t.Errorf("Marshal = %s, want %q", b, `"2025-06-30"`)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != d {
		t.Errorf("round trip got %v, want %v", back, d)
	}
}
