package date

import (
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestNewNormalizes(t *testing.T) {
	if got, want := New(2024, 2, 30), New(2024, 3, 1); got != want {
		t.Errorf("New(2024, 2, 30) = %v, want %v", got, want)
	}
	if got, want := New(2025, 1, 1).Add(-1), New(2024, 12, 31); got != want {
		t.Errorf("Add(-1) = %v, want %v", got, want)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Date
	}{
		{"2025-07-01", New(2025, 7, 1)},
		{"2025-7-1", New(2025, 7, 1)},
		{"2021-03-04T23:30:00Z", New(2021, 3, 4)},
		{"2021-03-04T23:30:00-02:00", New(2021, 3, 5)},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := Parse("01/07/2025"); err == nil {
		t.Error("Parse(\"01/07/2025\") expected an error")
	}
}

func TestOf(t *testing.T) {
	paris := time.FixedZone("CET", 3600)
	got := Of(time.Date(2024, 1, 1, 0, 30, 0, 0, paris))
	if want := New(2023, 12, 31); got != want {
		t.Errorf("Of() = %v, want %v", got, want)
	}
}

func TestSub(t *testing.T) {
	if got := New(2024, 3, 1).Sub(New(2024, 2, 1)); got != 29 {
		t.Errorf("Sub() = %d, want 29", got)
	}
}

func TestJSON(t *testing.T) {
	d := New(2024, 5, 6)
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(b) != `"2024-05-06"` {
		t.Errorf("MarshalJSON() = %s", b)
	}
	var got Date
	if err := got.UnmarshalJSON(b); err != nil {
		t.Fatalf("UnmarshalJSON() error = %v", err)
	}
	if got != d {
		t.Errorf("UnmarshalJSON() = %v, want %v", got, d)
	}
}

func TestRange(t *testing.T) {
	r := Range{From: New(2024, 2, 27), To: New(2024, 3, 2)}
	if got := r.Len(); got != 5 {
		t.Errorf("Len() = %d, want 5", got)
	}
	var days []Date
	for d := range r.Days() {
		days = append(days, d)
	}
	if len(days) != 5 || days[2] != New(2024, 2, 29) || days[4] != r.To {
		t.Errorf("Days() = %v", days)
	}
	if !r.Contains(r.From) || !r.Contains(r.To) || r.Contains(r.To.Add(1)) {
		t.Error("Contains() does not include exactly the boundaries")
	}

	if _, err := NewRange(r.To, r.From); err == nil {
		t.Error("NewRange() with To before From expected an error")
	}
	single := Range{From: r.From, To: r.From}
	if got := single.Len(); got != 1 {
		t.Errorf("single day Len() = %d, want 1", got)
	}
}
