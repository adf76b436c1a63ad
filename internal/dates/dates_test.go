package dates

import (
	"testing"
	"time"
)

func TestParse_FormatOrder(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		formats []string
		want    time.Time
		wantOK  bool
	}{
		{
			name:    "iso date",
			raw:     "2022-01-05",
			formats: DefaultFormats,
			want:    time.Date(2022, 1, 5, 0, 0, 0, 0, time.UTC),
			wantOK:  true,
		},
		{
			name:    "month first slash date",
			raw:     "7/15/2023",
			formats: DefaultFormats,
			want:    time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC),
			wantOK:  true,
		},
		{
			name:    "ambiguous date resolves month first by default",
			raw:     "3/4/2022",
			formats: DefaultFormats,
			want:    time.Date(2022, 3, 4, 0, 0, 0, 0, time.UTC),
			wantOK:  true,
		},
		{
			name:    "ambiguous date resolves day first when reordered",
			raw:     "3/4/2022",
			formats: []string{"2/1/2006", "1/2/2006"},
			want:    time.Date(2022, 4, 3, 0, 0, 0, 0, time.UTC),
			wantOK:  true,
		},
		{
			name:    "day first dash date",
			raw:     "25-12-2021",
			formats: DefaultFormats,
			want:    time.Date(2021, 12, 25, 0, 0, 0, 0, time.UTC),
			wantOK:  true,
		},
		{
			name:    "unparseable text",
			raw:     "not-a-date",
			formats: DefaultFormats,
			wantOK:  false,
		},
		{
			name:    "empty string",
			raw:     "",
			formats: DefaultFormats,
			wantOK:  false,
		},
		{
			name:    "whitespace only",
			raw:     "   ",
			formats: DefaultFormats,
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.raw, tt.formats)
			if ok != tt.wantOK {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParse_PermissiveFallback(t *testing.T) {
	// No configured layout matches, so the permissive parser takes over.
	got, ok := Parse("March 4, 2022", DefaultFormats)
	if !ok {
		t.Fatal("expected fallback parse to succeed")
	}
	if got.Year() != 2022 || got.Month() != time.March || got.Day() != 4 {
		t.Errorf("fallback parsed %v, want 2022-03-04", got)
	}
}

func TestMonthKey(t *testing.T) {
	d := time.Date(2023, 7, 9, 0, 0, 0, 0, time.UTC)
	if key := MonthKey(d); key != "2023-07" {
		t.Errorf("MonthKey = %q, want %q", key, "2023-07")
	}
}

func TestMonthKey_LexicographicIsChronological(t *testing.T) {
	earlier := MonthKey(time.Date(2022, 9, 1, 0, 0, 0, 0, time.UTC))
	later := MonthKey(time.Date(2022, 10, 1, 0, 0, 0, 0, time.UTC))
	if !(earlier < later) {
		t.Errorf("expected %q < %q", earlier, later)
	}
}
