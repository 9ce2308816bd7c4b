package chatlog

import (
	"testing"
	"time"
)

func TestLabels(t *testing.T) {
	cases := []struct {
		first, last, username string
		label, mention        string
	}{
		{"Anna", "Ivanova", "anna", "Anna Ivanova", "@anna"},
		{" Anna ", "", "", "Anna", "Anna"},
		{"", "", "bob", "@bob", "@bob"},
		{"", "", "", "Неизвестный", "Неизвестный"},
	}
	for _, tc := range cases {
		if got := Label(tc.first, tc.last, tc.username); got != tc.label {
			t.Fatalf("Label(%q,%q,%q)=%q want %q", tc.first, tc.last, tc.username, got, tc.label)
		}
		if got := MentionLabel(tc.first, tc.last, tc.username); got != tc.mention {
			t.Fatalf("MentionLabel(%q,%q,%q)=%q want %q", tc.first, tc.last, tc.username, got, tc.mention)
		}
	}
}

func TestTranscriptLineUsesUTC(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	e := TranscriptEntry{Timestamp: time.Date(2024, 5, 1, 12, 7, 0, 0, loc), Label: "Anna", Text: "hi"}
	if got := e.Line(); got != "[09:07] Anna: hi" {
		t.Fatalf("line=%q", got)
	}
}
