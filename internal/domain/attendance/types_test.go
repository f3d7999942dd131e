package attendance

import "testing"

func TestNotificationRelated(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantNumber string
		wantScheme string
	}{
		{name: "composite key", data: "101-REGULER", wantNumber: "101", wantScheme: "REGULER"},
		{name: "scheme with separator survives", data: "101-BLOK-A", wantNumber: "101", wantScheme: "BLOK-A"},
		{name: "missing scheme", data: "101", wantNumber: "101", wantScheme: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			number, scheme := Notification{RelatedData: tt.data}.Related()
			if number != tt.wantNumber || scheme != tt.wantScheme {
				t.Fatalf("expected (%q, %q), got (%q, %q)", tt.wantNumber, tt.wantScheme, number, scheme)
			}
		})
	}
}

func TestHistoryEntrySubmittedDate(t *testing.T) {
	tests := []struct {
		name string
		date string
		want string
	}{
		{name: "date with time suffix", date: "07-04-2025 09:12", want: "2025-04-07"},
		{name: "bare date", date: "31-12-2024", want: "2024-12-31"},
		{name: "malformed", date: "yesterday", want: ""},
		{name: "empty", date: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (HistoryEntry{Date: tt.date}).SubmittedDate(); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
