package attendance

import "strings"

// Notification is a pending attendance opportunity from the portal's
// notification feed. RelatedData is a composite "<sessionNumber>-<scheme>" key.
type Notification struct {
	ID          string `json:"id"`
	Title       string `json:"judul"`
	RelatedData string `json:"dataTerkait"`
}

// Related splits the composite key into the session number and the course
// scheme type. A key without a separator yields the whole value as the number
// and an empty scheme.
func (n Notification) Related() (sessionNumber, scheme string) {
	parts := strings.SplitN(n.RelatedData, "-", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}

// HistoryEntry is one prior submission record. Date is the portal's
// "DD-MM-YYYY HH:MM" form; Key identifies the meeting it was submitted for.
type HistoryEntry struct {
	Date string `json:"tanggal"`
	Key  string `json:"key"`
}

// SubmittedDate converts the entry's date to "YYYY-MM-DD" for comparison
// against the bot's today marker. Returns "" when the field is malformed.
func (h HistoryEntry) SubmittedDate() string {
	datePart := strings.SplitN(h.Date, " ", 2)[0]
	parts := strings.Split(datePart, "-")
	if len(parts) != 3 {
		return ""
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0]
}

// WindowInfo describes the current meeting's submission window: whether it is
// open and the key the portal expects back on submission.
type WindowInfo struct {
	Open bool   `json:"open"`
	Key  string `json:"key"`
}

// SubmitResult is the portal's answer to a submission attempt.
type SubmitResult struct {
	Success bool   `json:"sukses"`
	Message string `json:"pesan"`
}
