package schedule

// Session is one scheduled class meeting as the portal reports it. Times are
// zero-padded "HH:MM" wall-clock strings in the portal's timezone; Number is
// the portal's identifier for the course offering and is the key every other
// portal endpoint uses.
type Session struct {
	Number     string `json:"nomor"`
	CourseName string `json:"matakuliah"`
	Weekday    string `json:"hari"`
	StartTime  string `json:"jamMulai"`
	EndTime    string `json:"jamSelesai"`
	Origin     string `json:"kuliah_asal"`
}

// HasTimes reports whether both interval endpoints are present. The portal
// lists asynchronous offerings with empty time fields; those can never be
// "active" and are dropped from the daily snapshot.
func (s Session) HasTimes() bool {
	return s.StartTime != "" && s.EndTime != ""
}
