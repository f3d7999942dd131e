package portal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func writeEnvelope(w http.ResponseWriter, status bool, pesan string, data any) {
	payload, _ := json.Marshal(data)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": status,
		"pesan":  pesan,
		"data":   json.RawMessage(payload),
	})
}

func TestAuthClientAuthenticateStoresCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v2/auth/login" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode login body: %v", err)
		}
		if body["username"] != "student" || body["password"] != "secret" {
			t.Fatalf("unexpected credentials: %v", body)
		}
		writeEnvelope(w, true, "", map[string]string{
			"token":          "tok-1",
			"sessionToken":   "st-1",
			"nomorMahasiswa": "4211001",
		})
	}))
	defer srv.Close()

	auth := NewAuthClient(srv.URL, srv.Client(), "student", "secret", testLogger())
	if err := auth.Authenticate(context.Background()); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if auth.Token() != "tok-1" || auth.SessionToken() != "st-1" || auth.StudentNumber() != "4211001" {
		t.Fatalf("credentials not stored: %q %q %q", auth.Token(), auth.SessionToken(), auth.StudentNumber())
	}
}

func TestExpiredTokenMessageMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, false, "Token tidak valid atau kadaluarsa", nil)
	}))
	defer srv.Close()

	client := NewAttendanceClient(srv.URL, srv.Client(), nil, testLogger())
	_, err := client.ListNotifications(context.Background())
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestUnauthorizedStatusMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		writeEnvelope(w, false, "unauthorized", nil)
	}))
	defer srv.Close()

	client := NewScheduleClient(srv.URL, srv.Client(), nil, testLogger())
	_, err := client.ListAll(context.Background())
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestScheduleClientNonArrayPayloadIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, true, "", map[string]string{"info": "no schedule published"})
	}))
	defer srv.Close()

	client := NewScheduleClient(srv.URL, srv.Client(), nil, testLogger())
	sessions, err := client.ListAll(context.Background())
	if err != nil {
		t.Fatalf("expected shape error to be tolerated, got %v", err)
	}
	if len(sessions) != 0 {
		t.Fatalf("expected empty schedule, got %d sessions", len(sessions))
	}
}

func TestScheduleClientDecodesSessions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/jadwal/kuliah" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		writeEnvelope(w, true, "", []map[string]string{
			{"nomor": "101", "matakuliah": "Algoritma", "hari": "Senin", "jamMulai": "09:00", "jamSelesai": "10:30", "kuliah_asal": "REG"},
		})
	}))
	defer srv.Close()

	client := NewScheduleClient(srv.URL, srv.Client(), nil, testLogger())
	sessions, err := client.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Number != "101" || sessions[0].StartTime != "09:00" || sessions[0].Origin != "REG" {
		t.Fatalf("unexpected sessions: %+v", sessions)
	}
}

func TestAuthenticatedRequestsCarryTokens(t *testing.T) {
	var gotAuth, gotSession string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v2/auth/login" {
			writeEnvelope(w, true, "", map[string]string{"token": "tok-9", "sessionToken": "st-9", "nomorMahasiswa": "1"})
			return
		}
		gotAuth = r.Header.Get("Authorization")
		gotSession = r.Header.Get("X-Session-Token")
		writeEnvelope(w, true, "", []any{})
	}))
	defer srv.Close()

	auth := NewAuthClient(srv.URL, srv.Client(), "u", "p", testLogger())
	if err := auth.Authenticate(context.Background()); err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	client := NewAttendanceClient(srv.URL, srv.Client(), auth, testLogger())
	if _, err := client.ListNotifications(context.Background()); err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if gotAuth != "Bearer tok-9" || gotSession != "st-9" {
		t.Fatalf("expected auth headers, got %q / %q", gotAuth, gotSession)
	}
}

func TestAttendanceClientSubmit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v2/presensi" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode submit body: %v", err)
		}
		if body["nomor"] != "101" || body["key"] != "meet-7" || body["kuliahAsal"] != "REG" {
			t.Fatalf("unexpected submit body: %v", body)
		}
		writeEnvelope(w, true, "", map[string]any{"sukses": true, "pesan": "Presensi berhasil"})
	}))
	defer srv.Close()

	client := NewAttendanceClient(srv.URL, srv.Client(), nil, testLogger())
	result, err := client.Submit(context.Background(), "101", "4211001", "REGULER", "REG", "meet-7")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
}
