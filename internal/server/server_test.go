package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/cyberfish/internal/leaderboard"
	"github.com/vovakirdan/cyberfish/internal/storage"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*Server, *storage.Store) {
	t.Helper()
	store, err := storage.Open(storage.MemoryPath)
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	srv := New(store, log.New(io.Discard), WithClock(func() time.Time { return fixedNow }))
	return srv, store
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeScores(t *testing.T, rec *httptest.ResponseRecorder) []leaderboard.ScoreRecord {
	t.Helper()
	var records []leaderboard.ScoreRecord
	if err := json.NewDecoder(rec.Body).Decode(&records); err != nil {
		t.Fatalf("decode scores: %v", err)
	}
	return records
}

func TestListEmpty(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv.Routes(), http.MethodGet, "/api/scores", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("body = %q, want []", body)
	}
}

func TestSubmitThenList(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Routes()

	rec := do(t, h, http.MethodPost, "/api/scores", `{"name":"Rex","score":5,"date":"1999-01-01T00:00:00Z"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, body %s", rec.Code, rec.Body)
	}
	var msg map[string]string
	json.NewDecoder(rec.Body).Decode(&msg)
	if msg["message"] == "" {
		t.Errorf("POST body missing message: %v", msg)
	}

	records := decodeScores(t, do(t, h, http.MethodGet, "/api/scores", ""))
	if len(records) != 1 || records[0].Name != "Rex" || records[0].Score != 5 {
		t.Fatalf("records = %+v", records)
	}
	if !records[0].Date.Equal(fixedNow) {
		t.Errorf("date = %v, want server clock %v", records[0].Date, fixedNow)
	}
}

func TestSubmitKeepsBest(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Routes()

	for _, body := range []string{
		`{"name":"A","score":10}`,
		`{"name":"A","score":7}`,
	} {
		if rec := do(t, h, http.MethodPost, "/api/scores", body); rec.Code != http.StatusCreated {
			t.Fatalf("POST %s: status %d", body, rec.Code)
		}
	}
	records := decodeScores(t, do(t, h, http.MethodGet, "/api/scores", ""))
	if len(records) != 1 || records[0].Score != 10 {
		t.Fatalf("after 10 then 7: %+v", records)
	}

	do(t, h, http.MethodPost, "/api/scores", `{"name":"A","score":15}`)
	records = decodeScores(t, do(t, h, http.MethodGet, "/api/scores", ""))
	if len(records) != 1 || records[0].Score != 15 {
		t.Fatalf("after 15: %+v", records)
	}
}

func TestSubmitTrimsName(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Routes()

	do(t, h, http.MethodPost, "/api/scores", `{"name":"  Rex  ","score":3}`)
	records := decodeScores(t, do(t, h, http.MethodGet, "/api/scores", ""))
	if len(records) != 1 || records[0].Name != "Rex" {
		t.Errorf("records = %+v", records)
	}
}

func TestSubmitValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Routes()

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"name":`},
		{"empty name", `{"name":"   ","score":1}`},
		{"missing score", `{"name":"Rex"}`},
		{"negative score", `{"name":"Rex","score":-1}`},
		{"fractional score", `{"name":"Rex","score":1.5}`},
		{"long name", `{"name":"` + strings.Repeat("x", leaderboard.MaxNameLength+1) + `","score":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/scores", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			var body map[string]string
			json.NewDecoder(rec.Body).Decode(&body)
			if body["error"] == "" {
				t.Errorf("missing error message")
			}
		})
	}

	records := decodeScores(t, do(t, h, http.MethodGet, "/api/scores", ""))
	if len(records) != 0 {
		t.Errorf("invalid submissions were stored: %+v", records)
	}
}

func TestCheckName(t *testing.T) {
	srv, store := newTestServer(t)
	h := srv.Routes()
	store.UpsertScore(context.Background(), leaderboard.ScoreRecord{Name: "Rex & Co", Score: 1, Date: fixedNow})

	tests := []struct {
		query string
		want  bool
	}{
		{"?name=Rex+%26+Co", true},
		{"?name=%20Rex%20%26%20Co%20", true},
		{"?name=Nobody", false},
		{"", false},
	}
	for _, tt := range tests {
		rec := do(t, h, http.MethodGet, "/api/scores/check-name"+tt.query, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d", tt.query, rec.Code)
		}
		var body map[string]bool
		json.NewDecoder(rec.Body).Decode(&body)
		if body["exists"] != tt.want {
			t.Errorf("%s: exists = %v, want %v", tt.query, body["exists"], tt.want)
		}
	}
}

func TestStats(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Routes()
	do(t, h, http.MethodPost, "/api/scores", `{"name":"a","score":4}`)
	do(t, h, http.MethodPost, "/api/scores", `{"name":"b","score":8}`)

	rec := do(t, h, http.MethodGet, "/api/scores/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var stats leaderboard.Stats
	json.NewDecoder(rec.Body).Decode(&stats)
	if stats.Players != 2 || stats.Best != 8 || stats.Average != 6 {
		t.Errorf("stats = %+v", stats)
	}
}

type brokenLedger struct{}

var errBroken = errors.New("disk on fire")

func (brokenLedger) ListScores(context.Context) ([]leaderboard.ScoreRecord, error) {
	return nil, errBroken
}
func (brokenLedger) UpsertScore(context.Context, leaderboard.ScoreRecord) (bool, error) {
	return false, errBroken
}
func (brokenLedger) NameExists(context.Context, string) (bool, error) { return false, errBroken }
func (brokenLedger) Stats(context.Context) (leaderboard.Stats, error) {
	return leaderboard.Stats{}, errBroken
}

func TestLedgerFailures(t *testing.T) {
	h := New(brokenLedger{}, log.New(io.Discard)).Routes()

	tests := []struct {
		method, target, body, msg string
	}{
		{http.MethodGet, "/api/scores", "", "Failed to fetch scores"},
		{http.MethodPost, "/api/scores", `{"name":"Rex","score":1}`, "Failed to save score"},
		{http.MethodGet, "/api/scores/check-name?name=Rex", "", "Failed to check name"},
		{http.MethodGet, "/api/scores/stats", "", "Failed to fetch stats"},
	}
	for _, tt := range tests {
		rec := do(t, h, tt.method, tt.target, tt.body)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("%s %s: status %d, want 500", tt.method, tt.target, rec.Code)
			continue
		}
		var body map[string]string
		json.NewDecoder(rec.Body).Decode(&body)
		if body["error"] != tt.msg {
			t.Errorf("%s %s: error = %q, want %q", tt.method, tt.target, body["error"], tt.msg)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv.Routes(), http.MethodOptions, "/api/scores", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}

func TestScoreboardPage(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Routes()
	do(t, h, http.MethodPost, "/api/scores", `{"name":"<b>Rex</b>","score":9}`)
	do(t, h, http.MethodPost, "/api/scores", `{"name":"Bo","score":3}`)

	rec := do(t, h, http.MethodGet, "/?player=Bo", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "<b>Rex</b>") {
		t.Error("player name not escaped")
	}
	if !strings.Contains(body, "&lt;b&gt;Rex&lt;/b&gt;") {
		t.Error("escaped name missing")
	}
	if !strings.Contains(body, `<tr class="me"><td>🥈</td><td>Bo</td>`) {
		t.Error("current player row not highlighted with rank medal")
	}
}

func TestScoreboardPageEmpty(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv.Routes(), http.MethodGet, "/", "")
	if !strings.Contains(rec.Body.String(), "No scores yet") {
		t.Error("empty ledger message missing")
	}
}

func TestScoreRows(t *testing.T) {
	records := []leaderboard.ScoreRecord{
		{Name: "Ana", Score: 30, Date: fixedNow},
		{Name: "Bo", Score: 20, Date: fixedNow},
		{Name: "Cy", Score: 10, Date: fixedNow},
		{Name: "Di & Co", Score: 5, Date: fixedNow},
	}

	var buf strings.Builder
	if err := ScoreRows(records, "Cy").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	got := buf.String()

	want := []string{
		"<tr><td>🥇</td><td>Ana</td><td>30</td><td>2024-05-01</td></tr>",
		`<tr class="me"><td>🥉</td><td>Cy</td><td>10</td><td>2024-05-01</td></tr>`,
		"<tr><td>4</td><td>Di &amp; Co</td><td>5</td><td>2024-05-01</td></tr>",
	}
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("rows missing %s\n%s", w, got)
		}
	}
	if strings.Count(got, `class="me"`) != 1 {
		t.Errorf("want exactly one highlighted row:\n%s", got)
	}
}

func TestStreamPushesUpdates(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/scores/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msg FeedMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read initial snapshot: %v", err)
	}
	if msg.Type != "snapshot" || len(msg.Scores) != 0 {
		t.Fatalf("initial = %+v", msg)
	}

	// The subscription is registered after the upgrade; wait for it.
	deadline := time.Now().Add(2 * time.Second)
	for srv.feed.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	resp, err := http.Post(ts.URL+"/api/scores", "application/json", strings.NewReader(`{"name":"Rex","score":5}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()

	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if len(msg.Scores) != 1 || msg.Scores[0].Name != "Rex" || msg.Scores[0].Score != 5 {
		t.Errorf("update = %+v", msg)
	}
}

func TestStreamMsgpackCodec(t *testing.T) {
	srv, store := newTestServer(t)
	if _, err := store.UpsertScore(context.Background(), leaderboard.ScoreRecord{Name: "Ana", Score: 8, Date: fixedNow}); err != nil {
		t.Fatalf("UpsertScore() failed: %v", err)
	}
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/scores/stream?codec=msgpack"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	kind, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read initial snapshot: %v", err)
	}
	if kind != websocket.BinaryMessage {
		t.Fatalf("frame type = %d, want binary", kind)
	}
	var msg FeedMessage
	if err := msgpack.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("msgpack unmarshal: %v", err)
	}
	if msg.Type != "snapshot" || len(msg.Scores) != 1 || msg.Scores[0].Name != "Ana" || msg.Scores[0].Score != 8 {
		t.Errorf("snapshot = %+v", msg)
	}
}

func TestStreamUnknownCodec(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv.Routes(), http.MethodGet, "/api/scores/stream?codec=xml", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("ListenAndServe() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe did not return after cancel")
	}
}
