package judge_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/educode-dev/educode-backend/internal/judge"
)

func newTestClient(baseURL string) *judge.HTTPClient {
	c := judge.NewHTTPClient(baseURL, "test-key", "test-host", nil)
	c.PollInterval = time.Millisecond
	c.MaxPolls = 5
	return c
}

// judgeServer fakes the remote execution API: one submission endpoint and
// a result endpoint that replies with canned statuses in sequence.
func judgeServer(t *testing.T, results []map[string]any) (*httptest.Server, *int32) {
	t.Helper()
	var polls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/submissions", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-RapidAPI-Key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("submission body: %v", err)
		}
		if body["source_code"] == "" {
			t.Errorf("empty source_code in submission")
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
	})
	mux.HandleFunc("/submissions/tok-1", func(w http.ResponseWriter, r *http.Request) {
		i := atomic.AddInt32(&polls, 1) - 1
		if int(i) >= len(results) {
			i = int32(len(results) - 1)
		}
		_ = json.NewEncoder(w).Encode(results[i])
	})
	return httptest.NewServer(mux), &polls
}

func status(id int) map[string]any {
	return map[string]any{"id": id}
}

func TestExecuteAccepted(t *testing.T) {
	stdout := "hello\n"
	srv, _ := judgeServer(t, []map[string]any{
		{"status": status(1)},
		{"status": status(2)},
		{"status": status(3), "stdout": stdout, "time": "0.02", "memory": 3456.0},
	})
	defer srv.Close()

	res := newTestClient(srv.URL).Execute("print('hello')", 71)
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.Output != "hello" {
		t.Errorf("output = %q, want trimmed %q", res.Output, "hello")
	}
	if res.Time != "0.02" || res.Memory != 3456.0 {
		t.Errorf("metrics not carried: %+v", res)
	}
}

func TestExecuteTerminalFailure(t *testing.T) {
	stderr := "Traceback: boom"
	srv, _ := judgeServer(t, []map[string]any{
		{"status": map[string]any{"id": 11, "description": "Runtime Error"}, "stderr": stderr},
	})
	defer srv.Close()

	res := newTestClient(srv.URL).Execute("raise", 71)
	if res.Success {
		t.Fatalf("expected failure, got %+v", res)
	}
	if res.Error != "Traceback: boom" {
		t.Errorf("error = %q", res.Error)
	}
}

func TestExecuteCompileOutputFallsBackToError(t *testing.T) {
	srv, _ := judgeServer(t, []map[string]any{
		{"status": status(6), "compile_output": "cannot find symbol"},
	})
	defer srv.Close()

	res := newTestClient(srv.URL).Execute("class X {}", 62)
	if res.Success {
		t.Fatalf("expected failure")
	}
	if res.Error != "cannot find symbol" {
		t.Errorf("error = %q", res.Error)
	}
}

func TestExecutePollBudgetExhausted(t *testing.T) {
	srv, polls := judgeServer(t, []map[string]any{
		{"status": status(2)},
	})
	defer srv.Close()

	c := newTestClient(srv.URL)
	res := c.Execute("while True: pass", 71)
	if res.Success {
		t.Fatalf("expected timeout failure")
	}
	if res.Error == "" {
		t.Fatalf("expected an error message")
	}
	if got := atomic.LoadInt32(polls); got != int32(c.MaxPolls) {
		t.Errorf("polled %d times, want %d", got, c.MaxPolls)
	}
}

func TestExecuteSubmitFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	res := newTestClient(srv.URL).Execute("x", 71)
	if res.Success {
		t.Fatalf("expected failure")
	}
	if res.Error == "" {
		t.Fatalf("expected an error message")
	}
}

func TestLanguageIDMapping(t *testing.T) {
	if got := judge.LanguageID("python"); got != 71 {
		t.Errorf("python = %d", got)
	}
	if got := judge.LanguageID("go"); got != 95 {
		t.Errorf("go = %d", got)
	}
	if got := judge.LanguageID("cobol"); got != judge.DefaultLanguageID {
		t.Errorf("unknown language = %d, want default %d", got, judge.DefaultLanguageID)
	}
	if got := judge.LanguageID(""); got != judge.DefaultLanguageID {
		t.Errorf("empty language = %d, want default %d", got, judge.DefaultLanguageID)
	}
}
