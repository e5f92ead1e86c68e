package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeAPI отвечает как POST /api/latency и запоминает последний запрос.
func fakeAPI(t *testing.T, last *LatencyRequest, raw *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/latency" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if raw != nil {
			*raw = body
		}

		data, _ := json.Marshal(body)
		json.Unmarshal(data, last)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]Summary{
			"us-east": {AvgLatency: 200, P95Latency: 290, AvgUptime: 98, Breaches: 2},
			"eu-west": {AvgLatency: 180, P95Latency: 234, AvgUptime: 99, Breaches: 1},
		})
	}))
}

func TestClient_Latency(t *testing.T) {
	var last LatencyRequest
	server := fakeAPI(t, &last, nil)
	defer server.Close()

	threshold := 150.0
	result, err := NewClient(server.URL).Latency(context.Background(), LatencyRequest{
		Regions:     []string{"us-east"},
		ThresholdMs: &threshold,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result["us-east"].P95Latency != 290 {
		t.Errorf("unexpected result: %+v", result)
	}
	if last.ThresholdMs == nil || *last.ThresholdMs != 150 {
		t.Errorf("threshold not sent: %+v", last)
	}
}

func TestClient_Latency_OmitsThreshold(t *testing.T) {
	var last LatencyRequest
	var raw map[string]any
	server := fakeAPI(t, &last, &raw)
	defer server.Close()

	if _, err := NewClient(server.URL).Latency(context.Background(), LatencyRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := raw["threshold_ms"]; ok {
		t.Errorf("threshold_ms should be omitted, got %v", raw)
	}
	if regions, ok := raw["regions"].([]any); !ok || len(regions) != 0 {
		t.Errorf("regions should be an empty array, got %v", raw["regions"])
	}
}

func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST","message":"invalid request body"}}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Latency(context.Background(), LatencyRequest{Regions: []string{"x"}})
	if err == nil || err.Error() != "BAD_REQUEST: invalid request body" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestClient_PlainError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gateway down", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Latency(context.Background(), LatencyRequest{})
	if err == nil || err.Error() != "API error: HTTP 502" {
		t.Errorf("unexpected error: %v", err)
	}
}

func runQuery(t *testing.T, url string, jsonMode bool, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	cmd := NewQueryCmd(
		func() *Client { return NewClient(url) },
		func() *Output { return NewOutputTo(jsonMode, &stdout, &stderr) },
	)
	cmd.SetArgs(args)
	cmd.SetOut(&stderr)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestQueryCmd_Table(t *testing.T) {
	var last LatencyRequest
	server := fakeAPI(t, &last, nil)
	defer server.Close()

	stdout, stderr, err := runQuery(t, server.URL, false, "--region", "eu-west", "us-east", "mars", "--threshold", "150")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, separator and 2 rows, got:\n%s", stdout)
	}
	if !strings.HasPrefix(lines[0], "REGION") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	// Порядок строк совпадает с порядком регионов в команде
	if !strings.HasPrefix(lines[2], "eu-west") || !strings.HasPrefix(lines[3], "us-east") {
		t.Errorf("unexpected row order:\n%s", stdout)
	}
	if !strings.Contains(lines[3], "290.00") {
		t.Errorf("expected p95 in row: %s", lines[3])
	}
	if !strings.Contains(stderr, "no data for mars") {
		t.Errorf("expected warning about mars, got %q", stderr)
	}

	if len(last.Regions) != 3 || last.Regions[0] != "eu-west" {
		t.Errorf("unexpected regions sent: %v", last.Regions)
	}
	if last.ThresholdMs == nil || *last.ThresholdMs != 150 {
		t.Errorf("unexpected threshold sent: %v", last.ThresholdMs)
	}
}

func TestQueryCmd_JSON(t *testing.T) {
	var last LatencyRequest
	server := fakeAPI(t, &last, nil)
	defer server.Close()

	stdout, _, err := runQuery(t, server.URL, true, "-r", "us-east")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result map[string]Summary
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout)
	}
	if result["us-east"].Breaches != 2 {
		t.Errorf("unexpected result: %+v", result)
	}
	if last.ThresholdMs != nil {
		t.Errorf("threshold should not be sent when flag is not set, got %v", *last.ThresholdMs)
	}
}

func TestQueryCmd_RequiresRegion(t *testing.T) {
	_, _, err := runQuery(t, "http://127.0.0.1:0", false)
	if err == nil || !strings.Contains(err.Error(), "at least one region") {
		t.Errorf("expected region error, got %v", err)
	}
}
