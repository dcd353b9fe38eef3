package httpapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Pvilangaiah/RequirementsBot/internal/application"
	"github.com/Pvilangaiah/RequirementsBot/internal/domain/ai"
	"github.com/Pvilangaiah/RequirementsBot/internal/domain/prompt"
	"github.com/Pvilangaiah/RequirementsBot/internal/domain/requirements"
	infraAI "github.com/Pvilangaiah/RequirementsBot/internal/infrastructure/ai"
	"github.com/Pvilangaiah/RequirementsBot/internal/infrastructure/httpapi"
)

func newTestServer(provider ai.Provider) (*httpapi.Server, *httptest.Server) {
	svc := application.NewGenerateService(provider, prompt.NewBuilder(), "gpt-4o")
	srv := httpapi.NewServer(":0", svc, time.Second)
	return srv, httptest.NewServer(srv.Handler())
}

func TestGenerateRejectsNonPOST(t *testing.T) {
	mock := &infraAI.MockProvider{}
	_, ts := newTestServer(mock)
	defer ts.Close()

	for _, method := range []string{"GET", "PUT", "DELETE", "PATCH"} {
		req, _ := http.NewRequest(method, ts.URL+"/", nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s request failed: %v", method, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("%s: expected 405, got %d", method, resp.StatusCode)
		}
		if !strings.Contains(string(body), "Method not allowed") {
			t.Errorf("%s: unexpected body: %q", method, body)
		}
	}

	if mock.LastRequest != nil {
		t.Error("no outbound call may happen for a rejected method")
	}
}

func TestGenerateEmptyBodyUsesDefaults(t *testing.T) {
	mock := &infraAI.MockProvider{Content: `{"userStories":[]}`}
	_, ts := newTestServer(mock)
	defer ts.Close()

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	if mock.LastRequest == nil {
		t.Fatal("the outbound call must still be attempted for an empty body")
	}

	user := mock.LastRequest.Messages[1].Text
	if !strings.Contains(user, "N/A") {
		t.Errorf("missing figma/brief defaults in user message: %q", user)
	}
	if !strings.Contains(user, "standard") {
		t.Errorf("missing detail default in user message: %q", user)
	}
}

func TestGenerateImageContentPart(t *testing.T) {
	mock := &infraAI.MockProvider{}
	_, ts := newTestServer(mock)
	defer ts.Close()

	payload := `{"brief":"login page","imageDataUrl":"data:image/png;base64,AAAA"}`
	resp, err := http.Post(ts.URL+"/", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if mock.LastRequest.Messages[1].ImageURL != "data:image/png;base64,AAAA" {
		t.Errorf("image reference lost: %q", mock.LastRequest.Messages[1].ImageURL)
	}

	resp, err = http.Post(ts.URL+"/", "application/json", strings.NewReader(`{"brief":"login page"}`))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if mock.LastRequest.Messages[1].ImageURL != "" {
		t.Errorf("unexpected image reference: %q", mock.LastRequest.Messages[1].ImageURL)
	}
}

func TestGenerateUpstreamFailureEmbedsBody(t *testing.T) {
	mock := &infraAI.MockProvider{Err: &ai.UpstreamError{
		Status: http.StatusUnauthorized,
		Body:   `{"error":{"message":"Incorrect API key provided"}}`,
	}}
	_, ts := newTestServer(mock)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "Incorrect API key provided") {
		t.Errorf("upstream error text missing from body: %q", body)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("failure body should be plain text, got %s", ct)
	}
}

func TestGenerateSuccessRelaysContent(t *testing.T) {
	content := `{"userStories":[{"id":"US-1","as_a":"shopper","i_want":"to log in","so_that":"I can buy","acceptance_criteria":["works"]}]}`
	mock := &infraAI.MockProvider{Content: content}
	_, ts := newTestServer(mock)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/", "application/json", strings.NewReader(`{"brief":"login"}`))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	if string(body) != content {
		t.Errorf("body must equal the upstream content, got %q", body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestGenerateEmptyContentPlaceholder(t *testing.T) {
	provider := &emptyProvider{}
	_, ts := newTestServer(provider)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if string(body) != "{}" {
		t.Errorf("expected empty-object placeholder, got %q", body)
	}
}

func TestGenerateMalformedBody(t *testing.T) {
	mock := &infraAI.MockProvider{}
	_, ts := newTestServer(mock)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/", "application/json", strings.NewReader(`{not json`))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 for malformed body, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "parse request body") {
		t.Errorf("unexpected body: %q", body)
	}
	if mock.LastRequest != nil {
		t.Error("no outbound call may happen for a malformed body")
	}
}

func TestGenerateSchemaConstraintMatches(t *testing.T) {
	mock := &infraAI.MockProvider{}
	_, ts := newTestServer(mock)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if !reflect.DeepEqual(mock.LastRequest.ResponseFormat, requirements.ResponseFormat()) {
		t.Error("outbound constraint must match the documented schema exactly")
	}
}

func TestHealthEndpoint(t *testing.T) {
	_, ts := newTestServer(&infraAI.MockProvider{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("unexpected health response: %d %q", resp.StatusCode, body)
	}
}

func TestRecentRequests(t *testing.T) {
	srv, ts := newTestServer(&infraAI.MockProvider{})
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/", "application/json", strings.NewReader(`{"model":"gpt-4o-mini"}`))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	records := srv.RecentRequests()
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Status != http.StatusOK || records[0].ID == "" {
		t.Errorf("unexpected record: %+v", records[0])
	}

	resp, err = http.Get(ts.URL + "/requests")
	if err != nil {
		t.Fatalf("GET /requests failed: %v", err)
	}
	var listed []httpapi.RequestRecord
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode records: %v", err)
	}
	resp.Body.Close()

	if len(listed) != 1 || listed[0].ID != records[0].ID {
		t.Errorf("debug endpoint out of sync: %+v", listed)
	}
}

func TestStartShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	svc := application.NewGenerateService(&infraAI.MockProvider{}, prompt.NewBuilder(), "gpt-4o")
	srv := httpapi.NewServer(addr, svc, time.Second)

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	var up bool
	for i := 0; i < 50; i++ {
		resp, err := http.Get("http://" + addr + "/health")
		if err == nil {
			resp.Body.Close()
			up = true
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if !up {
		t.Fatal("server never became reachable")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("Start returned unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Start did not return after Shutdown")
	}
}

// emptyProvider answers success with no content.
type emptyProvider struct{}

func (p *emptyProvider) ID() string { return "empty" }

func (p *emptyProvider) CreateChat(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	return &ai.ChatResponse{Content: "", Model: req.Model}, nil
}
