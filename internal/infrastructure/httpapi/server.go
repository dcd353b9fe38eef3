// Package httpapi provides the HTTP endpoint that turns product design
// inputs into a requirements bundle via the completion service.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Pvilangaiah/RequirementsBot/internal/application"
	"github.com/Pvilangaiah/RequirementsBot/internal/domain/ai"
	"github.com/Pvilangaiah/RequirementsBot/internal/infrastructure/telemetry"
)

// generateRequest is the inbound JSON body. Every field is optional.
type generateRequest struct {
	FigmaURL     string `json:"figmaUrl"`
	Brief        string `json:"brief"`
	Rules        string `json:"rules"`
	Model        string `json:"model"`
	Detail       string `json:"detail"`
	ImageDataURL string `json:"imageDataUrl"`
}

// RequestRecord is a completed request kept for debugging.
type RequestRecord struct {
	ID        string        `json:"id"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Status    int           `json:"status"`
	Model     string        `json:"model,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
	Timestamp time.Time     `json:"timestamp"`
}

// Server is the HTTP server for the generation endpoint.
type Server struct {
	addr            string
	svc             *application.GenerateService
	upstreamTimeout time.Duration
	server          *http.Server
	mu              sync.RWMutex
	records         []RequestRecord // Recent requests for debugging
}

// NewServer creates a new generation server. upstreamTimeout bounds one
// completion call and sizes the server's write timeout accordingly.
func NewServer(addr string, svc *application.GenerateService, upstreamTimeout time.Duration) *Server {
	if upstreamTimeout <= 0 {
		upstreamTimeout = 120 * time.Second
	}
	return &Server{
		addr:            addr,
		svc:             svc,
		upstreamTimeout: upstreamTimeout,
		records:         make([]RequestRecord, 0, 100),
	}
}

// Handler returns the route table. Exposed so tests can drive the server
// without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// The generation endpoint answers on every path that is not claimed
	// below, matching its origin as a single serverless function.
	mux.HandleFunc("/", s.handleGenerate)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Recent requests endpoint (for debugging)
	mux.HandleFunc("/requests", s.handleRecords)

	return mux
}

// Start starts the server and blocks until it stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:        s.addr,
		Handler:     s.Handler(),
		ReadTimeout: 15 * time.Second,
		// The write timeout must outlast one full upstream call.
		WriteTimeout: s.upstreamTimeout + 30*time.Second,
	}

	log.Printf("RequirementsBot server starting on %s", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.NewString()
	w.Header().Set("X-Request-ID", requestID)
	start := time.Now()

	// An empty body is a valid request; every field has a default.
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.fail(w, r, requestID, req.Model, start, fmt.Sprintf("parse request body: %v", err))
		return
	}

	result, err := s.svc.Generate(r.Context(), application.GenerateInput{
		FigmaURL:     req.FigmaURL,
		Brief:        req.Brief,
		Rules:        req.Rules,
		Model:        req.Model,
		Detail:       req.Detail,
		ImageDataURL: req.ImageDataURL,
	})
	if err != nil {
		body := err.Error()
		// The completion service's own words pass through untouched.
		var upstream *ai.UpstreamError
		if errors.As(err, &upstream) {
			body = upstream.Body
		}
		s.fail(w, r, requestID, req.Model, start, body)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, result.Content); err != nil {
		log.Printf("Failed to write response: id=%s: %v", requestID, err)
	}

	s.storeRecord(RequestRecord{
		ID: requestID, Method: r.Method, Path: r.URL.Path,
		Status: http.StatusOK, Model: result.Model,
		Duration: time.Since(start), Timestamp: time.Now(),
	})
	telemetry.RecordRequest(r.Context(), r.Method, http.StatusOK, time.Since(start))
	log.Printf("Generated bundle: id=%s model=%s tokens=%d/%d",
		requestID, result.Model, result.Usage.InputTokens, result.Usage.OutputTokens)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, requestID, model string, start time.Time, message string) {
	log.Printf("Generation failed: id=%s: %s", requestID, message)
	http.Error(w, message, http.StatusInternalServerError)

	s.storeRecord(RequestRecord{
		ID: requestID, Method: r.Method, Path: r.URL.Path,
		Status: http.StatusInternalServerError, Model: model,
		Duration: time.Since(start), Timestamp: time.Now(),
	})
	telemetry.RecordRequest(r.Context(), r.Method, http.StatusInternalServerError, time.Since(start))
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	records := make([]RequestRecord, len(s.records))
	copy(records, s.records)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

func (s *Server) storeRecord(record RequestRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Keep only last 100 requests
	if len(s.records) >= 100 {
		s.records = s.records[1:]
	}
	s.records = append(s.records, record)
}

// RecentRequests returns recent request records (for debugging).
func (s *Server) RecentRequests() []RequestRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]RequestRecord, len(s.records))
	copy(records, s.records)
	return records
}
