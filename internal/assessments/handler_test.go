package assessments_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/finsight/internal/analysis"
	"github.com/JaimeStill/finsight/internal/assessments"
	"github.com/JaimeStill/finsight/internal/documents"
	"github.com/JaimeStill/finsight/internal/policy"
)

type mockSystem struct {
	analyzeFn         func(ctx context.Context, text string) (*analysis.AnalysisResult, error)
	compareFn         func(ctx context.Context, text1, text2 string) (*analysis.ComparisonResult, error)
	batchFn           func(ctx context.Context, req assessments.BatchRequest) (*assessments.BatchResponse, error)
	analyzeDocumentFn func(ctx context.Context, id uuid.UUID) (*assessments.DocumentAnalysis, error)
}

func (m *mockSystem) Handler(maxBodySize int64) *assessments.Handler {
	return assessments.NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)), maxBodySize)
}

func (m *mockSystem) Analyze(ctx context.Context, text string) (*analysis.AnalysisResult, error) {
	return m.analyzeFn(ctx, text)
}

func (m *mockSystem) Compare(ctx context.Context, text1, text2 string) (*analysis.ComparisonResult, error) {
	return m.compareFn(ctx, text1, text2)
}

func (m *mockSystem) Batch(ctx context.Context, req assessments.BatchRequest) (*assessments.BatchResponse, error) {
	return m.batchFn(ctx, req)
}

func (m *mockSystem) AnalyzeDocument(ctx context.Context, id uuid.UUID) (*assessments.DocumentAnalysis, error) {
	return m.analyzeDocumentFn(ctx, id)
}

func setupMux(h *assessments.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func post(mux *http.ServeMux, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandlerAnalyze(t *testing.T) {
	t.Run("returns analysis result", func(t *testing.T) {
		var captured string
		sys := &mockSystem{
			analyzeFn: func(_ context.Context, text string) (*analysis.AnalysisResult, error) {
				captured = text
				return analysis.Default().Analyze(text)
			},
		}
		mux := setupMux(sys.Handler(1 << 20))

		rec := post(mux, "/analysis/analyze", `{"text":"Q1 revenue $10M, modest growth."}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if captured != "Q1 revenue $10M, modest growth." {
			t.Errorf("text = %q", captured)
		}

		var result analysis.AnalysisResult
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(result.Entities) == 0 {
			t.Error("expected entities in result")
		}
	})

	t.Run("validation error returns 400", func(t *testing.T) {
		sys := &mockSystem{
			analyzeFn: func(_ context.Context, text string) (*analysis.AnalysisResult, error) {
				return analysis.Default().Analyze(text)
			},
		}
		mux := setupMux(sys.Handler(1 << 20))

		rec := post(mux, "/analysis/analyze", `{"text":"   "}`)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.Contains(body["error"], "text is empty") {
			t.Errorf("error = %q, want text is empty", body["error"])
		}
	})

	t.Run("invalid json returns 400", func(t *testing.T) {
		mux := setupMux((&mockSystem{}).Handler(1 << 20))

		rec := post(mux, "/analysis/analyze", "not json")

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerCompare(t *testing.T) {
	t.Run("returns comparison", func(t *testing.T) {
		var first, second string
		sys := &mockSystem{
			compareFn: func(_ context.Context, text1, text2 string) (*analysis.ComparisonResult, error) {
				first, second = text1, text2
				return analysis.Default().Compare(text1, text2)
			},
		}
		mux := setupMux(sys.Handler(1 << 20))

		rec := post(mux, "/analysis/compare", `{"text1":"alpha beta","text2":"beta gamma"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if first != "alpha beta" || second != "beta gamma" {
			t.Errorf("texts = %q, %q", first, second)
		}

		var result analysis.ComparisonResult
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.Similarity <= 0 || result.Similarity >= 1 {
			t.Errorf("similarity = %v, want in (0, 1)", result.Similarity)
		}
	})

	t.Run("wrapped validation error returns 400", func(t *testing.T) {
		sys := &mockSystem{
			compareFn: func(_ context.Context, _, _ string) (*analysis.ComparisonResult, error) {
				return nil, fmt.Errorf("second document: %w", analysis.ErrValidation)
			},
		}
		mux := setupMux(sys.Handler(1 << 20))

		rec := post(mux, "/analysis/compare", `{"text1":"a","text2":""}`)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerBatch(t *testing.T) {
	t.Run("decodes request and returns outcome", func(t *testing.T) {
		var captured assessments.BatchRequest
		sys := &mockSystem{
			batchFn: func(_ context.Context, req assessments.BatchRequest) (*assessments.BatchResponse, error) {
				captured = req
				return &assessments.BatchResponse{
					Results:   analysis.BatchOutcome{"a": {Error: "invalid analysis input: text is empty"}},
					Succeeded: 0,
					Failed:    []string{"a"},
				}, nil
			},
		}
		mux := setupMux(sys.Handler(1 << 20))

		rec := post(mux, "/analysis/batch", `{"documents":[{"id":"a","text":""}],"concurrency":3,"apply_policy":true}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if len(captured.Documents) != 1 || captured.Documents[0].ID != "a" {
			t.Errorf("documents = %+v", captured.Documents)
		}
		if captured.Concurrency != 3 {
			t.Errorf("concurrency = %d, want 3", captured.Concurrency)
		}
		if !captured.ApplyPolicy {
			t.Error("apply_policy = false, want true")
		}

		var resp assessments.BatchResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Results["a"].Error == "" {
			t.Error("expected per-document error")
		}
	})

	t.Run("oversized batch returns 413", func(t *testing.T) {
		sys := &mockSystem{
			batchFn: func(_ context.Context, _ assessments.BatchRequest) (*assessments.BatchResponse, error) {
				return nil, fmt.Errorf("%w: 501 documents", assessments.ErrBatchTooLarge)
			},
		}
		mux := setupMux(sys.Handler(1 << 20))

		rec := post(mux, "/analysis/batch", `{"documents":[]}`)

		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("status = %d, want 413", rec.Code)
		}
	})
}

func TestHandlerAnalyzeDocument(t *testing.T) {
	docID := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")

	t.Run("returns analysis and decision", func(t *testing.T) {
		var capturedID uuid.UUID
		sys := &mockSystem{
			analyzeDocumentFn: func(_ context.Context, id uuid.UUID) (*assessments.DocumentAnalysis, error) {
				capturedID = id
				result, _ := analysis.Default().Analyze("Q1 revenue $10M, modest growth.")
				return &assessments.DocumentAnalysis{
					Analysis: result,
					Decision: policy.Decision{DocumentID: id, Persisted: true},
				}, nil
			},
		}
		mux := setupMux(sys.Handler(1 << 20))

		rec := post(mux, "/analysis/documents/"+docID.String(), "")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if capturedID != docID {
			t.Errorf("id = %v, want %v", capturedID, docID)
		}

		var got assessments.DocumentAnalysis
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Analysis == nil {
			t.Fatal("analysis missing")
		}
		if !got.Decision.Persisted || got.Decision.DocumentID != docID {
			t.Errorf("decision = %+v", got.Decision)
		}
	})

	t.Run("invalid uuid returns 400", func(t *testing.T) {
		mux := setupMux((&mockSystem{}).Handler(1 << 20))

		rec := post(mux, "/analysis/documents/not-a-uuid", "")

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing document returns 404", func(t *testing.T) {
		sys := &mockSystem{
			analyzeDocumentFn: func(_ context.Context, _ uuid.UUID) (*assessments.DocumentAnalysis, error) {
				return nil, documents.ErrNotFound
			},
		}
		mux := setupMux(sys.Handler(1 << 20))

		rec := post(mux, "/analysis/documents/"+docID.String(), "")

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerBodyLimit(t *testing.T) {
	called := false
	sys := &mockSystem{
		analyzeFn: func(_ context.Context, text string) (*analysis.AnalysisResult, error) {
			called = true
			return analysis.Default().Analyze(text)
		},
		compareFn: func(_ context.Context, _, _ string) (*analysis.ComparisonResult, error) {
			called = true
			return nil, nil
		},
		batchFn: func(_ context.Context, _ assessments.BatchRequest) (*assessments.BatchResponse, error) {
			called = true
			return nil, nil
		},
	}
	mux := setupMux(sys.Handler(64))
	text := strings.Repeat("revenue ", 32)

	tests := []struct {
		path string
		body string
	}{
		{"/analysis/analyze", `{"text":"` + text + `"}`},
		{"/analysis/compare", `{"text1":"` + text + `","text2":"ok"}`},
		{"/analysis/batch", `{"documents":[{"id":"a","text":"` + text + `"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			called = false
			rec := post(mux, tt.path, tt.body)

			if rec.Code != http.StatusRequestEntityTooLarge {
				t.Fatalf("status = %d, want 413", rec.Code)
			}
			if called {
				t.Error("system called for an oversized body")
			}

			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !strings.Contains(body["error"], "64 B") {
				t.Errorf("error = %q, want the limit named", body["error"])
			}
		})
	}

	t.Run("body under the limit", func(t *testing.T) {
		called = false
		if rec := post(mux, "/analysis/analyze", `{"text":"Revenue grew."}`); rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		if !called {
			t.Error("system not called")
		}
	})
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", fmt.Errorf("wrap: %w", analysis.ErrValidation), http.StatusBadRequest},
		{"invalid request", assessments.ErrInvalidRequest, http.StatusBadRequest},
		{"batch too large", assessments.ErrBatchTooLarge, http.StatusRequestEntityTooLarge},
		{"body too large", assessments.ErrBodyTooLarge, http.StatusRequestEntityTooLarge},
		{"document not found", documents.ErrNotFound, http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := assessments.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestHandlerRoutes(t *testing.T) {
	group := (&mockSystem{}).Handler(1 << 20).Routes()

	if group.Prefix != "/analysis" {
		t.Errorf("prefix = %q, want /analysis", group.Prefix)
	}

	want := []string{"/analyze", "/compare", "/batch", "/documents/{id}"}
	if len(group.Routes) != len(want) {
		t.Fatalf("route count = %d, want %d", len(group.Routes), len(want))
	}
	for i, pattern := range want {
		r := group.Routes[i]
		if r.Method != "POST" || r.Pattern != pattern {
			t.Errorf("route[%d] = %s %s, want POST %s", i, r.Method, r.Pattern, pattern)
		}
		if r.OpenAPI == nil {
			t.Errorf("route[%d] missing OpenAPI operation", i)
		}
	}
}
