package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hubenschmidt/go-docqa/core"
	"github.com/hubenschmidt/go-docqa/loader"
	"github.com/hubenschmidt/go-docqa/server/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Status())
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("file exceeds %d bytes", s.maxUpload))
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse form: %w", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("missing file field"))
		return
	}
	defer file.Close()

	if !loader.Supported(header.Filename) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, filepath.Ext(header.Filename)))
		return
	}

	// Parsers work on file paths, so spool the upload to a temp file.
	tmp, err := os.CreateTemp("", "docqa-upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("create temp file: %w", err))
		return
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("save upload: %w", err))
		return
	}

	result, err := s.engine.Ingest(r.Context(), tmp.Name(), header.Filename)
	if err != nil {
		s.log.Warn("upload failed", zap.String("filename", header.Filename), zap.Error(err))
		writeError(w, statusForError(err), err)
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		DocumentID: result.DocumentID,
		Filename:   result.Filename,
		ChunkCount: result.ChunkCount,
		EmbedModel: result.EmbedModel,
		ElapsedMs:  result.ElapsedMs,
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, core.ErrEmptyQuestion)
		return
	}

	if req.Stream {
		s.handleAskStream(w, r, req)
		return
	}

	ctx, cancel := contextWithAskTimeout(r)
	defer cancel()

	start := time.Now()
	answer, err := s.engine.Ask(ctx, req.Question, req.TopK)
	if err != nil {
		s.recordAsk(req.Question, "", 0, 0, 0, 0, time.Since(start), "error")
		writeError(w, statusForError(err), err)
		return
	}

	topScore := 0.0
	if len(answer.Sources) > 0 {
		topScore = answer.Sources[0].Score
	}
	s.recordAsk(req.Question, answer.Text, len(answer.Sources), topScore,
		answer.Usage.PromptTokens, answer.Usage.CompletionTokens,
		time.Duration(answer.ElapsedMs)*time.Millisecond, "success")

	writeJSON(w, http.StatusOK, AskResponse{
		Answer:  answer.Text,
		Sources: answer.Sources,
		Metadata: Metadata{
			Model:        answer.Model,
			InputTokens:  answer.Usage.PromptTokens,
			OutputTokens: answer.Usage.CompletionTokens,
			ElapsedMs:    answer.ElapsedMs,
		},
	})
}

func (s *Server) handleAskStream(w http.ResponseWriter, r *http.Request, req AskRequest) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("streaming not supported"))
		return
	}

	ctx, cancel := contextWithAskTimeout(r)
	defer cancel()

	start := time.Now()
	ch, sources, err := s.engine.AskStream(ctx, req.Question, req.TopK)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}

	// Headers go out only after retrieval succeeded, so errors up to this
	// point still map to proper status codes.
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	writeSSE(w, flusher, "sources", map[string]any{"sources": sources})

	var answerText string
	var tokensIn, tokensOut int
	status := "success"
	for chunk := range ch {
		if chunk.Error != nil {
			status = "error"
			writeSSE(w, flusher, "stream", map[string]any{"content": "Error: " + chunk.Error.Error()})
			break
		}
		if chunk.Content != "" {
			answerText += chunk.Content
			writeSSE(w, flusher, "stream", map[string]any{"content": chunk.Content})
		}
		if chunk.Done {
			if chunk.Usage != nil {
				tokensIn = chunk.Usage.PromptTokens
				tokensOut = chunk.Usage.CompletionTokens
			}
			break
		}
	}

	elapsed := time.Since(start)
	writeSSE(w, flusher, "end", map[string]any{
		"metadata": Metadata{
			InputTokens:  tokensIn,
			OutputTokens: tokensOut,
			ElapsedMs:    elapsed.Milliseconds(),
		},
	})

	topScore := 0.0
	if len(sources) > 0 {
		topScore = sources[0].Score
	}
	s.recordAsk(req.Question, answerText, len(sources), topScore, tokensIn, tokensOut, elapsed, status)
}

func (s *Server) recordAsk(question, answer string, sourceCount int, topScore float64, tokensIn, tokensOut int, elapsed time.Duration, status string) {
	st := s.engine.Status()
	rec := store.AskRecord{
		ID:           uuid.NewString(),
		Timestamp:    time.Now().UnixMilli(),
		DocumentID:   st.DocumentID,
		Filename:     st.Filename,
		Question:     question,
		Answer:       answer,
		SourceCount:  sourceCount,
		TopScore:     topScore,
		InputTokens:  tokensIn,
		OutputTokens: tokensOut,
		ElapsedMs:    elapsed.Milliseconds(),
		Status:       status,
	}

	// History writes are best-effort; an unavailable store must not fail
	// the answer.
	ctx, cancel := contextWithTimeout(5 * time.Second)
	defer cancel()
	if err := s.history.Add(ctx, rec); err != nil {
		s.log.Warn("record history", zap.Error(err))
	}
}

func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	records, err := s.history.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, HistoryListResponse{Records: records})
}

func (s *Server) handleHistoryGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, err := s.history.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleHistoryDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.history.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleMetricsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.history.Summary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	m := s.engine.Metrics()
	writeJSON(w, http.StatusOK, MetricsResponse{
		DocumentsIngested: m.Ingest.Documents,
		ChunksIndexed:     m.Ingest.Chunks,
		QuestionsAnswered: m.Ask.Questions,
		QuestionFailures:  m.Ask.Failures,
		TokensIn:          m.Ask.TokensIn,
		TokensOut:         m.Ask.TokensOut,
		AvgAskLatencyMs:   m.AvgAskLatencyMs(),
		History:           summary,
	})
}

const askTimeout = 120 * time.Second

func contextWithAskTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), askTimeout)
}

func contextWithTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

func writeSSE(w http.ResponseWriter, flusher http.Flusher, eventType string, data map[string]any) {
	if data == nil {
		data = make(map[string]any)
	}
	data["type"] = eventType
	jsonData, _ := json.Marshal(data)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
	flusher.Flush()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// statusForError maps pipeline errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, core.ErrNoDocument):
		return http.StatusConflict
	case errors.Is(err, core.ErrUnsupportedFormat),
		errors.Is(err, core.ErrEmptyDocument),
		errors.Is(err, core.ErrEmptyQuestion):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrEmbeddingFailed),
		errors.Is(err, core.ErrLLMRequest):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
