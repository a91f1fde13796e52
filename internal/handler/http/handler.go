package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/w-h-a/docchat"
	"github.com/w-h-a/docchat/chunker"
	"github.com/w-h-a/docchat/docstore"
	"github.com/w-h-a/docchat/extractor"
	"github.com/w-h-a/docchat/history"
	"github.com/w-h-a/docchat/internal/service/chat"
	"github.com/w-h-a/docchat/internal/service/ingest"
)

const (
	welcomeMessage = "Welcome to the RAG Application! Server is running."

	maxUploadBytes = 32 << 20
)

type Handler struct {
	app *docchat.DocChat
}

type chatRequest struct {
	SessionId string `json:"session_id"`
	UserQuery string `json:"user_query"`
}

type ingestResponse struct {
	Status           string `json:"status"`
	Message          string `json:"message"`
	DocumentId       string `json:"document_id"`
	ChunkingStrategy string `json:"chunking_strategy"`
	NumChunks        int    `json:"num_chunks"`
}

type historyResponse struct {
	SessionId string         `json:"session_id"`
	Turns     []history.Turn `json:"turns"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": welcomeMessage})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart form: %v", err))
		return
	}

	strategy := r.FormValue("chunking_strategy")
	if _, err := chunker.ParseStrategy(strategy); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid chunking strategy. Choose 'fixed' or 'recursive'.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	text, err := extractor.Extract(ctx, extractor.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Reader:      file,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.app.Ingest(ctx, text, header.Filename, strategy)
	if err != nil {
		if errors.Is(err, chunker.ErrInvalidStrategy) || errors.Is(err, ingest.ErrEmptyDocument) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(ctx, "failed to ingest document", "filename", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to ingest document")
		return
	}

	writeJSON(w, http.StatusOK, ingestResponse{
		Status:           "success",
		Message:          fmt.Sprintf("Document '%s' ingested successfully.", result.Filename),
		DocumentId:       result.DocumentId,
		ChunkingStrategy: result.Strategy,
		NumChunks:        result.NumChunks,
	})
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	rsp, err := h.app.HandleQuery(r.Context(), req.SessionId, req.UserQuery)
	if err != nil {
		if errors.Is(err, chat.ErrSessionRequired) || errors.Is(err, chat.ErrQueryRequired) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "failed to handle query", "session", req.SessionId, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to handle query")
		return
	}

	writeJSON(w, http.StatusOK, rsp)
}

func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.app.Documents(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list documents", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	doc, err := h.app.Document(r.Context(), id)
	if errors.Is(err, docstore.ErrNotFound) {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to get document", "document", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get document")
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) SessionHistory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	writeJSON(w, http.StatusOK, historyResponse{
		SessionId: id,
		Turns:     h.app.History(r.Context(), id),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func NewHandler(app *docchat.DocChat) *Handler {
	return &Handler{
		app: app,
	}
}
