package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/w-h-a/docchat"
)

func NewRouter(app *docchat.DocChat) http.Handler {
	h := NewHandler(app)

	r := mux.NewRouter()

	r.HandleFunc("/", h.Root).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	r.HandleFunc("/api/v1/ingest", h.Ingest).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/chat", h.Chat).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/documents", h.ListDocuments).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/documents/{id}", h.GetDocument).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/sessions/{id}/history", h.SessionHistory).Methods(http.MethodGet)

	return r
}
