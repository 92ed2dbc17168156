package http

import (
	"encoding/json"
	"net/http"

	"github.com/Notifuse/blockeditor/internal/domain"
	"github.com/Notifuse/blockeditor/internal/http/middleware"
	"github.com/Notifuse/blockeditor/pkg/blocks"
	"github.com/Notifuse/blockeditor/pkg/logger"
)

type EditorHandler struct {
	service      domain.EditorService
	logger       logger.Logger
	getJWTSecret func() ([]byte, error)
}

func NewEditorHandler(service domain.EditorService, getJWTSecret func() ([]byte, error), logger logger.Logger) *EditorHandler {
	return &EditorHandler{
		service:      service,
		logger:       logger,
		getJWTSecret: getJWTSecret,
	}
}

func (h *EditorHandler) RegisterRoutes(mux *http.ServeMux) {
	authMiddleware := middleware.NewAuthMiddleware(h.getJWTSecret)
	requireAuth := authMiddleware.RequireAuth()

	mux.Handle("/api/documents.create", requireAuth(http.HandlerFunc(h.handleCreateDocument)))
	mux.Handle("/api/documents.get", requireAuth(http.HandlerFunc(h.handleGetDocument)))
	mux.Handle("/api/documents.list", requireAuth(http.HandlerFunc(h.handleListDocuments)))
	mux.Handle("/api/documents.validate", requireAuth(http.HandlerFunc(h.handleValidateDocument)))

	mux.Handle("/api/blocks.duplicate", requireAuth(http.HandlerFunc(h.handleDuplicateBlock)))
	mux.Handle("/api/blocks.delete", requireAuth(http.HandlerFunc(h.handleDeleteBlock)))
	mux.Handle("/api/blocks.move", requireAuth(http.HandlerFunc(h.handleMoveBlock)))
	mux.Handle("/api/blocks.insert", requireAuth(http.HandlerFunc(h.handleInsertBlock)))
	mux.Handle("/api/blocks.palette", requireAuth(http.HandlerFunc(h.handlePalette)))

	mux.Handle("/api/selection.get", requireAuth(http.HandlerFunc(h.handleGetSelection)))
}

// decodeBody reads a JSON request body, answering 400 itself on failure
func (h *EditorHandler) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func (h *EditorHandler) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.CreateDocumentRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	doc, err := req.Validate()
	if err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.CreateDocument(r.Context(), doc); err != nil {
		writeServiceError(w, h.logger, err, "Failed to create document")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"document": doc,
	})
}

func (h *EditorHandler) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.GetDocumentRequest
	if err := req.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := h.service.GetDocument(r.Context(), req.ID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get document")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"document": doc,
	})
}

func (h *EditorHandler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.ListDocumentsRequest
	if err := req.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.ListDocuments(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to list documents")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleValidateDocument checks a stored document (GET ?id=) or a posted one
func (h *EditorHandler) handleValidateDocument(w http.ResponseWriter, r *http.Request) {
	var req domain.ValidateDocumentRequest
	switch r.Method {
	case http.MethodGet:
		if err := req.FromURLParams(r.URL.Query()); err != nil {
			WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
	case http.MethodPost:
		if !h.decodeBody(w, r, &req) {
			return
		}
	default:
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report, err := h.service.ValidateDocument(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to validate document")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"report": report,
	})
}

func (h *EditorHandler) handleDuplicateBlock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.DuplicateBlockRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	result, err := h.service.DuplicateBlock(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to duplicate block")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *EditorHandler) handleDeleteBlock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.DeleteBlockRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	result, err := h.service.DeleteBlock(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to delete block")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *EditorHandler) handleMoveBlock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.MoveBlockRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	result, err := h.service.MoveBlock(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to move block")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *EditorHandler) handleInsertBlock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.InsertBlockRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	result, err := h.service.InsertBlock(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to insert block")
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *EditorHandler) handlePalette(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": blocks.Palette(),
	})
}

func (h *EditorHandler) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.GetSelectionRequest
	if err := req.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	selection, err := h.service.GetSelection(r.Context(), req.DocumentID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get selection")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"selection": selection,
	})
}
