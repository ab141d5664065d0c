package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/tropicaldog17/rwa/internal/models"
	"github.com/tropicaldog17/rwa/internal/services"
)

type DocumentHandler struct {
	service services.DocumentService
}

func NewDocumentHandler(service services.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// RegisterRoutes mounts the document API on r.
func (h *DocumentHandler) RegisterRoutes(r *mux.Router) {
	api := r.PathPrefix("/api/documents").Subrouter()
	api.HandleFunc("", h.HandleListDocuments).Methods(http.MethodGet)
	api.HandleFunc("", h.HandleCreateDocument).Methods(http.MethodPost)
	api.HandleFunc("/{id}", h.HandleGetDocument).Methods(http.MethodGet)
	api.HandleFunc("/{id}/operations", h.HandleListOperations).Methods(http.MethodGet)
	api.HandleFunc("/{id}/operations", h.HandleApplyOperation).Methods(http.MethodPost)
	api.HandleFunc("/{id}/undo", h.HandleUndo).Methods(http.MethodPost)
	api.HandleFunc("/{id}/current-values", h.HandleCurrentValues).Methods(http.MethodGet)
}

type createDocumentRequest struct {
	Name  string        `json:"name"`
	State *models.State `json:"state"`
}

// HandleListDocuments handles GET /api/documents
// @Summary List documents
// @Tags documents
// @Produce json
// @Success 200 {array} models.DocumentSummary
// @Router /documents [get]
func (h *DocumentHandler) HandleListDocuments(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListDocuments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []*models.DocumentSummary{}
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleCreateDocument handles POST /api/documents
// @Summary Create a document
// @Description Start a portfolio document from an empty or given state
// @Tags documents
// @Accept json
// @Produce json
// @Success 201 {object} models.Document
// @Failure 400 {object} errorResponse
// @Router /documents [post]
func (h *DocumentHandler) HandleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	doc, err := h.service.CreateDocument(r.Context(), req.Name, req.State)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// HandleGetDocument handles GET /api/documents/{id}
// @Summary Get a document with its latest state
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} models.Document
// @Failure 404 {object} errorResponse
// @Router /documents/{id} [get]
func (h *DocumentHandler) HandleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.GetDocument(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// HandleListOperations handles GET /api/documents/{id}/operations
// @Summary List the operation log of a document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {array} models.OperationRecord
// @Router /documents/{id}/operations [get]
func (h *DocumentHandler) HandleListOperations(w http.ResponseWriter, r *http.Request) {
	ops, err := h.service.ListOperations(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	if ops == nil {
		ops = []*models.OperationRecord{}
	}
	writeJSON(w, http.StatusOK, ops)
}

// HandleApplyOperation handles POST /api/documents/{id}/operations
// @Summary Apply one ledger operation
// @Description Body is {"type": "CREATE_GROUP_TRANSACTION", "input": {...}}
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} models.Document
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /documents/{id}/operations [post]
func (h *DocumentHandler) HandleApplyOperation(w http.ResponseWriter, r *http.Request) {
	var op models.Operation
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if op.Type == "" {
		writeMessage(w, http.StatusBadRequest, "Operation type is required")
		return
	}
	doc, err := h.service.ApplyOperation(r.Context(), mux.Vars(r)["id"], op)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// HandleUndo handles POST /api/documents/{id}/undo
// @Summary Undo the last operation
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} models.Document
// @Router /documents/{id}/undo [post]
func (h *DocumentHandler) HandleUndo(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Undo(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// HandleCurrentValues handles GET /api/documents/{id}/current-values
// @Summary Current value of each fixed income asset
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Param date query string false "Valuation date (YYYY-MM-DD), defaults to today"
// @Success 200 {array} models.AssetValue
// @Router /documents/{id}/current-values [get]
func (h *DocumentHandler) HandleCurrentValues(w http.ResponseWriter, r *http.Request) {
	at := time.Now().UTC()
	if v := r.URL.Query().Get("date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD")
			return
		}
		at = t
	}
	values, err := h.service.CurrentValues(r.Context(), mux.Vars(r)["id"], at)
	if err != nil {
		writeError(w, err)
		return
	}
	if values == nil {
		values = []models.AssetValue{}
	}
	writeJSON(w, http.StatusOK, values)
}
