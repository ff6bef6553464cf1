package http

import (
	"net/http"
	"strconv"

	"bto-portal-backend/internal/domain"
	"bto-portal-backend/internal/service"

	"github.com/gorilla/mux"
)

type ApplicationHandler struct {
	appSvc service.ApplicationService
}

func NewApplicationHandler(appSvc service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appSvc: appSvc}
}

type applyRequest struct {
	ProjectID int32  `json:"project_id"`
	FlatType  string `json:"flat_type"`
}

func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	app, err := h.appSvc.Apply(r.Context(), callerNRIC(r), req.ProjectID, domain.FlatType(req.FlatType))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

type decisionRequest struct {
	Approve bool `json:"approve"`
}

func (h *ApplicationHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	app, err := h.appSvc.Decide(r.Context(), callerNRIC(r), mux.Vars(r)["id"], req.Approve)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

type bookRequest struct {
	FlatType string `json:"flat_type"`
}

type bookResponse struct {
	Application *domain.Application `json:"application"`
	Flat        *domain.Flat        `json:"flat"`
}

func (h *ApplicationHandler) Book(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if !decodeBody(w, r, &req) {
		return
	}
	app, flat, err := h.appSvc.Book(r.Context(), callerNRIC(r), mux.Vars(r)["id"], domain.FlatType(req.FlatType))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookResponse{Application: app, Flat: flat})
}

func (h *ApplicationHandler) RequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	app, err := h.appSvc.RequestWithdrawal(r.Context(), callerNRIC(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *ApplicationHandler) ResolveWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	app, err := h.appSvc.ResolveWithdrawal(r.Context(), callerNRIC(r), mux.Vars(r)["id"], req.Approve)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	app, err := h.appSvc.GetApplication(r.Context(), callerNRIC(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *ApplicationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	apps, err := h.appSvc.ListMyApplications(r.Context(), callerNRIC(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

type pagedApplicationsResponse struct {
	Applications []domain.Application `json:"applications"`
	Total        int32                `json:"total"`
	Page         int32                `json:"page"`
	PageSize     int32                `json:"page_size"`
}

func (h *ApplicationHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	status := r.URL.Query().Get("status")
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	apps, total, err := h.appSvc.ListProjectApplications(r.Context(), callerNRIC(r), projectID, status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedApplicationsResponse{
		Applications: apps,
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
	})
}

func queryInt32(r *http.Request, name string, def int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v <= 0 {
		return def
	}
	return int32(v)
}
