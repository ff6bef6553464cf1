package http

import (
	"net/http"
	"strconv"
	"time"

	"bto-portal-backend/internal/domain"
	"bto-portal-backend/internal/service"

	"github.com/gorilla/mux"
)

const dateLayout = "2006-01-02"

type ProjectHandler struct {
	projectSvc service.ProjectService
}

func NewProjectHandler(projectSvc service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectSvc: projectSvc}
}

type inventoryRequest struct {
	FlatType   string `json:"flat_type"`
	TotalUnits int32  `json:"total_units"`
}

type createProjectRequest struct {
	Name                string             `json:"name"`
	Neighborhood        string             `json:"neighborhood"`
	OpenDate            string             `json:"open_date"`
	CloseDate           string             `json:"close_date"`
	OfficerSlotCapacity int32              `json:"officer_slot_capacity"`
	Inventory           []inventoryRequest `json:"inventory"`
	Visible             bool               `json:"visible"`
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	openDate, err := time.Parse(dateLayout, req.OpenDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "open_date must be YYYY-MM-DD"})
		return
	}
	closeDate, err := time.Parse(dateLayout, req.CloseDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "close_date must be YYYY-MM-DD"})
		return
	}

	project := &domain.Project{
		Name:                req.Name,
		Neighborhood:        req.Neighborhood,
		OpenDate:            openDate,
		CloseDate:           closeDate,
		OfficerSlotCapacity: req.OfficerSlotCapacity,
		Visible:             req.Visible,
	}
	for _, inv := range req.Inventory {
		project.Inventory = append(project.Inventory, domain.FlatTypeInventory{
			FlatType:       domain.FlatType(inv.FlatType),
			TotalUnits:     inv.TotalUnits,
			AvailableUnits: inv.TotalUnits,
		})
	}

	if err := h.projectSvc.CreateProject(r.Context(), callerNRIC(r), project); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	project, err := h.projectSvc.GetProject(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectSvc.ListOpenProjects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectSvc.ListAllProjects(r.Context(), callerNRIC(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

type visibilityRequest struct {
	Visible bool `json:"visible"`
}

func (h *ProjectHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req visibilityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.projectSvc.SetVisibility(r.Context(), callerNRIC(r), id, req.Visible); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"visible": req.Visible})
}

func (h *ProjectHandler) EligibleFlatTypes(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	types, err := h.projectSvc.EligibleFlatTypes(r.Context(), callerNRIC(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if types == nil {
		types = []domain.FlatType{}
	}
	writeJSON(w, http.StatusOK, map[string][]domain.FlatType{"eligible_flat_types": types})
}

// pathID parses the {name} route variable as an int32 id.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int32, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid " + name})
		return 0, false
	}
	return int32(id), true
}
