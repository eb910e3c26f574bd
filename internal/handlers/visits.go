package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clinic-server/internal/messaging"
	"clinic-server/internal/models"
	"clinic-server/internal/pagination"
	"clinic-server/internal/repository"
	"clinic-server/internal/service"
	"clinic-server/internal/utils"
)

// VisitHandler handles visit related requests.
type VisitHandler struct {
	service *service.VisitService
	events  messaging.Producer
}

// NewVisitHandler creates a new VisitHandler. events may be nil.
func NewVisitHandler(svc *service.VisitService, events messaging.Producer) *VisitHandler {
	return &VisitHandler{service: svc, events: events}
}

// CreateVisitRequest represents the request body for creating a visit.
// end_date defaults to start_date + 1 hour, status to UNCONFIRMED.
type CreateVisitRequest struct {
	ClientID  string             `json:"client_id" binding:"required,uuid"`
	DoctorID  string             `json:"doctor_id" binding:"required,uuid"`
	StartDate time.Time          `json:"start_date" binding:"required"`
	EndDate   *time.Time         `json:"end_date"`
	Cabinet   string             `json:"cabinet"`
	Procedure string             `json:"procedure"`
	Cost      *float64           `json:"cost"`
	Status    models.VisitStatus `json:"status" binding:"omitempty,oneof=UNCONFIRMED CONFIRMED PAID"`
}

// UpdateVisitRequest represents a partial update; absent fields stay
// untouched. Any status may transition to any other status.
type UpdateVisitRequest struct {
	ClientID  *string             `json:"client_id,omitempty" binding:"omitempty,uuid"`
	DoctorID  *string             `json:"doctor_id,omitempty" binding:"omitempty,uuid"`
	StartDate *time.Time          `json:"start_date,omitempty"`
	EndDate   *time.Time          `json:"end_date,omitempty"`
	Cabinet   *string             `json:"cabinet,omitempty"`
	Procedure *string             `json:"procedure,omitempty"`
	Cost      *float64            `json:"cost,omitempty"`
	Status    *models.VisitStatus `json:"status,omitempty" binding:"omitempty,oneof=UNCONFIRMED CONFIRMED PAID"`
}

// VisitResponse represents the visit data returned to callers.
type VisitResponse struct {
	ID         string             `json:"id"`
	ClientID   string             `json:"client_id"`
	DoctorID   string             `json:"doctor_id"`
	StartDate  time.Time          `json:"start_date"`
	EndDate    time.Time          `json:"end_date"`
	Cabinet    string             `json:"cabinet,omitempty"`
	Procedure  string             `json:"procedure,omitempty"`
	Cost       *float64           `json:"cost,omitempty"`
	Status     models.VisitStatus `json:"status"`
	ClientName string             `json:"client_name"`
	DoctorName string             `json:"doctor_name"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// VisitPageResponse is one page of a filtered visit listing. total and
// total_cost describe the whole filtered set, not the page.
type VisitPageResponse struct {
	Total     int64           `json:"total"`
	Limit     int             `json:"limit"`
	Offset    int             `json:"offset"`
	Items     []VisitResponse `json:"items"`
	TotalCost float64         `json:"total_cost"`
}

func toVisitResponse(visit *models.Visit) VisitResponse {
	return VisitResponse{
		ID:         visit.ID,
		ClientID:   visit.ClientID,
		DoctorID:   visit.DoctorID,
		StartDate:  visit.StartDate,
		EndDate:    visit.EndDate,
		Cabinet:    visit.Cabinet,
		Procedure:  visit.Procedure,
		Cost:       visit.Cost,
		Status:     visit.Status,
		ClientName: visit.Client.FullName,
		DoctorName: visit.Doctor.FullName,
		CreatedAt:  visit.CreatedAt,
		UpdatedAt:  visit.UpdatedAt,
	}
}

func toVisitPageResponse(page *service.VisitPage) VisitPageResponse {
	items := make([]VisitResponse, 0, len(page.Visits))
	for i := range page.Visits {
		items = append(items, toVisitResponse(&page.Visits[i]))
	}
	return VisitPageResponse{
		Total:     page.Total,
		Limit:     page.Limit,
		Offset:    page.Offset,
		Items:     items,
		TotalCost: page.TotalCost,
	}
}

// ListVisits handles GET /visits with the combinable filter set.
func (h *VisitHandler) ListVisits(c *gin.Context) {
	filter, ok := parseVisitFilter(c)
	if !ok {
		return
	}

	params := pagination.ParseParams(c)
	page, err := h.service.Search(c.Request.Context(), filter, params)
	if err != nil {
		_ = c.Error(err)
		utils.InternalServerError(c, "Failed to fetch visits: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, toVisitPageResponse(page))
}

// CreateVisit handles POST /visits.
func (h *VisitHandler) CreateVisit(c *gin.Context) {
	var req CreateVisitRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	visit := models.Visit{
		ClientID:  req.ClientID,
		DoctorID:  req.DoctorID,
		StartDate: req.StartDate,
		Cabinet:   req.Cabinet,
		Procedure: req.Procedure,
		Cost:      req.Cost,
		Status:    req.Status,
	}
	if req.EndDate != nil {
		visit.EndDate = *req.EndDate
	}

	if err := h.service.Create(c.Request.Context(), &visit); err != nil {
		if errors.Is(err, models.ErrInvalidReference) {
			utils.UnprocessableEntity(c, err.Error())
			return
		}
		_ = c.Error(err)
		utils.InternalServerError(c, "Failed to create visit: "+err.Error())
		return
	}

	// Reload to pick up the preloaded client and doctor names.
	created, err := h.service.GetByID(c.Request.Context(), visit.ID)
	if err != nil {
		_ = c.Error(err)
		utils.InternalServerError(c, "Failed to fetch created visit: "+err.Error())
		return
	}

	resp := toVisitResponse(created)
	h.publish(messaging.EventVisitCreated, created.ID, resp)

	c.JSON(http.StatusCreated, resp)
}

// GetVisit handles GET /visits/:id.
func (h *VisitHandler) GetVisit(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		utils.UnprocessableEntity(c, "Invalid visit ID format")
		return
	}

	visit, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			utils.NotFound(c, "Visit not found")
			return
		}
		_ = c.Error(err)
		utils.InternalServerError(c, "Failed to fetch visit: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, toVisitResponse(visit))
}

// UpdateVisit handles PATCH /visits/:id.
func (h *VisitHandler) UpdateVisit(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		utils.UnprocessableEntity(c, "Invalid visit ID format")
		return
	}

	var req UpdateVisitRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patch := repository.VisitPatch{
		ClientID:  req.ClientID,
		DoctorID:  req.DoctorID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Cabinet:   req.Cabinet,
		Procedure: req.Procedure,
		Cost:      req.Cost,
		Status:    req.Status,
	}

	visit, err := h.service.Update(c.Request.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			utils.NotFound(c, "Visit not found")
		case errors.Is(err, models.ErrInvalidReference):
			utils.UnprocessableEntity(c, err.Error())
		default:
			_ = c.Error(err)
			utils.InternalServerError(c, "Failed to update visit: "+err.Error())
		}
		return
	}

	resp := toVisitResponse(visit)
	h.publish(messaging.EventVisitUpdated, visit.ID, resp)

	c.JSON(http.StatusOK, resp)
}

// DeleteVisit handles DELETE /visits/:id. Deleting an id that does not
// exist still returns 204.
func (h *VisitHandler) DeleteVisit(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		utils.UnprocessableEntity(c, "Invalid visit ID format")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		utils.InternalServerError(c, "Failed to delete visit: "+err.Error())
		return
	}

	h.publish(messaging.EventVisitDeleted, id, nil)

	c.Status(http.StatusNoContent)
}

// parseVisitFilter reads the optional search specification from the query
// string; every field is independently combinable.
func parseVisitFilter(c *gin.Context) (repository.VisitFilter, bool) {
	var filter repository.VisitFilter

	if clientID := c.Query("client_id"); clientID != "" {
		if _, err := uuid.Parse(clientID); err != nil {
			utils.UnprocessableEntity(c, "Invalid client_id format")
			return filter, false
		}
		filter.ClientID = clientID
	}
	if doctorID := c.Query("doctor_id"); doctorID != "" {
		if _, err := uuid.Parse(doctorID); err != nil {
			utils.UnprocessableEntity(c, "Invalid doctor_id format")
			return filter, false
		}
		filter.DoctorID = doctorID
	}
	if startDate := c.Query("start_date"); startDate != "" {
		t, err := parseTimeParam(startDate)
		if err != nil {
			utils.UnprocessableEntity(c, "Invalid start_date, expected RFC3339 or YYYY-MM-DD")
			return filter, false
		}
		filter.StartDate = &t
	}
	if endDate := c.Query("end_date"); endDate != "" {
		t, err := parseTimeParam(endDate)
		if err != nil {
			utils.UnprocessableEntity(c, "Invalid end_date, expected RFC3339 or YYYY-MM-DD")
			return filter, false
		}
		filter.EndDate = &t
	}
	filter.Cabinet = c.Query("cabinet")
	filter.Procedure = c.Query("procedure")
	if status := c.Query("status"); status != "" {
		switch models.VisitStatus(status) {
		case models.StatusUnconfirmed, models.StatusConfirmed, models.StatusPaid:
			filter.Status = models.VisitStatus(status)
		default:
			utils.UnprocessableEntity(c, "Invalid status: "+status)
			return filter, false
		}
	}

	return filter, true
}

func parseTimeParam(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse(dateLayout, value)
}

func (h *VisitHandler) publish(event, id string, record interface{}) {
	if h.events != nil {
		go messaging.PublishRecordEvent(h.events, event, id, record)
	}
}
