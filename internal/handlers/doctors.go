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

// DoctorHandler handles doctor related requests.
type DoctorHandler struct {
	repo   repository.DoctorRepository
	visits *service.VisitService
	events messaging.Producer
}

// NewDoctorHandler creates a new DoctorHandler. events may be nil.
func NewDoctorHandler(repo repository.DoctorRepository, visits *service.VisitService, events messaging.Producer) *DoctorHandler {
	return &DoctorHandler{repo: repo, visits: visits, events: events}
}

// CreateDoctorRequest represents the request body for creating a doctor.
type CreateDoctorRequest struct {
	FullName   string `json:"full_name" binding:"required"`
	Speciality string `json:"speciality" binding:"required"`
}

// UpdateDoctorRequest represents a partial update; absent fields stay untouched.
type UpdateDoctorRequest struct {
	FullName   *string `json:"full_name,omitempty"`
	Speciality *string `json:"speciality,omitempty"`
}

// DoctorResponse represents the doctor data returned to callers.
type DoctorResponse struct {
	ID         string    `json:"id"`
	Surname    string    `json:"surname"`
	Name       string    `json:"name"`
	Patronymic string    `json:"patronymic,omitempty"`
	FullName   string    `json:"full_name"`
	Speciality string    `json:"speciality"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toDoctorResponse(doctor *models.Doctor) DoctorResponse {
	return DoctorResponse{
		ID:         doctor.ID,
		Surname:    doctor.Surname,
		Name:       doctor.Name,
		Patronymic: doctor.Patronymic,
		FullName:   doctor.FullName,
		Speciality: doctor.Speciality,
		CreatedAt:  doctor.CreatedAt,
		UpdatedAt:  doctor.UpdatedAt,
	}
}

// CreateDoctor handles POST /doctors.
func (h *DoctorHandler) CreateDoctor(c *gin.Context) {
	var req CreateDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	surname, name, patronymic, err := utils.SplitFullName(req.FullName)
	if err != nil {
		utils.UnprocessableEntity(c, err.Error())
		return
	}

	doctor := models.Doctor{
		Surname:    surname,
		Name:       name,
		Patronymic: patronymic,
		FullName:   utils.JoinFullName(surname, name, patronymic),
		Speciality: req.Speciality,
	}

	if err := h.repo.Create(c.Request.Context(), &doctor); err != nil {
		_ = c.Error(err)
		utils.InternalServerError(c, "Failed to create doctor: "+err.Error())
		return
	}

	resp := toDoctorResponse(&doctor)
	h.publish(messaging.EventDoctorCreated, doctor.ID, resp)

	c.JSON(http.StatusCreated, resp)
}

// GetDoctor handles GET /doctors/:id.
func (h *DoctorHandler) GetDoctor(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		utils.UnprocessableEntity(c, "Invalid doctor ID format")
		return
	}

	doctor, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			utils.NotFound(c, "Doctor not found")
			return
		}
		_ = c.Error(err)
		utils.InternalServerError(c, "Failed to fetch doctor: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, toDoctorResponse(doctor))
}

// FindDoctors handles GET /doctors?search_substr= (matches full name or
// speciality, capped).
func (h *DoctorHandler) FindDoctors(c *gin.Context) {
	substr := c.DefaultQuery("search_substr", "")

	doctors, err := h.repo.FindBySubstr(c.Request.Context(), substr)
	if err != nil {
		_ = c.Error(err)
		utils.InternalServerError(c, "Failed to search doctors: "+err.Error())
		return
	}

	resp := make([]DoctorResponse, 0, len(doctors))
	for i := range doctors {
		resp = append(resp, toDoctorResponse(&doctors[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateDoctor handles PATCH /doctors/:id.
func (h *DoctorHandler) UpdateDoctor(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		utils.UnprocessableEntity(c, "Invalid doctor ID format")
		return
	}

	var req UpdateDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var patch repository.DoctorPatch
	if req.FullName != nil {
		surname, name, patronymic, err := utils.SplitFullName(*req.FullName)
		if err != nil {
			utils.UnprocessableEntity(c, err.Error())
			return
		}
		fullName := utils.JoinFullName(surname, name, patronymic)
		patch.Surname = &surname
		patch.Name = &name
		patch.Patronymic = &patronymic
		patch.FullName = &fullName
	}
	patch.Speciality = req.Speciality

	doctor, err := h.repo.Update(c.Request.Context(), id, patch)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			utils.NotFound(c, "Doctor not found")
			return
		}
		_ = c.Error(err)
		utils.InternalServerError(c, "Failed to update doctor: "+err.Error())
		return
	}

	resp := toDoctorResponse(doctor)
	h.publish(messaging.EventDoctorUpdated, doctor.ID, resp)

	c.JSON(http.StatusOK, resp)
}

// ListDoctorVisits handles GET /doctors/:id/visits.
func (h *DoctorHandler) ListDoctorVisits(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		utils.UnprocessableEntity(c, "Invalid doctor ID format")
		return
	}

	params := pagination.ParseParams(c)
	page, err := h.visits.Search(c.Request.Context(), repository.VisitFilter{DoctorID: id}, params)
	if err != nil {
		_ = c.Error(err)
		utils.InternalServerError(c, "Failed to fetch visits: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, toVisitPageResponse(page))
}

func (h *DoctorHandler) publish(event, id string, record interface{}) {
	if h.events != nil {
		go messaging.PublishRecordEvent(h.events, event, id, record)
	}
}
