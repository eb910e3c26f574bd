package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clinic-server/internal/cache"
	"clinic-server/internal/messaging"
	"clinic-server/internal/models"
	"clinic-server/internal/pagination"
	"clinic-server/internal/repository"
	"clinic-server/internal/service"
	"clinic-server/internal/utils"
)

const dateLayout = "2006-01-02"

// ClientHandler handles client related requests.
type ClientHandler struct {
	repo   repository.ClientRepository
	visits *service.VisitService
	events messaging.Producer
	cache  cache.Client
}

// NewClientHandler creates a new ClientHandler. events and cache may be nil.
func NewClientHandler(repo repository.ClientRepository, visits *service.VisitService, events messaging.Producer, cacheClient cache.Client) *ClientHandler {
	return &ClientHandler{repo: repo, visits: visits, events: events, cache: cacheClient}
}

// CreateClientRequest represents the request body for creating a client.
type CreateClientRequest struct {
	FullName    string `json:"full_name" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	DateOfBirth string `json:"date_of_birth"` // Format: YYYY-MM-DD
}

// UpdateClientRequest represents a partial update; absent fields stay untouched.
type UpdateClientRequest struct {
	FullName    *string `json:"full_name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
}

// ClientResponse represents the client data returned to callers.
type ClientResponse struct {
	ID          string    `json:"id"`
	Surname     string    `json:"surname"`
	Name        string    `json:"name"`
	Patronymic  string    `json:"patronymic,omitempty"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number"`
	DateOfBirth *string   `json:"date_of_birth,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toClientResponse(client *models.Client) ClientResponse {
	resp := ClientResponse{
		ID:          client.ID,
		Surname:     client.Surname,
		Name:        client.Name,
		Patronymic:  client.Patronymic,
		FullName:    client.FullName,
		PhoneNumber: client.PhoneNumber,
		CreatedAt:   client.CreatedAt,
		UpdatedAt:   client.UpdatedAt,
	}
	if client.DateOfBirth != nil {
		dob := client.DateOfBirth.Format(dateLayout)
		resp.DateOfBirth = &dob
	}
	return resp
}

// CreateClient handles POST /clients.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	surname, name, patronymic, err := utils.SplitFullName(req.FullName)
	if err != nil {
		utils.UnprocessableEntity(c, err.Error())
		return
	}

	client := models.Client{
		Surname:     surname,
		Name:        name,
		Patronymic:  patronymic,
		FullName:    utils.JoinFullName(surname, name, patronymic),
		PhoneNumber: req.PhoneNumber,
	}

	if req.DateOfBirth != "" {
		dob, err := time.Parse(dateLayout, req.DateOfBirth)
		if err != nil {
			utils.UnprocessableEntity(c, "Invalid date_of_birth, expected YYYY-MM-DD")
			return
		}
		client.DateOfBirth = &dob
	}

	if err := h.repo.Create(c.Request.Context(), &client); err != nil {
		if errors.Is(err, models.ErrPhoneNumberTaken) {
			utils.Conflict(c, err.Error())
			return
		}
		_ = c.Error(err)
		utils.InternalServerError(c, "Failed to create client: "+err.Error())
		return
	}

	resp := toClientResponse(&client)
	h.publish(messaging.EventClientCreated, client.ID, resp)

	c.JSON(http.StatusCreated, resp)
}

// GetClient handles GET /clients/:id with a read-through cache.
func (h *ClientHandler) GetClient(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		utils.UnprocessableEntity(c, "Invalid client ID format")
		return
	}

	if h.cache != nil {
		if cached, err := h.cache.Get(c.Request.Context(), clientCacheKey(id)); err == nil && cached != "" {
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			return
		}
	}

	client, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			utils.NotFound(c, "Client not found")
			return
		}
		_ = c.Error(err)
		utils.InternalServerError(c, "Failed to fetch client: "+err.Error())
		return
	}

	resp := toClientResponse(client)

	if h.cache != nil {
		if data, err := json.Marshal(resp); err == nil {
			_ = h.cache.Set(c.Request.Context(), clientCacheKey(id), string(data), time.Hour)
		}
	}

	c.JSON(http.StatusOK, resp)
}

// FindClients handles GET /clients?search_substr= (capped substring search).
func (h *ClientHandler) FindClients(c *gin.Context) {
	substr := c.DefaultQuery("search_substr", "")

	clients, err := h.repo.FindBySubstr(c.Request.Context(), substr)
	if err != nil {
		_ = c.Error(err)
		utils.InternalServerError(c, "Failed to search clients: "+err.Error())
		return
	}

	resp := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		resp = append(resp, toClientResponse(&clients[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateClient handles PATCH /clients/:id.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		utils.UnprocessableEntity(c, "Invalid client ID format")
		return
	}

	var req UpdateClientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var patch repository.ClientPatch
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
	patch.PhoneNumber = req.PhoneNumber
	if req.DateOfBirth != nil {
		dob, err := time.Parse(dateLayout, *req.DateOfBirth)
		if err != nil {
			utils.UnprocessableEntity(c, "Invalid date_of_birth, expected YYYY-MM-DD")
			return
		}
		patch.DateOfBirth = &dob
	}

	client, err := h.repo.Update(c.Request.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			utils.NotFound(c, "Client not found")
		case errors.Is(err, models.ErrPhoneNumberTaken):
			utils.Conflict(c, err.Error())
		default:
			_ = c.Error(err)
			utils.InternalServerError(c, "Failed to update client: "+err.Error())
		}
		return
	}

	if h.cache != nil {
		_ = h.cache.Del(c.Request.Context(), clientCacheKey(id))
	}

	resp := toClientResponse(client)
	h.publish(messaging.EventClientUpdated, client.ID, resp)

	c.JSON(http.StatusOK, resp)
}

// ListClientVisits handles GET /clients/:id/visits.
func (h *ClientHandler) ListClientVisits(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		utils.UnprocessableEntity(c, "Invalid client ID format")
		return
	}

	params := pagination.ParseParams(c)
	page, err := h.visits.Search(c.Request.Context(), repository.VisitFilter{ClientID: id}, params)
	if err != nil {
		_ = c.Error(err)
		utils.InternalServerError(c, "Failed to fetch visits: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, toVisitPageResponse(page))
}

func (h *ClientHandler) publish(event, id string, record interface{}) {
	if h.events != nil {
		go messaging.PublishRecordEvent(h.events, event, id, record)
	}
}

func clientCacheKey(id string) string {
	return "client:" + id
}
