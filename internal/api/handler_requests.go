package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"concierge-backend/internal/apperr"
	"concierge-backend/internal/guestreq"
	"concierge-backend/internal/model"
)

type requestWrite struct {
	HotelID     *int64     `json:"hotelId"`
	RoomID      *int64     `json:"roomId"`
	AssigneeID  *int64     `json:"assigneeId"`
	Type        string     `json:"type"`
	Message     *string    `json:"message"`
	Status      string     `json:"status"`
	CreatedAt   *time.Time `json:"createdAt"`
	AcceptedAt  *time.Time `json:"acceptedAt"`
	CompletedAt *time.Time `json:"completedAt"`
	Rating      *int       `json:"rating"`
	Comments    *string    `json:"comments"`
}

// toInput maps a blank status to NEW.
func (r requestWrite) toInput() (guestreq.WriteInput, error) {
	status := model.RequestStatusNew
	if s := strings.TrimSpace(r.Status); s != "" {
		parsed, ok := model.ParseRequestStatus(strings.ToUpper(s))
		if !ok {
			return guestreq.WriteInput{}, apperr.Validationf("unknown status %q", r.Status)
		}
		status = parsed
	}
	return guestreq.WriteInput{
		HotelID:     r.HotelID,
		RoomID:      r.RoomID,
		AssigneeID:  r.AssigneeID,
		Type:        model.ParseRequestType(r.Type),
		Message:     r.Message,
		Status:      status,
		CreatedAt:   r.CreatedAt,
		AcceptedAt:  r.AcceptedAt,
		CompletedAt: r.CompletedAt,
		Rating:      r.Rating,
		Comments:    r.Comments,
	}, nil
}

// ListRequests handles GET /api/requests.
func (h *Handler) ListRequests(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	requests, err := h.requests.List(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(requests, newRequestResponse))
}

func (h *Handler) GetRequest(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	req, err := h.requests.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRequestResponse(req))
}

func (h *Handler) CreateRequest(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var body requestWrite
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	in, err := body.toInput()
	if err != nil {
		respondError(c, err)
		return
	}
	req, err := h.requests.Create(c.Request.Context(), actor, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRequestResponse(req))
}

func (h *Handler) UpdateRequest(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var body requestWrite
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	in, err := body.toInput()
	if err != nil {
		respondError(c, err)
		return
	}
	req, err := h.requests.Update(c.Request.Context(), actor, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRequestResponse(req))
}

func (h *Handler) DeleteRequest(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.requests.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
