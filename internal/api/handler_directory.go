package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"concierge-backend/internal/directory"
)

type groupRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code"`
}

type hotelRequest struct {
	HotelGroupID *int64 `json:"hotelGroupId"`
	Name         string `json:"name" binding:"required"`
	Code         string `json:"code"`
	City         string `json:"city"`
	Country      string `json:"country"`
}

func (r hotelRequest) toInput() directory.HotelInput {
	return directory.HotelInput{GroupID: r.HotelGroupID, Name: r.Name, Code: r.Code, City: r.City, Country: r.Country}
}

type roomRequest struct {
	HotelID *int64 `json:"hotelId"`
	Number  string `json:"number" binding:"required"`
	Floor   *int   `json:"floor"`
}

func (r roomRequest) toInput() directory.RoomInput {
	return directory.RoomInput{HotelID: r.HotelID, Number: r.Number, Floor: r.Floor}
}

// ListHotelGroups handles GET /api/hotel-groups.
func (h *Handler) ListHotelGroups(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	groups, err := h.directory.ListGroups(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(groups, newGroupResponse))
}

func (h *Handler) GetHotelGroup(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	g, err := h.directory.GetGroup(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGroupResponse(g))
}

func (h *Handler) CreateHotelGroup(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	g, err := h.directory.CreateGroup(c.Request.Context(), actor, directory.GroupInput{Name: req.Name, Code: req.Code})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newGroupResponse(g))
}

func (h *Handler) UpdateHotelGroup(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	g, err := h.directory.UpdateGroup(c.Request.Context(), actor, id, directory.GroupInput{Name: req.Name, Code: req.Code})
	if err != nil {
		respondError(c, err)
		return
	}
	h.purgeGuestPages()
	c.JSON(http.StatusOK, newGroupResponse(g))
}

func (h *Handler) DeleteHotelGroup(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.directory.DeleteGroup(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	h.purgeGuestPages()
	c.Status(http.StatusNoContent)
}

// ListHotels handles GET /api/hotels.
func (h *Handler) ListHotels(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	hotels, err := h.directory.ListHotels(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(hotels, newHotelResponse))
}

func (h *Handler) GetHotel(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	hotel, err := h.directory.GetHotel(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newHotelResponse(hotel))
}

func (h *Handler) CreateHotel(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req hotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	hotel, err := h.directory.CreateHotel(c.Request.Context(), actor, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newHotelResponse(hotel))
}

func (h *Handler) UpdateHotel(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req hotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	hotel, err := h.directory.UpdateHotel(c.Request.Context(), actor, id, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	h.purgeGuestPages()
	c.JSON(http.StatusOK, newHotelResponse(hotel))
}

func (h *Handler) DeleteHotel(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.directory.DeleteHotel(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	h.purgeGuestPages()
	c.Status(http.StatusNoContent)
}

// ListRooms handles GET /api/rooms.
func (h *Handler) ListRooms(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	rooms, err := h.directory.ListRooms(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(rooms, newRoomResponse))
}

func (h *Handler) GetRoom(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	room, err := h.directory.GetRoom(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoomResponse(room))
}

func (h *Handler) CreateRoom(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	room, err := h.directory.CreateRoom(c.Request.Context(), actor, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRoomResponse(room))
}

func (h *Handler) UpdateRoom(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	room, err := h.directory.UpdateRoom(c.Request.Context(), actor, id, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	h.purgeGuestPages()
	c.JSON(http.StatusOK, newRoomResponse(room))
}

func (h *Handler) DeleteRoom(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.directory.DeleteRoom(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	h.purgeGuestPages()
	c.Status(http.StatusNoContent)
}
