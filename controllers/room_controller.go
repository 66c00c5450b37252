package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-frontdesk/models"
	"hotel-frontdesk/services"
	"hotel-frontdesk/utils"
)

type RoomController struct {
	Rooms *services.RoomService
}

func NewRoomController(svc *services.RoomService) *RoomController {
	return &RoomController{Rooms: svc}
}

// ----------------------------------------------------
// GET /api/rooms?status=All|Available|Occupied
// ----------------------------------------------------

func (rc *RoomController) GetRooms(c *gin.Context) {
	ctx := c.Request.Context()
	rooms, err := rc.Rooms.List(ctx, models.RoomStatus(statusQuery(c, "status")))
	if err != nil {
		respondError(c, err)
		return
	}
	// counts always cover the whole catalog so the filter tabs can show them
	counts, err := rc.Rooms.Counts(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"items": rooms, "counts": counts})
}

// ----------------------------------------------------
// GET /api/rooms/:number
// ----------------------------------------------------

func (rc *RoomController) GetRoom(c *gin.Context) {
	room, err := rc.Rooms.Get(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

type roomTypeView struct {
	Type models.RoomType `json:"type"`
	Rate string          `json:"rate"`
}

// ----------------------------------------------------
// GET /api/room-types
// ----------------------------------------------------

func (rc *RoomController) GetRoomTypes(c *gin.Context) {
	types := make([]roomTypeView, 0, len(models.RoomTypes))
	for _, t := range models.RoomTypes {
		types = append(types, roomTypeView{Type: t, Rate: t.DefaultRate().String()})
	}
	utils.JSONItems(c, http.StatusOK, types)
}
