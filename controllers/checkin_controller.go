package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-frontdesk/models"
	"hotel-frontdesk/services"
	"hotel-frontdesk/utils"
)

type CheckInController struct {
	Occupancy *services.OccupancyService
}

func NewCheckInController(svc *services.OccupancyService) *CheckInController {
	return &CheckInController{Occupancy: svc}
}

// POST /api/checkins
func (cc *CheckInController) CheckIn(c *gin.Context) {
	var req services.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}
	stay, err := cc.Occupancy.CheckIn(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, stay)
}

// GET /api/checkins?status=Occupied|Closed
func (cc *CheckInController) ListStays(c *gin.Context) {
	stays, err := cc.Occupancy.ListStays(c.Request.Context(), models.StayStatus(statusQuery(c, "status")))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONItems(c, http.StatusOK, stays)
}

// GET /api/checkins/:room
func (cc *CheckInController) GetActiveStay(c *gin.Context) {
	stay, err := cc.Occupancy.ActiveStay(c.Request.Context(), c.Param("room"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stay)
}
