package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-frontdesk/services"
	"hotel-frontdesk/utils"
)

// statusFor maps an engine error kind to its HTTP status.
func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindRoomAlreadyOccupied,
		services.KindRoomNotOccupied,
		services.KindNoActiveStay,
		services.KindAlreadyPaid:
		return http.StatusConflict
	case services.KindLockTimeout:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	kind := services.KindOf(err)
	code := statusFor(kind)
	_ = c.Error(err)

	message := err.Error()
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		message = verr.Field + " " + verr.Reason
	case code == http.StatusInternalServerError:
		// storage errors stay in the logs
		message = "internal error"
	}
	utils.JSONError(c, code, string(kind), message)
}

// ---------------------------
// Helper: bad JSON body
// ---------------------------
func respondBadBody(c *gin.Context, err error) {
	_ = c.Error(err)
	utils.JSONError(c, http.StatusBadRequest, string(services.KindValidation), "invalid request body: "+err.Error())
}

// statusQuery treats "All" (the desk filter default) as no filter.
func statusQuery(c *gin.Context, key string) string {
	v := c.Query(key)
	if v == "All" || v == "all" {
		return ""
	}
	return v
}
