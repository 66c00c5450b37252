package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-frontdesk/models"
	"hotel-frontdesk/services"
	"hotel-frontdesk/utils"
)

type BillController struct {
	Bills *services.BillService
}

func NewBillController(svc *services.BillService) *BillController {
	return &BillController{Bills: svc}
}

// GET /api/bills?status=Paid|Unpaid
func (bc *BillController) ListBills(c *gin.Context) {
	bills, err := bc.Bills.List(c.Request.Context(), models.PaymentStatus(statusQuery(c, "status")))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONItems(c, http.StatusOK, bills)
}

// GET /api/bills/:id
func (bc *BillController) GetBill(c *gin.Context) {
	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	bill, err := bc.Bills.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bill)
}

// POST /api/bills/:id/pay {mode}
func (bc *BillController) PayBill(c *gin.Context) {
	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	var req services.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}
	bill, err := bc.Bills.MarkPaid(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bill)
}
