package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel-frontdesk/models"
	"hotel-frontdesk/repository"
	"hotel-frontdesk/services"
	"hotel-frontdesk/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(svc *services.OrderService) *OrderController {
	return &OrderController{Orders: svc}
}

// POST /api/orders
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req services.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}
	order, err := oc.Orders.RecordOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, order)
}

// GET /api/orders?kind=&status=&room=
func (oc *OrderController) ListOrders(c *gin.Context) {
	filter := repository.OrderFilter{
		Kind:       models.OrderKind(strings.ToLower(statusQuery(c, "kind"))),
		Status:     models.PaymentStatus(statusQuery(c, "status")),
		RoomNumber: strings.TrimSpace(c.Query("room")),
	}
	orders, err := oc.Orders.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONItems(c, http.StatusOK, orders)
}

// GET /api/rooms/:number/unpaid-orders
func (oc *OrderController) UnpaidOrders(c *gin.Context) {
	orders, err := oc.Orders.UnpaidOrdersForRoom(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"items": orders,
		"total": services.OrderTotal(flattenItems(orders)),
	})
}

func flattenItems(orders []models.Order) []models.LineItem {
	var items []models.LineItem
	for _, o := range orders {
		items = append(items, o.Items...)
	}
	return items
}
