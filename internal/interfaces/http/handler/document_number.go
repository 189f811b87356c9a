package handler

import (
	numberingapp "github.com/backoffice/backend/internal/application/numbering"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DocumentNumberHandler serves document number assignment for sales orders
type DocumentNumberHandler struct {
	BaseHandler
	numberService *numberingapp.DocumentNumberService
}

// NewDocumentNumberHandler creates a new DocumentNumberHandler
func NewDocumentNumberHandler(numberService *numberingapp.DocumentNumberService) *DocumentNumberHandler {
	return &DocumentNumberHandler{numberService: numberService}
}

// RegisterRoutes registers document number routes
func (h *DocumentNumberHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.GET("/:id/document-number", h.GetDocumentNumber)
		orders.POST("/:id/document-number", h.AssignDocumentNumber)
	}
}

// DocumentNumberResponse carries an assigned document number
type DocumentNumberResponse struct {
	OrderID        uuid.UUID `json:"orderId"`
	DocumentNumber string    `json:"documentNumber"`
}

func (h *DocumentNumberHandler) orderID(c *gin.Context) (uuid.UUID, bool) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return uuid.Nil, false
	}
	return orderID, true
}

// GetDocumentNumber returns the number already assigned to an order
func (h *DocumentNumberHandler) GetDocumentNumber(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	orderID, ok := h.orderID(c)
	if !ok {
		return
	}

	number, err := h.numberService.GetAssigned(c.Request.Context(), scope, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, DocumentNumberResponse{OrderID: orderID, DocumentNumber: number})
}

// AssignDocumentNumber assigns a document number to an order.
// The operation is idempotent: repeat calls return the same number.
func (h *DocumentNumberHandler) AssignDocumentNumber(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	orderID, ok := h.orderID(c)
	if !ok {
		return
	}

	number, err := h.numberService.Assign(c.Request.Context(), scope, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, DocumentNumberResponse{OrderID: orderID, DocumentNumber: number})
}
