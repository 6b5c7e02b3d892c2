package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/harentsoaR/medicare-api/internal/models"
	"github.com/harentsoaR/medicare-api/internal/services"
	"github.com/harentsoaR/medicare-api/pkg/pagination"
)

type billItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required,gte=1"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

type previewBillRequest struct {
	Items    []billItemRequest `json:"items" binding:"required,dive"`
	Discount decimal.Decimal   `json:"discount"`
	TaxRate  *decimal.Decimal  `json:"taxRate"`
}

type createBillRequest struct {
	previewBillRequest
	PatientID     string `json:"patientId" binding:"required,objectid"`
	AppointmentID string `json:"appointmentId" binding:"omitempty,objectid"`
	DueDate       string `json:"dueDate"`
}

func (r previewBillRequest) items() []models.BillItem {
	items := make([]models.BillItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = models.BillItem{Description: it.Description, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	return items
}

func (h *Handler) PreviewBill(c *gin.Context) {
	var req previewBillRequest
	if !bindJSON(c, &req) {
		return
	}
	totals, err := h.Svc.Billing.Preview(req.items(), req.Discount, req.TaxRate)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

func (h *Handler) CreateBill(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	var req createBillRequest
	if !bindJSON(c, &req) {
		return
	}

	in := services.BillInput{
		PatientID:     *optionalID(req.PatientID),
		AppointmentID: optionalID(req.AppointmentID),
		Items:         req.items(),
		Discount:      req.Discount,
		TaxRate:       req.TaxRate,
	}
	if req.DueDate != "" {
		due, err := time.Parse(dateLayout, req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dueDate must be YYYY-MM-DD"})
			return
		}
		in.DueDate = &due
	}

	bill, err := h.Svc.Billing.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.record(c, me, services.ActionBillCreate, "bill", bill.ID)
	c.JSON(http.StatusCreated, bill)
}

func (h *Handler) ListBills(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	patientID, ok := queryID(c, "patientId")
	if !ok {
		return
	}
	page := pagination.FromContext(c)
	bills, total, err := h.Svc.Billing.List(c.Request.Context(), me, models.BillFilter{
		PatientID: patientID,
		Status:    c.Query("status"),
	}, page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondList(c, bills, total, page)
}

func (h *Handler) GetBill(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	bill, err := h.Svc.Billing.Get(c.Request.Context(), me, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (h *Handler) PayBill(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		PaymentMethod string `json:"paymentMethod" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	bill, err := h.Svc.Billing.Pay(c.Request.Context(), me, id, req.PaymentMethod)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.record(c, me, services.ActionBillPay, "bill", bill.ID)
	c.JSON(http.StatusOK, bill)
}

func (h *Handler) CancelBill(c *gin.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	bill, err := h.Svc.Billing.Cancel(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.record(c, me, services.ActionBillCancel, "bill", bill.ID)
	c.JSON(http.StatusOK, bill)
}
