package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	BillUnpaid    = "unpaid"
	BillPaid      = "paid"
	BillCancelled = "cancelled"
)

var ValidBillStatuses = map[string]bool{
	BillUnpaid: true, BillPaid: true, BillCancelled: true,
}

var ValidPaymentMethods = map[string]bool{
	"cash": true, "card": true, "insurance": true, "online": true,
}

type BillItem struct {
	Description string          `bson:"description" json:"description"`
	Quantity    int             `bson:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `bson:"unitPrice" json:"unitPrice"`
}

type Bill struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PatientID     primitive.ObjectID  `bson:"patientId" json:"patientId"`
	PatientName   string              `bson:"patientName" json:"patientName"`
	AppointmentID *primitive.ObjectID `bson:"appointmentId,omitempty" json:"appointmentId,omitempty"`
	Items         []BillItem          `bson:"items" json:"items"`
	Discount      decimal.Decimal     `bson:"discount" json:"discount"`
	TaxRate       decimal.Decimal     `bson:"taxRate" json:"taxRate"`
	Subtotal      decimal.Decimal     `bson:"subtotal" json:"subtotal"`
	Tax           decimal.Decimal     `bson:"tax" json:"tax"`
	Total         decimal.Decimal     `bson:"total" json:"total"`
	Status        string              `bson:"status" json:"status"`
	PaymentMethod string              `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	DueDate       *time.Time          `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	PaidAt        *time.Time          `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

type BillFilter struct {
	PatientID primitive.ObjectID
	Status    string
}

func (f BillFilter) BSON() bson.M {
	filter := bson.M{}
	if !f.PatientID.IsZero() {
		filter["patientId"] = f.PatientID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return filter
}

func (f BillFilter) Match(b *Bill) bool {
	if !f.PatientID.IsZero() && b.PatientID != f.PatientID {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	return true
}
