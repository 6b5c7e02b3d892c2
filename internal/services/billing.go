package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medicare-api/internal/models"
	"github.com/harentsoaR/medicare-api/internal/repository"
	"github.com/harentsoaR/medicare-api/pkg/pagination"
)

var hundred = decimal.NewFromInt(100)

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	TaxRate  decimal.Decimal `json:"taxRate"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// CalculateTotals prices a bill. Every amount is rounded half-up to cents.
// A discount larger than the subtotal brings the taxable amount to zero.
func CalculateTotals(items []models.BillItem, discount, taxRate decimal.Decimal) (Totals, error) {
	if len(items) == 0 {
		return Totals{}, invalid("A bill needs at least one item")
	}
	if discount.IsNegative() {
		return Totals{}, invalid("discount cannot be negative")
	}
	if taxRate.IsNegative() {
		return Totals{}, invalid("taxRate cannot be negative")
	}

	subtotal := decimal.Zero
	for i, item := range items {
		if strings.TrimSpace(item.Description) == "" {
			return Totals{}, invalid("items[%d]: description is required", i)
		}
		if item.Quantity < 1 {
			return Totals{}, invalid("items[%d]: quantity must be at least 1", i)
		}
		if item.UnitPrice.IsNegative() {
			return Totals{}, invalid("items[%d]: unitPrice cannot be negative", i)
		}
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	subtotal = subtotal.Round(2)
	discount = discount.Round(2)

	taxable := subtotal.Sub(discount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	tax := taxable.Mul(taxRate).Div(hundred).Round(2)

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		TaxRate:  taxRate,
		Tax:      tax,
		Total:    taxable.Add(tax).Round(2),
	}, nil
}

type BillInput struct {
	PatientID     primitive.ObjectID
	AppointmentID *primitive.ObjectID
	Items         []models.BillItem
	Discount      decimal.Decimal
	TaxRate       *decimal.Decimal
	DueDate       *time.Time
}

type BillingService struct {
	bills          repository.Repository[models.Bill]
	patients       repository.Repository[models.Patient]
	appointments   repository.Repository[models.Appointment]
	notifications  *NotificationService
	engagement     *EngagementService
	defaultTaxRate decimal.Decimal
	now            func() time.Time
}

func NewBillingService(
	bills repository.Repository[models.Bill],
	patients repository.Repository[models.Patient],
	appointments repository.Repository[models.Appointment],
	notifications *NotificationService,
	engagement *EngagementService,
	defaultTaxRate decimal.Decimal,
) *BillingService {
	return &BillingService{
		bills:          bills,
		patients:       patients,
		appointments:   appointments,
		notifications:  notifications,
		engagement:     engagement,
		defaultTaxRate: defaultTaxRate,
		now:            utcNow,
	}
}

func (s *BillingService) taxRate(in *decimal.Decimal) decimal.Decimal {
	if in == nil {
		return s.defaultTaxRate
	}
	return *in
}

func (s *BillingService) Preview(items []models.BillItem, discount decimal.Decimal, taxRate *decimal.Decimal) (Totals, error) {
	return CalculateTotals(items, discount, s.taxRate(taxRate))
}

func (s *BillingService) Create(ctx context.Context, in BillInput) (*models.Bill, error) {
	totals, err := CalculateTotals(in.Items, in.Discount, s.taxRate(in.TaxRate))
	if err != nil {
		return nil, err
	}
	patient, err := s.patients.FindByID(ctx, in.PatientID)
	if err != nil {
		return nil, storeErr(err, "Patient")
	}
	if in.AppointmentID != nil {
		apt, err := s.appointments.FindByID(ctx, *in.AppointmentID)
		if err != nil {
			return nil, storeErr(err, "Appointment")
		}
		if apt.PatientID != patient.ID {
			return nil, invalid("Appointment belongs to another patient")
		}
	}

	items := make([]models.BillItem, len(in.Items))
	for i, item := range in.Items {
		item.Description = strings.TrimSpace(item.Description)
		item.UnitPrice = item.UnitPrice.Round(2)
		items[i] = item
	}
	now := s.now()
	bill := &models.Bill{
		ID:            primitive.NewObjectID(),
		PatientID:     patient.ID,
		PatientName:   patient.FullName,
		AppointmentID: in.AppointmentID,
		Items:         items,
		Discount:      totals.Discount,
		TaxRate:       totals.TaxRate,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
		Status:        models.BillUnpaid,
		DueDate:       in.DueDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.bills.Insert(ctx, bill); err != nil {
		return nil, err
	}

	s.notifications.notifyQuietly(ctx, patient.ID, models.NotificationBilling, "New bill",
		fmt.Sprintf("A bill of %s has been issued to you.", bill.Total.StringFixed(2)))
	return bill, nil
}

func (s *BillingService) List(ctx context.Context, actor Actor, f models.BillFilter, page pagination.Params) ([]models.Bill, int64, error) {
	if f.Status != "" && !models.ValidBillStatuses[f.Status] {
		return nil, 0, invalid("Invalid status %q", f.Status)
	}
	if !actor.IsAdmin() {
		f.PatientID = actor.ID
	}
	return s.bills.Find(ctx, f, repository.FindOptions{
		SortField: "createdAt", Desc: true, Limit: page.Limit, Offset: page.Offset,
	})
}

func (s *BillingService) Get(ctx context.Context, actor Actor, id primitive.ObjectID) (*models.Bill, error) {
	bill, err := s.bills.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Bill")
	}
	if !actor.IsAdmin() && bill.PatientID != actor.ID {
		return nil, forbidden()
	}
	return bill, nil
}

func (s *BillingService) Pay(ctx context.Context, actor Actor, id primitive.ObjectID, method string) (*models.Bill, error) {
	if !models.ValidPaymentMethods[method] {
		return nil, invalid("Invalid payment method %q", method)
	}
	bill, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if bill.Status != models.BillUnpaid {
		return nil, newError(ErrConflict, "Bill is already %s", bill.Status)
	}

	now := s.now()
	bill.Status = models.BillPaid
	bill.PaymentMethod = method
	bill.PaidAt = &now
	bill.UpdatedAt = now
	if err := s.bills.Replace(ctx, bill.ID, bill); err != nil {
		return nil, storeErr(err, "Bill")
	}

	s.notifications.notifyQuietly(ctx, bill.PatientID, models.NotificationBilling, "Payment received",
		fmt.Sprintf("Your payment of %s was received. Thank you.", bill.Total.StringFixed(2)))
	s.engagement.award(ctx, bill.PatientID, "bill_paid", map[string]string{"billId": bill.ID.Hex()})
	return bill, nil
}

func (s *BillingService) Cancel(ctx context.Context, id primitive.ObjectID) (*models.Bill, error) {
	bill, err := s.bills.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Bill")
	}
	if bill.Status != models.BillUnpaid {
		return nil, newError(ErrConflict, "Only unpaid bills can be cancelled")
	}
	bill.Status = models.BillCancelled
	bill.UpdatedAt = s.now()
	if err := s.bills.Replace(ctx, bill.ID, bill); err != nil {
		return nil, storeErr(err, "Bill")
	}
	return bill, nil
}
