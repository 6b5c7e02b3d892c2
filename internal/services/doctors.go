package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/harentsoaR/medicare-api/internal/models"
	"github.com/harentsoaR/medicare-api/internal/repository"
	"github.com/harentsoaR/medicare-api/pkg/pagination"
)

const featuredDoctorKey = "featured-doctor"

type DoctorInput struct {
	RegisterInput
	Specialty       string
	Department      string
	Bio             string
	YearsExperience int
	ConsultationFee decimal.Decimal
	AvailableDays   []string
}

type DoctorUpdate struct {
	Specialty       *string
	Department      *string
	Bio             *string
	YearsExperience *int
	ConsultationFee *decimal.Decimal
	AvailableDays   []string
	Active          *bool
}

type DoctorService struct {
	doctors repository.Repository[models.Doctor]
	users   repository.Repository[models.User]
	auth    *AuthService
	counter Counter
	logger  *zap.Logger
	now     func() time.Time
}

func NewDoctorService(
	doctors repository.Repository[models.Doctor],
	users repository.Repository[models.User],
	auth *AuthService,
	counter Counter,
	logger *zap.Logger,
) *DoctorService {
	return &DoctorService{
		doctors: doctors,
		users:   users,
		auth:    auth,
		counter: counter,
		logger:  logger,
		now:     utcNow,
	}
}

func validateDays(days []string) error {
	for _, d := range days {
		if !models.ValidWeekdays[d] {
			return invalid("Invalid available day %q", d)
		}
	}
	return nil
}

// Create registers a doctor login and its profile.
func (s *DoctorService) Create(ctx context.Context, in DoctorInput) (*models.Doctor, error) {
	if strings.TrimSpace(in.Specialty) == "" {
		return nil, invalid("specialty is required")
	}
	if in.YearsExperience < 0 {
		return nil, invalid("yearsExperience cannot be negative")
	}
	if in.ConsultationFee.IsNegative() {
		return nil, invalid("consultationFee cannot be negative")
	}
	if err := validateDays(in.AvailableDays); err != nil {
		return nil, err
	}

	user, err := s.auth.createUser(ctx, in.RegisterInput, models.RoleDoctor)
	if err != nil {
		return nil, err
	}

	days := in.AvailableDays
	if days == nil {
		days = []string{}
	}
	doctor := &models.Doctor{
		ID:              user.ID,
		FullName:        user.FullName,
		Email:           user.Email,
		Phone:           user.Phone,
		Specialty:       strings.TrimSpace(in.Specialty),
		Department:      strings.TrimSpace(in.Department),
		Bio:             in.Bio,
		YearsExperience: in.YearsExperience,
		ConsultationFee: in.ConsultationFee.Round(2),
		AvailableDays:   days,
		Active:          true,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
	if err := s.doctors.Insert(ctx, doctor); err != nil {
		if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
			s.logger.Error("failed to roll back user after doctor insert failure",
				zap.String("userId", user.ID.Hex()), zap.Error(delErr))
		}
		return nil, err
	}
	return doctor, nil
}

func (s *DoctorService) List(ctx context.Context, f models.DoctorFilter, page pagination.Params) ([]models.Doctor, int64, error) {
	return s.doctors.Find(ctx, f, repository.FindOptions{
		SortField: "fullName", Limit: page.Limit, Offset: page.Offset,
	})
}

func (s *DoctorService) Get(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	d, err := s.doctors.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Doctor")
	}
	return d, nil
}

func (s *DoctorService) Update(ctx context.Context, actor Actor, id primitive.ObjectID, upd DoctorUpdate) (*models.Doctor, error) {
	if !actor.IsAdmin() && actor.ID != id {
		return nil, forbidden()
	}
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Specialty != nil {
		spec := strings.TrimSpace(*upd.Specialty)
		if spec == "" {
			return nil, invalid("specialty cannot be empty")
		}
		d.Specialty = spec
	}
	if upd.Department != nil {
		d.Department = strings.TrimSpace(*upd.Department)
	}
	if upd.Bio != nil {
		d.Bio = *upd.Bio
	}
	if upd.YearsExperience != nil {
		if *upd.YearsExperience < 0 {
			return nil, invalid("yearsExperience cannot be negative")
		}
		d.YearsExperience = *upd.YearsExperience
	}
	if upd.ConsultationFee != nil {
		if upd.ConsultationFee.IsNegative() {
			return nil, invalid("consultationFee cannot be negative")
		}
		d.ConsultationFee = upd.ConsultationFee.Round(2)
	}
	if upd.AvailableDays != nil {
		if err := validateDays(upd.AvailableDays); err != nil {
			return nil, err
		}
		d.AvailableDays = upd.AvailableDays
	}
	if upd.Active != nil {
		// A doctor can't reactivate themself.
		if !actor.IsAdmin() {
			return nil, forbidden()
		}
		d.Active = *upd.Active
	}
	d.UpdatedAt = s.now()

	if err := s.doctors.Replace(ctx, d.ID, d); err != nil {
		return nil, storeErr(err, "Doctor")
	}
	return d, nil
}

// Deactivate hides a doctor from booking. Profiles are never hard-deleted
// because appointments and bills reference them.
func (s *DoctorService) Deactivate(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.Active {
		return d, nil
	}
	d.Active = false
	d.UpdatedAt = s.now()
	if err := s.doctors.Replace(ctx, d.ID, d); err != nil {
		return nil, storeErr(err, "Doctor")
	}
	return d, nil
}

// Featured returns the next active doctor in the rotation.
func (s *DoctorService) Featured(ctx context.Context) (*models.Doctor, error) {
	active := true
	doctors, _, err := s.doctors.Find(ctx, models.DoctorFilter{Active: &active}, repository.FindOptions{SortField: "_id"})
	if err != nil {
		return nil, err
	}
	if len(doctors) == 0 {
		return nil, newError(ErrNotFound, "No active doctors")
	}
	next, err := s.counter.Next(ctx, featuredDoctorKey)
	if err != nil {
		return nil, err
	}
	return &doctors[rotate(next, len(doctors))], nil
}

// applyRating folds one rating into the doctor's running average.
func (s *DoctorService) applyRating(ctx context.Context, id primitive.ObjectID, rating int) error {
	d, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	d.RatingAverage = runningAverage(d.RatingAverage, d.RatingCount, rating)
	d.RatingCount++
	d.UpdatedAt = s.now()
	if err := s.doctors.Replace(ctx, d.ID, d); err != nil {
		return storeErr(err, "Doctor")
	}
	return nil
}

func runningAverage(avg float64, n, rating int) float64 {
	next := (avg*float64(n) + float64(rating)) / float64(n+1)
	return math.Round(next*100) / 100
}
