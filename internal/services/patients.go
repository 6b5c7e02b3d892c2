package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medicare-api/internal/models"
	"github.com/harentsoaR/medicare-api/internal/repository"
	"github.com/harentsoaR/medicare-api/pkg/pagination"
)

type PatientUpdate struct {
	DateOfBirth      *time.Time
	Gender           *string
	BloodGroup       *string
	Address          *string
	Allergies        []string
	EmergencyContact *models.EmergencyContact
}

type PatientService struct {
	patients repository.Repository[models.Patient]
	users    repository.Repository[models.User]
	now      func() time.Time
}

func NewPatientService(patients repository.Repository[models.Patient], users repository.Repository[models.User]) *PatientService {
	return &PatientService{patients: patients, users: users, now: utcNow}
}

func (s *PatientService) List(ctx context.Context, query string, page pagination.Params) ([]models.Patient, int64, error) {
	return s.patients.Find(ctx, models.PatientFilter{Query: strings.TrimSpace(query)}, repository.FindOptions{
		SortField: "fullName", Limit: page.Limit, Offset: page.Offset,
	})
}

// Get returns a patient profile to the patient themself, doctors and admins.
func (s *PatientService) Get(ctx context.Context, actor Actor, id primitive.ObjectID) (*models.Patient, error) {
	if actor.IsPatient() && actor.ID != id {
		return nil, forbidden()
	}
	p, err := s.patients.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Patient")
	}
	return p, nil
}

func (s *PatientService) Update(ctx context.Context, actor Actor, id primitive.ObjectID, upd PatientUpdate) (*models.Patient, error) {
	if !actor.IsAdmin() && actor.ID != id {
		return nil, forbidden()
	}
	p, err := s.patients.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Patient")
	}

	if upd.DateOfBirth != nil {
		if upd.DateOfBirth.After(s.now()) {
			return nil, invalid("dateOfBirth cannot be in the future")
		}
		dob := upd.DateOfBirth.UTC()
		p.DateOfBirth = &dob
	}
	if upd.Gender != nil {
		if !models.ValidGenders[*upd.Gender] {
			return nil, invalid("Invalid gender %q", *upd.Gender)
		}
		p.Gender = *upd.Gender
	}
	if upd.BloodGroup != nil {
		if !models.ValidBloodGroups[*upd.BloodGroup] {
			return nil, invalid("Invalid blood group %q", *upd.BloodGroup)
		}
		p.BloodGroup = *upd.BloodGroup
	}
	if upd.Address != nil {
		p.Address = strings.TrimSpace(*upd.Address)
	}
	if upd.Allergies != nil {
		p.Allergies = upd.Allergies
	}
	if upd.EmergencyContact != nil {
		p.EmergencyContact = upd.EmergencyContact
	}
	p.UpdatedAt = s.now()

	if err := s.patients.Replace(ctx, p.ID, p); err != nil {
		return nil, storeErr(err, "Patient")
	}
	return p, nil
}

// Delete removes the patient profile and the login behind it.
func (s *PatientService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.patients.Delete(ctx, id); err != nil {
		return storeErr(err, "Patient")
	}
	if err := s.users.Delete(ctx, id); err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
