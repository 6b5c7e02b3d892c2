package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/harentsoaR/medicare-api/internal/models"
	"github.com/harentsoaR/medicare-api/internal/repository"
	"github.com/harentsoaR/medicare-api/internal/utils"
	"github.com/harentsoaR/medicare-api/pkg/pagination"
)

type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Phone    string
}

type AuthService struct {
	users      repository.Repository[models.User]
	patients   repository.Repository[models.Patient]
	tokens     *utils.JWTManager
	bcryptCost int
	logger     *zap.Logger
	now        func() time.Time
}

func NewAuthService(
	users repository.Repository[models.User],
	patients repository.Repository[models.Patient],
	tokens *utils.JWTManager,
	bcryptCost int,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		patients:   patients,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
		now:        utcNow,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// createUser hashes the password and inserts a user with the given role.
func (s *AuthService) createUser(ctx context.Context, in RegisterInput, role string) (*models.User, error) {
	if !models.ValidRoles[role] {
		return nil, invalid("Invalid role %q", role)
	}
	if len(in.Password) < 8 {
		return nil, invalid("Password must be at least 8 characters")
	}
	hashedPassword, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &models.User{
		ID:        primitive.NewObjectID(),
		FullName:  strings.TrimSpace(in.FullName),
		Email:     normalizeEmail(in.Email),
		Password:  hashedPassword,
		Role:      role,
		Phone:     strings.TrimSpace(in.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrConflict, "An account with this email already exists")
		}
		return nil, err
	}
	return user, nil
}

// Register creates a patient account together with its empty patient profile.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	user, err := s.createUser(ctx, in, models.RolePatient)
	if err != nil {
		return nil, err
	}

	patient := &models.Patient{
		ID:        user.ID,
		FullName:  user.FullName,
		Email:     user.Email,
		Phone:     user.Phone,
		Allergies: []string{},
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if err := s.patients.Insert(ctx, patient); err != nil {
		// Roll back so the email can be registered again.
		if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
			s.logger.Error("failed to roll back user after patient insert failure",
				zap.String("userId", user.ID.Hex()), zap.Error(delErr))
		}
		return nil, err
	}
	s.logger.Info("patient registered", zap.String("userId", user.ID.Hex()))
	return user, nil
}

// CreateAdmin is used by the create-admin command.
func (s *AuthService) CreateAdmin(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.createUser(ctx, in, models.RoleAdmin)
}

// EnsureAdmin creates the admin account unless one with the same email
// exists. created reports whether a new account was written.
func (s *AuthService) EnsureAdmin(ctx context.Context, in RegisterInput) (user *models.User, created bool, err error) {
	existing, err := s.users.FindOne(ctx, models.UserFilter{Email: normalizeEmail(in.Email)})
	switch {
	case err == nil:
		if existing.Role != models.RoleAdmin {
			return nil, false, newError(ErrConflict, "%s is registered with role %s", existing.Email, existing.Role)
		}
		return existing, false, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, false, err
	}
	user, err = s.CreateAdmin(ctx, in)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// Login checks credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.FindOne(ctx, models.UserFilter{Email: normalizeEmail(email)})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, newError(ErrUnauthorized, "Invalid credentials")
		}
		return "", nil, err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return "", nil, newError(ErrUnauthorized, "Invalid credentials")
	}

	token, err := s.tokens.Generate(user.ID.Hex(), user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

type UserUpdate struct {
	FullName *string
	Phone    *string
}

type UserService struct {
	users    repository.Repository[models.User]
	patients repository.Repository[models.Patient]
	doctors  repository.Repository[models.Doctor]
	now      func() time.Time
}

func NewUserService(
	users repository.Repository[models.User],
	patients repository.Repository[models.Patient],
	doctors repository.Repository[models.Doctor],
) *UserService {
	return &UserService{users: users, patients: patients, doctors: doctors, now: utcNow}
}

func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "User")
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, role string, page pagination.Params) ([]models.User, int64, error) {
	if role != "" && !models.ValidRoles[role] {
		return nil, 0, invalid("Invalid role %q", role)
	}
	return s.users.Find(ctx, models.UserFilter{Role: role}, repository.FindOptions{
		SortField: "createdAt", Limit: page.Limit, Offset: page.Offset,
	})
}

// UpdateProfile changes the user's own name or phone and mirrors them onto
// the patient or doctor profile.
func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd UserUpdate) (*models.User, error) {
	if upd.FullName == nil && upd.Phone == nil {
		return nil, invalid("No update fields provided")
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.FullName != nil {
		name := strings.TrimSpace(*upd.FullName)
		if name == "" {
			return nil, invalid("fullName cannot be empty")
		}
		user.FullName = name
	}
	if upd.Phone != nil {
		user.Phone = strings.TrimSpace(*upd.Phone)
	}
	user.UpdatedAt = s.now()
	if err := s.users.Replace(ctx, user.ID, user); err != nil {
		return nil, storeErr(err, "User")
	}

	switch user.Role {
	case models.RolePatient:
		if p, err := s.patients.FindByID(ctx, user.ID); err == nil {
			p.FullName, p.Phone, p.UpdatedAt = user.FullName, user.Phone, user.UpdatedAt
			if err := s.patients.Replace(ctx, p.ID, p); err != nil {
				return nil, err
			}
		}
	case models.RoleDoctor:
		if d, err := s.doctors.FindByID(ctx, user.ID); err == nil {
			d.FullName, d.Phone, d.UpdatedAt = user.FullName, user.Phone, user.UpdatedAt
			if err := s.doctors.Replace(ctx, d.ID, d); err != nil {
				return nil, err
			}
		}
	}
	return user, nil
}
