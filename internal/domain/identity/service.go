package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/brightsmile/clinic/internal/platform/auth"
	"github.com/brightsmile/clinic/internal/platform/db"
)

// RegisterInput is the payload for creating a patient account.
type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type Service struct {
	users    UserRepository
	patients PatientRepository
	dentists DentistRepository
	issuer   *auth.TokenIssuer
	inTx     db.Runner
}

func NewService(users UserRepository, patients PatientRepository, dentists DentistRepository, issuer *auth.TokenIssuer, inTx db.Runner) *Service {
	return &Service{users: users, patients: patients, dentists: dentists, issuer: issuer, inTx: inTx}
}

// Register creates a patient account: the user row and its patient profile
// commit in one transaction, so a failed profile insert leaves no orphan
// login.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Registration, error) {
	if in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}
	if in.FirstName == "" || in.LastName == "" {
		return nil, fmt.Errorf("%w: first_name and last_name are required", ErrInvalidInput)
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Username:     in.Username,
		Email:        strings.ToLower(in.Email),
		PasswordHash: hash,
		Role:         auth.RolePatient,
	}
	patient := &Patient{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
	}

	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
		patient.UserID = user.ID
		return s.patients.Create(ctx, patient)
	})
	if err != nil {
		return nil, err
	}
	return &Registration{User: user, Patient: patient}, nil
}

// Login checks the credentials and signs a token. A missing account and a
// wrong password both come back as ErrInvalidCredentials so the response
// does not reveal which emails are registered.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}
	user, err := s.users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	token, err := s.issuer.Sign(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.users.List(ctx, limit, offset)
}

func (s *Service) ListDentists(ctx context.Context) ([]*Dentist, error) {
	return s.dentists.List(ctx)
}

func (s *Service) GetDentist(ctx context.Context, id uuid.UUID) (*Dentist, error) {
	return s.dentists.GetByID(ctx, id)
}

func (s *Service) GetPatientProfile(ctx context.Context, userID uuid.UUID) (*Patient, error) {
	return s.patients.GetByUserID(ctx, userID)
}

// UpdatePatientProfile patches the profile of the given user. Nil fields are
// left as they are.
func (s *Service) UpdatePatientProfile(ctx context.Context, userID uuid.UUID, firstName, lastName, phone *string) (*Patient, error) {
	if firstName == nil && lastName == nil && phone == nil {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}
	if firstName != nil && *firstName == "" {
		return nil, fmt.Errorf("%w: first_name cannot be empty", ErrInvalidInput)
	}
	if lastName != nil && *lastName == "" {
		return nil, fmt.Errorf("%w: last_name cannot be empty", ErrInvalidInput)
	}
	return s.patients.Update(ctx, userID, firstName, lastName, phone)
}
