package user

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "stock-portal-api/internal/domain/user"
	pkgerrors "stock-portal-api/pkg/errors"
	"stock-portal-api/pkg/logger"
	"stock-portal-api/pkg/security"
)

const (
	msgAllFieldsRequired   = "All fields are required"
	msgPasswordMismatch    = "Passwords do not match"
	msgInvalidAge          = "Invalid age format"
	msgUnderage            = "You must be 18 or older to register"
	msgCredentialsRequired = "Email and password are required"

	msgRegistered = "Registration successful!"
	msgLoggedIn   = "Login successful!"
)

// Repository defines the interface for user data access operations.
// Implementations must enforce email uniqueness and report violations as domain.ErrEmailTaken.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (int64, error)          // Insert a new user
	GetByEmail(ctx context.Context, email string) (*domain.User, error) // Retrieve user by email, nil when absent
}

// Usecase implements registration and authentication.
type Usecase struct {
	repo     Repository              // Repository for data access
	hasher   security.PasswordHasher // One-way password hashing
	log      *zap.Logger             // Logger for structured logging
	validate *validator.Validate     // Validator for request validation
}

// New creates a new instance of Usecase with the provided repository, hasher, and logger.
func New(r Repository, h security.PasswordHasher, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, hasher: h, log: log, validate: validator.New()}
}

// registerValidationError converts validator.ValidationErrors into the client-facing message.
// Presence is checked before equality regardless of field order.
func registerValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	for _, e := range validationErrors {
		if e.Tag() == "required" {
			return pkgerrors.NewValidationError(e.Field(), msgAllFieldsRequired)
		}
	}
	for _, e := range validationErrors {
		if e.Tag() == "eqfield" {
			return pkgerrors.NewValidationError(e.Field(), msgPasswordMismatch)
		}
	}
	return pkgerrors.NewValidationError("", msgAllFieldsRequired)
}

// parseAge accepts a base-10 integer with optional surrounding whitespace.
func parseAge(raw string) (int, error) {
	age, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, pkgerrors.NewValidationError("age", msgInvalidAge)
	}
	return age, nil
}

// Register validates the request, hashes the password and inserts the user.
func (uc *Usecase) Register(ctx context.Context, in RegisterRequest) (*RegisterResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("registering user", zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, registerValidationError(err)
	}

	age, err := parseAge(in.Age)
	if err != nil {
		log.Warn("invalid age", zap.String("age", in.Age))
		return nil, err
	}
	if !domain.IsAdult(age) {
		log.Warn("underage registration rejected", zap.Int("age", age))
		return nil, pkgerrors.NewValidationError("age", msgUnderage)
	}

	existingUser, err := uc.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, pkgerrors.NewStoreError("check email", err)
	}
	if existingUser != nil {
		log.Warn("email already registered", zap.String("email", in.Email))
		return nil, pkgerrors.ErrEmailRegistered
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		if pkgerrors.IsTyped(err) {
			log.Warn("password rejected by hasher", zap.Error(err))
			return nil, err
		}
		log.Error("failed to hash password", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to hash password", err)
	}

	id, err := uc.repo.Create(ctx, &domain.User{
		Name:         in.Name,
		MobileNumber: in.MobileNumber,
		Age:          age,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		// The unique index settles races between the check above and this insert.
		if errors.Is(err, domain.ErrEmailTaken) {
			log.Warn("email registered concurrently", zap.String("email", in.Email))
			return nil, pkgerrors.ErrEmailRegistered
		}
		log.Error("failed to create user", zap.Error(err))
		return nil, pkgerrors.NewStoreError("create user", err)
	}

	log.Info("user registered", zap.Int64("id", id))
	return &RegisterResponse{ID: id, Message: msgRegistered}, nil
}

// Login checks the credentials. Unknown email and wrong password yield the same error.
func (uc *Usecase) Login(ctx context.Context, in LoginRequest) (*LoginResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("login attempt", zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, pkgerrors.NewValidationError("", msgCredentialsRequired)
	}

	u, err := uc.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		log.Error("failed to get user by email", zap.String("email", in.Email), zap.Error(err))
		return nil, pkgerrors.NewStoreError("get user", err)
	}
	if u == nil {
		log.Warn("login rejected", zap.String("email", in.Email), zap.String("reason", "unknown email"))
		return nil, pkgerrors.ErrInvalidCredentials
	}

	if !uc.hasher.Verify(in.Password, u.PasswordHash) {
		log.Warn("login rejected", zap.String("email", in.Email), zap.String("reason", "password mismatch"))
		return nil, pkgerrors.ErrInvalidCredentials
	}

	log.Info("login succeeded", zap.Int64("id", u.ID))
	return &LoginResponse{Message: msgLoggedIn}, nil
}
