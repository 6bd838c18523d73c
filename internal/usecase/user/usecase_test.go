package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	domain "stock-portal-api/internal/domain/user"
	pkgerrors "stock-portal-api/pkg/errors"
	"stock-portal-api/pkg/security"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) (int64, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockHasher is a mock implementation of security.PasswordHasher
type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) Hash(plain string) (string, error) {
	args := m.Called(plain)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) Verify(plain, hash string) bool {
	args := m.Called(plain, hash)
	return args.Bool(0)
}

func setupTestUsecase(t *testing.T) (*Usecase, *MockRepository) {
	mockRepo := new(MockRepository)
	logger := zaptest.NewLogger(t)
	uc := New(mockRepo, security.NewBcryptHasher(bcrypt.MinCost), logger)
	return uc, mockRepo
}

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		Name:            "Jane Doe",
		MobileNumber:    "+1-555-0100",
		Age:             "30",
		Email:           "jane@example.com",
		Password:        "s3cret-pass",
		ConfirmPassword: "s3cret-pass",
	}
}

func requireValidationMessage(t *testing.T, err error, message string) {
	t.Helper()
	var vErr *pkgerrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, message, vErr.Message)
}

// ==================== REGISTER TESTS ====================

func TestRegister_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()
	req := validRegisterRequest()

	mockRepo.On("GetByEmail", ctx, req.Email).Return(nil, nil)
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == req.Name &&
			u.MobileNumber == req.MobileNumber &&
			u.Age == 30 &&
			u.Email == req.Email &&
			u.PasswordHash != req.Password &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) == nil
	})).Return(int64(7), nil)

	resp, err := uc.Register(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "Registration successful!", resp.Message)
	mockRepo.AssertExpectations(t)
}

func TestRegister_AgeWithWhitespace(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()
	req := validRegisterRequest()
	req.Age = " 18 "

	mockRepo.On("GetByEmail", ctx, req.Email).Return(nil, nil)
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Age == domain.MinimumAge
	})).Return(int64(1), nil)

	_, err := uc.Register(ctx, req)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestRegister_MissingFields(t *testing.T) {
	fields := []struct {
		name  string
		clear func(*RegisterRequest)
	}{
		{name: "name", clear: func(r *RegisterRequest) { r.Name = "" }},
		{name: "mobile_number", clear: func(r *RegisterRequest) { r.MobileNumber = "" }},
		{name: "age", clear: func(r *RegisterRequest) { r.Age = "" }},
		{name: "email", clear: func(r *RegisterRequest) { r.Email = "" }},
		{name: "password", clear: func(r *RegisterRequest) { r.Password = "" }},
		{name: "confirm_password", clear: func(r *RegisterRequest) { r.ConfirmPassword = "" }},
	}

	for _, f := range fields {
		t.Run(f.name, func(t *testing.T) {
			uc, mockRepo := setupTestUsecase(t)
			req := validRegisterRequest()
			f.clear(&req)

			resp, err := uc.Register(context.Background(), req)

			assert.Nil(t, resp)
			requireValidationMessage(t, err, "All fields are required")
			mockRepo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestRegister_ValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RegisterRequest)
		message string
	}{
		{
			name: "missing field wins over mismatch",
			mutate: func(r *RegisterRequest) {
				r.Name = ""
				r.ConfirmPassword = "different"
			},
			message: "All fields are required",
		},
		{
			name:    "password mismatch",
			mutate:  func(r *RegisterRequest) { r.ConfirmPassword = "different" },
			message: "Passwords do not match",
		},
		{
			name: "mismatch wins over bad age",
			mutate: func(r *RegisterRequest) {
				r.ConfirmPassword = "different"
				r.Age = "abc"
			},
			message: "Passwords do not match",
		},
		{
			name:    "non numeric age",
			mutate:  func(r *RegisterRequest) { r.Age = "twenty" },
			message: "Invalid age format",
		},
		{
			name:    "fractional age",
			mutate:  func(r *RegisterRequest) { r.Age = "25.5" },
			message: "Invalid age format",
		},
		{
			name:    "underage",
			mutate:  func(r *RegisterRequest) { r.Age = "17" },
			message: "You must be 18 or older to register",
		},
		{
			name:    "negative age",
			mutate:  func(r *RegisterRequest) { r.Age = "-20" },
			message: "You must be 18 or older to register",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, mockRepo := setupTestUsecase(t)
			req := validRegisterRequest()
			tt.mutate(&req)

			resp, err := uc.Register(context.Background(), req)

			assert.Nil(t, resp)
			requireValidationMessage(t, err, tt.message)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestRegister_EmailAlreadyRegistered(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()
	req := validRegisterRequest()

	existing := &domain.User{ID: 2, Email: req.Email}
	mockRepo.On("GetByEmail", ctx, req.Email).Return(existing, nil)

	resp, err := uc.Register(ctx, req)

	assert.Nil(t, resp)
	var cErr *pkgerrors.ConflictError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, "Email already registered", cErr.Error())
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_UniqueIndexViolation(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()
	req := validRegisterRequest()

	mockRepo.On("GetByEmail", ctx, req.Email).Return(nil, nil)
	mockRepo.On("Create", ctx, mock.Anything).Return(int64(0), fmt.Errorf("insert: %w", domain.ErrEmailTaken))

	resp, err := uc.Register(ctx, req)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, pkgerrors.ErrEmailRegistered)
	mockRepo.AssertExpectations(t)
}

func TestRegister_StoreErrors(t *testing.T) {
	t.Run("lookup fails", func(t *testing.T) {
		uc, mockRepo := setupTestUsecase(t)
		ctx := context.Background()
		req := validRegisterRequest()

		mockRepo.On("GetByEmail", ctx, req.Email).Return(nil, errors.New("connection refused"))

		resp, err := uc.Register(ctx, req)

		assert.Nil(t, resp)
		var sErr *pkgerrors.StoreError
		require.ErrorAs(t, err, &sErr)
		assert.Contains(t, sErr.Error(), "connection refused")
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("insert fails", func(t *testing.T) {
		uc, mockRepo := setupTestUsecase(t)
		ctx := context.Background()
		req := validRegisterRequest()

		mockRepo.On("GetByEmail", ctx, req.Email).Return(nil, nil)
		mockRepo.On("Create", ctx, mock.Anything).Return(int64(0), errors.New("disk full"))

		resp, err := uc.Register(ctx, req)

		assert.Nil(t, resp)
		var sErr *pkgerrors.StoreError
		require.ErrorAs(t, err, &sErr)
		assert.Equal(t, "create user", sErr.Op)
	})
}

func TestRegister_HasherErrors(t *testing.T) {
	t.Run("password too long", func(t *testing.T) {
		uc, mockRepo := setupTestUsecase(t)
		ctx := context.Background()
		req := validRegisterRequest()
		req.Password = strings.Repeat("p", security.MaxPasswordBytes+1)
		req.ConfirmPassword = req.Password

		mockRepo.On("GetByEmail", ctx, req.Email).Return(nil, nil)

		resp, err := uc.Register(ctx, req)

		assert.Nil(t, resp)
		requireValidationMessage(t, err, "Password is too long")
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("hash failure is internal", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockHasher := new(MockHasher)
		uc := New(mockRepo, mockHasher, zaptest.NewLogger(t))
		ctx := context.Background()
		req := validRegisterRequest()

		mockRepo.On("GetByEmail", ctx, req.Email).Return(nil, nil)
		mockHasher.On("Hash", req.Password).Return("", errors.New("entropy exhausted"))

		resp, err := uc.Register(ctx, req)

		assert.Nil(t, resp)
		var iErr *pkgerrors.InternalError
		require.ErrorAs(t, err, &iErr)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

// ==================== LOGIN TESTS ====================

func TestLogin_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	mockRepo.On("GetByEmail", ctx, "jane@example.com").
		Return(&domain.User{ID: 1, Email: "jane@example.com", PasswordHash: string(hash)}, nil)

	resp, err := uc.Login(ctx, LoginRequest{Email: "jane@example.com", Password: "s3cret-pass"})

	require.NoError(t, err)
	assert.Equal(t, "Login successful!", resp.Message)
	mockRepo.AssertExpectations(t)
}

func TestLogin_InvalidCredentialsShareMessage(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name     string
		found    *domain.User
		password string
	}{
		{name: "wrong password", found: &domain.User{ID: 1, PasswordHash: string(hash)}, password: "wrong"},
		{name: "unknown email", found: nil, password: "s3cret-pass"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, mockRepo := setupTestUsecase(t)
			ctx := context.Background()

			if tt.found == nil {
				mockRepo.On("GetByEmail", ctx, "jane@example.com").Return(nil, nil)
			} else {
				mockRepo.On("GetByEmail", ctx, "jane@example.com").Return(tt.found, nil)
			}

			resp, err := uc.Login(ctx, LoginRequest{Email: "jane@example.com", Password: tt.password})

			assert.Nil(t, resp)
			var aErr *pkgerrors.AuthError
			require.ErrorAs(t, err, &aErr)
			assert.Equal(t, "Invalid email or password", aErr.Error())
		})
	}
}

func TestLogin_MissingFields(t *testing.T) {
	tests := []LoginRequest{
		{Email: "", Password: "x"},
		{Email: "jane@example.com", Password: ""},
		{},
	}

	for _, req := range tests {
		uc, mockRepo := setupTestUsecase(t)

		resp, err := uc.Login(context.Background(), req)

		assert.Nil(t, resp)
		requireValidationMessage(t, err, "Email and password are required")
		mockRepo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	}
}

func TestLogin_StoreError(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "jane@example.com").Return(nil, errors.New("too many connections"))

	resp, err := uc.Login(ctx, LoginRequest{Email: "jane@example.com", Password: "pw"})

	assert.Nil(t, resp)
	var sErr *pkgerrors.StoreError
	require.ErrorAs(t, err, &sErr)
}

// ==================== VALIDATION HELPER TESTS ====================

func TestRegisterValidationError_NonValidationError(t *testing.T) {
	originalErr := errors.New("some other error")
	assert.Equal(t, originalErr, registerValidationError(originalErr))
}
