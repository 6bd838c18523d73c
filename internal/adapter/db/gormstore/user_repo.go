package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"stock-portal-api/internal/domain/user"
)

// UserRepo implements the user Repository interface using GORM.
// It works with any dialector opened with TranslateError enabled.
type UserRepo struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepo creates a new instance of UserRepo.
func NewUserRepo(db *gorm.DB, log *zap.Logger) *UserRepo {
	return &UserRepo{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`               // Unique identifier with auto-increment
	Name         string `gorm:"size:255;not null"`                      // User's full name (required)
	MobileNumber string `gorm:"size:64;not null"`                       // Contact number as entered
	Age          int    `gorm:"not null"`                               // Age at registration
	Email        string `gorm:"size:255;not null;uniqueIndex"`          // Unique email address, enforced by the store
	PasswordHash string `gorm:"column:password_hash;size:255;not null"` // bcrypt hash
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// Migrate creates or updates the users table and its unique email index.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&UserSchema{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}

// Create inserts a new user into the database.
// A unique email violation is reported as user.ErrEmailTaken.
func (r *UserRepo) Create(ctx context.Context, u *user.User) (int64, error) {
	if u == nil {
		return 0, errors.New("user cannot be nil")
	}

	model := UserSchema{
		Name:         u.Name,
		MobileNumber: u.MobileNumber,
		Age:          u.Age,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			r.log.Warn("duplicate email rejected by unique index", zap.String("email", u.Email))
			return 0, fmt.Errorf("failed to create user: %w", user.ErrEmailTaken)
		}
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// GetByEmail retrieves a user from the database by their email address.
// It returns nil, nil when no user has that email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by email", zap.String("email", email))
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user.User{
		ID:           model.ID,
		Name:         model.Name,
		MobileNumber: model.MobileNumber,
		Age:          model.Age,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
	}, nil
}

// Ping checks that the database answers.
func (r *UserRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// isUniqueViolation recognizes duplicate-key errors. Dialectors that translate
// errors return gorm.ErrDuplicatedKey; the message checks cover the rest.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "duplicate key value") || // postgres
		strings.Contains(msg, "Duplicate entry") // mysql
}
