package user

import "context"

// Service defines the registration and authentication operations exposed to transports.
type Service interface {
	Register(ctx context.Context, in RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, in LoginRequest) (*LoginResponse, error)
}
