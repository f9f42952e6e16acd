package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/thriftease/api/internal/domain"
	"github.com/thriftease/api/internal/infrastructure/metrics"
)

func validateRequiredName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	return domain.ValidateName(name)
}

// UserUseCase handles user registration and authentication.
type UserUseCase struct {
	userRepo UserRepository
	metrics  *metrics.Metrics
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(userRepo UserRepository, metrics *metrics.Metrics) *UserUseCase {
	return &UserUseCase{userRepo: userRepo, metrics: metrics}
}

func (uc *UserUseCase) recordAuth(status, failureReason string) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.AuthAttempts.WithLabelValues(status).Inc()
	if failureReason != "" {
		uc.metrics.AuthFailures.WithLabelValues(failureReason).Inc()
	}
}

// RegisterUserInput represents input for registering a user.
type RegisterUserInput struct {
	Email      string
	Password   string
	GivenName  string
	MiddleName string
	FamilyName string
	Suffix     string
}

// Register creates a user with a bcrypt-hashed password. A duplicate email
// surfaces as ErrConstraintViolation.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	if err := validateRequiredName(input.GivenName); err != nil {
		return nil, err
	}
	if err := validateRequiredName(input.FamilyName); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:          strings.ToLower(strings.TrimSpace(input.Email)),
		GivenName:      input.GivenName,
		MiddleName:     input.MiddleName,
		FamilyName:     input.FamilyName,
		Suffix:         input.Suffix,
		HashedPassword: string(hash),
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = ""

	return user, nil
}

// Authenticate verifies credentials and returns the user on success. A
// missing user and a wrong password are indistinguishable to the caller.
func (uc *UserUseCase) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			uc.recordAuth("failure", "unknown_email")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		uc.recordAuth("failure", "bad_password")
		return nil, domain.ErrInvalidCredentials
	}

	user.HashedPassword = ""
	uc.recordAuth("success", "")

	return user, nil
}

// Get returns a user by id.
func (uc *UserUseCase) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.HashedPassword = ""

	return user, nil
}

// UpdateUserInput represents a partial user update.
type UpdateUserInput struct {
	Email      *string
	Password   *string
	GivenName  *string
	MiddleName *string
	FamilyName *string
	Suffix     *string
}

// Update patches the requesting user's own record, rehashing the password
// when one is supplied.
func (uc *UserUseCase) Update(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		if err := domain.ValidateEmail(*input.Email); err != nil {
			return nil, err
		}
		user.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Password != nil {
		if err := domain.ValidatePassword(*input.Password); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.HashedPassword = string(hash)
	}
	if input.GivenName != nil {
		if err := validateRequiredName(*input.GivenName); err != nil {
			return nil, err
		}
		user.GivenName = *input.GivenName
	}
	if input.MiddleName != nil {
		user.MiddleName = *input.MiddleName
	}
	if input.FamilyName != nil {
		if err := validateRequiredName(*input.FamilyName); err != nil {
			return nil, err
		}
		user.FamilyName = *input.FamilyName
	}
	if input.Suffix != nil {
		user.Suffix = *input.Suffix
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = ""

	return user, nil
}

// Delete removes the requesting user's own record, cascading to currencies,
// accounts, transactions, and tags, and returns the pre-delete snapshot.
func (uc *UserUseCase) Delete(ctx context.Context, id int64) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := uc.userRepo.Delete(ctx, id); err != nil {
		return nil, err
	}

	user.HashedPassword = ""

	return user, nil
}
