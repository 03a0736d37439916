package services

import (
	"context"
	"fmt"
	"strings"

	userrepo "github.com/codeforma/codeforma-backend/internal/data/repos/user"
	types "github.com/codeforma/codeforma-backend/internal/domain"
	"github.com/codeforma/codeforma-backend/internal/platform/apierr"
	"github.com/codeforma/codeforma-backend/internal/platform/logger"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UpdateProfileInput struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*types.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*types.User, error)
	ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error
	UpdateAvatarFromImage(ctx context.Context, id uuid.UUID, raw []byte) (*types.User, error)
}

type userService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      userrepo.UserRepo
	userTokenRepo userrepo.UserTokenRepo
	avatarService AvatarService
}

func NewUserService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo userrepo.UserRepo,
	userTokenRepo userrepo.UserTokenRepo,
	avatarService AvatarService,
) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		avatarService: avatarService,
	}
}

func (us *userService) GetByID(ctx context.Context, id uuid.UUID) (*types.User, error) {
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("user")
	}
	return users[0], nil
}

func (us *userService) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*types.User, error) {
	fields := map[string]interface{}{}
	if in.FirstName != nil {
		v := strings.TrimSpace(*in.FirstName)
		if v == "" {
			return nil, apierr.Invalid("first name cannot be empty")
		}
		fields["first_name"] = v
	}
	if in.LastName != nil {
		v := strings.TrimSpace(*in.LastName)
		if v == "" {
			return nil, apierr.Invalid("last name cannot be empty")
		}
		fields["last_name"] = v
	}
	if len(fields) == 0 {
		return us.GetByID(ctx, id)
	}

	if err := us.userRepo.UpdateFields(ctx, nil, id, fields); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return us.GetByID(ctx, id)
}

func (us *userService) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	if len(next) < 8 {
		return apierr.Invalid("password must be at least 8 characters")
	}

	user, err := us.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return apierr.Unauthorized("current password incorrect")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if uErr := us.userRepo.UpdateFields(ctx, tx, id, map[string]interface{}{"password": string(hashed)}); uErr != nil {
			return fmt.Errorf("update password: %w", uErr)
		}
		// Changing the password revokes every live session.
		if dErr := us.userTokenRepo.FullDeleteByUserID(ctx, tx, id); dErr != nil {
			return fmt.Errorf("revoke sessions: %w", dErr)
		}
		return nil
	})
}

func (us *userService) UpdateAvatarFromImage(ctx context.Context, id uuid.UUID, raw []byte) (*types.User, error) {
	if len(raw) == 0 {
		return nil, apierr.Invalid("image payload required")
	}
	user, err := us.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := us.avatarService.CreateUserAvatarFromImage(ctx, user, raw); err != nil {
		return nil, apierr.Invalid("could not process image")
	}
	if err := us.userRepo.UpdateFields(ctx, nil, id, map[string]interface{}{"avatar_url": user.AvatarURL}); err != nil {
		return nil, fmt.Errorf("persist avatar url: %w", err)
	}
	return user, nil
}
