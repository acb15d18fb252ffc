package service

import (
	"clinicportal/cmd/internal/domain/entity"
	"clinicportal/cmd/internal/utils"
	"clinicportal/cmd/internal/utils/apierror"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type UserRepository interface {
	FindByID(id int) (*entity.User, error)
	FindBySub(sub string) (*entity.User, error)
	FindAll() ([]*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	ExistsByEmail(email string) (bool, error)
	Save(user *entity.User) error
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required,role"`
	Sub      string `json:"sub" validate:"omitempty,max=64,nospaces"`
}

type UserResponse struct {
	ID        int         `json:"id"`
	Sub       string      `json:"sub"`
	Username  string      `json:"username"`
	Role      entity.Role `json:"role"`
	IsAdmin   bool        `json:"is_admin"`
	CreatedAt string      `json:"created_at"`
	UpdatedAt string      `json:"updated_at"`
}

type DefaultUserService struct {
	UserRepo UserRepository
	Validate *validator.Validate
}

func NewUserService(userRepo UserRepository, validate *validator.Validate) *DefaultUserService {
	return &DefaultUserService{UserRepo: userRepo, Validate: validate}
}

func (u *DefaultUserService) GetUsers(rawRole string) ([]*UserResponse, apierror.ErrorResponse) {
	users, err := u.UserRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch all users: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*UserResponse, 0, len(users))
	for _, user := range users {
		if rawRole == "" || string(user.Role) == rawRole {
			resp = append(resp, toUserResponse(user))
		}
	}
	return resp, nil
}

func (u *DefaultUserService) GetUser(rawId, subId string) (*UserResponse, apierror.ErrorResponse) {
	user, apierr := u.fetchUser(rawId, subId)
	if apierr != nil {
		return nil, apierr
	}

	if user == nil {
		return nil, apierror.NotFoundError
	}

	resp := toUserResponse(user)
	return resp, nil
}

// CreateUser adds a directory entry. Only admins may do it; there is no
// password, callers are identified by the sub of their token.
func (u *DefaultUserService) CreateUser(req *CreateUserRequest, subId string) (*UserResponse, apierror.ErrorResponse) {
	caller, apierr := u.fetchBySub(subId)
	if apierr != nil {
		return nil, apierr
	}
	if caller == nil || !caller.IsAdmin() {
		return nil, apierror.ForbiddenError
	}

	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	found, err := u.UserRepo.ExistsByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to check if user already exists: %v", err)
		return nil, apierror.InternalServerError
	}

	if found {
		return nil, apierror.UserAlreadyExistsError
	}

	sub := req.Sub
	if sub == "" {
		sub = uuid.NewString()
	}

	now := utils.NowUTC()
	user := &entity.User{
		SubUUID:   sub,
		Username:  req.Username,
		Email:     req.Email,
		Role:      entity.Role(req.Role),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = u.UserRepo.Save(user)
	if err != nil {
		log.Errorf("failed to create user: %v", err)
		return nil, apierror.InternalServerError
	}
	return toUserResponse(user), nil
}

// EnsureAdmin creates the bootstrap admin unless a user with that sub exists.
// The email must not belong to somebody else.
func (u *DefaultUserService) EnsureAdmin(sub, email string) error {
	existing, err := u.UserRepo.FindBySub(sub)
	if err != nil || existing != nil {
		return err
	}

	owner, err := u.UserRepo.FindByEmail(email)
	if err != nil {
		return err
	}
	if owner != nil {
		return fmt.Errorf("email %s already belongs to user %d", email, owner.ID)
	}

	now := utils.NowUTC()
	return u.UserRepo.Save(&entity.User{
		SubUUID:   sub,
		Username:  "admin",
		Email:     email,
		Role:      entity.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (u *DefaultUserService) fetchUser(rawId, sub string) (*entity.User, apierror.ErrorResponse) {
	if rawId == "@me" {
		return u.fetchBySub(sub)
	}
	return u.fetchByID(rawId)
}

func (u *DefaultUserService) fetchBySub(sub string) (*entity.User, apierror.ErrorResponse) {
	user, err := u.UserRepo.FindBySub(sub)
	if err != nil {
		log.Errorf("failed to find user (%s) by sub: %v", sub, err)
		return nil, apierror.InternalServerError
	}
	return user, nil
}

func (u *DefaultUserService) fetchByID(rawId string) (*entity.User, apierror.ErrorResponse) {
	userId, err := strconv.Atoi(rawId)
	if err != nil {
		return nil, apierror.NewInvalidParamTypeError("id", "int32")
	}
	user, err := u.UserRepo.FindByID(userId)
	if err != nil {
		log.Errorf("failed to find user (%s) by id: %v", rawId, err)
		return nil, apierror.InternalServerError
	}
	return user, nil
}

func toUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Sub:       user.SubUUID,
		Username:  user.Username,
		Role:      user.Role,
		IsAdmin:   user.IsAdmin(),
		CreatedAt: utils.FormatEpoch(user.CreatedAt),
		UpdatedAt: utils.FormatEpoch(user.UpdatedAt),
	}
}
