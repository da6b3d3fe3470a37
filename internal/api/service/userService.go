package service

import (
	"errors"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"gorm.io/gorm"
)

var ErrInvalidRole = errors.New("unknown role")

type UserService interface {
	List(search string, limit, offset int) (*dto.Paginated[dto.UserResponse], error)
	Get(username string) (*dto.UserResponse, error)
	GetByID(id string) (*models.User, error)
	Create(in dto.CreateUserDTO) (*dto.UserResponse, error)
	Update(username string, in dto.UpdateUserDTO, allowRoleChange bool) (*dto.UserResponse, error)
	Delete(username string) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(search string, limit, offset int) (*dto.Paginated[dto.UserResponse], error) {
	users, total, err := s.userRepo.List(search, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *dto.FromModelToUserResponse(&users[i]))
	}

	return dto.NewPaginated(responses, total, limit, offset), nil
}

func (s *userService) Get(username string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

// GetByID resolves the authenticated caller for the /users/me routes.
func (s *userService) GetByID(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create is the admin path: it may set any valid role directly.
func (s *userService) Create(in dto.CreateUserDTO) (*dto.UserResponse, error) {
	if err := ValidateUsername(in.Username); err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	if _, err := s.userRepo.FindByUsername(in.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByEmail(in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Bio:      in.Bio,
		Role:     role,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return dto.FromModelToUserResponse(user), nil
}

// Update applies the mutable fields. Role changes are only applied when
// allowRoleChange is set (admin callers); for self-service updates the
// field is silently dropped, matching the read-only role on the profile
// endpoint.
func (s *userService) Update(username string, in dto.UpdateUserDTO, allowRoleChange bool) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if in.Username != nil && *in.Username != user.Username {
		if err := ValidateUsername(*in.Username); err != nil {
			return nil, err
		}
		if _, err := s.userRepo.FindByUsername(*in.Username); err == nil {
			return nil, ErrUsernameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Username = *in.Username
	}
	if in.Email != nil && *in.Email != user.Email {
		if _, err := s.userRepo.FindByEmail(*in.Email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = *in.Email
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Role != nil && allowRoleChange {
		if !in.Role.Valid() {
			return nil, ErrInvalidRole
		}
		user.Role = *in.Role
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) Delete(username string) error {
	err := s.userRepo.Delete(username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}
