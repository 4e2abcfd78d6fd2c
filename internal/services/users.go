package services

import (
	"strings"

	"github.com/ecophos-dev/ecophos/db"
	"github.com/ecophos-dev/ecophos/internal/apperr"
	"github.com/ecophos-dev/ecophos/internal/auth"
	"github.com/ecophos-dev/ecophos/internal/models"
)

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// ProfileUpdate holds the editable profile fields. Nil fields are left
// untouched.
type ProfileUpdate struct {
	Name  *string
	Phone *string
}

// AuthService handles end-user accounts.
type AuthService struct {
	users *db.Collection[models.User]
	opts  Options
}

func NewAuthService(store *db.Store, opts Options) *AuthService {
	return &AuthService{
		users: db.NewCollection[models.User](store, db.Users),
		opts:  opts.withDefaults(),
	}
}

func (s *AuthService) Register(in RegisterInput) (models.User, error) {
	return createUser(s.users, in, s.opts)
}

func (s *AuthService) Login(email, password string) (models.User, error) {
	if blank(email) || password == "" {
		return models.User{}, apperr.BadRequest("Email and password are required")
	}

	user, ok := findUserByEmail(s.users.All(), email)
	if !ok || !auth.CheckPassword(user.Password, password) {
		return models.User{}, apperr.Unauthorized("Invalid credentials")
	}

	return user, nil
}

func (s *AuthService) Profile(userID string) (models.User, error) {
	for _, u := range s.users.All() {
		if u.ID == userID {
			return u, nil
		}
	}

	return models.User{}, apperr.NotFound("User not found")
}

func (s *AuthService) UpdateProfile(userID string, update ProfileUpdate) (models.User, error) {
	var updated models.User

	err := s.users.Update(func(users []models.User) ([]models.User, error) {
		for i := range users {
			if users[i].ID != userID {
				continue
			}

			if update.Name != nil {
				users[i].Name = *update.Name
			}
			if update.Phone != nil {
				users[i].Phone = *update.Phone
			}

			updated = users[i]
			return users, nil
		}

		return nil, apperr.NotFound("User not found")
	})

	return updated, err
}

// createUser enforces the shared registration rules: required fields,
// case-insensitive unique email, bcrypt-hashed password.
func createUser(users *db.Collection[models.User], in RegisterInput, opts Options) (models.User, error) {
	if blank(in.Name) || blank(in.Email) || in.Password == "" {
		return models.User{}, apperr.BadRequest("Name, email and password are required")
	}

	password, err := auth.HashPassword(in.Password, opts.BcryptCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:        newID(),
		Name:      strings.TrimSpace(in.Name),
		Email:     normalizeEmail(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Password:  password,
		Role:      models.RoleUser,
		CreatedAt: opts.now(),
	}

	err = users.Update(func(existing []models.User) ([]models.User, error) {
		if _, taken := findUserByEmail(existing, user.Email); taken {
			return nil, apperr.Conflict("Email is already registered")
		}
		return append(existing, user), nil
	})
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

func findUserByEmail(users []models.User, email string) (models.User, bool) {
	email = normalizeEmail(email)

	for _, u := range users {
		if strings.EqualFold(strings.TrimSpace(u.Email), email) {
			return u, true
		}
	}

	return models.User{}, false
}
