package services

import (
	"errors"
	"strings"

	"github.com/ecophos-dev/ecophos/db"
	"github.com/ecophos-dev/ecophos/internal/apperr"
	"github.com/ecophos-dev/ecophos/internal/auth"
	"github.com/ecophos-dev/ecophos/internal/models"
)

// SeedAdmin describes the bootstrap account. Its password is stored in
// plaintext on purpose; login accepts either storage form.
type SeedAdmin struct {
	Username string
	Password string
	Email    string
	Name     string
}

var errAdminsPresent = errors.New("admins already present")

// AdminService backs the admin panel: admin login and user management.
type AdminService struct {
	admins   *db.Collection[models.Admin]
	users    *db.Collection[models.User]
	projects *db.Collection[models.Project]
	opts     Options
}

func NewAdminService(store *db.Store, opts Options) *AdminService {
	return &AdminService{
		admins:   db.NewCollection[models.Admin](store, db.Admins),
		users:    db.NewCollection[models.User](store, db.Users),
		projects: db.NewCollection[models.Project](store, db.Projects),
		opts:     opts.withDefaults(),
	}
}

// EnsureSeedAdmin creates the bootstrap admin when no admin exists and
// reports whether it did.
func (s *AdminService) EnsureSeedAdmin(seed SeedAdmin) (bool, error) {
	err := s.admins.Update(func(admins []models.Admin) ([]models.Admin, error) {
		if len(admins) > 0 {
			return nil, errAdminsPresent
		}

		return append(admins, models.Admin{
			ID:        newID(),
			Username:  seed.Username,
			Email:     seed.Email,
			Password:  models.PlaintextPassword(seed.Password),
			Name:      seed.Name,
			Role:      models.RoleAdmin,
			CreatedAt: s.opts.now(),
		}), nil
	})

	if errors.Is(err, errAdminsPresent) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	s.opts.Logger.Warn("seeded default admin account with a well-known password; change it",
		"username", seed.Username)

	return true, nil
}

// Login matches login against username or email, case-insensitively.
func (s *AdminService) Login(login, password string) (models.Admin, error) {
	if blank(login) || password == "" {
		return models.Admin{}, apperr.BadRequest("Username and password are required")
	}

	login = strings.TrimSpace(login)

	for _, a := range s.admins.All() {
		if !strings.EqualFold(a.Username, login) && !strings.EqualFold(a.Email, login) {
			continue
		}

		if auth.CheckPassword(a.Password, password) {
			return a, nil
		}
		break
	}

	return models.Admin{}, apperr.Unauthorized("Invalid credentials")
}

func (s *AdminService) ListUsers() []models.User {
	return s.users.All()
}

// CreateUser applies the registration rules but starts no session.
func (s *AdminService) CreateUser(in RegisterInput) (models.User, error) {
	user, err := createUser(s.users, in, s.opts)
	if err != nil {
		return models.User{}, err
	}

	s.opts.publish(EventUserCreated, map[string]string{"id": user.ID, "email": user.Email})
	return user, nil
}

// DeleteUser removes the user and every project they own, returning how
// many projects went with them. The two documents are written one after
// the other, not atomically.
func (s *AdminService) DeleteUser(userID string) (int, error) {
	removed, err := s.users.DeleteWhere(func(u models.User) bool {
		return u.ID == userID
	})
	if err != nil {
		return 0, err
	}
	if removed == 0 {
		return 0, apperr.NotFound("User not found")
	}

	deletedProjects, err := s.projects.DeleteWhere(func(p models.Project) bool {
		return p.UserID == userID
	})
	if err != nil {
		return 0, err
	}

	s.opts.publish(EventUserDeleted, map[string]any{"id": userID, "deletedProjects": deletedProjects})
	return deletedProjects, nil
}
