package services

import (
	"sort"
	"strings"

	"github.com/ecophos-dev/ecophos/db"
	"github.com/ecophos-dev/ecophos/internal/apperr"
	"github.com/ecophos-dev/ecophos/internal/models"
	"github.com/ecophos-dev/ecophos/internal/types"
)

type TaskInput struct {
	Status   string
	Priority string
	Owner    string
	Desc     string
}

// CanAccess is the ownership check applied before any private project or
// task operation.
func CanAccess(subjectID string, project models.Project) bool {
	return subjectID != "" && project.UserID == subjectID
}

type ProjectService struct {
	projects *db.Collection[models.Project]
	users    *db.Collection[models.User]
	opts     Options
}

func NewProjectService(store *db.Store, opts Options) *ProjectService {
	return &ProjectService{
		projects: db.NewCollection[models.Project](store, db.Projects),
		users:    db.NewCollection[models.User](store, db.Users),
		opts:     opts.withDefaults(),
	}
}

func (s *ProjectService) Create(ownerID, title, description string) (models.Project, error) {
	if blank(title) || blank(description) {
		return models.Project{}, apperr.BadRequest("Title and description are required")
	}

	project := models.Project{
		ID:          newID(),
		UserID:      ownerID,
		Title:       title,
		Description: description,
		CreatedAt:   s.opts.now(),
		Tasks:       []models.Task{},
	}

	// The owner is checked while the projects document is locked. A user
	// deletion removes the user before cascading to projects, so a project
	// is either rejected here or removed by the cascade.
	err := s.projects.Update(func(projects []models.Project) ([]models.Project, error) {
		if !s.userExists(ownerID) {
			return nil, apperr.NotFound("User not found")
		}
		return append(projects, project), nil
	})
	if err != nil {
		return models.Project{}, err
	}

	return project, nil
}

func (s *ProjectService) ListOwned(ownerID string) []models.Project {
	owned := []models.Project{}

	for _, p := range s.projects.All() {
		if CanAccess(ownerID, p) {
			owned = append(owned, withTasks(p))
		}
	}

	return owned
}

// Delete removes a project owned by ownerID. Projects owned by someone else
// are reported exactly like missing ones.
func (s *ProjectService) Delete(ownerID, projectID string) error {
	removed, err := s.projects.DeleteWhere(func(p models.Project) bool {
		return p.ID == projectID && CanAccess(ownerID, p)
	})
	if err != nil {
		return err
	}

	if removed == 0 {
		return errProjectNotFound()
	}

	return nil
}

func (s *ProjectService) ListTasks(ownerID, projectID string) ([]models.Task, error) {
	projects := s.projects.All()

	i := findOwned(projects, ownerID, projectID)
	if i < 0 {
		return nil, errProjectNotFound()
	}

	return withTasks(projects[i]).Tasks, nil
}

func (s *ProjectService) CreateTask(ownerID, projectID string, in TaskInput) (models.Task, error) {
	if blank(in.Status) || blank(in.Priority) || blank(in.Owner) {
		return models.Task{}, apperr.BadRequest("Status, priority and owner are required")
	}

	task := models.Task{
		ID:        newID(),
		Status:    in.Status,
		Priority:  in.Priority,
		Owner:     in.Owner,
		Desc:      in.Desc,
		CreatedAt: s.opts.now(),
	}

	err := s.projects.Update(func(projects []models.Project) ([]models.Project, error) {
		i := findOwned(projects, ownerID, projectID)
		if i < 0 {
			return nil, errProjectNotFound()
		}

		projects[i] = withTasks(projects[i])
		projects[i].Tasks = append(projects[i].Tasks, task)
		return projects, nil
	})
	if err != nil {
		return models.Task{}, err
	}

	return task, nil
}

func (s *ProjectService) DeleteTask(ownerID, projectID, taskID string) error {
	return s.projects.Update(func(projects []models.Project) ([]models.Project, error) {
		i := findOwned(projects, ownerID, projectID)
		if i < 0 {
			return nil, errProjectNotFound()
		}

		tasks := projects[i].Tasks
		kept := make([]models.Task, 0, len(tasks))
		for _, t := range tasks {
			if t.ID != taskID {
				kept = append(kept, t)
			}
		}

		if len(kept) == len(tasks) {
			return nil, apperr.NotFound("Task not found")
		}

		projects[i].Tasks = kept
		return projects, nil
	})
}

// ListPublic returns every project, newest first, with the owner's name and
// email attached. Owners that no longer exist leave those fields blank.
func (s *ProjectService) ListPublic() []types.PublicProject {
	owners := make(map[string]models.User)
	for _, u := range s.users.All() {
		owners[u.ID] = u
	}

	projects := s.projects.All()
	out := make([]types.PublicProject, 0, len(projects))

	for _, p := range projects {
		owner := owners[p.UserID]
		out = append(out, types.PublicProject{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			CreatedAt:   p.CreatedAt,
			UserID:      p.UserID,
			OwnerName:   owner.Name,
			OwnerEmail:  owner.Email,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out
}

// ListPublicTasks returns a project's tasks without any ownership check.
func (s *ProjectService) ListPublicTasks(projectID string) ([]models.Task, error) {
	for _, p := range s.projects.All() {
		if p.ID == projectID {
			return withTasks(p).Tasks, nil
		}
	}

	return nil, errProjectNotFound()
}

func (s *ProjectService) userExists(userID string) bool {
	if strings.TrimSpace(userID) == "" {
		return false
	}

	for _, u := range s.users.All() {
		if u.ID == userID {
			return true
		}
	}

	return false
}

func findOwned(projects []models.Project, ownerID, projectID string) int {
	for i, p := range projects {
		if p.ID == projectID && CanAccess(ownerID, p) {
			return i
		}
	}
	return -1
}

// withTasks guarantees a non-nil task list for records written without one.
func withTasks(p models.Project) models.Project {
	if p.Tasks == nil {
		p.Tasks = []models.Task{}
	}
	return p
}

func errProjectNotFound() error {
	return apperr.NotFound("Project not found")
}
