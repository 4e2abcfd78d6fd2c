package services

import (
	"mime/multipart"
	"sort"
	"strings"
	"time"

	"github.com/ecophos-dev/ecophos/db"
	"github.com/ecophos-dev/ecophos/internal/apperr"
	"github.com/ecophos-dev/ecophos/internal/models"
)

// MediaStore persists an uploaded file and returns the URL it is served at.
type MediaStore interface {
	Save(file *multipart.FileHeader) (string, error)
}

type NewsInput struct {
	Title         string
	Description   string
	DatePublished string
	Image         *multipart.FileHeader
}

type NewsService struct {
	news  *db.Collection[models.NewsItem]
	media MediaStore
	opts  Options
}

func NewNewsService(store *db.Store, media MediaStore, opts Options) *NewsService {
	return &NewsService{
		news:  db.NewCollection[models.NewsItem](store, db.News),
		media: media,
		opts:  opts.withDefaults(),
	}
}

// List returns every news item, most recently published first.
func (s *NewsService) List() []models.NewsItem {
	items := s.news.All()

	sort.SliceStable(items, func(i, j int) bool {
		return publishedAt(items[i]).After(publishedAt(items[j]))
	})

	return items
}

func (s *NewsService) Create(in NewsInput) (models.NewsItem, error) {
	if blank(in.Title) || blank(in.Description) || blank(in.DatePublished) || in.Image == nil {
		return models.NewsItem{}, apperr.BadRequest("Title, description, date and image are required")
	}

	image, err := s.media.Save(in.Image)
	if err != nil {
		return models.NewsItem{}, err
	}

	item := models.NewsItem{
		ID:            newID(),
		Title:         in.Title,
		Description:   in.Description,
		DatePublished: in.DatePublished,
		Image:         image,
	}

	if err := s.news.Append(item); err != nil {
		return models.NewsItem{}, err
	}

	s.opts.publish(EventNewsCreated, item)
	return item, nil
}

// Delete removes the news record. The image file stays on disk.
func (s *NewsService) Delete(id string) error {
	removed, err := s.news.DeleteWhere(func(n models.NewsItem) bool {
		return n.ID == id
	})
	if err != nil {
		return err
	}

	if removed == 0 {
		return apperr.NotFound("News item not found")
	}

	s.opts.publish(EventNewsDeleted, map[string]string{"id": id})
	return nil
}

var publishedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02",
}

// publishedAt parses the free-form publish date; unparseable dates sort
// last.
func publishedAt(item models.NewsItem) time.Time {
	value := strings.TrimSpace(item.DatePublished)

	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}

	return time.Time{}
}
