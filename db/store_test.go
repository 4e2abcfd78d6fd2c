package db

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ecophos-dev/ecophos/internal/models"
)

type record struct {
	ID    string   `json:"id"`
	Owner string   `json:"owner"`
	Tags  []string `json:"tags"`
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	dir := t.TempDir()
	backend, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}

	return NewStore(backend, nil), dir
}

func TestCollectionMissingDocumentReadsEmpty(t *testing.T) {
	store, _ := newTestStore(t)
	c := NewCollection[record](store, "things")

	got := c.All()
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestCollectionCorruptDocumentReadsEmpty(t *testing.T) {
	store, dir := newTestStore(t)

	if err := os.WriteFile(filepath.Join(dir, "things.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewCollection[record](store, "things")
	if got := c.All(); len(got) != 0 {
		t.Errorf("expected empty collection, got %d records", len(got))
	}
}

func TestCollectionAcceptsCommentsAndTrailingCommas(t *testing.T) {
	store, dir := newTestStore(t)

	doc := `[
  // seeded by hand
  {"id": "1", "owner": "a",},
]`
	if err := os.WriteFile(filepath.Join(dir, "things.json"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	got := NewCollection[record](store, "things").All()
	if len(got) != 1 || got[0].ID != "1" || got[0].Owner != "a" {
		t.Errorf("unexpected records: %#v", got)
	}
}

func TestCollectionRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	c := NewCollection[record](store, "things")

	want := []record{
		{ID: "3", Owner: "b", Tags: []string{"x"}},
		{ID: "1", Owner: "a", Tags: []string{}},
		{ID: "2", Owner: "a", Tags: []string{"y", "z"}},
	}

	if err := c.ReplaceAll(want); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	got := NewCollection[record](store, "things").All()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %#v, got %#v", want, got)
	}
}

func TestCollectionDeleteWhere(t *testing.T) {
	store, _ := newTestStore(t)
	c := NewCollection[record](store, "things")

	_ = c.ReplaceAll([]record{{ID: "1", Owner: "a"}, {ID: "2", Owner: "b"}, {ID: "3", Owner: "a"}})

	removed, err := c.DeleteWhere(func(r record) bool { return r.Owner == "a" })
	if err != nil {
		t.Fatalf("DeleteWhere: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}

	got := c.All()
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("unexpected remaining records: %#v", got)
	}

	removed, err = c.DeleteWhere(func(r record) bool { return r.Owner == "nobody" })
	if err != nil || removed != 0 {
		t.Errorf("expected 0 removed and no error, got %d, %v", removed, err)
	}
}

func TestCollectionUpdateErrorSkipsWrite(t *testing.T) {
	store, _ := newTestStore(t)
	c := NewCollection[record](store, "things")
	_ = c.Append(record{ID: "1"})

	sentinel := fmt.Errorf("nope")
	err := c.Update(func(records []record) ([]record, error) {
		return append(records, record{ID: "2"}), sentinel
	})
	if err != sentinel {
		t.Errorf("expected sentinel error, got %v", err)
	}

	if got := c.All(); len(got) != 1 {
		t.Errorf("expected 1 record after failed update, got %d", len(got))
	}
}

func TestCollectionConcurrentAppendsAreNotLost(t *testing.T) {
	store, _ := newTestStore(t)
	c := NewCollection[record](store, "things")

	const writers = 25

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := c.Append(record{ID: fmt.Sprint(i)}); err != nil {
				t.Errorf("Append: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if got := len(c.All()); got != writers {
		t.Errorf("expected %d records, got %d", writers, got)
	}
}

func TestFileBackendLeavesNoTemporaryFile(t *testing.T) {
	store, dir := newTestStore(t)
	_ = NewCollection[record](store, "things").Append(record{ID: "1"})

	if _, err := os.Stat(filepath.Join(dir, "things.json.tmp")); !os.IsNotExist(err) {
		t.Errorf("expected temporary file to be gone, stat error: %v", err)
	}
}

func TestNormalizeMySQLDSN(t *testing.T) {
	dsn, err := normalizeMySQLDSN("user:pass@tcp(localhost:3306)/portal")
	if err != nil {
		t.Fatalf("normalizeMySQLDSN: %v", err)
	}

	if want := "parseTime=true"; !strings.Contains(dsn, want) {
		t.Errorf("expected %q in %q", want, dsn)
	}
}

func TestEnsureTimezoneUTC(t *testing.T) {
	got, err := ensureTimezoneUTC("postgres://u:p@localhost:5432/portal?sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "TimeZone=UTC") {
		t.Errorf("expected TimeZone=UTC in %q", got)
	}

	kv := "host=localhost user=u dbname=portal"
	if got, _ := ensureTimezoneUTC(kv); got != kv {
		t.Errorf("expected key/value DSN untouched, got %q", got)
	}
}

func TestCollectionRoundTripModels(t *testing.T) {
	store, _ := newTestStore(t)
	created := time.Date(2025, 3, 1, 12, 30, 15, 123456789, time.UTC)

	users := []models.User{
		{ID: "u1", Name: "Ana", Email: "a@x.com", Phone: "555", Password: models.HashedPassword("$2a$10$abcdefghijklmnopqrstuu"), Role: models.RoleUser, CreatedAt: created},
		{ID: "u2", Name: "Old", Email: "old@x.com", Password: models.PlaintextPassword("legacy")},
	}
	projects := []models.Project{
		{ID: "p1", UserID: "u1", Title: "Solar", Description: "Panels", CreatedAt: created, Tasks: []models.Task{
			{ID: "t1", Status: models.StatusPending, Priority: models.PriorityHigh, Owner: "Bob", Desc: "", CreatedAt: created},
		}},
		{ID: "p2", UserID: "u2", Title: "Wind", Description: "Turbines", CreatedAt: created.Add(time.Hour), Tasks: []models.Task{}},
	}
	news := []models.NewsItem{
		{ID: "n1", Title: "Planta", Description: "Nueva", DatePublished: "2025-04-01", Image: "/media/1_a.png"},
	}
	contacts := []models.ContactMessage{
		{ID: "c1", Name: "Ana", Phone: "555", Email: "a@x.com", Message: "Hola", CreatedAt: created},
	}

	assertRoundTrip(t, store, Users, users)
	assertRoundTrip(t, store, Projects, projects)
	assertRoundTrip(t, store, News, news)
	assertRoundTrip(t, store, Contacts, contacts)

	got := NewCollection[models.User](store, Users).All()
	if got[0].Password.Kind != models.PasswordHashed || got[1].Password.Kind != models.PasswordPlaintext {
		t.Errorf("password kinds not preserved: %#v", got)
	}
}

func assertRoundTrip[T any](t *testing.T, store *Store, name string, want []T) {
	t.Helper()

	if err := NewCollection[T](store, name).ReplaceAll(want); err != nil {
		t.Fatalf("ReplaceAll(%s): %v", name, err)
	}

	got := NewCollection[T](store, name).All()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("%s: expected %#v, got %#v", name, want, got)
	}
}

func TestOriginalDataFileNamesLoad(t *testing.T) {
	store, dir := newTestStore(t)

	admins := `[{"id":"1","username":"admin","password":"123456","name":"Administrador","email":"admin@ecophos.local","role":"admin","createdAt":"2025-01-01T00:00:00.000Z"}]`
	contacts := `[{"id":"1700000000000","name":"Ana","phone":"555","email":"a@x.com","message":"Hola","createdAt":"2025-01-02T10:00:00.000Z"}]`

	if err := os.WriteFile(filepath.Join(dir, "administradores.json"), []byte(admins), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "contactos.json"), []byte(contacts), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := NewCollection[models.Admin](store, Admins).All(); len(got) != 1 || got[0].Username != "admin" {
		t.Errorf("expected admin from administradores.json, got %#v", got)
	}
	if got := NewCollection[models.ContactMessage](store, Contacts).All(); len(got) != 1 || got[0].Message != "Hola" {
		t.Errorf("expected contact from contactos.json, got %#v", got)
	}
}
