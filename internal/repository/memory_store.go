package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/stemsi/student-records/internal/model"
)

// MemoryStore keeps courses and students in process memory with the same
// semantics as the PostgreSQL repositories. It backs STORAGE_DRIVER=memory and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	courses  map[string]model.Course
	students map[int]model.Student
	nextID   int
	now      func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		courses:  make(map[string]model.Course),
		students: make(map[int]model.Student),
		nextID:   1,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Courses returns a CourseRepository view of the store.
func (m *MemoryStore) Courses() CourseRepository { return memoryCourses{m} }

// Students returns a StudentRepository view of the store.
func (m *MemoryStore) Students() StudentRepository { return memoryStudents{m} }

type memoryCourses struct{ m *MemoryStore }

func (r memoryCourses) GetByID(_ context.Context, id string) (*model.Course, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	c, ok := r.m.courses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r memoryCourses) List(_ context.Context) ([]model.Course, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	courses := make([]model.Course, 0, len(r.m.courses))
	for _, c := range r.m.courses {
		courses = append(courses, c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (r memoryCourses) Create(_ context.Context, c *model.Course) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, exists := r.m.courses[c.ID]; exists {
		return ErrDuplicateKey
	}
	now := r.m.now()
	c.CreatedAt, c.UpdatedAt = now, now
	r.m.courses[c.ID] = *c
	return nil
}

func (r memoryCourses) Update(_ context.Context, c *model.Course) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	existing, ok := r.m.courses[c.ID]
	if !ok {
		return ErrNotFound
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = r.m.now()
	r.m.courses[c.ID] = *c
	return nil
}

func (r memoryCourses) Delete(_ context.Context, id string) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.courses[id]; !ok {
		return 0, ErrNotFound
	}

	orphaned := 0
	now := r.m.now()
	for sid, s := range r.m.students {
		if s.CourseID != nil && *s.CourseID == id {
			s.CourseID = nil
			s.UpdatedAt = now
			r.m.students[sid] = s
			orphaned++
		}
	}
	delete(r.m.courses, id)
	return orphaned, nil
}

type memoryStudents struct{ m *MemoryStore }

func (r memoryStudents) GetByID(_ context.Context, id int) (*model.Student, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	s, ok := r.m.students[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneStudent(s), nil
}

func (r memoryStudents) GetByEmail(_ context.Context, email string) (*model.Student, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	for _, s := range r.m.sortedStudents(model.SortByID) {
		if s.Email == email {
			return cloneStudent(s), nil
		}
	}
	return nil, ErrNotFound
}

func (r memoryStudents) List(_ context.Context) ([]model.Student, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	return r.m.sortedStudents(model.SortByID), nil
}

func (r memoryStudents) ListPaginated(_ context.Context, q model.StudentQuery) ([]model.Student, int, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	needle := strings.ToLower(q.Search)
	matched := []model.Student{}
	for _, s := range r.m.sortedStudents(q.SortBy) {
		if needle == "" ||
			strings.Contains(strings.ToLower(s.Name), needle) ||
			strings.Contains(strings.ToLower(s.Email), needle) {
			matched = append(matched, s)
		}
	}

	total := len(matched)
	start := q.Offset()
	if start > total {
		start = total
	}
	end := total
	if q.PerPage < total-start {
		end = start + q.PerPage
	}
	return matched[start:end], total, nil
}

func (r memoryStudents) Create(_ context.Context, s *model.Student) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if s.CourseID != nil {
		if _, ok := r.m.courses[*s.CourseID]; !ok {
			return ErrMissingReference
		}
	}
	now := r.m.now()
	s.ID = r.m.nextID
	s.CreatedAt, s.UpdatedAt = now, now
	r.m.nextID++
	r.m.students[s.ID] = *cloneStudent(*s)
	return nil
}

func (r memoryStudents) Update(_ context.Context, s *model.Student) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	existing, ok := r.m.students[s.ID]
	if !ok {
		return ErrNotFound
	}
	if s.CourseID != nil {
		if _, ok := r.m.courses[*s.CourseID]; !ok {
			return ErrMissingReference
		}
	}
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = r.m.now()
	r.m.students[s.ID] = *cloneStudent(*s)
	return nil
}

func (r memoryStudents) Delete(_ context.Context, id int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.students[id]; !ok {
		return ErrNotFound
	}
	delete(r.m.students, id)
	return nil
}

// sortedStudents returns copies of all students in the requested order. Callers hold mu.
func (m *MemoryStore) sortedStudents(sortBy string) []model.Student {
	out := make([]model.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, *cloneStudent(s))
	}
	sort.Slice(out, func(i, j int) bool {
		if sortBy == model.SortByName && out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func cloneStudent(s model.Student) *model.Student {
	if s.CourseID != nil {
		id := *s.CourseID
		s.CourseID = &id
	}
	return &s
}
