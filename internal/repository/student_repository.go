package repository

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/student-records/internal/model"
)

// StudentRepository handles student data access.
type StudentRepository interface {
	GetByID(ctx context.Context, id int) (*model.Student, error)
	GetByEmail(ctx context.Context, email string) (*model.Student, error)
	List(ctx context.Context) ([]model.Student, error)
	// ListPaginated returns one page of students matching q, plus the total match count.
	ListPaginated(ctx context.Context, q model.StudentQuery) ([]model.Student, int, error)
	Create(ctx context.Context, student *model.Student) error
	Update(ctx context.Context, student *model.Student) error
	Delete(ctx context.Context, id int) error
}

var studentColumns = []string{"id", "name", "email", "course_id", "created_at", "updated_at"}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type studentRepository struct {
	pool *pgxpool.Pool
	sb   squirrel.StatementBuilderType
}

// NewStudentRepository creates a PostgreSQL-backed StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) StudentRepository {
	return &studentRepository{
		pool: pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner, s *model.Student) error {
	return row.Scan(&s.ID, &s.Name, &s.Email, &s.CourseID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *studentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *studentRepository) GetByEmail(ctx context.Context, email string) (*model.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

func (r *studentRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*model.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(where).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	s := &model.Student{}
	if err := scanStudent(r.pool.QueryRow(ctx, sql, args...), s); err != nil {
		return nil, translate(err)
	}
	return s, nil
}

func (r *studentRepository) List(ctx context.Context) ([]model.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.query(ctx, sql, args)
}

func (r *studentRepository) ListPaginated(ctx context.Context, q model.StudentQuery) ([]model.Student, int, error) {
	countQ, pageQ := studentListQueries(r.sb, q)

	// 1. Get total count
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// 2. Get the requested page
	sql, args, err := pageQ.ToSql()
	if err != nil {
		return nil, 0, err
	}
	students, err := r.query(ctx, sql, args)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

func (r *studentRepository) query(ctx context.Context, sql string, args []any) ([]model.Student, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := []model.Student{}
	for rows.Next() {
		var s model.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

func (r *studentRepository) Create(ctx context.Context, s *model.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns("name", "email", "course_id").
		Values(s.Name, s.Email, s.CourseID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return err
	}
	return translate(r.pool.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt))
}

func (r *studentRepository) Update(ctx context.Context, s *model.Student) error {
	sql, args, err := r.sb.Update("students").
		Set("name", s.Name).
		Set("email", s.Email).
		Set("course_id", s.CourseID).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"id": s.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return err
	}
	return translate(r.pool.QueryRow(ctx, sql, args...).Scan(&s.CreatedAt, &s.UpdatedAt))
}

func (r *studentRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// studentListQueries builds the count and page queries for a filtered, sorted listing.
func studentListQueries(sb squirrel.StatementBuilderType, q model.StudentQuery) (squirrel.SelectBuilder, squirrel.SelectBuilder) {
	countQ := sb.Select("COUNT(*)").From("students")
	pageQ := sb.Select(studentColumns...).From("students")

	if q.Search != "" {
		pattern := "%" + likeEscaper.Replace(q.Search) + "%"
		match := squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"email": pattern},
		}
		countQ = countQ.Where(match)
		pageQ = pageQ.Where(match)
	}

	if q.SortBy == model.SortByName {
		pageQ = pageQ.OrderBy("name ASC", "id ASC")
	} else {
		pageQ = pageQ.OrderBy("id ASC")
	}

	pageQ = pageQ.Limit(uint64(q.PerPage)).Offset(uint64(q.Offset()))
	return countQ, pageQ
}
