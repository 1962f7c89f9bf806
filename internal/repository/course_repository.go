package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/student-records/internal/model"
)

// CourseRepository handles course data access.
type CourseRepository interface {
	GetByID(ctx context.Context, id string) (*model.Course, error)
	List(ctx context.Context) ([]model.Course, error)
	Create(ctx context.Context, course *model.Course) error
	Update(ctx context.Context, course *model.Course) error
	// Delete removes the course and clears the course reference of every student
	// that pointed at it, returning how many students were orphaned.
	Delete(ctx context.Context, id string) (int, error)
}

var courseColumns = []string{"id", "name", "professor_name", "created_at", "updated_at"}

type courseRepository struct {
	pool *pgxpool.Pool
	sb   squirrel.StatementBuilderType
}

// NewCourseRepository creates a PostgreSQL-backed CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) CourseRepository {
	return &courseRepository{
		pool: pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*model.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	c := &model.Course{}
	err = r.pool.QueryRow(ctx, sql, args...).
		Scan(&c.ID, &c.Name, &c.ProfessorName, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (r *courseRepository) List(ctx context.Context) ([]model.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("courses").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.ProfessorName, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (r *courseRepository) Create(ctx context.Context, c *model.Course) error {
	sql, args, err := r.sb.Insert("courses").
		Columns("id", "name", "professor_name").
		Values(c.ID, c.Name, c.ProfessorName).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return err
	}
	return translate(r.pool.QueryRow(ctx, sql, args...).Scan(&c.CreatedAt, &c.UpdatedAt))
}

func (r *courseRepository) Update(ctx context.Context, c *model.Course) error {
	sql, args, err := r.sb.Update("courses").
		Set("name", c.Name).
		Set("professor_name", c.ProfessorName).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"id": c.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return err
	}
	return translate(r.pool.QueryRow(ctx, sql, args...).Scan(&c.CreatedAt, &c.UpdatedAt))
}

func (r *courseRepository) Delete(ctx context.Context, id string) (int, error) {
	var orphaned int
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE students SET course_id = NULL, updated_at = CURRENT_TIMESTAMP WHERE course_id = $1`, id)
		if err != nil {
			return err
		}
		orphaned = int(tag.RowsAffected())

		tag, err = tx.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return 0, translate(err)
	}
	return orphaned, nil
}
