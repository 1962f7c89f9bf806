package repository

import (
	"reflect"
	"strings"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stemsi/student-records/internal/model"
)

func TestStudentListQueries(t *testing.T) {
	sb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	tests := []struct {
		name      string
		query     model.StudentQuery
		wantWhere string
		wantOrder string
		wantLimit string
		wantArgs  []any
	}{
		{
			name:      "defaults sort by id without filter",
			query:     model.StudentQuery{SortBy: model.SortByID, Page: 1, PerPage: 10},
			wantOrder: "ORDER BY id ASC",
			wantLimit: "LIMIT 10 OFFSET 0",
		},
		{
			name:      "search matches name or email",
			query:     model.StudentQuery{Search: "jane", SortBy: model.SortByName, Page: 3, PerPage: 10},
			wantWhere: "WHERE (name ILIKE $1 OR email ILIKE $2)",
			wantOrder: "ORDER BY name ASC, id ASC",
			wantLimit: "LIMIT 10 OFFSET 20",
			wantArgs:  []any{"%jane%", "%jane%"},
		},
		{
			name:      "wildcards in search are literal",
			query:     model.StudentQuery{Search: "50%_off", SortBy: "bogus", Page: 1, PerPage: 5},
			wantWhere: "WHERE (name ILIKE $1 OR email ILIKE $2)",
			wantOrder: "ORDER BY id ASC",
			wantLimit: "LIMIT 5 OFFSET 0",
			wantArgs:  []any{`%50\%\_off%`, `%50\%\_off%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			countQ, pageQ := studentListQueries(sb, tt.query)

			countSQL, countArgs, err := countQ.ToSql()
			if err != nil {
				t.Fatalf("count ToSql: %v", err)
			}
			if !strings.HasPrefix(countSQL, "SELECT COUNT(*) FROM students") {
				t.Errorf("unexpected count SQL: %s", countSQL)
			}

			sql, args, err := pageQ.ToSql()
			if err != nil {
				t.Fatalf("page ToSql: %v", err)
			}

			if tt.wantWhere == "" {
				if strings.Contains(sql, "WHERE") || strings.Contains(countSQL, "WHERE") {
					t.Errorf("expected no WHERE clause: %s / %s", sql, countSQL)
				}
			} else {
				if !strings.Contains(sql, tt.wantWhere) || !strings.Contains(countSQL, tt.wantWhere) {
					t.Errorf("missing %q in %s / %s", tt.wantWhere, sql, countSQL)
				}
			}
			if !strings.Contains(sql, tt.wantOrder) {
				t.Errorf("missing %q in %s", tt.wantOrder, sql)
			}
			if !strings.HasSuffix(sql, tt.wantLimit) {
				t.Errorf("missing %q at end of %s", tt.wantLimit, sql)
			}

			if len(tt.wantArgs) == 0 {
				if len(args) != 0 || len(countArgs) != 0 {
					t.Errorf("expected no args, got %v / %v", args, countArgs)
				}
				return
			}
			if !reflect.DeepEqual(args, tt.wantArgs) || !reflect.DeepEqual(countArgs, tt.wantArgs) {
				t.Errorf("args = %v / %v, want %v", args, countArgs, tt.wantArgs)
			}
		})
	}
}
