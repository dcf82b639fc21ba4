package persistence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// listQuery describes how a table answers shared.Filter queries
type listQuery struct {
	// alias prefixes column names when the query joins other tables
	alias        string
	searchFields []string
	sortFields   map[string]bool
	defaultSort  string
	// sortColumns maps a sort key to a qualified expression for joined queries
	sortColumns map[string]string
}

func (q listQuery) col(name string) string {
	if q.alias == "" {
		return name
	}
	return q.alias + "." + name
}

// scopeTenant restricts rows to an organization. uuid.Nil leaves the query
// unscoped.
func (q listQuery) scopeTenant(db *gorm.DB, tenantID uuid.UUID) *gorm.DB {
	if tenantID == uuid.Nil {
		return db
	}
	return db.Where(q.col("tenant_id")+" = ?", tenantID)
}

// apply adds the soft-delete and search conditions of filter. A blank
// search term adds no condition. Search ignores case and accents the same
// way shared.MatchesSearch does: the term is folded here and the column by
// unaccent(), which postgres gets from its extension and sqlite from
// SQLiteDriverName.
func (q listQuery) apply(db *gorm.DB, filter shared.Filter) *gorm.DB {
	if !filter.IncludeInactive {
		db = db.Where(q.col("is_active")+" = ?", true)
	}
	if filter.HasSearch() && len(q.searchFields) > 0 {
		term := "%" + escapeLike(shared.FoldText(strings.TrimSpace(filter.Search))) + "%"
		conds := make([]string, len(q.searchFields))
		args := make([]any, len(q.searchFields))
		for i, f := range q.searchFields {
			conds[i] = fmt.Sprintf(`unaccent(LOWER(COALESCE(%s, ''))) LIKE ? ESCAPE '\'`, f)
			args[i] = term
		}
		db = db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
	return db
}

// page adds ordering, offset and limit
func (q listQuery) page(db *gorm.DB, filter shared.Filter) *gorm.DB {
	f := filter.Normalize()
	field := ValidateSortField(f.OrderBy, q.sortFields, q.defaultSort)
	column := q.col(field)
	if expr, ok := q.sortColumns[field]; ok {
		column = expr
	}
	return db.Order(column + " " + ValidateSortOrder(f.OrderDir)).
		Offset(f.Offset()).
		Limit(f.PageSize)
}

// escapeLike escapes LIKE wildcards typed by the user
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// lockForUpdate adds SELECT ... FOR UPDATE where the dialect supports row locks
func lockForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

// notFound maps gorm.ErrRecordNotFound to shared.ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}
