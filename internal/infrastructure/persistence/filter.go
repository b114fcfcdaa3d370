package persistence

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/lifeos/backend/internal/domain/shared"
)

// applyFilter applies pagination, ordering and exact-match filters to a
// query. Column names for ordering and filtering are validated against a
// conservative identifier pattern to keep user input out of the SQL text.
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for column, value := range filter.Filters {
		if !isSafeColumn(column) {
			continue
		}
		query = query.Where(fmt.Sprintf("%s = ?", column), value)
	}

	orderBy := filter.OrderBy
	if !isSafeColumn(orderBy) {
		orderBy = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		dir = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s", orderBy, dir))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}

// applySearch adds a case-insensitive substring match over the given columns
func applySearch(query *gorm.DB, search string, columns ...string) *gorm.DB {
	if search == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + strings.ToLower(search) + "%"
	clauses := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, col := range columns {
		if !isSafeColumn(col) {
			continue
		}
		clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ?", col))
		args = append(args, pattern)
	}
	if len(clauses) == 0 {
		return query
	}
	return query.Where(strings.Join(clauses, " OR "), args...)
}

func isSafeColumn(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && r != '_' {
			return false
		}
	}
	return true
}
