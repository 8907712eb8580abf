package repositories

import (
	"context"
	"fmt"
	"strings"

	"maintenance-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
)

// psql builds every dynamic query with Postgres placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// applyListFilter narrows a select builder with the parsed request filter.
// Only whitelisted columns participate; everything else is ignored.
func applyListFilter(builder sq.SelectBuilder, filter types.Filter, allowedFilter, allowedSearch []string, allowedSort map[string]string) sq.SelectBuilder {
	for key, val := range filter.Filter {
		col, ok := allowedColumn(allowedFilter, key)
		if !ok {
			continue
		}
		if s, isStr := val.(string); isStr && strings.Contains(s, ",") {
			builder = builder.Where(sq.Eq{col: strings.Split(s, ",")})
		} else {
			builder = builder.Where(sq.Eq{col: val})
		}
	}

	if filter.Search != "" && len(allowedSearch) > 0 {
		pattern := fmt.Sprintf("%%%s%%", filter.Search)
		var conditions []sq.Sqlizer
		for _, col := range allowedSearch {
			conditions = append(conditions, sq.Expr(fmt.Sprintf("%s ILIKE ?", col), pattern))
		}
		builder = builder.Where(sq.Or(conditions))
	}

	for field, direction := range filter.Sort {
		col, ok := allowedSort[field]
		if !ok {
			continue
		}
		builder = builder.OrderBy(fmt.Sprintf("%s %s", col, strings.ToUpper(direction)))
	}

	return builder
}

func allowedColumn(allowed []string, requested string) (string, bool) {
	for _, col := range allowed {
		// whitelist entries may be qualified ("e.campus"); match on the bare name
		parts := strings.Split(col, ".")
		if strings.EqualFold(parts[len(parts)-1], requested) {
			return col, true
		}
	}
	return "", false
}

// countRows runs the matching COUNT(*) for a filtered list query.
func countRows(ctx context.Context, q Querier, builder sq.SelectBuilder) (uint64, error) {
	sqlQuery, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("count ToSql: %w", err)
	}
	var total uint64
	if err := q.QueryRow(ctx, sqlQuery, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count query: %w", err)
	}
	return total, nil
}
