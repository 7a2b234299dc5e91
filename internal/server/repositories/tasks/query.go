package tasks

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tasknest/internal/server/models"
)

const taskColumns = `id, title, name, is_completed, content, creator, due_date, tags, created_at, comments`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns s into an ILIKE pattern matching any value that
// contains s literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// whereClause renders filter as a WHERE clause. The creator condition is
// always present so results never leak across owners.
func whereClause(filter models.TaskFilter) (string, []any) {
	conds := []string{"creator = $1"}
	args := []any{filter.Creator}

	if filter.Title != "" {
		args = append(args, containsPattern(filter.Title))
		conds = append(conds, fmt.Sprintf(`title ILIKE $%d ESCAPE '\'`, len(args)))
	}

	for _, tag := range filter.Tags {
		args = append(args, containsPattern(tag))
		conds = append(conds, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM jsonb_array_elements_text(tags) AS tag WHERE tag ILIKE $%d ESCAPE '\')`, len(args)))
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

func orderClause(sort models.TaskSort) string {
	switch sort {
	case models.SortCreatedAtDesc:
		return " ORDER BY created_at DESC"
	case models.SortCompletedFirst:
		return " ORDER BY is_completed DESC"
	case models.SortNotCompletedFirst:
		return " ORDER BY is_completed ASC"
	case models.SortDueDateAsc:
		return " ORDER BY due_date ASC"
	default:
		return ""
	}
}

func buildCount(filter models.TaskFilter) (string, []any) {
	where, args := whereClause(filter)
	return "SELECT COUNT(*) FROM tasks " + where, args
}

func buildFind(q models.TaskQuery) (string, []any) {
	where, args := whereClause(q.Filter)

	var b strings.Builder
	b.WriteString("SELECT " + taskColumns + " FROM tasks ")
	b.WriteString(where)
	b.WriteString(orderClause(q.Sort))

	args = append(args, q.Limit)
	fmt.Fprintf(&b, " LIMIT $%d", len(args))
	args = append(args, q.Offset)
	fmt.Fprintf(&b, " OFFSET $%d", len(args))

	return b.String(), args
}
