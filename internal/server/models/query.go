package models

import (
	"strconv"
	"strings"
)

// TaskSort is one of the fixed orderings a listing can request.
type TaskSort int

const (
	SortNone TaskSort = iota
	SortCreatedAtDesc
	SortCompletedFirst
	SortNotCompletedFirst
	SortDueDateAsc
)

// ParseTaskSort maps the query-string sort value to a TaskSort.
// Unrecognised values leave results unsorted.
func ParseTaskSort(s string) TaskSort {
	switch s {
	case "createdAt":
		return SortCreatedAtDesc
	case "completed":
		return SortCompletedFirst
	case "notCompleted":
		return SortNotCompletedFirst
	case "dueDate":
		return SortDueDateAsc
	default:
		return SortNone
	}
}

// TaskFilter selects tasks. Creator is mandatory; Title and Tags are
// optional. Every tag must match some task tag.
type TaskFilter struct {
	Creator string
	Title   string
	Tags    []string
}

// TaskQuery is a filtered, sorted window over tasks.
type TaskQuery struct {
	Filter TaskFilter
	Sort   TaskSort
	Limit  int
	Offset int
}

// TaskSearch is a search request. A zero Page means the client sent no
// usable page, in which case nothing is queried.
type TaskSearch struct {
	Title string
	Tags  []string
	Page  int
	Sort  TaskSort
}

// ParsePage reads a 1-based page number. Absent, "null", non-numeric and
// non-positive values all yield 0.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// ParseSearchText treats the empty string and the literal "null" as absent.
func ParseSearchText(raw string) string {
	if raw == "null" {
		return ""
	}
	return raw
}

// ParseSearchTags splits a comma-separated tag list, dropping blanks.
func ParseSearchTags(raw string) []string {
	raw = ParseSearchText(raw)
	if raw == "" {
		return nil
	}

	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
