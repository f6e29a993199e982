package query

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// SortField is one ORDER BY term. Field is the logical name resolved
// through the ProjectionMap.
type SortField struct {
	Field      string
	Descending bool
}

// condition renders one WHERE clause. bind registers an argument and
// returns its numbered placeholder.
type condition func(bind func(any) string) string

// Builder assembles SELECT statements over a ProjectionMap. Placeholders
// are numbered in the order conditions were added.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	sort        []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder for projection. defaultSort applies when no
// explicit order is set.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// ParseSortFields parses "name,-uploadedAt" style input. A leading "-"
// marks a descending field. Empty input yields nil.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// Build returns a SELECT with the current conditions and ordering.
func (b *Builder) Build() (string, []any) {
	where, args := b.where()
	return "SELECT " + b.projection.Columns() + " FROM " + b.projection.From() + where + b.orderBy(), args
}

// BuildCount returns a COUNT(*) over the current conditions.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.where()
	return "SELECT COUNT(*) FROM " + b.projection.From() + where, args
}

// BuildPage returns Build limited to one page. page is 1-based.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	sql, args := b.Build()
	return fmt.Sprintf("%s LIMIT %d OFFSET %d", sql, pageSize, (page-1)*pageSize), args
}

// BuildSingle returns a SELECT for the row whose idField equals id.
// Conditions and ordering are ignored.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		b.projection.Columns(),
		b.projection.From(),
		b.projection.Column(idField),
	)
	return sql, []any{id}
}

// BuildSingleOrNull returns a SELECT over the current conditions limited to
// one row.
func (b *Builder) BuildSingleOrNull() (string, []any) {
	where, args := b.where()
	return "SELECT " + b.projection.Columns() + " FROM " + b.projection.From() + where + " LIMIT 1", args
}

// OrderByFields replaces the default sort. Fields the projection does not
// map are ignored; if none remain the default sort applies.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = fields
	return b
}

// WhereContains adds a case-insensitive substring match. Nil or empty
// values are ignored.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	col := b.projection.Column(field)
	pattern := "%" + *value + "%"
	return b.add(func(bind func(any) string) string {
		return col + " ILIKE " + bind(pattern)
	})
}

// WhereEquals adds an equality match. Nil values are ignored.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	col := b.projection.Column(field)
	return b.add(func(bind func(any) string) string {
		return col + " = " + bind(value)
	})
}

// WhereIn adds a membership match. Empty slices are ignored.
func (b *Builder) WhereIn(field string, values []any) *Builder {
	if len(values) == 0 {
		return b
	}
	col := b.projection.Column(field)
	return b.add(func(bind func(any) string) string {
		placeholders := make([]string, len(values))
		for i, v := range values {
			placeholders[i] = bind(v)
		}
		return col + " IN (" + strings.Join(placeholders, ", ") + ")"
	})
}

// WhereRange bounds field inclusively. A nil bound is left open; two nil
// bounds add nothing.
func (b *Builder) WhereRange(field string, lower, upper any) *Builder {
	col := b.projection.Column(field)
	if !isNil(lower) {
		b.add(func(bind func(any) string) string {
			return col + " >= " + bind(lower)
		})
	}
	if !isNil(upper) {
		b.add(func(bind func(any) string) string {
			return col + " <= " + bind(upper)
		})
	}
	return b
}

// WhereNullable adds an equality match, or IS NULL when value is nil.
func (b *Builder) WhereNullable(field string, value any) *Builder {
	col := b.projection.Column(field)
	if isNil(value) {
		return b.add(func(func(any) string) string {
			return col + " IS NULL"
		})
	}
	return b.add(func(bind func(any) string) string {
		return col + " = " + bind(value)
	})
}

// WhereSearch matches search case-insensitively against any of fields.
// Nil or empty searches are ignored.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}
	pattern := "%" + *search + "%"
	return b.add(func(bind func(any) string) string {
		clauses := make([]string, len(fields))
		for i, field := range fields {
			clauses[i] = b.projection.Column(field) + " ILIKE " + bind(pattern)
		}
		return "(" + strings.Join(clauses, " OR ") + ")"
	})
}

func (b *Builder) add(c condition) *Builder {
	b.conditions = append(b.conditions, c)
	return b
}

func (b *Builder) where() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	var args []any
	bind := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	clauses := make([]string, len(b.conditions))
	for i, c := range b.conditions {
		clauses[i] = c(bind)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (b *Builder) orderBy() string {
	parts := b.sortTerms(b.sort)
	if len(parts) == 0 {
		parts = b.sortTerms(b.defaultSort)
	}
	if len(parts) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

// sortTerms renders fields that resolve through the projection. Unmapped
// names are dropped so client-supplied sorts never reach the SQL text.
func (b *Builder) sortTerms(fields []SortField) []string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		col, ok := b.projection.Lookup(f.Field)
		if !ok {
			continue
		}
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	return parts
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
