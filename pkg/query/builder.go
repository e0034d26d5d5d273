package query

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// SortField is one ORDER BY term over a logical field name.
type SortField struct {
	Field      string
	Descending bool
}

// ParseSortFields parses "name,-uploaded_at" style input. A leading "-"
// sorts descending. Empty input returns nil.
func ParseSortFields(s string) []SortField {
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

// predicate renders one WHERE term. bind appends a value and returns its placeholder.
type predicate func(bind func(any) string) string

// Builder accumulates conditions and ordering, then renders statements with
// placeholders numbered from $1. A Builder may render several statements;
// each gets its own argument list.
type Builder struct {
	projection  *ProjectionMap
	predicates  []predicate
	sort        []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder over projection. defaultSort applies when no
// usable sort is set.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// OrderByFields replaces the default ordering. Fields the projection does
// not know are dropped so client input never reaches the SQL text.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = fields
	return b
}

// WhereEquals adds field = value. Nil values, including typed nil pointers, are skipped.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	col := b.column(field)
	b.predicates = append(b.predicates, func(bind func(any) string) string {
		return col + " = " + bind(value)
	})
	return b
}

// WhereContains adds a case-insensitive substring match. LIKE wildcards in
// value match literally. Nil or empty values are skipped.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	return b.WhereSearch(value, field)
}

// WhereSearch matches value as a case-insensitive substring of any of fields.
func (b *Builder) WhereSearch(value *string, fields ...string) *Builder {
	if value == nil || *value == "" || len(fields) == 0 {
		return b
	}

	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = b.column(f)
	}
	pattern := "%" + escapeLike(*value) + "%"

	b.predicates = append(b.predicates, func(bind func(any) string) string {
		terms := make([]string, len(cols))
		for i, col := range cols {
			terms[i] = col + " ILIKE " + bind(pattern)
		}
		if len(terms) == 1 {
			return terms[0]
		}
		return "(" + strings.Join(terms, " OR ") + ")"
	})
	return b
}

// Build renders a SELECT over every condition with ordering.
func (b *Builder) Build() (string, []any) {
	var args []any
	sql := "SELECT " + b.projection.Columns() + " FROM " + b.projection.From() + b.where(&args) + b.orderBy()
	return sql, args
}

// BuildCount renders SELECT COUNT(*) over every condition.
func (b *Builder) BuildCount() (string, []any) {
	var args []any
	sql := "SELECT COUNT(*) FROM " + b.projection.From() + b.where(&args)
	return sql, args
}

// BuildPage renders Build with LIMIT and OFFSET for a 1-indexed page.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	page = max(page, 1)
	pageSize = max(pageSize, 1)

	offset := math.MaxInt
	if page-1 <= math.MaxInt/pageSize {
		offset = (page - 1) * pageSize
	}

	sql, args := b.Build()
	sql += fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, offset)
	return sql, args
}

// BuildSingle renders a lookup of one row by field, ignoring other conditions.
func (b *Builder) BuildSingle(field string, value any) (string, []any) {
	sql := "SELECT " + b.projection.Columns() + " FROM " + b.projection.From() + " WHERE " + b.column(field) + " = $1"
	return sql, []any{value}
}

func (b *Builder) where(args *[]any) string {
	if len(b.predicates) == 0 {
		return ""
	}

	bind := func(v any) string {
		*args = append(*args, v)
		return "$" + strconv.Itoa(len(*args))
	}

	terms := make([]string, len(b.predicates))
	for i, p := range b.predicates {
		terms[i] = p(bind)
	}
	return " WHERE " + strings.Join(terms, " AND ")
}

func (b *Builder) orderBy() string {
	terms := b.sortTerms(b.sort)
	if len(terms) == 0 {
		terms = b.sortTerms(b.defaultSort)
	}
	if len(terms) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

func (b *Builder) sortTerms(fields []SortField) []string {
	var terms []string
	for _, f := range fields {
		col, ok := b.projection.Column(f.Field)
		if !ok {
			continue
		}
		if f.Descending {
			terms = append(terms, col+" DESC")
		} else {
			terms = append(terms, col+" ASC")
		}
	}
	return terms
}

// column resolves field names chosen by code, not clients. An unknown
// name is a programming error.
func (b *Builder) column(field string) string {
	col, ok := b.projection.Column(field)
	if !ok {
		panic(fmt.Sprintf("query: field %q is not projected", field))
	}
	return col
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}
