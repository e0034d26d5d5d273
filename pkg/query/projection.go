// Package query builds parameterized PostgreSQL SELECT statements over a
// projection of logical field names onto table columns.
package query

import "strings"

// ProjectionMap maps logical field names to alias-qualified columns of one table.
// Column order follows the order of Project calls and matches scan order.
type ProjectionMap struct {
	from    string
	alias   string
	fields  map[string]string
	columns []string
}

// NewProjectionMap starts a projection over schema.table using alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		from:   schema + "." + table + " " + alias,
		alias:  alias,
		fields: make(map[string]string),
	}
}

// Project maps field to column and appends it to the select list. The
// column resolves under both its own name and the field name.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.fields[field] = qualified
	p.fields[column] = qualified
	p.columns = append(p.columns, qualified)
	return p
}

// From returns the FROM target, "schema.table alias".
func (p *ProjectionMap) From() string {
	return p.from
}

// Column resolves a field name. Unknown fields report false.
func (p *ProjectionMap) Column(field string) (string, bool) {
	col, ok := p.fields[field]
	return col, ok
}

// Columns returns the select list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columns, ", ")
}
