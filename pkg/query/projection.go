// Package query builds parameterized SQL from view property names mapped onto
// table columns.
package query

import "strings"

type projected struct {
	view   string
	column string
}

// ProjectionMap maps view property names to alias-qualified columns of a base
// table and any tables joined onto it.
type ProjectionMap struct {
	table   string
	alias   string
	joins   []string
	current string
	cols    []projected
	index   map[string]int
}

// NewProjectionMap starts a projection over schema.table with the given alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		table:   schema + "." + table,
		alias:   alias,
		current: alias,
		index:   map[string]int{},
	}
}

// Project maps column of the most recently joined table (or the base table)
// to view. Re-projecting a view name replaces its column in place.
func (p *ProjectionMap) Project(column, view string) *ProjectionMap {
	col := projected{view: view, column: p.current + "." + column}
	if i, ok := p.index[view]; ok {
		p.cols[i] = col
		return p
	}
	p.index[view] = len(p.cols)
	p.cols = append(p.cols, col)
	return p
}

// Join appends "kind schema.table alias ON on" and makes alias the target of
// subsequent Project calls.
func (p *ProjectionMap) Join(schema, table, alias, kind, on string) *ProjectionMap {
	p.joins = append(p.joins, kind+" "+schema+"."+table+" "+alias+" ON "+on)
	p.current = alias
	return p
}

// Alias returns the base table alias.
func (p *ProjectionMap) Alias() string { return p.alias }

// Table returns "schema.table alias" for the base table.
func (p *ProjectionMap) Table() string { return p.table + " " + p.alias }

// From returns the base table followed by its joins.
func (p *ProjectionMap) From() string {
	return strings.Join(append([]string{p.Table()}, p.joins...), " ")
}

// Lookup reports the column mapped to view.
func (p *ProjectionMap) Lookup(view string) (string, bool) {
	i, ok := p.index[view]
	if !ok {
		return "", false
	}
	return p.cols[i].column, true
}

// Column is Lookup that falls back to the view name itself.
func (p *ProjectionMap) Column(view string) string {
	if col, ok := p.Lookup(view); ok {
		return col
	}
	return view
}

// ColumnList returns the projected columns in projection order.
func (p *ProjectionMap) ColumnList() []string {
	list := make([]string, len(p.cols))
	for i, c := range p.cols {
		list[i] = c.column
	}
	return list
}

// Columns returns ColumnList joined for a SELECT list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.ColumnList(), ", ")
}
