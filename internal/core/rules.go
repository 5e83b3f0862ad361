package core

import (
	"fmt"
	"strings"
)

// ConfigRow is one row of the configuration table before compilation.
type ConfigRow struct {
	Attribute string
	Value     Value // written as is into the result, Null included
	Patterns  Value // raw comma-separated list
}

// Rule pairs an output value with the patterns that select it.
type Rule struct {
	Attribute string
	Value     Value
	Patterns  []string // lower-cased, trimmed, never empty strings
}

// RuleSet groups rules by attribute. Attributes keep the order in which they
// first appeared; rules keep configuration row order within an attribute.
type RuleSet struct {
	order []string
	rules map[string][]Rule
}

// Attributes returns attribute names in first-appearance order.
func (rs *RuleSet) Attributes() []string {
	if rs == nil {
		return nil
	}
	out := make([]string, len(rs.order))
	copy(out, rs.order)
	return out
}

// Rules returns the ordered rules of one attribute.
func (rs *RuleSet) Rules(attribute string) []Rule {
	if rs == nil {
		return nil
	}
	return rs.rules[attribute]
}

// Len returns the number of distinct attributes.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.order)
}

// add appends r under its attribute, registering the attribute if new.
func (rs *RuleSet) add(r Rule) {
	if _, ok := rs.rules[r.Attribute]; !ok {
		rs.order = append(rs.order, r.Attribute)
	}
	rs.rules[r.Attribute] = append(rs.rules[r.Attribute], r)
}

// CompileRules turns configuration rows into a RuleSet.
//
// Rows sharing an attribute accumulate rules rather than being rejected.
// A row whose pattern cell is empty or non-text yields a rule that never
// matches.
func CompileRules(rows []ConfigRow) *RuleSet {
	rs := &RuleSet{rules: make(map[string][]Rule)}
	for _, row := range rows {
		rs.add(Rule{
			Attribute: row.Attribute,
			Value:     row.Value,
			Patterns:  SplitPatterns(row.Patterns),
		})
	}
	return rs
}

// SplitPatterns splits a comma-separated pattern cell, trims each entry,
// drops empty entries and folds the rest to lower case.
func SplitPatterns(v Value) []string {
	raw, ok := v.AsText()
	if !ok {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	patterns := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		patterns = append(patterns, foldText(p))
	}
	return patterns
}

// ConfigRowsFromTable reads the Attribute, Value and Patterns columns of a
// configuration table. It fails with ErrMissingConfigColumns naming every
// column that could not be resolved.
func ConfigRowsFromTable(t *Table) ([]ConfigRow, error) {
	attrCol, okAttr := t.ResolveColumn(AttributeColumns...)
	valueCol, okValue := t.ResolveColumn(ValueColumns...)
	patternCol, okPattern := t.ResolveColumn(PatternColumns...)

	var missing []string
	if !okAttr {
		missing = append(missing, AttributeColumns[0])
	}
	if !okValue {
		missing = append(missing, ValueColumns[0])
	}
	if !okPattern {
		missing = append(missing, PatternColumns[0])
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfigColumns, strings.Join(missing, ", "))
	}

	rows := make([]ConfigRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		rows = append(rows, ConfigRow{
			Attribute: r.Get(attrCol).String(),
			Value:     r.Get(valueCol),
			Patterns:  r.Get(patternCol),
		})
	}
	return rows, nil
}
