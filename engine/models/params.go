package models

// ============================================================================
// TYPED PARAMETER RECORDS
// ============================================================================

// Wildcard is the normalized marker for "all columns".
const Wildcard = "*"

// Params is the per-intent record produced by extraction.
// Every implementation is a plain struct so a missing slot is a shape
// mismatch caught when the record is bound, not at render time.
type Params interface {
	Intent() Intent
	Slots() ParameterSet
}

type TotalByCategory struct {
	Table    string
	Measure  string
	Category string
}

func (TotalByCategory) Intent() Intent { return IntentTotalByCategory }
func (p TotalByCategory) Slots() ParameterSet {
	return ParameterSet{"table": p.Table, "measure": p.Measure, "category": p.Category}
}

type AverageByCategory struct {
	Table    string
	Measure  string
	Category string
}

func (AverageByCategory) Intent() Intent { return IntentAverageByCategory }
func (p AverageByCategory) Slots() ParameterSet {
	return ParameterSet{"table": p.Table, "measure": p.Measure, "category": p.Category}
}

type CountByCategory struct {
	Table    string
	Category string
}

func (CountByCategory) Intent() Intent { return IntentCountByCategory }
func (p CountByCategory) Slots() ParameterSet {
	return ParameterSet{"table": p.Table, "category": p.Category}
}

type FilterSort struct {
	Table      string
	Columns    string
	Condition  string
	SortColumn string
	SortOrder  string
}

func (FilterSort) Intent() Intent { return IntentFilterSort }
func (p FilterSort) Slots() ParameterSet {
	return ParameterSet{
		"table":       p.Table,
		"columns":     p.Columns,
		"condition":   p.Condition,
		"sort_column": p.SortColumn,
		"sort_order":  p.SortOrder,
	}
}

type BasicSelect struct {
	Table     string
	Columns   string
	Condition string
}

func (BasicSelect) Intent() Intent { return IntentBasicSelect }
func (p BasicSelect) Slots() ParameterSet {
	return ParameterSet{"table": p.Table, "columns": p.Columns, "condition": p.Condition}
}

type DateRange struct {
	Table      string
	DateColumn string
	StartDate  string
	EndDate    string
}

func (DateRange) Intent() Intent { return IntentFilterByDateRange }
func (p DateRange) Slots() ParameterSet {
	return ParameterSet{
		"table":       p.Table,
		"date_column": p.DateColumn,
		"start_date":  p.StartDate,
		"end_date":    p.EndDate,
	}
}

// TopN keeps the two noun tokens unresolved; the builder decides which
// one names a container by probing live schema.
type TopN struct {
	N         string
	Subject   string
	Extreme   string
	Aggregate string
	Object    string
}

func (TopN) Intent() Intent { return IntentTopNByMeasure }
func (p TopN) Slots() ParameterSet {
	return ParameterSet{
		"n":         p.N,
		"subject":   p.Subject,
		"extreme":   p.Extreme,
		"aggregate": p.Aggregate,
		"object":    p.Object,
	}
}

type JoinQuery struct {
	Table1 string
	Table2 string
	Column string
	Value  string
}

func (JoinQuery) Intent() Intent { return IntentJoinQuery }
func (p JoinQuery) Slots() ParameterSet {
	return ParameterSet{"table1": p.Table1, "table2": p.Table2, "column": p.Column, "value": p.Value}
}

type ListContainers struct{}

func (ListContainers) Intent() Intent      { return IntentListContainers }
func (ListContainers) Slots() ParameterSet { return ParameterSet{} }

type DescribeAttributes struct {
	Table string
}

func (DescribeAttributes) Intent() Intent { return IntentDescribeAttributes }
func (p DescribeAttributes) Slots() ParameterSet {
	return ParameterSet{"table": p.Table}
}

// ============================================================================
// CONDITIONS
// ============================================================================

// Condition is one parsed comparison from a where phrase.
type Condition struct {
	Field    string
	Operator string // =, !=, >, >=, <, <=
	Value    string
	Quoted   bool // value was written as a quoted string
}
