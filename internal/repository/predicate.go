package repository

// Op enumerates the supported condition operators.
type Op int

const (
	OpEq Op = iota
	// OpContains is a case-insensitive substring match on text columns.
	OpContains
	OpIn
	OpIsNull
)

// Cond is one condition over a column. Columns use the store's snake_case
// naming.
type Cond struct {
	Column string
	Op     Op
	Value  any
}

// Predicate is an AND-composed set of conditions. The zero value matches
// every row.
type Predicate struct {
	Conds []Cond
}

// All matches every row.
func All() Predicate { return Predicate{} }

func Eq(column string, value any) Predicate {
	return Predicate{Conds: []Cond{{Column: column, Op: OpEq, Value: value}}}
}

func Contains(column, substr string) Predicate {
	return Predicate{Conds: []Cond{{Column: column, Op: OpContains, Value: substr}}}
}

// In matches rows whose column value is one of values (a slice).
func In(column string, values any) Predicate {
	return Predicate{Conds: []Cond{{Column: column, Op: OpIn, Value: values}}}
}

func IsNull(column string) Predicate {
	return Predicate{Conds: []Cond{{Column: column, Op: OpIsNull}}}
}

// And composes predicates; all conditions must hold.
func (p Predicate) And(others ...Predicate) Predicate {
	conds := append([]Cond{}, p.Conds...)
	for _, o := range others {
		conds = append(conds, o.Conds...)
	}
	return Predicate{Conds: conds}
}

func (p Predicate) Empty() bool { return len(p.Conds) == 0 }
