package repository

// Order is one ordering term.
type Order struct {
	Column string
	Desc   bool
}

// Query carries the read options shared by every backend.
type Query struct {
	// Preloads are navigation paths to eager-load alongside the primary
	// query. Multi-level chains use dotted paths, e.g.
	// "Exercises.Exercise.Images".
	Preloads []string
	Orders   []Order
	Limit    int
	Offset   int
	// NoTracking marks a read-only query. The Postgres backend treats every
	// query as untracked; the flag states caller intent and lets backends
	// with identity maps skip registration.
	NoTracking bool
}

// QueryOption configures a read.
type QueryOption func(*Query)

func WithPreload(paths ...string) QueryOption {
	return func(q *Query) { q.Preloads = append(q.Preloads, paths...) }
}

func WithOrder(column string, desc bool) QueryOption {
	return func(q *Query) { q.Orders = append(q.Orders, Order{Column: column, Desc: desc}) }
}

func WithLimit(limit, offset int) QueryOption {
	return func(q *Query) { q.Limit, q.Offset = limit, offset }
}

func WithNoTracking() QueryOption {
	return func(q *Query) { q.NoTracking = true }
}

// BuildQuery folds options into a Query.
func BuildQuery(opts ...QueryOption) Query {
	var q Query
	for _, opt := range opts {
		opt(&q)
	}
	return q
}
