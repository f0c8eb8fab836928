package models

// Operation names accepted in a query plan.
const (
	OperationCount     = "count"
	OperationAggregate = "aggregate"
)

// Aggregation reducers accepted when Operation is "aggregate".
const (
	AggregationSum   = "sum"
	AggregationMean  = "mean"
	AggregationMin   = "min"
	AggregationMax   = "max"
	AggregationCount = "count"
)

// Sort directions accepted in a query plan.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// FilterClause narrows the row set before counting or aggregating.
//
// Operator is one of ==, !=, >, <, >=, <= or "in". Value is the raw
// JSON value produced by the planner: a number, a string, or (for "in")
// a list of either.
type FilterClause struct {
	Column   string `json:"column"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// QueryPlan is the structured query the LLM planner produces and the
// executor runs. Every field is checked against closed whitelists and
// against the referenced table's schema before any data is touched.
//
// Only the first entry of Files is queried; additional entries pass
// validation but are not joined.
type QueryPlan struct {
	Files       []string       `json:"files"`
	Operation   string         `json:"operation"`
	GroupBy     string         `json:"group_by,omitempty"`
	Metric      string         `json:"metric,omitempty"`
	Aggregation string         `json:"aggregation,omitempty"`
	Filters     []FilterClause `json:"filters,omitempty"`
	Sort        string         `json:"sort,omitempty"`
	Limit       int            `json:"limit,omitempty"`
}
