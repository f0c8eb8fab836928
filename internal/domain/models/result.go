package models

// ResultKind discriminates the two shapes a plan execution can produce.
type ResultKind string

const (
	ResultScalar ResultKind = "scalar"
	ResultGroups ResultKind = "groups"
)

// GroupValue is one group key together with its reduced value.
// Order matters: sort and limit operate on the slice position.
type GroupValue struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// Result is the outcome of executing a validated query plan.
// Exactly one of Scalar or Groups is meaningful, selected by Kind.
type Result struct {
	Success bool         `json:"success"`
	Error   string       `json:"error,omitempty"`
	Kind    ResultKind   `json:"kind,omitempty"`
	Scalar  float64      `json:"scalar,omitempty"`
	Groups  []GroupValue `json:"groups,omitempty"`
}

// ScalarResult wraps a single numeric value in a successful Result.
func ScalarResult(v float64) Result {
	return Result{Success: true, Kind: ResultScalar, Scalar: v}
}

// GroupsResult wraps an ordered group list in a successful Result.
func GroupsResult(groups []GroupValue) Result {
	return Result{Success: true, Kind: ResultGroups, Groups: groups}
}

// FailedResult builds a failed Result carrying a human-readable reason.
func FailedResult(reason string) Result {
	return Result{Success: false, Error: reason}
}
