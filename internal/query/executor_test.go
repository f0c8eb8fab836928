package query

import (
	"math"
	"testing"

	"github.com/fundlens/fundlens/internal/dataset"
	"github.com/fundlens/fundlens/internal/domain/models"
)

// testStore builds a store with small trades and holdings tables.
func testStore(t *testing.T) *dataset.Store {
	t.Helper()

	holdings, err := dataset.NewTable(dataset.FileHoldings,
		[]string{"Fund", "PL", "Region"},
		[][]string{
			{"A", "100", "EU"},
			{"B", "50", "US"},
			{"A", "20", "US"},
		})
	if err != nil {
		t.Fatalf("holdings: %v", err)
	}

	trades, err := dataset.NewTable(dataset.FileTrades,
		[]string{"Ticker", "Quantity", "Price"},
		[][]string{
			{"PETR4", "100", "32.5"},
			{"VALE3", "200", "61.0"},
			{"PETR4", "50", ""},
		})
	if err != nil {
		t.Fatalf("trades: %v", err)
	}

	return dataset.NewStore(holdings, trades)
}

func TestExecute_GroupedSum(t *testing.T) {
	store := testStore(t)

	res := Execute(store, &models.QueryPlan{
		Files:       []string{dataset.FileHoldings},
		Operation:   models.OperationAggregate,
		Metric:      "PL",
		Aggregation: models.AggregationSum,
		GroupBy:     "Fund",
	})

	if !res.Success || res.Kind != models.ResultGroups {
		t.Fatalf("unexpected result: %+v", res)
	}
	want := []models.GroupValue{{Key: "A", Value: 120}, {Key: "B", Value: 50}}
	if len(res.Groups) != len(want) {
		t.Fatalf("groups=%+v", res.Groups)
	}
	var total float64
	for i, g := range res.Groups {
		if g != want[i] {
			t.Fatalf("group[%d]=%+v, want %+v", i, g, want[i])
		}
		total += g.Value
	}

	// Grouped totals must equal the ungrouped sum
	flat := Execute(store, &models.QueryPlan{
		Files:       []string{dataset.FileHoldings},
		Operation:   models.OperationAggregate,
		Metric:      "PL",
		Aggregation: models.AggregationSum,
	})
	if !flat.Success || flat.Kind != models.ResultScalar || flat.Scalar != total {
		t.Fatalf("ungrouped sum %v != grouped total %v", flat.Scalar, total)
	}
}

func TestExecute_Filters(t *testing.T) {
	store := testStore(t)

	cases := []struct {
		name    string
		filters []models.FilterClause
		want    float64
	}{
		{
			name:    "equality on string column",
			filters: []models.FilterClause{{Column: "Fund", Operator: "==", Value: "A"}},
			want:    2,
		},
		{
			name:    "default operator is equality",
			filters: []models.FilterClause{{Column: "Fund", Value: "B"}},
			want:    1,
		},
		{
			name:    "numeric greater-than",
			filters: []models.FilterClause{{Column: "PL", Operator: ">", Value: float64(30)}},
			want:    2,
		},
		{
			name: "clauses are AND-combined",
			filters: []models.FilterClause{
				{Column: "Fund", Operator: "==", Value: "A"},
				{Column: "Region", Operator: "==", Value: "US"},
			},
			want: 1,
		},
		{
			name:    "set membership",
			filters: []models.FilterClause{{Column: "Region", Operator: "in", Value: []any{"EU", "ASIA"}}},
			want:    1,
		},
		{
			name:    "no match",
			filters: []models.FilterClause{{Column: "Fund", Operator: "==", Value: "Z"}},
			want:    0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Execute(store, &models.QueryPlan{
				Files:     []string{dataset.FileHoldings},
				Operation: models.OperationCount,
				Filters:   tc.filters,
			})
			if !res.Success || res.Kind != models.ResultScalar {
				t.Fatalf("unexpected result: %+v", res)
			}
			if res.Scalar != tc.want {
				t.Fatalf("count=%v, want %v", res.Scalar, tc.want)
			}
		})
	}
}

func TestExecute_NaNCells(t *testing.T) {
	store := testStore(t)

	// Price has a missing cell: sum skips it, count counts non-missing.
	res := Execute(store, &models.QueryPlan{
		Files:       []string{dataset.FileTrades},
		Operation:   models.OperationAggregate,
		Metric:      "Price",
		Aggregation: models.AggregationSum,
	})
	if !res.Success || res.Scalar != 93.5 {
		t.Fatalf("sum=%+v, want 93.5", res)
	}

	count := Execute(store, &models.QueryPlan{
		Files:       []string{dataset.FileTrades},
		Operation:   models.OperationAggregate,
		Metric:      "Price",
		Aggregation: models.AggregationCount,
	})
	if !count.Success || count.Scalar != 2 {
		t.Fatalf("count=%+v, want 2", count)
	}

	// A missing cell only satisfies inequality
	ne := Execute(store, &models.QueryPlan{
		Files:     []string{dataset.FileTrades},
		Operation: models.OperationCount,
		Filters:   []models.FilterClause{{Column: "Price", Operator: "!=", Value: float64(32.5)}},
	})
	if !ne.Success || ne.Scalar != 2 {
		t.Fatalf("ne=%+v, want 2", ne)
	}
}

func TestExecute_Reducers(t *testing.T) {
	store := testStore(t)

	cases := []struct {
		agg  string
		want float64
	}{
		{models.AggregationSum, 170},
		{models.AggregationMean, 170.0 / 3.0},
		{models.AggregationMin, 20},
		{models.AggregationMax, 100},
		{models.AggregationCount, 3},
	}
	for _, tc := range cases {
		t.Run(tc.agg, func(t *testing.T) {
			res := Execute(store, &models.QueryPlan{
				Files:       []string{dataset.FileHoldings},
				Operation:   models.OperationAggregate,
				Metric:      "PL",
				Aggregation: tc.agg,
			})
			if !res.Success {
				t.Fatalf("failed: %+v", res)
			}
			if math.Abs(res.Scalar-tc.want) > 1e-9 {
				t.Fatalf("%s=%v, want %v", tc.agg, res.Scalar, tc.want)
			}
		})
	}
}

func TestExecute_MeanOverNoRowsFails(t *testing.T) {
	store := testStore(t)

	res := Execute(store, &models.QueryPlan{
		Files:       []string{dataset.FileHoldings},
		Operation:   models.OperationAggregate,
		Metric:      "PL",
		Aggregation: models.AggregationMean,
		Filters:     []models.FilterClause{{Column: "Fund", Operator: "==", Value: "Z"}},
	})
	if res.Success {
		t.Fatalf("expected failure, got %+v", res)
	}

	// sum over no rows is 0, not a failure
	sum := Execute(store, &models.QueryPlan{
		Files:       []string{dataset.FileHoldings},
		Operation:   models.OperationAggregate,
		Metric:      "PL",
		Aggregation: models.AggregationSum,
		Filters:     []models.FilterClause{{Column: "Fund", Operator: "==", Value: "Z"}},
	})
	if !sum.Success || sum.Scalar != 0 {
		t.Fatalf("sum over no rows: %+v", sum)
	}
}

func TestExecute_SortAndLimit(t *testing.T) {
	store := testStore(t)

	plan := &models.QueryPlan{
		Files:       []string{dataset.FileHoldings},
		Operation:   models.OperationAggregate,
		Metric:      "PL",
		Aggregation: models.AggregationSum,
		GroupBy:     "Fund",
		Sort:        models.SortDesc,
	}
	res := Execute(store, plan)
	if !res.Success {
		t.Fatalf("failed: %+v", res)
	}
	for i := 1; i < len(res.Groups); i++ {
		if res.Groups[i].Value > res.Groups[i-1].Value {
			t.Fatalf("desc order violated: %+v", res.Groups)
		}
	}

	// limit keeps the leading entries of the sorted order
	plan.Limit = 1
	limited := Execute(store, plan)
	if len(limited.Groups) != 1 || limited.Groups[0] != res.Groups[0] {
		t.Fatalf("limited=%+v, full=%+v", limited.Groups, res.Groups)
	}

	// default group order is key-ascending
	plan.Sort = ""
	plan.Limit = 0
	plain := Execute(store, plan)
	if plain.Groups[0].Key != "A" || plain.Groups[1].Key != "B" {
		t.Fatalf("default order not key-ascending: %+v", plain.Groups)
	}
}

func TestExecute_GroupedCount(t *testing.T) {
	store := testStore(t)

	res := Execute(store, &models.QueryPlan{
		Files:     []string{dataset.FileHoldings},
		Operation: models.OperationCount,
		GroupBy:   "Fund",
	})
	if !res.Success || res.Kind != models.ResultGroups {
		t.Fatalf("unexpected: %+v", res)
	}
	want := []models.GroupValue{{Key: "A", Value: 2}, {Key: "B", Value: 1}}
	for i, g := range res.Groups {
		if g != want[i] {
			t.Fatalf("group[%d]=%+v, want %+v", i, g, want[i])
		}
	}
}

func TestExecute_OnlyFirstFileQueried(t *testing.T) {
	store := testStore(t)

	// Both tables validate, but only holdings (listed first) is counted.
	res := Execute(store, &models.QueryPlan{
		Files:     []string{dataset.FileHoldings, dataset.FileTrades},
		Operation: models.OperationCount,
	})
	if !res.Success || res.Scalar != 3 {
		t.Fatalf("multi-file count should use holdings only: %+v", res)
	}
}

func TestExecute_InvalidPlanRejected(t *testing.T) {
	store := testStore(t)

	cases := []struct {
		name string
		plan *models.QueryPlan
	}{
		{name: "nil plan", plan: nil},
		{name: "no files", plan: &models.QueryPlan{Operation: models.OperationCount}},
		{name: "unknown file", plan: &models.QueryPlan{Files: []string{"other.csv"}, Operation: models.OperationCount}},
		{name: "bad operation", plan: &models.QueryPlan{Files: []string{dataset.FileHoldings}, Operation: "drop"}},
		{name: "bad aggregation", plan: &models.QueryPlan{Files: []string{dataset.FileHoldings}, Operation: models.OperationAggregate, Metric: "PL", Aggregation: "median"}},
		{name: "missing metric", plan: &models.QueryPlan{Files: []string{dataset.FileHoldings}, Operation: models.OperationAggregate, Aggregation: models.AggregationSum}},
		{name: "unknown metric column", plan: &models.QueryPlan{Files: []string{dataset.FileHoldings}, Operation: models.OperationAggregate, Metric: "Nope", Aggregation: models.AggregationSum}},
		{name: "non-numeric metric", plan: &models.QueryPlan{Files: []string{dataset.FileHoldings}, Operation: models.OperationAggregate, Metric: "Fund", Aggregation: models.AggregationSum}},
		{name: "unknown group column", plan: &models.QueryPlan{Files: []string{dataset.FileHoldings}, Operation: models.OperationCount, GroupBy: "Nope"}},
		{name: "unknown filter column", plan: &models.QueryPlan{Files: []string{dataset.FileHoldings}, Operation: models.OperationCount, Filters: []models.FilterClause{{Column: "Nope", Operator: "==", Value: "x"}}}},
		{name: "bad filter operator", plan: &models.QueryPlan{Files: []string{dataset.FileHoldings}, Operation: models.OperationCount, Filters: []models.FilterClause{{Column: "Fund", Operator: "~", Value: "x"}}}},
		{name: "bad sort", plan: &models.QueryPlan{Files: []string{dataset.FileHoldings}, Operation: models.OperationCount, Sort: "sideways"}},
		{name: "negative limit", plan: &models.QueryPlan{Files: []string{dataset.FileHoldings}, Operation: models.OperationCount, Limit: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Execute(store, tc.plan)
			if res.Success {
				t.Fatalf("expected rejection, got %+v", res)
			}
			if res.Error == "" {
				t.Fatalf("rejection must carry a reason")
			}
		})
	}
}

func TestExecute_BadFilterValue(t *testing.T) {
	store := testStore(t)

	// "in" with a non-list value fails at execution with a reason
	res := Execute(store, &models.QueryPlan{
		Files:     []string{dataset.FileHoldings},
		Operation: models.OperationCount,
		Filters:   []models.FilterClause{{Column: "Fund", Operator: "in", Value: "A"}},
	})
	if res.Success {
		t.Fatalf("expected failure: %+v", res)
	}

	// non-numeric literal against a numeric column
	res = Execute(store, &models.QueryPlan{
		Files:     []string{dataset.FileHoldings},
		Operation: models.OperationCount,
		Filters:   []models.FilterClause{{Column: "PL", Operator: ">", Value: "lots"}},
	})
	if res.Success {
		t.Fatalf("expected failure: %+v", res)
	}
}
