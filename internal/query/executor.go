package query

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/fundlens/fundlens/internal/dataset"
	"github.com/fundlens/fundlens/internal/domain/models"
	"github.com/fundlens/fundlens/internal/logger"
)

// Execute validates a plan and runs it against the store.
//
// Pipeline, in fixed order: filters narrow the row set, then either a row
// count or a reduction of the metric column (optionally grouped), then an
// optional sort of the group list by value, then an optional truncation to
// the first N groups. Only the first listed table is queried.
//
// Execute never panics; any failure is returned as a failed Result with
// the underlying reason.
func Execute(store *dataset.Store, plan *models.QueryPlan) (res models.Result) {
	defer func() {
		if r := recover(); r != nil {
			logger.L().Error().Any("panic", r).Msg("plan execution panicked")
			res = models.FailedResult(fmt.Sprintf("execution failed: %v", r))
		}
	}()

	if err := Validate(store, plan); err != nil {
		return models.FailedResult(err.Error())
	}

	// Single-table semantics: multi-file plans validate but are not joined.
	tbl, _ := store.Table(plan.Files[0])

	rows, err := applyFilters(tbl, plan.Filters)
	if err != nil {
		return models.FailedResult(err.Error())
	}

	var result models.Result
	switch plan.Operation {
	case models.OperationCount:
		result = executeCount(tbl, rows, plan.GroupBy)
	case models.OperationAggregate:
		result, err = executeAggregate(tbl, rows, plan)
		if err != nil {
			return models.FailedResult(err.Error())
		}
	}

	if result.Kind == models.ResultGroups {
		sortGroups(result.Groups, plan.Sort)
		if plan.Limit > 0 && len(result.Groups) > plan.Limit {
			result.Groups = result.Groups[:plan.Limit]
		}
	}

	return result
}

// ─── Filtering ────────────────────────────────────────────────

// applyFilters returns the indices of rows matching every clause.
// Clauses are AND-combined in plan order.
func applyFilters(tbl *dataset.Table, clauses []models.FilterClause) ([]int, error) {
	rows := make([]int, tbl.Rows())
	for i := range rows {
		rows[i] = i
	}

	for _, clause := range clauses {
		col, _ := tbl.Column(clause.Column)
		op := clause.Operator
		if op == "" {
			op = "=="
		}

		kept := rows[:0]
		for _, r := range rows {
			ok, err := matchClause(col, r, op, clause.Value)
			if err != nil {
				return nil, err
			}
			if ok {
				kept = append(kept, r)
			}
		}
		rows = kept
	}

	return rows, nil
}

func matchClause(col *dataset.Column, row int, op string, value any) (bool, error) {
	if op == "in" {
		items, ok := value.([]any)
		if !ok {
			return false, fmt.Errorf("filter on %q: operator \"in\" requires a list value", col.Name)
		}
		for _, item := range items {
			match, err := matchClause(col, row, "==", item)
			if err != nil {
				return false, err
			}
			if match {
				return true, nil
			}
		}
		return false, nil
	}

	if col.IsNumeric() {
		want, err := toNumber(value)
		if err != nil {
			return false, fmt.Errorf("filter on %q: %v", col.Name, err)
		}
		have := col.Number(row)
		if math.IsNaN(have) {
			// Missing cells only satisfy inequality, as in the source data frames.
			return op == "!=", nil
		}
		return compareNumbers(have, want, op), nil
	}

	return compareStrings(col.String(row), toString(value), op), nil
}

func compareNumbers(a, b float64, op string) bool {
	switch op {
	case "==":
		return a == b
	case "!=":
		return a != b
	case ">":
		return a > b
	case "<":
		return a < b
	case ">=":
		return a >= b
	case "<=":
		return a <= b
	}
	return false
}

// compareStrings compares lexically for the relational operators.
func compareStrings(a, b, op string) bool {
	switch op {
	case "==":
		return a == b
	case "!=":
		return a != b
	case ">":
		return a > b
	case "<":
		return a < b
	case ">=":
		return a >= b
	case "<=":
		return a <= b
	}
	return false
}

func toNumber(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not a number", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("value %v cannot be compared to a numeric column", value)
	}
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", value)
	}
}

// ─── Count & aggregation ──────────────────────────────────────

func executeCount(tbl *dataset.Table, rows []int, groupBy string) models.Result {
	if groupBy == "" {
		return models.ScalarResult(float64(len(rows)))
	}

	groups := groupRows(tbl, rows, groupBy)
	out := make([]models.GroupValue, len(groups))
	for i, g := range groups {
		out[i] = models.GroupValue{Key: g.key, Value: float64(len(g.rows))}
	}
	return models.GroupsResult(out)
}

func executeAggregate(tbl *dataset.Table, rows []int, plan *models.QueryPlan) (models.Result, error) {
	metric, _ := tbl.Column(plan.Metric)

	if plan.GroupBy == "" {
		v, err := reduce(metric, rows, plan.Aggregation)
		if err != nil {
			return models.Result{}, err
		}
		return models.ScalarResult(v), nil
	}

	groups := groupRows(tbl, rows, plan.GroupBy)
	out := make([]models.GroupValue, len(groups))
	for i, g := range groups {
		v, err := reduce(metric, g.rows, plan.Aggregation)
		if err != nil {
			return models.Result{}, fmt.Errorf("group %q: %w", g.key, err)
		}
		out[i] = models.GroupValue{Key: g.key, Value: v}
	}
	return models.GroupsResult(out), nil
}

// reduce applies one of the five reducers over the metric column.
// Missing cells (NaN) are skipped; count counts the remaining cells.
func reduce(col *dataset.Column, rows []int, aggregation string) (float64, error) {
	var (
		sum   float64
		count int
		min   = math.Inf(1)
		max   = math.Inf(-1)
	)
	for _, r := range rows {
		var v float64
		if col.IsNumeric() {
			v = col.Number(r)
			if math.IsNaN(v) {
				continue
			}
		} else if col.String(r) == "" {
			continue
		}
		count++
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	switch aggregation {
	case models.AggregationCount:
		return float64(count), nil
	case models.AggregationSum:
		return sum, nil
	}
	if count == 0 {
		return 0, fmt.Errorf("no rows to aggregate with %q", aggregation)
	}
	switch aggregation {
	case models.AggregationMean:
		return sum / float64(count), nil
	case models.AggregationMin:
		return min, nil
	case models.AggregationMax:
		return max, nil
	}
	return 0, fmt.Errorf("unknown aggregation %q", aggregation)
}

// ─── Grouping ─────────────────────────────────────────────────

type rowGroup struct {
	key     string
	numKey  float64
	numeric bool
	rows    []int
}

// groupRows buckets rows by the group column and orders buckets by key
// ascending (numerically when the column is numeric). Rows without a group
// key (empty or missing cell) are dropped, mirroring data-frame groupby.
func groupRows(tbl *dataset.Table, rows []int, groupBy string) []rowGroup {
	col, _ := tbl.Column(groupBy)

	buckets := make(map[string]*rowGroup)
	for _, r := range rows {
		key := col.Cell(r)
		if key == "" {
			continue
		}
		g, ok := buckets[key]
		if !ok {
			g = &rowGroup{key: key, numeric: col.IsNumeric()}
			if col.IsNumeric() {
				g.numKey = col.Number(r)
			}
			buckets[key] = g
		}
		g.rows = append(g.rows, r)
	}

	groups := make([]rowGroup, 0, len(buckets))
	for _, g := range buckets {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].numeric && groups[j].numeric {
			return groups[i].numKey < groups[j].numKey
		}
		return groups[i].key < groups[j].key
	})
	return groups
}

// sortGroups reorders the group list by value. The sort is stable, so ties
// keep their key-ascending order.
func sortGroups(groups []models.GroupValue, direction string) {
	switch direction {
	case models.SortAsc:
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value < groups[j].Value })
	case models.SortDesc:
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value > groups[j].Value })
	}
}
