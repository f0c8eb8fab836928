package query

import (
	"fmt"
	"slices"

	"github.com/fundlens/fundlens/internal/dataset"
	"github.com/fundlens/fundlens/internal/domain/models"
)

// Closed whitelists. A plan referencing anything outside these sets is
// rejected before any data is touched.
var (
	AllowedOperations      = []string{models.OperationCount, models.OperationAggregate}
	AllowedAggregations    = []string{models.AggregationSum, models.AggregationMean, models.AggregationMin, models.AggregationMax, models.AggregationCount}
	AllowedFilterOperators = []string{"==", "!=", ">", "<", ">=", "<=", "in"}
)

// Validate checks a plan against the whitelists and against the schemas of
// the referenced tables. A nil return means the plan is safe to execute;
// otherwise the error carries a human-readable reason.
func Validate(store *dataset.Store, plan *models.QueryPlan) error {
	if plan == nil {
		return fmt.Errorf("plan is empty")
	}
	if len(plan.Files) == 0 {
		return fmt.Errorf("plan must reference at least one file")
	}

	for _, file := range plan.Files {
		if !slices.Contains(dataset.AllowedFiles, file) {
			return fmt.Errorf("file %q is not allowed, allowed files: %v", file, dataset.AllowedFiles)
		}
		if _, ok := store.Table(file); !ok {
			return fmt.Errorf("file %q not found or could not be loaded", file)
		}
	}

	if !slices.Contains(AllowedOperations, plan.Operation) {
		return fmt.Errorf("operation %q not allowed, allowed: %v", plan.Operation, AllowedOperations)
	}

	if plan.Operation == models.OperationAggregate {
		if plan.Aggregation == "" {
			return fmt.Errorf("operation %q requires an aggregation", models.OperationAggregate)
		}
		if !slices.Contains(AllowedAggregations, plan.Aggregation) {
			return fmt.Errorf("aggregation %q not allowed, allowed: %v", plan.Aggregation, AllowedAggregations)
		}
		if plan.Metric == "" {
			return fmt.Errorf("operation %q requires a metric column", models.OperationAggregate)
		}
	}

	switch plan.Sort {
	case "", models.SortAsc, models.SortDesc:
	default:
		return fmt.Errorf("sort %q not allowed, allowed: asc, desc", plan.Sort)
	}
	if plan.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}

	// Referenced columns must exist in every listed table.
	for _, file := range plan.Files {
		tbl, _ := store.Table(file)

		if plan.GroupBy != "" && !tbl.HasColumn(plan.GroupBy) {
			return fmt.Errorf("column %q not found in %s", plan.GroupBy, file)
		}
		if plan.Metric != "" {
			col, ok := tbl.Column(plan.Metric)
			if !ok {
				return fmt.Errorf("column %q not found in %s", plan.Metric, file)
			}
			if plan.Operation == models.OperationAggregate &&
				plan.Aggregation != models.AggregationCount && !col.IsNumeric() {
				return fmt.Errorf("column %q in %s is not numeric, cannot apply %q", plan.Metric, file, plan.Aggregation)
			}
		}
		for _, f := range plan.Filters {
			if f.Column == "" {
				return fmt.Errorf("filter clause is missing a column")
			}
			if !tbl.HasColumn(f.Column) {
				return fmt.Errorf("filter column %q not found in %s", f.Column, file)
			}
			op := f.Operator
			if op == "" {
				op = "=="
			}
			if !slices.Contains(AllowedFilterOperators, op) {
				return fmt.Errorf("filter operator %q not allowed, allowed: %v", f.Operator, AllowedFilterOperators)
			}
		}
	}

	return nil
}
