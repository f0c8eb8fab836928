package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/fundlens/fundlens/internal/domain/models"
	"github.com/fundlens/fundlens/internal/logger"
)

// Low temperature keeps plans deterministic.
const plannerTemperature = 0.1

const plannerSystemPrompt = `You are a query planner for a CSV analytics system. Your job is to understand user questions and generate structured JSON query plans.

Available files:
- trades.csv
- holdings.csv

Available columns:
%COLUMNS%

You must generate a JSON plan in this exact format:
{
  "files": ["holdings.csv"],
  "operation": "aggregate",
  "group_by": "PortfolioName",
  "metric": "PL_YTD",
  "aggregation": "sum",
  "filters": [{"column": "PortfolioName", "operator": "==", "value": "Fund A"}],
  "sort": "desc",
  "limit": 5
}

Rules:
- files must be a subset of ["trades.csv", "holdings.csv"]
- operation must be one of: count, aggregate
- For count operations: count rows, optionally group_by
- For aggregate operations: must specify metric and one aggregation of: sum, mean, min, max, count
- filters support operators: ==, !=, >, <, >=, <=, in
- group_by, metric and filter columns may only be columns from the available columns list
- sort is optional: "asc" or "desc"; limit is an optional positive integer
- If the question cannot be answered from the CSV files, return null

Respond ONLY with valid JSON, no other text.`

// Planner turns a natural-language question into a QueryPlan via the LLM.
type Planner struct {
	llm Completer
}

// NewPlanner builds a Planner on top of a Completer.
func NewPlanner(llm Completer) *Planner {
	return &Planner{llm: llm}
}

// GeneratePlan asks the LLM for a plan. Any failure — API error, malformed
// JSON, or an explicit "null" from the model — degrades to a nil plan; the
// caller treats that the same as a validation failure. No retries.
func (p *Planner) GeneratePlan(ctx context.Context, question string, columns map[string][]string) *models.QueryPlan {
	cols, err := json.MarshalIndent(columns, "", "  ")
	if err != nil {
		logger.L().Error().Err(err).Msg("marshal columns for planner prompt")
		return nil
	}
	system := strings.Replace(plannerSystemPrompt, "%COLUMNS%", string(cols), 1)
	user := "User question: " + question + "\n\nGenerate the JSON query plan:"

	raw, err := p.llm.Complete(ctx, system, user, plannerTemperature)
	if err != nil {
		logger.L().Warn().Err(err).Msg("planner call failed")
		return nil
	}

	text := extractJSON(raw)
	if text == "" || text == "null" {
		logger.L().Warn().Str("response", truncate(raw, 200)).Msg("planner returned no plan")
		return nil
	}

	var plan models.QueryPlan
	if err := json.Unmarshal([]byte(text), &plan); err != nil {
		logger.L().Warn().Err(err).Str("response", truncate(raw, 200)).Msg("planner response is not valid JSON")
		return nil
	}
	return &plan
}

// extractJSON strips markdown code fences and surrounding prose, returning
// the first JSON object in the text (or the bare trimmed text when no
// object is found, so an explicit "null" survives).
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
