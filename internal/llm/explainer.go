package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/fundlens/fundlens/internal/domain/models"
	"github.com/fundlens/fundlens/internal/logger"
)

// Slightly higher temperature than the planner for more natural prose.
const explainerTemperature = 0.3

const explainerSystemPrompt = `You are an explanation generator for a CSV analytics system. Your job is to explain query results in natural language.

Rules:
- Only explain what the data shows, never invent or hallucinate values
- Be concise and clear
- Format numbers appropriately (e.g., 1000.50)
- If results are empty, say "Sorry can not find the answer"
- Explain how the answer was derived from the data`

// Explainer turns an executed plan and its result into a natural-language
// answer via the LLM, with a templated fallback when the call fails.
type Explainer struct {
	llm Completer
}

// NewExplainer builds an Explainer on top of a Completer.
func NewExplainer(llm Completer) *Explainer {
	return &Explainer{llm: llm}
}

// Explain produces the final answer text for a successful execution.
// An API failure falls back to a plain rendering of the raw result.
func (e *Explainer) Explain(ctx context.Context, question string, plan *models.QueryPlan, result models.Result) string {
	planJSON, _ := json.MarshalIndent(plan, "", "  ")
	resultJSON, _ := json.MarshalIndent(resultPayload(result), "", "  ")

	user := fmt.Sprintf(`User question: %s

Query plan executed:
%s

Results:
%s

Provide a clear, natural language explanation of these results:`, question, planJSON, resultJSON)

	answer, err := e.llm.Complete(ctx, explainerSystemPrompt, user, explainerTemperature)
	if err != nil {
		logger.L().Warn().Err(err).Msg("explainer call failed, using fallback")
		return FallbackExplanation(result)
	}
	return strings.TrimSpace(answer)
}

// resultPayload renders the discriminated result the way the prompt expects:
// a bare number or a key→value mapping, never the internal envelope.
func resultPayload(result models.Result) any {
	if result.Kind == models.ResultGroups {
		// Ordered pairs, not a map: group order is part of the result.
		pairs := make([]map[string]any, len(result.Groups))
		for i, g := range result.Groups {
			pairs[i] = map[string]any{g.Key: g.Value}
		}
		return pairs
	}
	return result.Scalar
}

// FallbackExplanation renders the raw result as plain text when the LLM
// is unavailable.
func FallbackExplanation(result models.Result) string {
	if result.Kind == models.ResultGroups {
		var b strings.Builder
		b.WriteString("Results:\n")
		for _, g := range result.Groups {
			fmt.Fprintf(&b, "  %s: %s\n", g.Key, formatNumber(g.Value))
		}
		return b.String()
	}
	return "Result: " + formatNumber(result.Scalar)
}

// formatNumber renders a value with two decimals and thousands separators.
func formatNumber(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)

	dot := strings.Index(s, ".")
	intPart, frac := s[:dot], s[dot:]
	for i := len(intPart) - 3; i > 0; i -= 3 {
		intPart = intPart[:i] + "," + intPart[i:]
	}

	if neg {
		return "-" + intPart + frac
	}
	return intPart + frac
}
