package api

import "strings"

// modelPrice holds per-million-token USD prices for one model family.
type modelPrice struct {
	input  float64
	output float64
}

// priceTable maps model-name substrings to prices. Matched in order;
// first hit wins. Prices are approximate and updated as Anthropic
// pricing changes.
var priceTable = []struct {
	match string
	price modelPrice
}{
	{"opus", modelPrice{input: 15.0, output: 75.0}},
	{"sonnet", modelPrice{input: 3.0, output: 15.0}},
	{"haiku", modelPrice{input: 0.80, output: 4.0}},
}

// defaultPrice is used for unrecognized models.
var defaultPrice = modelPrice{input: 3.0, output: 15.0}

// Fixed token counts attributed to synthesized mock responses, chosen
// to resemble a typical validation prompt so cost-tracking code paths
// stay exercised without a network.
const (
	mockInputTokens  int64 = 850
	mockOutputTokens int64 = 220
)

// CostFor estimates the USD cost of a call against the given model.
func CostFor(model string, inputTokens, outputTokens int64) float64 {
	p := priceFor(model)
	return float64(inputTokens)/1_000_000*p.input + float64(outputTokens)/1_000_000*p.output
}

func priceFor(model string) modelPrice {
	lower := strings.ToLower(model)
	for _, entry := range priceTable {
		if strings.Contains(lower, entry.match) {
			return entry.price
		}
	}
	return defaultPrice
}
