package monetary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/donorlens/leverage-cli/internal/model"
	"github.com/donorlens/leverage-cli/pkg/anthropic"
)

const (
	classifySystem = "You are an expert at classifying election races. Respond with a JSON array of category names."

	classifyPromptHeader = `Classify each of the following election races into one of these categories:

Federal Elections:
- presidential: U.S. Presidential election
- competitive_senate: Competitive U.S. Senate race
- safe_senate: Safe/non-competitive U.S. Senate race
- competitive_house: Competitive U.S. House of Representatives race
- safe_house: Safe/non-competitive U.S. House race

State Elections:
- governor_large_state: Governor race in a large state (CA, TX, FL, NY, PA, IL, OH, GA, NC, MI, NJ, VA, WA, AZ, MA, TN, IN, MO)
- governor_small_state: Governor race in a smaller state
- state_senate_competitive: Competitive state senate race
- state_house: State house/assembly race

Local Elections:
- mayor_major_city: Mayor race in major city (NYC, LA, Chicago, Houston, Phoenix, Philadelphia, etc.)
- mayor_mid_size_city: Mayor race in mid-size city
- mayor_small_city: Mayor race in small city
- city_council_major_city: City council race in major city
- city_council_typical: City council race in typical city
- school_board: School board election
- county_commissioner: County commissioner race

Races to classify:
`

	classifyPromptFooter = `

Respond with a JSON array of classifications, one per race in order. Example: ["competitive_senate", "governor_large_state", "city_council_typical"]`
)

// LLMClassifier classifies batches of races through a language model, falling
// back to rules when the model is unavailable or its answer is unusable.
type LLMClassifier struct {
	client anthropic.Client
	model  string
}

// NewLLMClassifier builds a classifier. A nil client means every batch goes
// through the rule-based path.
func NewLLMClassifier(client anthropic.Client, modelName string) *LLMClassifier {
	return &LLMClassifier{client: client, model: modelName}
}

// ClassifyBatch returns one category per race, in order. Every returned
// category is from the table; no call path can fail outright.
func (c *LLMClassifier) ClassifyBatch(ctx context.Context, races []model.Race) []string {
	if c == nil || c.client == nil || len(races) == 0 {
		return classifyAllRuleBased(races)
	}

	temp := 0.1
	resp, err := c.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       c.model,
		MaxTokens:   200,
		System:      classifySystem,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: buildClassifyPrompt(races)},
		},
	})
	if err != nil {
		zap.L().Warn("llm classification failed, using rules",
			zap.Int("races", len(races)), zap.Error(err))
		return classifyAllRuleBased(races)
	}
	resp.Usage.Log(c.model, "classify")

	raw, err := parseClassifications(resp.Text)
	if err != nil {
		zap.L().Warn("llm classification unparseable, using rules",
			zap.String("response", resp.Text), zap.Error(err))
		return classifyAllRuleBased(races)
	}

	out := make([]string, len(races))
	for i := range races {
		if i < len(raw) {
			if cat, ok := NormalizeCategory(raw[i]); ok {
				out[i] = cat
				continue
			}
			zap.L().Warn("unrecognized classification, using rules",
				zap.String("classification", raw[i]), zap.String("race", races[i].Name))
		}
		out[i] = ClassifyRuleBased(races[i])
	}
	return out
}

func classifyAllRuleBased(races []model.Race) []string {
	out := make([]string, len(races))
	for i, r := range races {
		out[i] = ClassifyRuleBased(r)
	}
	return out
}

func buildClassifyPrompt(races []model.Race) string {
	var sb strings.Builder
	sb.WriteString(classifyPromptHeader)
	for i, r := range races {
		fmt.Fprintf(&sb, "Race %d: Position Name: %s, Level: %s\n", i+1, r.Name, r.Level)
	}
	sb.WriteString(classifyPromptFooter)
	return sb.String()
}

// parseClassifications extracts the JSON array from a model reply, tolerating
// markdown code fences around it.
func parseClassifications(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) > 2 {
			text = strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	var out []string
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, err
	}
	return out, nil
}
