package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Insight
	}{
		{
			name:  "plain array",
			input: `[{"type":"spending","priority":"high","title":"T","description":"D","recommendation":"R"}]`,
			want:  []Insight{{Type: TypeSpending, Priority: PriorityHigh, Title: "T", Description: "D", Recommendation: "R"}},
		},
		{
			name:  "fenced array",
			input: "```json\n[{\"type\":\"saving\",\"priority\":\"low\",\"title\":\"T\",\"description\":\"D\",\"recommendation\":\"R\"}]\n```",
			want:  []Insight{{Type: TypeSaving, Priority: PriorityLow, Title: "T", Description: "D", Recommendation: "R"}},
		},
		{
			name:  "array wrapped in prose",
			input: `Here are your insights: [{"type":"budget","priority":"medium","title":"T","description":"D","recommendation":"R"}] Hope this helps!`,
			want:  []Insight{{Type: TypeBudget, Priority: PriorityMedium, Title: "T", Description: "D", Recommendation: "R"}},
		},
		{
			name:  "object with insights field",
			input: `{"insights":[{"type":"income","priority":"HIGH","title":"T","description":"D","recommendation":"R"}]}`,
			want:  []Insight{{Type: TypeIncome, Priority: PriorityHigh, Title: "T", Description: "D", Recommendation: "R"}},
		},
		{
			name:  "object in prose",
			input: `Sure! {"insights":[{"type":"bill","title":"T","description":"D","recommendation":"R"}]} Done.`,
			want:  []Insight{{Type: TypeBill, Priority: PriorityMedium, Title: "T", Description: "D", Recommendation: "R"}},
		},
		{
			name:  "normalizes unknown values and fills missing text",
			input: `[{"type":"crypto","priority":"urgent","title":42}]`,
			want: []Insight{{
				Type:           TypeGeneral,
				Priority:       PriorityMedium,
				Title:          DefaultTitle,
				Description:    DefaultDescription,
				Recommendation: DefaultRecommendation,
			}},
		},
		{
			name:  "skips non-object elements",
			input: `[1, "x", {"type":"general","priority":"low","title":"T","description":"D","recommendation":"R"}]`,
			want:  []Insight{{Type: TypeGeneral, Priority: PriorityLow, Title: "T", Description: "D", Recommendation: "R"}},
		},
		{
			name:  "empty array",
			input: `[]`,
			want:  []Insight{},
		},
		{
			name:  "array followed by bracketed prose",
			input: `Here: [{"type":"saving","priority":"low","title":"T","description":"D","recommendation":"R"}] and see [1]`,
			want:  []Insight{{Type: TypeSaving, Priority: PriorityLow, Title: "T", Description: "D", Recommendation: "R"}},
		},
		{
			name:  "object followed by braced prose",
			input: `Result {"insights":[{"type":"bill","priority":"high","title":"T","description":"D","recommendation":"R"}]} {not json}`,
			want:  []Insight{{Type: TypeBill, Priority: PriorityHigh, Title: "T", Description: "D", Recommendation: "R"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{name: "empty", input: "  ", reason: ReasonEmpty},
		{name: "only fences", input: "```json\n```", reason: ReasonEmpty},
		{name: "prose", input: "I cannot help with that.", reason: ReasonMalformed},
		{name: "broken json", input: `[{"type": "spending",`, reason: ReasonMalformed},
		{name: "object without insights", input: `{"advice":"save more"}`, reason: ReasonShape},
		{name: "insights is not a list", input: `{"insights":"none"}`, reason: ReasonShape},
		{name: "insights is null", input: `{"insights": null}`, reason: ReasonShape},
		{name: "scalar", input: `"hello"`, reason: ReasonShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.reason, perr.Reason)
			assert.Equal(t, tt.input, perr.Raw)
		})
	}
}
