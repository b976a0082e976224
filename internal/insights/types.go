// Package insights asks an LLM for financial advice and turns its loosely
// structured answer into a list of insights.
package insights

// Type classifies an insight.
type Type string

const (
	TypeSpending Type = "spending"
	TypeSaving   Type = "saving"
	TypeBudget   Type = "budget"
	TypeIncome   Type = "income"
	TypeBill     Type = "bill"
	TypeGeneral  Type = "general"
)

// Priority orders insights by urgency.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Filler text for fields the model left empty.
const (
	DefaultTitle          = "Financial insight"
	DefaultDescription    = "No description provided."
	DefaultRecommendation = "Review your recent transactions."
)

// Insight is one piece of advice.
type Insight struct {
	Type           Type     `json:"type"`
	Priority       Priority `json:"priority"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Recommendation string   `json:"recommendation"`

	// Fallback marks the placeholder returned when no insight could be produced
	Fallback bool `json:"-"`
}

func knownType(t Type) bool {
	switch t {
	case TypeSpending, TypeSaving, TypeBudget, TypeIncome, TypeBill, TypeGeneral:
		return true
	}
	return false
}

func knownPriority(p Priority) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Fallback builds the single insight shown instead of real ones.
func Fallback(reason string) []Insight {
	return []Insight{{
		Type:           TypeGeneral,
		Priority:       PriorityMedium,
		Title:          "Insights unavailable",
		Description:    "We couldn't generate insights right now: " + reason,
		Recommendation: "Try again in a few minutes.",
		Fallback:       true,
	}}
}

// IsFallback reports whether list is the placeholder returned on failure.
func IsFallback(list []Insight) bool {
	return len(list) == 1 && list[0].Fallback
}
