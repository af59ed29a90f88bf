package model

import (
	"time"
)

// RiskType categorizes the nature of a clause's risk.
const (
	RiskFinancial   = "Financial"
	RiskLiability   = "Liability"
	RiskTermination = "Termination"
	RiskIP          = "IP"
	RiskAmbiguity   = "Ambiguity"
)

// RiskTypes is the fixed taxonomy the model is asked to classify into.
var RiskTypes = []string{
	RiskFinancial,
	RiskLiability,
	RiskTermination,
	RiskIP,
	RiskAmbiguity,
}

// Clause is one assessed span of contract text returned by the reasoning
// service.
type Clause struct {
	Text              string  `json:"clause"`
	RiskType          string  `json:"risk_type"`
	RiskScore         int     `json:"risk_score"`
	Reasoning         string  `json:"reasoning"`
	SuggestedRevision string  `json:"suggested_revision"`
	Confidence        float64 `json:"confidence"`
}

// Result holds the computed analytics for one contract.
type Result struct {
	OverallRiskScore  float64        `json:"overall_risk_score"`
	HighestRiskClause *Clause        `json:"highest_risk_clause,omitempty"`
	RiskDistribution  map[string]int `json:"risk_distribution"`
	Clauses           []Clause       `json:"clauses"`
}

// Analysis represents one uploaded contract and its processing state.
type Analysis struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Tenant     string    `json:"tenant"`
	ObjectName string    `json:"-"`
	PDFURL     string    `json:"pdf_url"`
	Status     string    `json:"status"` // pending, processing, completed, failed
	TextChars  int       `json:"text_chars,omitempty"`
	Result     *Result   `json:"result,omitempty"`
	ErrorMsg   string    `json:"error_msg,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Analysis status constants
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Severity bands for presentation
const (
	LevelLow    = "low"
	LevelMedium = "medium"
	LevelHigh   = "high"
)

// RiskLevel maps a score onto a severity band: 0-3 low, 4-6 medium,
// 7-10 high.
func RiskLevel(score float64) string {
	switch {
	case score <= 3:
		return LevelLow
	case score <= 6:
		return LevelMedium
	default:
		return LevelHigh
	}
}

// LevelDistribution counts clauses per severity band.
func LevelDistribution(clauses []Clause) map[string]int {
	dist := map[string]int{LevelLow: 0, LevelMedium: 0, LevelHigh: 0}
	for _, c := range clauses {
		dist[RiskLevel(float64(c.RiskScore))]++
	}
	return dist
}
