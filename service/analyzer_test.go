package service

import (
	"context"
	"errors"
	"testing"

	"github.com/soorajhamirani/ContractGuard-AI/model"
)

// stubAnalyzer returns canned clauses or an error.
type stubAnalyzer struct {
	clauses []model.Clause
	err     error
}

func (s *stubAnalyzer) AnalyzeClauses(ctx context.Context, contractText string) ([]model.Clause, error) {
	return s.clauses, s.err
}

func sampleClauses() []model.Clause {
	return []model.Clause{
		{
			Text:              "Clause 1 text",
			RiskType:          model.RiskLiability,
			RiskScore:         8,
			Reasoning:         "High liability risk",
			SuggestedRevision: "Limit liability",
			Confidence:        0.95,
		},
		{
			Text:              "Clause 2 text",
			RiskType:          model.RiskFinancial,
			RiskScore:         4,
			Reasoning:         "Moderate financial risk",
			SuggestedRevision: "Review terms",
			Confidence:        0.85,
		},
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	svc := NewAnalyzerService(&stubAnalyzer{clauses: sampleClauses()})

	result, err := svc.Analyze(context.Background(), "This is a sample contract text.")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.OverallRiskScore != 6.0 {
		t.Errorf("Expected overall risk 6.0, got %v", result.OverallRiskScore)
	}
	if result.HighestRiskClause == nil || result.HighestRiskClause.RiskScore != 8 {
		t.Error("Expected highest risk clause with score 8")
	}
	if result.RiskDistribution[model.RiskLiability] != 1 {
		t.Errorf("Expected 1 Liability clause, got %d", result.RiskDistribution[model.RiskLiability])
	}
	if result.RiskDistribution[model.RiskFinancial] != 1 {
		t.Errorf("Expected 1 Financial clause, got %d", result.RiskDistribution[model.RiskFinancial])
	}
	if len(result.Clauses) != 2 {
		t.Errorf("Expected 2 clauses, got %d", len(result.Clauses))
	}
}

func TestAnalyzeEmptyResponse(t *testing.T) {
	svc := NewAnalyzerService(&stubAnalyzer{clauses: []model.Clause{}})

	result, err := svc.Analyze(context.Background(), "This is a sample contract text.")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.OverallRiskScore != 0.0 {
		t.Errorf("Expected overall risk 0.0, got %v", result.OverallRiskScore)
	}
	if result.HighestRiskClause != nil {
		t.Error("Expected nil highest risk clause")
	}
	if len(result.RiskDistribution) != 0 {
		t.Errorf("Expected empty distribution, got %v", result.RiskDistribution)
	}
	if len(result.Clauses) != 0 {
		t.Errorf("Expected 0 clauses, got %d", len(result.Clauses))
	}
}

func TestAnalyzeModelFailure(t *testing.T) {
	svc := NewAnalyzerService(&stubAnalyzer{err: errors.New("api unavailable")})

	_, err := svc.Analyze(context.Background(), "text")
	if err == nil {
		t.Error("Expected error when the model call fails")
	}
}

func TestComputeOverallRiskRounding(t *testing.T) {
	clauses := []model.Clause{
		{RiskScore: 1},
		{RiskScore: 1},
		{RiskScore: 2},
	}

	// 4/3 = 1.333... → 1.33
	if got := ComputeOverallRisk(clauses); got != 1.33 {
		t.Errorf("Expected 1.33, got %v", got)
	}
}

func TestHighestRiskClauseTie(t *testing.T) {
	clauses := []model.Clause{
		{Text: "first", RiskScore: 7},
		{Text: "second", RiskScore: 7},
	}

	highest := HighestRiskClause(clauses)
	if highest == nil || highest.Text != "first" {
		t.Error("Expected tie to keep the earlier clause")
	}
}

func TestRiskDistributionCounts(t *testing.T) {
	clauses := []model.Clause{
		{RiskType: model.RiskIP},
		{RiskType: model.RiskIP},
		{RiskType: model.RiskTermination},
	}

	dist := RiskDistribution(clauses)
	if dist[model.RiskIP] != 2 {
		t.Errorf("Expected 2 IP clauses, got %d", dist[model.RiskIP])
	}
	if dist[model.RiskTermination] != 1 {
		t.Errorf("Expected 1 Termination clause, got %d", dist[model.RiskTermination])
	}
}
