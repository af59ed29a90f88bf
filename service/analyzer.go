package service

import (
	"context"
	"fmt"
	"math"

	"github.com/soorajhamirani/ContractGuard-AI/model"
	"github.com/soorajhamirani/ContractGuard-AI/pkg/logger"
)

// ClauseAnalyzer is the reasoning-service dependency of the analyzer,
// satisfied by GeminiService and by stubs in tests.
type ClauseAnalyzer interface {
	AnalyzeClauses(ctx context.Context, contractText string) ([]model.Clause, error)
}

// AnalyzerService turns extracted contract text into a scored result.
type AnalyzerService struct {
	llm ClauseAnalyzer
}

func NewAnalyzerService(llm ClauseAnalyzer) *AnalyzerService {
	return &AnalyzerService{llm: llm}
}

// Analyze runs the single-pass pipeline: model call, then analytics over
// the validated clause records.
func (s *AnalyzerService) Analyze(ctx context.Context, contractText string) (*model.Result, error) {
	clauses, err := s.llm.AnalyzeClauses(ctx, contractText)
	if err != nil {
		return nil, fmt.Errorf("clause analysis failed: %w", err)
	}

	logger.Info(ctx, "clause analysis returned", "clauses", len(clauses))

	return &model.Result{
		OverallRiskScore:  ComputeOverallRisk(clauses),
		HighestRiskClause: HighestRiskClause(clauses),
		RiskDistribution:  RiskDistribution(clauses),
		Clauses:           clauses,
	}, nil
}

// ComputeOverallRisk returns the average risk score across all clauses,
// rounded to 2 decimal places. An empty clause list scores 0.
func ComputeOverallRisk(clauses []model.Clause) float64 {
	if len(clauses) == 0 {
		return 0
	}

	total := 0
	for _, c := range clauses {
		total += c.RiskScore
	}
	avg := float64(total) / float64(len(clauses))
	return math.Round(avg*100) / 100
}

// HighestRiskClause returns the clause with the highest risk score, or nil
// if there are none. Ties keep the earlier clause.
func HighestRiskClause(clauses []model.Clause) *model.Clause {
	if len(clauses) == 0 {
		return nil
	}

	highest := &clauses[0]
	for i := 1; i < len(clauses); i++ {
		if clauses[i].RiskScore > highest.RiskScore {
			highest = &clauses[i]
		}
	}
	return highest
}

// RiskDistribution counts clauses per risk type.
func RiskDistribution(clauses []model.Clause) map[string]int {
	distribution := make(map[string]int)
	for _, c := range clauses {
		distribution[c.RiskType]++
	}
	return distribution
}
