package handler

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soorajhamirani/ContractGuard-AI/model"
)

type reportClause struct {
	Text              string
	RiskType          string
	RiskScore         int
	Level             string
	ConfidencePct     string
	Reasoning         string
	SuggestedRevision string
}

// Report renders the HTML risk dashboard for a completed analysis.
func (h *AnalysisHandler) Report(c *gin.Context) {
	analysis := h.findForTenant(c)
	if analysis == nil {
		return
	}

	if analysis.Status != model.StatusCompleted || analysis.Result == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Analysis is not completed"})
		return
	}

	res := analysis.Result

	clauses := make([]reportClause, len(res.Clauses))
	for i, cl := range res.Clauses {
		clauses[i] = reportClause{
			Text:              cl.Text,
			RiskType:          cl.RiskType,
			RiskScore:         cl.RiskScore,
			Level:             model.RiskLevel(float64(cl.RiskScore)),
			ConfidencePct:     fmt.Sprintf("%.0f%%", cl.Confidence*100),
			Reasoning:         cl.Reasoning,
			SuggestedRevision: cl.SuggestedRevision,
		}
	}
	// Riskiest clauses first; ties keep the contract order.
	sort.SliceStable(clauses, func(i, j int) bool {
		return clauses[i].RiskScore > clauses[j].RiskScore
	})

	c.HTML(http.StatusOK, "report.html", gin.H{
		"Filename":         analysis.Filename,
		"AnalyzedAt":       analysis.UpdatedAt.Format(time.RFC1123),
		"OverallRiskScore": res.OverallRiskScore,
		"OverallLevel":     model.RiskLevel(res.OverallRiskScore),
		"Levels":           model.LevelDistribution(res.Clauses),
		"Clauses":          clauses,
	})
}
