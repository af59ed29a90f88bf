package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/soorajhamirani/ContractGuard-AI/middleware"
	"github.com/soorajhamirani/ContractGuard-AI/model"
	"github.com/soorajhamirani/ContractGuard-AI/pkg/logger"
	"github.com/soorajhamirani/ContractGuard-AI/service"
)

var pdfMagic = []byte("%PDF-")

// analysisTimeout bounds one full extraction + model round trip.
const analysisTimeout = 3 * time.Minute

type AnalysisHandler struct {
	minioService    *service.MinioService
	analyzerService *service.AnalyzerService
	exportService   *service.ExportService
	store           *service.AnalysisStore
	maxUploadBytes  int64
	extractText     func([]byte) (string, error)
}

func NewAnalysisHandler(minioSvc *service.MinioService, analyzerSvc *service.AnalyzerService, exportSvc *service.ExportService, maxUploadMB int) *AnalysisHandler {
	return &AnalysisHandler{
		minioService:    minioSvc,
		analyzerService: analyzerSvc,
		exportService:   exportSvc,
		store:           service.GetAnalysisStore(),
		maxUploadBytes:  int64(maxUploadMB) * 1024 * 1024,
		extractText:     service.ExtractText,
	}
}

// Upload accepts a contract PDF, archives it and starts the analysis.
func (h *AnalysisHandler) Upload(c *gin.Context) {
	tenant := middleware.GetTenant(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF files are allowed"})
		return
	}

	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("File exceeds the %d MB upload limit", h.maxUploadBytes/(1024*1024)),
		})
		return
	}

	// The bytes are needed twice (archive + extraction), so read them up
	// front.
	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	if !bytes.HasPrefix(data, pdfMagic) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is not a valid PDF"})
		return
	}

	analysisID := uuid.New().String()
	objectName := fmt.Sprintf("%s/%s/%s", tenant, analysisID, header.Filename)

	err = h.minioService.UploadFile(c.Request.Context(), objectName, bytes.NewReader(data), int64(len(data)), "application/pdf")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to archive file: " + err.Error()})
		return
	}

	pdfURL, err := h.minioService.GetPresignedURL(c.Request.Context(), objectName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate URL: " + err.Error()})
		return
	}

	analysis := &model.Analysis{
		ID:         analysisID,
		Filename:   header.Filename,
		Tenant:     tenant,
		ObjectName: objectName,
		PDFURL:     pdfURL,
		Status:     model.StatusPending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	h.store.Save(analysis)

	go h.runAnalysis(analysis, data)

	c.JSON(http.StatusOK, gin.H{
		"id":       analysisID,
		"filename": header.Filename,
		"pdf_url":  pdfURL,
		"status":   model.StatusPending,
	})
}

// runAnalysis executes the extraction and model call off the request
// goroutine; progress is exposed through the status endpoint.
func (h *AnalysisHandler) runAnalysis(analysis *model.Analysis, data []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), analysisTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, logger.TenantKey, analysis.Tenant)

	h.store.UpdateStatus(analysis.ID, model.StatusProcessing, "")

	extract := h.extractText
	if extract == nil {
		extract = service.ExtractText
	}

	text, err := extract(data)
	if err != nil {
		logger.Warn(ctx, "text extraction failed",
			"analysis_id", analysis.ID,
			"error", err,
		)
		h.store.UpdateStatus(analysis.ID, model.StatusFailed, "Text extraction failed: "+err.Error())
		return
	}

	h.store.SetTextChars(analysis.ID, len(text))
	logger.Info(ctx, "text extracted",
		"analysis_id", analysis.ID,
		"chars", len(text),
	)

	result, err := h.analyzerService.Analyze(ctx, text)
	if err != nil {
		msg := "Analysis failed: " + err.Error()
		if errors.Is(err, service.ErrMalformedResponse) {
			msg = "The reasoning service returned an unexpected response format: " + err.Error()
		}
		logger.Error(ctx, "analysis failed",
			"analysis_id", analysis.ID,
			"error", err,
		)
		h.store.UpdateStatus(analysis.ID, model.StatusFailed, msg)
		return
	}

	h.store.SetResult(analysis.ID, result)
	logger.Info(ctx, "analysis completed",
		"analysis_id", analysis.ID,
		"overall_risk_score", result.OverallRiskScore,
		"clauses", len(result.Clauses),
	)
}

// List returns all analyses for the current tenant
func (h *AnalysisHandler) List(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	analyses := h.store.GetByTenant(tenant)

	// Return without clause data for list view
	result := make([]gin.H, len(analyses))
	for i, a := range analyses {
		item := gin.H{
			"id":         a.ID,
			"filename":   a.Filename,
			"status":     a.Status,
			"pdf_url":    a.PDFURL,
			"created_at": a.CreatedAt.Format(time.RFC3339),
			"updated_at": a.UpdatedAt.Format(time.RFC3339),
		}
		if a.Result != nil {
			item["overall_risk_score"] = a.Result.OverallRiskScore
		}
		result[i] = item
	}

	c.JSON(http.StatusOK, gin.H{"analyses": result})
}

// Get returns a single analysis with full clause data
func (h *AnalysisHandler) Get(c *gin.Context) {
	analysis := h.findForTenant(c)
	if analysis == nil {
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// GetStatus returns the processing status of an analysis
func (h *AnalysisHandler) GetStatus(c *gin.Context) {
	analysis := h.findForTenant(c)
	if analysis == nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        analysis.ID,
		"status":    analysis.Status,
		"error_msg": analysis.ErrorMsg,
	})
}

// Export streams the analysis as an XLSX report
func (h *AnalysisHandler) Export(c *gin.Context) {
	analysis := h.findForTenant(c)
	if analysis == nil {
		return
	}

	if analysis.Status != model.StatusCompleted || analysis.Result == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Analysis is not completed"})
		return
	}

	data, err := h.exportService.BuildReportXLSX(analysis)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report: " + err.Error()})
		return
	}

	name := strings.TrimSuffix(analysis.Filename, filepath.Ext(analysis.Filename))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-risk-report.xlsx"`, name))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// Delete removes an analysis and its archived PDF
func (h *AnalysisHandler) Delete(c *gin.Context) {
	analysis := h.findForTenant(c)
	if analysis == nil {
		return
	}

	if h.minioService != nil && analysis.ObjectName != "" {
		if err := h.minioService.DeleteFile(c.Request.Context(), analysis.ObjectName); err != nil {
			logger.Warn(c.Request.Context(), "failed to delete archived PDF",
				"analysis_id", analysis.ID,
				"error", err,
			)
		}
	}

	h.store.Delete(analysis.ID)

	c.JSON(http.StatusOK, gin.H{"message": "Analysis deleted"})
}

// findForTenant loads the :id analysis and enforces tenant isolation,
// writing a 404 and returning nil when it is absent or foreign.
func (h *AnalysisHandler) findForTenant(c *gin.Context) *model.Analysis {
	tenant := middleware.GetTenant(c)
	id := c.Param("id")

	analysis := h.store.Get(id)
	if analysis == nil || analysis.Tenant != tenant {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return nil
	}
	return analysis
}
