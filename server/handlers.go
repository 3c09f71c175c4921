package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"suppliernorm/database"
	"suppliernorm/importer"
	"suppliernorm/normalization"
)

// ErrorResponse is the JSON shape of every error reply.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

func sendError(c *gin.Context, status int, format string, args ...any) {
	c.JSON(status, ErrorResponse{Error: true, Message: fmt.Sprintf(format, args...)})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"mode":   s.cfg.Mode,
	})
}

// NormalizeResponse is returned by POST /api/normalize.
type NormalizeResponse struct {
	RunID     string                              `json:"run_id"`
	Status    string                              `json:"status"`
	TotalRows int                                 `json:"total_rows"`
	Results   []normalization.NormalizationResult `json:"results"`
}

// handleNormalize accepts a multipart upload (field "file"), runs the
// pipeline synchronously and persists the run. Optional form fields:
// "column" (header name), "column_index", "mode".
func (s *Server) handleNormalize(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		sendError(c, http.StatusBadRequest, "file upload is required: %v", err)
		return
	}

	mode := c.PostForm("mode")
	if mode == "" {
		mode = s.cfg.Mode
	}
	if mode == normalization.ModeSemantic && s.oracle == nil {
		sendError(c, http.StatusBadRequest, "semantic mode requires a configured AI provider")
		return
	}

	spec := importer.AutoDetect()
	if column := c.PostForm("column"); column != "" {
		spec = importer.ColumnSpec{Header: column}
	} else if idxStr := c.PostForm("column_index"); idxStr != "" {
		idx, err := strconv.Atoi(idxStr)
		if err != nil || idx < 0 {
			sendError(c, http.StatusBadRequest, "invalid column_index %q", idxStr)
			return
		}
		spec = importer.ColumnSpec{Index: idx}
	}

	// The reader dispatches on the extension, so keep it on the temp copy.
	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(fileHeader.Filename))
	if err != nil {
		sendError(c, http.StatusInternalServerError, "failed to stage upload: %v", err)
		return
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		sendError(c, http.StatusInternalServerError, "failed to save upload: %v", err)
		return
	}

	names, err := importer.ReadNamesFile(tmpPath, spec)
	if err != nil {
		sendError(c, http.StatusBadRequest, "failed to read supplier names: %v", err)
		return
	}
	if len(names) == 0 {
		sendError(c, http.StatusBadRequest, "no data rows found in %s", fileHeader.Filename)
		return
	}

	normalizer, err := s.newNormalizer(mode)
	if err != nil {
		sendError(c, http.StatusBadRequest, "invalid normalization options: %v", err)
		return
	}

	run, err := s.store.CreateRun(fileHeader.Filename, mode, len(names))
	if err != nil {
		sendError(c, http.StatusInternalServerError, "failed to create run: %v", err)
		return
	}

	started := time.Now()
	results := normalizer.Normalize(c.Request.Context(), names)

	if err := s.store.SaveResults(run.ID, results); err != nil {
		s.store.FinishRun(run.ID, database.RunStatusFailed)
		sendError(c, http.StatusInternalServerError, "failed to save results: %v", err)
		return
	}
	if err := s.store.FinishRun(run.ID, database.RunStatusCompleted); err != nil {
		sendError(c, http.StatusInternalServerError, "failed to finish run: %v", err)
		return
	}

	s.log.Info("normalization run completed",
		"run_id", run.ID,
		"rows", len(names),
		"duration_ms", time.Since(started).Milliseconds(),
	)

	c.JSON(http.StatusOK, NormalizeResponse{
		RunID:     run.ID,
		Status:    database.RunStatusCompleted,
		TotalRows: len(results),
		Results:   results,
	})
}

func (s *Server) handleListRuns(c *gin.Context) {
	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	runs, err := s.store.ListRuns(limit)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "failed to list runs: %v", err)
		return
	}
	if runs == nil {
		runs = []database.Run{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs, "total": len(runs)})
}

func (s *Server) handleGetRun(c *gin.Context) {
	run, err := s.store.GetRun(c.Param("id"))
	if err != nil {
		sendError(c, http.StatusNotFound, "%v", err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) handleGetResults(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.store.GetRun(id); err != nil {
		sendError(c, http.StatusNotFound, "%v", err)
		return
	}

	results, err := s.store.GetResults(id)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "failed to load results: %v", err)
		return
	}
	if results == nil {
		results = []normalization.NormalizationResult{}
	}
	c.JSON(http.StatusOK, gin.H{"run_id": id, "total": len(results), "results": results})
}

// handleExport streams one of the three result views as CSV or Excel.
// Query params: format=csv|excel (default csv), view=full|mapping|clusters
// (default full).
func (s *Server) handleExport(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.store.GetRun(id); err != nil {
		sendError(c, http.StatusNotFound, "%v", err)
		return
	}

	format := normalization.ExportFormat(c.DefaultQuery("format", string(normalization.FormatCSV)))
	view := normalization.ExportView(c.DefaultQuery("view", string(normalization.ViewFull)))

	results, err := s.store.GetResults(id)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "failed to load results: %v", err)
		return
	}

	exporter := normalization.NewExporter()
	filename := fmt.Sprintf("suppliers_%s_%s", view, time.Now().Format("20060102_150405"))

	switch format {
	case normalization.FormatCSV:
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
		if err := exporter.WriteCSV(c.Writer, view, results); err != nil {
			sendError(c, http.StatusBadRequest, "export failed: %v", err)
		}
	case normalization.FormatExcel:
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", filename))
		if err := exporter.WriteExcel(c.Writer, view, results); err != nil {
			sendError(c, http.StatusBadRequest, "export failed: %v", err)
		}
	default:
		sendError(c, http.StatusBadRequest, "unknown format %q", format)
	}
}
