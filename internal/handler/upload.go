package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"customer-insights/internal/chart"
	"customer-insights/internal/dashboard"
	"customer-insights/internal/export"
	"customer-insights/internal/logger"
	"customer-insights/internal/model"

	"github.com/gin-gonic/gin"
)

// SelectFile handles POST /file. The file is read into memory; there is no
// size limit.
func (h *DashboardHandler) SelectFile(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		back(c)
		return
	}
	f, err := fh.Open()
	if err != nil {
		logger.Error("file.open_failed", "file", fh.Filename, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read the uploaded file"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		logger.Error("file.read_failed", "file", fh.Filename, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read the uploaded file"})
		return
	}

	logger.Info("file.selected", "file", fh.Filename, "size", fh.Size, "content_type", fh.Header.Get("Content-Type"))
	h.app.Dispatch(dashboard.FileSelected{File: model.SelectedFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}})
	back(c)
}

// Upload handles POST /upload
func (h *DashboardHandler) Upload(c *gin.Context) {
	h.app.Dispatch(dashboard.UploadRequested{})
	back(c)
}

// Chart handles GET /chart.svg
func (h *DashboardHandler) Chart(c *gin.Context) {
	st := h.app.Snapshot()
	var buf bytes.Buffer
	err := chart.RenderBar(&buf, st.Board.Distribution, chart.Options{Title: "Customers per " + st.CategoryField})
	if errors.Is(err, chart.ErrNoData) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data"})
		return
	}
	if err != nil {
		logger.Error("chart.render_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not render chart"})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

// Export handles GET /export.xlsx
func (h *DashboardHandler) Export(c *gin.Context) {
	st := h.app.Snapshot()
	if st.Board.Result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data"})
		return
	}
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, st.Board.Result.Rows, st.CategoryField, st.Board.Distribution); err != nil {
		logger.Error("export.failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build workbook"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="preview.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
