package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/sharepeak/internal/domain/dto"
	"github.com/guttosm/sharepeak/internal/domain/errs"
	"github.com/guttosm/sharepeak/internal/metrics"
	"github.com/guttosm/sharepeak/internal/middleware"
	"github.com/guttosm/sharepeak/internal/service"
)

// maxUploadBytes bounds the body accepted by POST /api/v1/analyze.
var maxUploadBytes int64 = 32 << 20

// Handler provides HTTP handlers for share max price reports.
//
// Responsibilities:
//   - Validate path parameters and uploads
//   - Delegate to the report service
//   - Translate results into response DTOs with appropriate status codes
type Handler struct {
	svc service.ReportService
}

// NewHandler constructs a new Handler instance.
func NewHandler(svc service.ReportService) *Handler {
	return &Handler{svc: svc}
}

type reportURI struct {
	Source string `uri:"source" binding:"required,max=255"`
}

// GetReport godoc
// @Summary      Get a stored report
// @Description  Returns, per company, the year and month of the highest share price in an ingested file
// @Tags         reports
// @Produce      json
// @Param        source  path      string  true  "Source name (file name without .csv)"  example(shares_2014)
// @Success      200     {object}  dto.ReportResponse  "Success"
// @Failure      400     {object}  dto.ErrorResponse   "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse   "Not Found"
// @Failure      500     {object}  dto.ErrorResponse   "Internal Error"
// @Router       /api/v1/reports/{source} [get]
func (h *Handler) GetReport(c *gin.Context) {
	var uri reportURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid source", err))
		return
	}
	source := strings.TrimSpace(uri.Source)

	entries, err := h.svc.GetReport(c.Request.Context(), source)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to fetch report", err))
		return
	}
	if entries == nil {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("no report found", nil))
		return
	}

	c.JSON(http.StatusOK, dto.NewReportResponse(source, 0, entries))
}

// ListReports godoc
// @Summary      List ingested sources
// @Tags         reports
// @Produce      json
// @Success      200  {array}   models.IngestionLog  "Success"
// @Failure      500  {object}  dto.ErrorResponse    "Internal Error"
// @Router       /api/v1/reports [get]
func (h *Handler) ListReports(c *gin.Context) {
	logs, err := h.svc.ListSources(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to list reports", err))
		return
	}
	if logs == nil {
		c.JSON(http.StatusOK, []any{})
		return
	}
	c.JSON(http.StatusOK, logs)
}

// Analyze godoc
// @Summary      Analyze an uploaded share data file
// @Description  Aggregates the CSV in memory (multipart field "file" or raw text/csv body); nothing is stored
// @Tags         reports
// @Accept       mpfd
// @Accept       plain
// @Produce      json
// @Param        file  formData  file  false  "CSV share data file"
// @Success      200   {object}  dto.ReportResponse  "Success"
// @Failure      400   {object}  dto.ErrorResponse   "Source unavailable"
// @Failure      413   {object}  dto.ErrorResponse   "Upload too large"
// @Failure      422   {object}  dto.ErrorResponse   "Malformed share data"
// @Failure      500   {object}  dto.ErrorResponse   "Internal Error"
// @Router       /api/v1/analyze [post]
func (h *Handler) Analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	body, closeBody, err := uploadReader(c)
	if err != nil {
		metrics.AnalyzeRequests.WithLabelValues(metrics.StatusFailed).Inc()
		if isTooLarge(err) {
			middleware.AbortWithError(c, http.StatusRequestEntityTooLarge, "upload too large", err)
			return
		}
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid upload", err)
		return
	}
	defer closeBody()

	res, err := h.svc.Analyze(c.Request.Context(), body)
	if err != nil {
		metrics.AnalyzeRequests.WithLabelValues(metrics.StatusFailed).Inc()
		if isTooLarge(err) {
			middleware.AbortWithError(c, http.StatusRequestEntityTooLarge, "upload too large", err)
			return
		}
		middleware.AbortWithError(c, middleware.StatusForError(err), "invalid share data", err)
		return
	}

	metrics.AnalyzeRequests.WithLabelValues(metrics.StatusOK).Inc()
	c.JSON(http.StatusOK, dto.NewReportResponse("", res.Rows, res.Entries))
}

// uploadReader returns the CSV stream of a request: the "file" multipart
// field when the request is multipart, the raw body otherwise.
func uploadReader(c *gin.Context) (io.Reader, func(), error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if isTooLarge(err) {
			return nil, nil, err
		}
		if err != nil {
			return nil, nil, errs.SourceUnavailable(err, "missing multipart field \"file\"")
		}
		if !strings.HasSuffix(strings.ToLower(fh.Filename), ".csv") {
			return nil, nil, errs.SourceUnavailable(nil, "only .csv share data files are supported, got %s", fh.Filename)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, nil, errs.SourceUnavailable(err, "open upload")
		}
		return f, func() { _ = f.Close() }, nil
	}
	if c.Request.ContentLength == 0 {
		return nil, nil, errs.SourceUnavailable(nil, "empty request body")
	}
	return c.Request.Body, func() {}, nil
}

// isTooLarge reports whether err comes from the maxUploadBytes limit.
func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge)
}
