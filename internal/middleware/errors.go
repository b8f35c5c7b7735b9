package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/sharepeak/internal/domain/dto"
	"github.com/guttosm/sharepeak/internal/domain/errs"
	"github.com/guttosm/sharepeak/internal/logger"
)

// ErrorHandler turns errors attached with c.Error into a JSON response when
// the handler chain didn't write one.
//
// Share data errors map to their HTTP status via StatusForError;
// anything else is a 500.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}
	err := c.Errors.Last().Err
	status := StatusForError(err)
	AbortWithError(c, status, http.StatusText(status), err)
}

// AbortWithError logs err and aborts the request with a dto.ErrorResponse body.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	rid, _ := c.Get(RequestIDKey)
	ev := logger.L().Warn()
	if status >= http.StatusInternalServerError {
		ev = logger.L().Error()
	}
	ev.Str("request_id", toString(rid)).Int("status", status).Err(err).Msg(message)

	resp := dto.NewErrorResponse(message, err)
	if kind, ok := errs.KindOf(err); ok {
		resp.Kind = string(kind)
	}
	c.AbortWithStatusJSON(status, resp)
}

// StatusForError maps share data error kinds to HTTP status codes.
//
//   - KindSourceUnavailable            → 400
//   - KindConfiguration/RowShape/Parse → 422
//   - anything else                    → 500
func StatusForError(err error) int {
	kind, ok := errs.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case errs.KindSourceUnavailable:
		return http.StatusBadRequest
	case errs.KindConfiguration, errs.KindRowShape, errs.KindParse:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
