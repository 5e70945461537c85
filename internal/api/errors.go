package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/apperr"
)

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Kind    apperr.Kind `json:"kind"`
	Message string      `json:"message"`
	Status  int         `json:"upstreamStatus,omitempty"`
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.CredentialMissing:
		return http.StatusPreconditionFailed
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Upstream, apperr.Network:
		return http.StatusBadGateway
	case apperr.Parse, apperr.Generation:
		return http.StatusUnprocessableEntity
	case apperr.Cancelled:
		return http.StatusGatewayTimeout
	case apperr.Conflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// errorBody builds the user-facing notice for err. Generation and parse
// failures get a generic message; the raw model output only goes to the log.
func errorBody(err error) ErrorBody {
	kind := apperr.KindOf(err)
	body := ErrorBody{Kind: kind, Message: err.Error()}
	switch kind {
	case apperr.Parse, apperr.Generation:
		body.Message = "Failed to generate or parse results. Please try again."
	case apperr.Cancelled:
		body.Message = "The request timed out. Please try again."
	case apperr.Upstream:
		if ae := asAppErr(err); ae != nil {
			body.Status = ae.Status
		}
	case "":
		body.Message = "internal error"
	}
	return body
}

func asAppErr(err error) *apperr.Error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(apperr.KindOf(err))
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	} else {
		h.logger.Warn("Request rejected",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": errorBody(err)})
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	h.fail(c, &apperr.Error{Kind: apperr.Validation, Message: "invalid request body", Err: err})
}
