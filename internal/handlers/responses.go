package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/multicurrency_ledger/internal/apperrors"
	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/SscSPs/multicurrency_ledger/internal/middleware"
	"github.com/SscSPs/multicurrency_ledger/internal/utils/accounting"
	"github.com/gin-gonic/gin"
)

// respondWithError maps err onto a status code and writes the JSON error body.
// Unexpected failures are logged and reported as "Failed to <action>".
func respondWithError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := apperrors.StatusCode(err)
	body := gin.H{"error": err.Error()}

	var unbalanced *accounting.UnbalancedError
	if errors.As(err, &unbalanced) {
		body["difference"] = unbalanced.Report.Difference
		body["total"] = unbalanced.Report.Total
		body["referenceCurrency"] = unbalanced.Report.ReferenceCurrency
		if len(unbalanced.Report.Unconverted) > 0 {
			body["unconvertedEntries"] = unbalanced.Report.Unconverted
		}
	}

	switch {
	case status >= http.StatusInternalServerError && !errors.Is(err, apperrors.ErrPartialWrite):
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		body["error"] = "Failed to " + action
	case status >= http.StatusInternalServerError:
		logger.Error("Write outcome unknown while trying to "+action, slog.String("error", err.Error()))
	default:
		logger.Warn("Request rejected while trying to "+action, slog.String("error", err.Error()), slog.Int("status", status))
	}
	c.JSON(status, body)
}

// respondBindError reports a request that failed binding or validation.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
}

// requireUserID returns the authenticated caller or writes 401.
func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

// requireActor returns the authenticated caller with its roles or writes 401.
func requireActor(c *gin.Context) (domain.Actor, bool) {
	userID, ok := requireUserID(c)
	if !ok {
		return domain.Actor{}, false
	}
	return domain.Actor{UserID: userID, Roles: middleware.GetRolesFromContext(c)}, true
}
