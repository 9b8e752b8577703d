package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/identity-service/backend/internal/apperr"
	"github.com/identity-service/backend/internal/model"
)

func writeResult(c *gin.Context, result any) {
	c.JSON(http.StatusOK, model.APIResponse{Code: model.SuccessCode, Result: result})
}

func writeMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, model.APIResponse{Code: model.SuccessCode, Message: message})
}

// writeError translates any error into the envelope; unknown errors become
// Uncategorized so internals never leak.
func writeError(c *gin.Context, err error) {
	appErr := apperr.Convert(err)
	c.JSON(appErr.Kind.Status, model.APIResponse{Code: appErr.Kind.Code, Message: appErr.Message})
}

func abortError(c *gin.Context, err error) {
	appErr := apperr.Convert(err)
	c.AbortWithStatusJSON(appErr.Kind.Status, model.APIResponse{Code: appErr.Kind.Code, Message: appErr.Message})
}
