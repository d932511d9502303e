package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

var ErrNilRepository = errors.New("repository cannot be nil")

// MsgUnauthorized is the public 401 body, kept verbatim from the API contract.
const MsgUnauthorized = "Não autorizado"

type APIError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func errorResponse(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, APIError{Error: message})
}

func badRequest(ctx *gin.Context, message string) {
	errorResponse(ctx, http.StatusBadRequest, message)
}

func unauthorized(ctx *gin.Context) {
	errorResponse(ctx, http.StatusUnauthorized, MsgUnauthorized)
}

func forbidden(ctx *gin.Context, message string) {
	errorResponse(ctx, http.StatusForbidden, message)
}

func notFound(ctx *gin.Context, message string) {
	errorResponse(ctx, http.StatusNotFound, message)
}

func internalError(ctx *gin.Context, message string) {
	errorResponse(ctx, http.StatusInternalServerError, message)
}
