package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dooby/internal/store"
)

// respondStoreError converts a store failure into a status and JSON body.
func respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_INPUT"})
	case errors.Is(err, store.ErrAccessDenied):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "You do not have access to this list.", Code: "ACCESS_DENIED"})
	case errors.Is(err, store.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Only the list owner can do that.", Code: "PERMISSION_DENIED"})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "NOT_FOUND"})
	case errors.Is(err, store.ErrInvalidOperation):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: "INVALID_OPERATION"})
	case errors.Is(err, store.ErrAlreadyExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "ALREADY_EXISTS"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal error.", Code: "INTERNAL"})
	}
}

// respondBindError reports a request body that failed binding.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error(), Code: "INVALID_REQUEST"})
}
