package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/profilehub/internal/domain/errors"
	"github.com/polkiloo/profilehub/internal/server/http/dto"
)

type failure struct {
	status  int
	kind    string
	message string
}

var (
	failureValidation = failure{http.StatusBadRequest, "ValidationFailure", "required fields are missing or invalid"}
	failureMalformed  = failure{http.StatusBadRequest, "MalformedUpload", "request body is not valid multipart form data"}
	failureConflict   = failure{http.StatusConflict, "ConflictFailure", "an account with this email already exists"}
	failureIO         = failure{http.StatusInternalServerError, "IOFailure", "failed to store attachment"}
	failureCrypto     = failure{http.StatusInternalServerError, "CryptoFailure", "failed to process credentials"}
	failureStorage    = failure{http.StatusInternalServerError, "StorageFailure", "failed to save user"}
	failureNotFound   = failure{http.StatusNotFound, "NotFound", "resource not found"}
)

func classify(err error) failure {
	switch {
	case errors.Is(err, domainErrors.ErrValidation):
		return failureValidation
	case errors.Is(err, domainErrors.ErrMalformedUpload):
		return failureMalformed
	case errors.Is(err, domainErrors.ErrIO):
		return failureIO
	case errors.Is(err, domainErrors.ErrCrypto):
		return failureCrypto
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		return failureConflict
	case errors.Is(err, domainErrors.ErrNotFound):
		return failureNotFound
	default:
		return failureStorage
	}
}

// writeError renders err as a fixed JSON body and returns the status used.
// Causes are never echoed to the client.
func writeError(c *gin.Context, err error) int {
	f := classify(err)
	body := dto.ErrorResponse{Error: f.kind, Message: f.message}

	var vErr *domainErrors.ValidationError
	if errors.As(err, &vErr) {
		body.Fields = vErr.Fields
	}

	c.AbortWithStatusJSON(f.status, body)
	return f.status
}
