package handlers

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	domainErrors "github.com/polkiloo/profilehub/internal/domain/errors"
	"github.com/polkiloo/profilehub/internal/domain/model"
	"github.com/polkiloo/profilehub/internal/server/http/dto"
	"github.com/polkiloo/profilehub/internal/server/http/middleware"
)

const pictureField = "picture"

// UserHandler processes account registration.
type UserHandler struct {
	facade RegistrationFacade
	logger *slog.Logger
}

// NewUserHandler creates UserHandler instance.
func NewUserHandler(facade RegistrationFacade, logger *slog.Logger) *UserHandler {
	return &UserHandler{facade: facade, logger: logger}
}

// Register handles POST /auth/register.
func (h *UserHandler) Register(c *gin.Context) {
	var form dto.RegisterForm
	if err := c.ShouldBindWith(&form, binding.FormMultipart); err != nil {
		h.rejectBody(c, err)
		return
	}

	picture, err := formUpload(c)
	if err != nil {
		h.rejectBody(c, err)
		return
	}

	user, err := h.facade.Register(c.Request.Context(), model.Registration{
		Profile:  form.Profile(),
		Password: form.Password,
		Picture:  picture,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

func (h *UserHandler) rejectBody(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{
			Error:   "PayloadTooLarge",
			Message: "request body too large",
		})
		return
	}
	writeError(c, domainErrors.ErrMalformedUpload)
}

func (h *UserHandler) fail(c *gin.Context, err error) {
	status := writeError(c, err)
	if status < http.StatusInternalServerError {
		return
	}

	attrs := []any{
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetRequestID(c)),
	}
	var stageErr *domainErrors.StageError
	if errors.As(err, &stageErr) {
		attrs = append(attrs, slog.String("stage", string(stageErr.Stage)))
	}
	h.logger.Error("registration failed", attrs...)
}

// formUpload returns nil when the request carries no picture part.
func formUpload(c *gin.Context) (*model.Upload, error) {
	header, err := c.FormFile(pictureField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return newUpload(header), nil
}

func newUpload(header *multipart.FileHeader) *model.Upload {
	return &model.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}
}
