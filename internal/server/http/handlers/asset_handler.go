package handlers

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultAssetType = "application/octet-stream"
	assetPolicy      = "default-src 'none'; img-src 'self'; sandbox"
)

// Raster formats only; svg can carry script.
var inlineAssetTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".avif": "image/avif",
	".bmp":  "image/bmp",
}

// AssetHandler serves stored pictures.
type AssetHandler struct {
	facade AssetFacade
	logger *slog.Logger
}

// NewAssetHandler creates AssetHandler instance.
func NewAssetHandler(facade AssetFacade, logger *slog.Logger) *AssetHandler {
	return &AssetHandler{facade: facade, logger: logger}
}

// Get handles GET /assets/:name.
// Anything that is not an allowed image is sent as a download.
func (h *AssetHandler) Get(c *gin.Context) {
	name := c.Param("name")

	rc, err := h.facade.OpenAttachment(c.Request.Context(), name)
	if err != nil {
		if status := writeError(c, err); status >= http.StatusInternalServerError {
			h.logger.Error("asset read failed",
				slog.String("name", name),
				slog.String("error", err.Error()),
			)
		}
		return
	}
	defer rc.Close()

	headers := map[string]string{
		"Cache-Control":           "public, max-age=86400",
		"Content-Security-Policy": assetPolicy,
	}
	contentType, inline := inlineAssetTypes[strings.ToLower(filepath.Ext(name))]
	if !inline {
		contentType = defaultAssetType
		headers["Content-Disposition"] = "attachment"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, rc, headers)
}
