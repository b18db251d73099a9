package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kafkaan/fit-coach-link/internal/notify"
	"github.com/kafkaan/fit-coach-link/internal/service"
)

// MediaHandler hands out presigned URLs for exercise media. Files go
// straight between the client and S3.
type MediaHandler struct {
	mediaService service.MediaService
	notifier     *notify.Notifier
}

func NewMediaHandler(mediaService service.MediaService, notifier *notify.Notifier) *MediaHandler {
	return &MediaHandler{mediaService: mediaService, notifier: notifier}
}

type RequestUploadURLRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmUploadRequest struct {
	ObjectKey   string `json:"objectKey" binding:"required"`
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

type DownloadURLResponse struct {
	DownloadURL string `json:"downloadUrl"`
}

// RequestUploadURL godoc
// @Summary Request a pre-signed URL to upload exercise media
// @Tags Media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RequestUploadURLRequest true "File name and content type"
// @Success 200 {object} service.UploadURLResponse "Pre-signed URL and object key"
// @Failure 400 {object} ErrorResponse "Not an image or video"
// @Router /coach/media/upload-url [post]
func (h *MediaHandler) RequestUploadURL(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	var req RequestUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	resp, err := h.mediaService.RequestUploadURL(c.Request.Context(), identity.UserID, req.FileName, req.ContentType)
	if err != nil {
		respondError(c, h.notifier, "request upload url", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmUpload godoc
// @Summary Confirm a finished upload
// @Description Records the uploaded object once it exists in storage.
// @Tags Media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ConfirmUploadRequest true "Uploaded object"
// @Success 201 {object} domain.MediaAsset
// @Failure 404 {object} ErrorResponse "Object not found in storage"
// @Router /coach/media/confirm [post]
func (h *MediaHandler) ConfirmUpload(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	asset, err := h.mediaService.ConfirmUpload(c.Request.Context(), identity.UserID, req.ObjectKey, req.FileName, req.ContentType)
	if err != nil {
		respondError(c, h.notifier, "confirm upload", err)
		return
	}
	c.JSON(http.StatusCreated, asset)
}

func (h *MediaHandler) ListMedia(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	assets, err := h.mediaService.ListMedia(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, h.notifier, "list media", err)
		return
	}
	c.JSON(http.StatusOK, assets)
}

func (h *MediaHandler) GetDownloadURL(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	assetID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	url, err := h.mediaService.GetDownloadURL(c.Request.Context(), identity.UserID, assetID)
	if err != nil {
		respondError(c, h.notifier, "get download url", err)
		return
	}
	c.JSON(http.StatusOK, DownloadURLResponse{DownloadURL: url})
}
