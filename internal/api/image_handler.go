package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"stampflow-backend-go/internal/core"
)

const (
	maxUploadFiles    = 8
	maxUploadFileSize = 5 << 20 // 5MB per file
)

// ImageHandler handles image upload endpoints.
type ImageHandler struct {
	stampService core.StampService
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(ss core.StampService) *ImageHandler {
	return &ImageHandler{stampService: ss}
}

// Upload handles POST /images/upload. It accepts 1-8 multipart files under
// the "images" field, each at most 5MB and PNG or JPEG (content-sniffed, the
// filename extension is not trusted), creates the stamp with its original
// images and returns the new IDs.
func (h *ImageHandler) Upload(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "Invalid multipart form: "+err.Error())
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		badRequest(c, "At least one image file is required")
		return
	}
	if len(files) > maxUploadFiles {
		badRequest(c, fmt.Sprintf("At most %d images may be uploaded at once", maxUploadFiles))
		return
	}

	uploads := make([]core.UploadedImage, 0, len(files))
	for _, fileHeader := range files {
		if fileHeader.Size > maxUploadFileSize {
			badRequest(c, fmt.Sprintf("File '%s' exceeds the %dMB limit", fileHeader.Filename, maxUploadFileSize>>20))
			return
		}

		file, openErr := fileHeader.Open()
		if openErr != nil {
			badRequest(c, "Could not read file '"+fileHeader.Filename+"'")
			return
		}
		data, readErr := io.ReadAll(io.LimitReader(file, maxUploadFileSize+1))
		file.Close()
		if readErr != nil {
			badRequest(c, "Could not read file '"+fileHeader.Filename+"'")
			return
		}
		if len(data) > maxUploadFileSize {
			badRequest(c, fmt.Sprintf("File '%s' exceeds the %dMB limit", fileHeader.Filename, maxUploadFileSize>>20))
			return
		}

		contentType := http.DetectContentType(data)
		if contentType != "image/png" && contentType != "image/jpeg" {
			badRequest(c, fmt.Sprintf("File '%s' has unsupported type '%s'; only PNG and JPEG are accepted", fileHeader.Filename, contentType))
			return
		}

		uploads = append(uploads, core.UploadedImage{
			Filename:    fileHeader.Filename,
			ContentType: contentType,
			Data:        data,
		})
	}

	stamp, imageIDs, err := h.stampService.CreateFromUpload(c.Request.Context(), userID, uploads)
	if err != nil {
		mapServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, UploadResponse{
		StampID:       stamp.ID,
		UploadedCount: len(imageIDs),
		ImageIDs:      imageIDs,
	})
}
