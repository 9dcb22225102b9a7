package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lthoa462/homework/utils"
)

const (
	maxImageSize = 10 << 20
	// maxUploadBody leaves room for the multipart envelope around the image.
	maxUploadBody = maxImageSize + 1<<20
)

type ImageStore interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, publicURL string) error
}

type UploadController struct {
	images ImageStore
}

func NewUploadController(images ImageStore) *UploadController {
	return &UploadController{images: images}
}

type DeleteImageRequest struct {
	ImageURL string `json:"imageUrl"`
}

func (ctl *UploadController) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)

	file, err := c.FormFile("file")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Ảnh vượt quá 10MB"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Không tìm thấy file"})
		return
	}
	if file.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Ảnh vượt quá 10MB"})
		return
	}

	contentType, err := utils.GetImageContentTypeFromExt(filepath.Ext(file.Filename))
	if err != nil {
		respondError(c, err)
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, utils.Internal("Không thể đọc file tải lên.", err))
		return
	}
	defer src.Close()

	imageURL, err := ctl.images.Upload(c.Request.Context(), file.Filename, contentType, src)
	if err != nil {
		respondError(c, wrapStorageErr("Lỗi khi upload ảnh", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Upload thành công",
		"imageUrl": imageURL,
	})
}

func (ctl *UploadController) Delete(c *gin.Context) {
	var req DeleteImageRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ImageURL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Thiếu imageUrl"})
		return
	}

	if err := ctl.images.Delete(c.Request.Context(), strings.TrimSpace(req.ImageURL)); err != nil {
		respondError(c, wrapStorageErr("Lỗi khi xóa ảnh", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa ảnh"})
}

// wrapStorageErr keeps AppErrors (bad URLs) and hides raw storage failures.
func wrapStorageErr(msg string, err error) error {
	if _, ok := utils.AsAppError(err); ok {
		return err
	}
	return utils.Internal(msg, err)
}
