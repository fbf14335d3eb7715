package api

import (
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func isAllowedImageExtension(file *multipart.FileHeader) bool {
	allowed := []string{".jpg", ".jpeg", ".png"}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// UploadImageHandler stores a staff-uploaded image under the upload
// directory with a collision-free name and returns its public path.
func UploadImageHandler(uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
			return
		}
		if !isAllowedImageExtension(file) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only .jpg, .jpeg and .png files are allowed"})
			return
		}
		if err := os.MkdirAll(uploadDir, 0o755); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
			return
		}
		name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
		if err := c.SaveUploadedFile(file, filepath.Join(uploadDir, name)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"image": "/uploads/" + name})
	}
}
