package utils

import (
	"strings"
)

var imageContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
}

// GetImageContentTypeFromExt ánh xạ phần mở rộng file sang content type ảnh
func GetImageContentTypeFromExt(ext string) (string, error) {
	ct, ok := imageContentTypes[strings.ToLower(ext)]
	if !ok {
		return "", BadRequest("Định dạng ảnh không được hỗ trợ.")
	}
	return ct, nil
}
