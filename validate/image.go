package validate

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageBytes bounds profile image uploads.
const MaxImageBytes = 5 << 20

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// ProfileImage checks that data is a supported image by content, not by
// file extension.
func ProfileImage(data []byte) error {
	if len(data) == 0 {
		return &ValidationError{Fields: []FieldError{{Field: "Image", Message: "Image file is empty"}}}
	}
	if len(data) > MaxImageBytes {
		return &ValidationError{Fields: []FieldError{{Field: "Image", Message: fmt.Sprintf("Image must be at most %d MB", MaxImageBytes>>20)}}}
	}
	detected := mimetype.Detect(data)
	for _, allowed := range allowedImageTypes {
		if detected.Is(allowed) {
			return nil
		}
	}
	return &ValidationError{Fields: []FieldError{{Field: "Image", Message: fmt.Sprintf("Please select an image file (got %s)", detected.String())}}}
}
