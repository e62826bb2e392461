package domain

import (
	"path/filepath"
	"strings"
)

// MaxDocumentSize is the largest accepted upload, in bytes.
const MaxDocumentSize = 10 << 20

var allowedDocumentExts = map[string]struct{}{
	".pdf": {}, ".jpg": {}, ".jpeg": {}, ".png": {},
	".doc": {}, ".docx": {}, ".txt": {},
}

// ValidateDocument checks an evidence or KYC upload's metadata. It returns a
// human-readable reason when the file is not acceptable.
func ValidateDocument(filename string, size int64) (string, bool) {
	if size <= 0 {
		return "file is empty", false
	}
	if size > MaxDocumentSize {
		return "file exceeds the 10MB limit", false
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedDocumentExts[ext]; !ok {
		return "unsupported file type: " + ext, false
	}
	return "", true
}
