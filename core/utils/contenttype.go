package utils

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLen is how many leading bytes are inspected when the extension is unknown.
const sniffLen = 3072

// DefaultContentType is used when nothing better can be determined.
const DefaultContentType = "application/octet-stream"

// DetectContentType picks a Content-Type for name. A known extension wins;
// head is sniffed only when the extension is missing or unknown.
func DetectContentType(name string, head []byte) string {
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
	}
	if len(head) == 0 {
		return DefaultContentType
	}
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	if mt := mimetype.Detect(head); mt != nil {
		return mt.String()
	}
	return DefaultContentType
}

// SniffLen is the number of bytes DetectContentType needs from the file head.
func SniffLen() int {
	return sniffLen
}
