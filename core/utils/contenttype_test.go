package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectContentType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	tests := []struct {
		name     string
		file     string
		head     []byte
		contains string
	}{
		{"CSSByExtension", "site.css", []byte("body{}"), "text/css"},
		{"HTMLByExtension", "index.html", nil, "text/html"},
		{"UppercaseExtension", "LOGO.PNG", nil, "image/png"},
		{"SniffPNG", "logo", png, "image/png"},
		{"UnknownExtensionSniffText", "README.unknownext", []byte("plain words"), "text/plain"},
		{"NoExtensionNoContent", "blob", nil, DefaultContentType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectContentType(tt.file, tt.head)
			assert.True(t, strings.HasPrefix(got, tt.contains), "got %q", got)
		})
	}
}

func TestDetectContentType_LongHead(t *testing.T) {
	head := []byte(strings.Repeat("a", SniffLen()*2))
	assert.True(t, strings.HasPrefix(DetectContentType("data", head), "text/plain"))
}
