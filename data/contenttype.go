package data

import (
	"path/filepath"
	"strings"
)

type ContentType string

const (
	ContentTypeTextPlain         ContentType = "text/plain"
	ContentTypeTextHTML          ContentType = "text/html"
	ContentTypeTextCSS           ContentType = "text/css"
	ContentTypeTextCSV           ContentType = "text/csv"
	ContentTypeTextMarkdown      ContentType = "text/markdown"
	ContentTypeImageJPEG         ContentType = "image/jpeg"
	ContentTypeImagePNG          ContentType = "image/png"
	ContentTypeImageSVGXML       ContentType = "image/svg+xml"
	ContentTypeApplicationPDF    ContentType = "application/pdf"
	ContentTypeApplicationZip    ContentType = "application/zip"
	ContentTypeApplicationGZip   ContentType = "application/gzip"
	ContentTypeApplicationJson   ContentType = "application/json"
	ContentTypeApplicationXML    ContentType = "application/xml"
	ContentTypeApplicationParq   ContentType = "application/vnd.apache.parquet"
	ContentTypeApplicationStream ContentType = "application/octet-stream"

	// ContentTypeDirectory marks zero-byte directory placeholders on object stores.
	ContentTypeDirectory ContentType = "application/x-directory"
)

var extensionToMIME = map[string]ContentType{
	".txt":     ContentTypeTextPlain,
	".log":     ContentTypeTextPlain,
	".html":    ContentTypeTextHTML,
	".css":     ContentTypeTextCSS,
	".csv":     ContentTypeTextCSV,
	".md":      ContentTypeTextMarkdown,
	".jpg":     ContentTypeImageJPEG,
	".jpeg":    ContentTypeImageJPEG,
	".png":     ContentTypeImagePNG,
	".svg":     ContentTypeImageSVGXML,
	".pdf":     ContentTypeApplicationPDF,
	".zip":     ContentTypeApplicationZip,
	".gz":      ContentTypeApplicationGZip,
	".json":    ContentTypeApplicationJson,
	".xml":     ContentTypeApplicationXML,
	".parquet": ContentTypeApplicationParq,
}

// ContentTypeOf guesses the MIME type from the extension of p's last segment.
func ContentTypeOf(p Path) ContentType {
	ext := strings.ToLower(filepath.Ext(p.Base()))
	if mimeType, exists := extensionToMIME[ext]; exists {
		return mimeType
	}

	return ContentTypeApplicationStream
}
