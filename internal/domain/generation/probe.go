package generation

import (
	"encoding/base64"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"regexp"
	"strings"
)

var dataURLPattern = regexp.MustCompile(`^data:(image/\w+);base64,(.+)$`)

// ImageInfo is what could be learned about an inline image without decoding it.
type ImageInfo struct {
	Width, Height int
	// DimensionsKnown is false for links, unsupported formats and malformed headers.
	DimensionsKnown bool
	Bytes           int64
	BytesKnown      bool
}

// MinDimension returns the smaller side, or 0 when unknown.
func (i ImageInfo) MinDimension() int {
	if !i.DimensionsKnown {
		return 0
	}
	return min(i.Width, i.Height)
}

// ProbeImage inspects a base64 data URL. Only PNG and JPEG headers are read.
func ProbeImage(dataURL string) ImageInfo {
	m := dataURLPattern.FindStringSubmatch(dataURL)
	if m == nil {
		return ImageInfo{}
	}
	mime, payload := m[1], m[2]

	info := ImageInfo{Bytes: approxDecodedBytes(payload), BytesKnown: true}

	var want string
	switch mime {
	case "image/png":
		want = "png"
	case "image/jpeg", "image/jpg":
		want = "jpeg"
	default:
		return info
	}

	cfg, format, err := image.DecodeConfig(base64.NewDecoder(base64.StdEncoding, strings.NewReader(payload)))
	if err != nil || format != want {
		return info
	}
	info.Width, info.Height = cfg.Width, cfg.Height
	info.DimensionsKnown = true
	return info
}

func approxDecodedBytes(payload string) int64 {
	padding := int64(0)
	switch {
	case strings.HasSuffix(payload, "=="):
		padding = 2
	case strings.HasSuffix(payload, "="):
		padding = 1
	}
	return int64(len(payload))*3/4 - padding
}
