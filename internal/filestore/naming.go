package filestore

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind selects one of the private directory trees under the storage root.
type Kind string

const (
	KindPhoto        Kind = "photos"
	KindVideo        Kind = "videos"
	KindProfileImage Kind = "profile_images"
)

// Kinds lists every directory tree managed by the store.
var Kinds = []Kind{KindPhoto, KindVideo, KindProfileImage}

const timestampLayout = "20060102_150405"

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SanitizeName replaces every character outside [A-Za-z0-9] with '_'.
func SanitizeName(name string) string {
	return nonAlphanumeric.ReplaceAllString(name, "_")
}

// DefaultBaseName is used when the caller supplies no usable base name.
func DefaultBaseName(kind Kind) string {
	switch kind {
	case KindVideo:
		return "video"
	case KindProfileImage:
		return "profile"
	default:
		return "photo"
	}
}

// DefaultExtension is the fallback for unrecognized media types.
func DefaultExtension(kind Kind) string {
	if kind == KindVideo {
		return "mp4"
	}
	return "jpg"
}

// ExtensionFor maps a declared media type to a file extension for kind.
func ExtensionFor(kind Kind, mediaType string) string {
	mt := strings.ToLower(mediaType)
	if kind == KindVideo {
		switch {
		case strings.Contains(mt, "mp4"):
			return "mp4"
		case strings.Contains(mt, "avi"), strings.Contains(mt, "msvideo"):
			return "avi"
		case strings.Contains(mt, "mkv"), strings.Contains(mt, "matroska"):
			return "mkv"
		case strings.Contains(mt, "mov"), strings.Contains(mt, "quicktime"):
			return "mov"
		}
		return DefaultExtension(kind)
	}

	switch {
	case strings.Contains(mt, "jpeg"), strings.Contains(mt, "jpg"):
		return "jpg"
	case strings.Contains(mt, "png"):
		return "png"
	case strings.Contains(mt, "webp"):
		return "webp"
	case strings.Contains(mt, "gif"):
		return "gif"
	}
	return DefaultExtension(kind)
}

// FileName builds "{sanitized}_{timestamp}.{ext}". A non-zero attempt adds
// a "_{attempt+1}" suffix so names stay unique within the same second.
func FileName(kind Kind, baseName, ext string, at time.Time, attempt int) string {
	base := SanitizeName(baseName)
	if strings.TrimSpace(baseName) == "" {
		base = DefaultBaseName(kind)
	}
	name := base + "_" + at.Format(timestampLayout)
	if attempt > 0 {
		name += "_" + strconv.Itoa(attempt+1)
	}
	return name + "." + ext
}
