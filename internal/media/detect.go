package media

import (
	"bytes"
	"strings"
)

var videoExts = map[string]bool{
	"mp4": true, "mov": true, "avi": true, "webm": true, "ogg": true,
	"mkv": true, "wmv": true, "flv": true, "m4v": true,
}

var imageExts = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true,
	"bmp": true, "tiff": true, "svg": true,
}

var soundExts = map[string]bool{
	"mp3": true, "wav": true, "ogg": true, "flac": true, "m4a": true,
}

func ext(filename string) string {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}

// DetectKind classifies a media filename by extension. Anything that
// is not a known video extension is treated as an image.
func DetectKind(filename string) Kind {
	if videoExts[ext(filename)] {
		return KindVideo
	}
	return KindImage
}

// AllowedMedia reports whether the filename carries an accepted image
// or video extension.
func AllowedMedia(filename string) bool {
	e := ext(filename)
	return imageExts[e] || videoExts[e]
}

// AllowedSound reports whether the filename carries an accepted audio
// extension.
func AllowedSound(filename string) bool {
	return soundExts[ext(filename)]
}

// ThumbFilename derives the thumbnail filename stored next to an
// uploaded image.
func ThumbFilename(filename string) string {
	e := ext(filename)
	base := filename
	if e != "" {
		base = filename[:len(filename)-len(e)-1]
	}
	return base + "_thumb.jpg"
}

// ValidMediaContent checks that the file content plausibly matches the
// claimed extension. Unknown extensions pass; the extension allowlist
// already ran.
func ValidMediaContent(filename string, data []byte) bool {
	switch ext(filename) {
	case "jpg", "jpeg":
		return bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF})
	case "png":
		return bytes.HasPrefix(data, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	case "gif":
		return bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a"))
	case "webp":
		return bytes.HasPrefix(data, []byte("RIFF")) && len(data) > 12 && bytes.Equal(data[8:12], []byte("WEBP"))
	case "bmp":
		return bytes.HasPrefix(data, []byte("BM"))
	case "svg":
		return bytes.HasPrefix(data, []byte("<?xml")) || bytes.HasPrefix(data, []byte("<svg"))
	case "mp4", "mov", "m4v":
		// ISO base media: size box followed by "ftyp"
		return len(data) > 12 && bytes.Equal(data[4:8], []byte("ftyp"))
	case "avi":
		return bytes.HasPrefix(data, []byte("RIFF")) && len(data) > 12 && bytes.Equal(data[8:12], []byte("AVI "))
	case "webm", "mkv":
		return bytes.HasPrefix(data, []byte{0x1A, 0x45, 0xDF, 0xA3})
	case "ogg":
		return bytes.HasPrefix(data, []byte("OggS"))
	case "wmv":
		return bytes.HasPrefix(data, []byte{0x30, 0x26, 0xB2, 0x75, 0x8E, 0x66, 0xCF, 0x11})
	case "flv":
		return bytes.HasPrefix(data, []byte("FLV\x01"))
	default:
		return true
	}
}

// ValidSoundContent is the audio counterpart of ValidMediaContent.
func ValidSoundContent(filename string, data []byte) bool {
	switch ext(filename) {
	case "mp3":
		return bytes.HasPrefix(data, []byte{0xFF, 0xFB}) ||
			bytes.HasPrefix(data, []byte{0xFF, 0xF3}) ||
			bytes.HasPrefix(data, []byte{0xFF, 0xF2}) ||
			bytes.HasPrefix(data, []byte("ID3"))
	case "wav":
		return bytes.HasPrefix(data, []byte("RIFF")) && len(data) > 12 && bytes.Equal(data[8:12], []byte("WAVE"))
	case "ogg":
		return bytes.HasPrefix(data, []byte("OggS"))
	case "flac":
		return bytes.HasPrefix(data, []byte("fLaC"))
	case "m4a":
		return len(data) > 12 && bytes.Equal(data[4:8], []byte("ftyp"))
	default:
		return true
	}
}
