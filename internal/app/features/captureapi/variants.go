package captureapi

import (
	"strings"

	apistatsstore "github.com/dalemusser/mediasave/internal/app/store/apistats"
)

// fileKind is the resolved file identity for one save: the extension the
// stored file gets, the display format label, and the stored content type.
type fileKind struct {
	ext         string
	format      string
	contentType string
}

// variant describes one capture kind's rules: whether its payload is a data
// URL or verbatim text, and how the stored file's kind is chosen from the
// request and the payload's MIME type.
type variant struct {
	mediaType string
	statType  apistatsstore.StatType

	// plainText marks variants whose payload is verbatim text
	// rather than a base64 data URL.
	plainText bool

	// resolve picks the stored file kind from the request's optional
	// extension/mime_type hints and the data URL's MIME type. ok is false
	// when the combination is not acceptable for this capture kind.
	resolve func(in saveInput, dataMIME string) (fileKind, bool)
}

var (
	// Recorded audio is transcoded client-side; whatever the browser
	// produced, the stored file is labeled MP3.
	audioVariant = variant{
		mediaType: "audio",
		statType:  apistatsstore.StatTypeCaptureAudio,
		resolve: func(_ saveInput, dataMIME string) (fileKind, bool) {
			if !strings.HasPrefix(dataMIME, "audio/") {
				return fileKind{}, false
			}
			return fileKind{ext: ".mp3", format: "MP3", contentType: "audio/mpeg"}, true
		},
	}

	videoVariant = variant{
		mediaType: "video",
		statType:  apistatsstore.StatTypeCaptureVideo,
		resolve: func(in saveInput, dataMIME string) (fileKind, bool) {
			if !strings.HasPrefix(dataMIME, "video/") {
				return fileKind{}, false
			}
			// An allow-listed extension wins; no extension derives the
			// container from the declared or payload MIME type. Anything
			// else (MediaRecorder produces webm in most browsers, mp4 in
			// Safari) falls back to webm rather than failing the save.
			switch ext := strings.ToLower(in.Extension); ext {
			case "mp4":
				return fileKind{ext: ".mp4", format: "MP4", contentType: "video/mp4"}, true
			case "webm":
				return fileKind{ext: ".webm", format: "WEBM", contentType: "video/webm"}, true
			case "":
				mime := in.MIMEType
				if mime == "" {
					mime = dataMIME
				}
				if strings.Contains(mime, "mp4") {
					return fileKind{ext: ".mp4", format: "MP4", contentType: "video/mp4"}, true
				}
				return fileKind{ext: ".webm", format: "WEBM", contentType: "video/webm"}, true
			default:
				return fileKind{ext: ".webm", format: "WEBM", contentType: "video/webm"}, true
			}
		},
	}

	photoVariant = variant{
		mediaType: "photo",
		statType:  apistatsstore.StatTypeCapturePhoto,
		resolve: func(in saveInput, dataMIME string) (fileKind, bool) {
			if !strings.HasPrefix(dataMIME, "image/") {
				return fileKind{}, false
			}
			ext := strings.ToLower(in.Extension)
			if ext == "" {
				switch {
				case strings.Contains(dataMIME, "png"):
					ext = "png"
				case strings.Contains(dataMIME, "jpeg"):
					ext = "jpeg"
				default:
					ext = "jpg"
				}
			}
			switch ext {
			case "png":
				return fileKind{ext: ".png", format: "PNG", contentType: "image/png"}, true
			case "jpeg":
				// .jpeg keeps the source subtype; the display format
				// is always JPG.
				return fileKind{ext: ".jpeg", format: "JPG", contentType: "image/jpeg"}, true
			case "jpg":
				return fileKind{ext: ".jpg", format: "JPG", contentType: "image/jpeg"}, true
			default:
				// Extensions outside the allow-list fall back to jpg
				// rather than failing the save.
				return fileKind{ext: ".jpg", format: "JPG", contentType: "image/jpeg"}, true
			}
		},
	}

	// Drawings come from a canvas export, which is always PNG; any other
	// MIME type means a malformed request.
	drawingVariant = variant{
		mediaType: "drawing",
		statType:  apistatsstore.StatTypeCaptureDrawing,
		resolve: func(_ saveInput, dataMIME string) (fileKind, bool) {
			if dataMIME != "image/png" {
				return fileKind{}, false
			}
			return fileKind{ext: ".png", format: "PNG", contentType: "image/png"}, true
		},
	}

	textVariant = variant{
		mediaType: "text",
		statType:  apistatsstore.StatTypeCaptureText,
		plainText: true,
		resolve: func(saveInput, string) (fileKind, bool) {
			return fileKind{ext: ".txt", format: "TXT", contentType: "text/plain; charset=utf-8"}, true
		},
	}
)
