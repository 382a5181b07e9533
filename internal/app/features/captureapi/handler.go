// Package captureapi provides the save endpoints for browser-captured media.
//
// Endpoints (mounted at /api/capture):
//   - POST /audio   - Save a recorded audio clip
//   - POST /video   - Save a recorded video clip
//   - POST /photo   - Save a camera photo
//   - POST /drawing - Save a canvas drawing
//   - POST /text    - Save a text note
//
// Every response is HTTP 200 with a {success, message, ...} body; the
// capture page reads the success flag rather than the status code, so a
// failed save must not surface as a transport error.
package captureapi

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	capturesettingsstore "github.com/dalemusser/mediasave/internal/app/store/capturesettings"
	"github.com/dalemusser/mediasave/internal/app/store/folder"
	historystore "github.com/dalemusser/mediasave/internal/app/store/history"
	"github.com/dalemusser/mediasave/internal/app/store/mediafile"
	"github.com/dalemusser/mediasave/internal/app/system/dataurl"
	"github.com/dalemusser/mediasave/internal/app/system/jsonutil"
	"github.com/dalemusser/mediasave/internal/app/system/ledger"
	"github.com/dalemusser/mediasave/internal/app/system/sanitize"
	"github.com/dalemusser/mediasave/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Generic client-facing messages. Details of a failure go to the log and
// the ledger, never to the capture page.
const (
	msgSaved          = "Saved."
	msgInvalidRequest = "The save request could not be read."
	msgInvalidFormat  = "This file format is not supported."
	msgSaveFailed     = "The file could not be saved. Please try again."
)

// Handler handles capture save requests.
type Handler struct {
	folders  *folder.Store
	files    *mediafile.Store
	history  *historystore.Store
	settings *capturesettingsstore.Store
	storage  storage.Store
	logger   *zap.Logger

	// rootFolderName is the library folder all captures are filed under.
	rootFolderName string
}

// NewHandler creates a new captureapi handler.
func NewHandler(
	db *mongo.Database,
	fileStorage storage.Store,
	history *historystore.Store,
	rootFolderName string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		folders:        folder.New(db),
		files:          mediafile.New(db),
		history:        history,
		settings:       capturesettingsstore.New(db),
		storage:        fileStorage,
		logger:         logger,
		rootFolderName: rootFolderName,
	}
}

// saveInput is the request body for every capture endpoint. Payload is a
// base64 data URL for media captures and verbatim text for text notes.
// Extension and MIMEType are optional hints honored by the video and photo
// endpoints.
type saveInput struct {
	Payload   string `json:"payload"`
	BaseName  string `json:"base_name"`
	Extension string `json:"extension,omitempty"`
	MIMEType  string `json:"mime_type,omitempty"`
}

// saveResponse is the response body for every capture endpoint.
type saveResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	FileID     string `json:"file_id,omitempty"`
	FileName   string `json:"file_name,omitempty"`
	FileURL    string `json:"file_url,omitempty"`
	FolderPath string `json:"folder_path,omitempty"`
	FolderLink string `json:"folder_link,omitempty"`
	Format     string `json:"format,omitempty"`
	MediaType  string `json:"media_type,omitempty"`
}

// SaveAudio handles POST /audio.
func (h *Handler) SaveAudio(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, audioVariant)
}

// SaveVideo handles POST /video.
func (h *Handler) SaveVideo(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, videoVariant)
}

// SavePhoto handles POST /photo.
func (h *Handler) SavePhoto(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, photoVariant)
}

// SaveDrawing handles POST /drawing.
func (h *Handler) SaveDrawing(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, drawingVariant)
}

// SaveText handles POST /text.
func (h *Handler) SaveText(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, textVariant)
}

// save runs the shared capture pipeline: decode the payload, resolve the
// destination folder, write the file to storage, record it, and append a
// history row.
func (h *Handler) save(w http.ResponseWriter, r *http.Request, v variant) {
	ctx := r.Context()

	var in saveInput
	if err := jsonutil.Decode(r, &in); err != nil {
		h.fail(w, r, v, msgInvalidRequest, "invalid JSON payload", err)
		return
	}
	baseName := sanitize.BaseName(in.BaseName)
	if in.Payload == "" || baseName == "" {
		h.fail(w, r, v, msgInvalidRequest, "empty payload or base name", nil)
		return
	}

	// Decode the payload into raw bytes plus its MIME type.
	var data []byte
	var dataMIME string
	if v.plainText {
		data = []byte(in.Payload)
	} else {
		parsed, err := dataurl.Parse(in.Payload)
		if err != nil {
			h.fail(w, r, v, msgInvalidFormat, "bad data URL", err)
			return
		}
		data = parsed.Data
		dataMIME = parsed.MIMEType
	}

	kind, ok := v.resolve(in, dataMIME)
	if !ok {
		h.fail(w, r, v, msgInvalidFormat, "unacceptable format: mime="+dataMIME+" ext="+in.Extension, nil)
		return
	}

	// Resolve the destination folder. The subfolder name comes from the
	// capture settings; reading it is best-effort and a failure just files
	// the capture at the library root.
	dest, folderPath, err := h.resolveDestination(ctx)
	if err != nil {
		h.fail(w, r, v, msgSaveFailed, "folder resolution failed", err)
		return
	}

	now := time.Now().UTC()
	fileName := baseName + kind.ext
	storageKey := fmt.Sprintf("captures/%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.New().String()[:8], kind.ext)

	opts := &storage.PutOptions{ContentType: kind.contentType}
	if err := h.storage.Put(ctx, storageKey, bytes.NewReader(data), opts); err != nil {
		h.fail(w, r, v, msgSaveFailed, "storage write failed", err)
		return
	}

	created, err := h.files.Create(ctx, mediafile.CreateInput{
		FolderID:    &dest.ID,
		Name:        fileName,
		StorageKey:  storageKey,
		Size:        int64(len(data)),
		ContentType: kind.contentType,
		MediaType:   v.mediaType,
		Format:      kind.format,
	})
	if err != nil {
		// Clean up the stored file on DB error
		_ = h.storage.Delete(ctx, storageKey)
		h.fail(w, r, v, msgSaveFailed, "file record create failed", err)
		return
	}

	fileURL := h.storage.URL(storageKey)
	folderLink := "/browse/folders/" + dest.ID.Hex()

	// History rows are best-effort; a logging failure never fails the save.
	if _, err := h.history.Append(ctx, historystore.AppendInput{
		FileName:   fileName,
		SavedAt:    now,
		FolderPath: folderPath,
		FolderLink: folderLink,
		FileLink:   fileURL,
		FileFormat: kind.format,
		MediaType:  v.mediaType,
	}); err != nil {
		h.logger.Warn("history append failed",
			zap.String("file", fileName),
			zap.String("media_type", v.mediaType),
			zap.Error(err))
	}

	ledger.SetCaptureInfo(ctx, v.mediaType, storageKey)

	h.logger.Debug("capture saved",
		zap.String("media_type", v.mediaType),
		zap.String("file", fileName),
		zap.String("id", created.ID.Hex()))

	jsonutil.OK(w, saveResponse{
		Success:    true,
		Message:    msgSaved,
		FileID:     created.ID.Hex(),
		FileName:   fileName,
		FileURL:    fileURL,
		FolderPath: folderPath,
		FolderLink: folderLink,
		Format:     kind.format,
		MediaType:  v.mediaType,
	})
}

// resolveDestination returns the folder new captures are filed in and its
// display path. The library root folder is created on first use; a
// configured subfolder name nests one level below it. Reading the subfolder
// name is best-effort: if the settings document is missing or unreadable,
// captures land in the root folder.
func (h *Handler) resolveDestination(ctx context.Context) (*models.Folder, string, error) {
	root, err := h.folders.Resolve(ctx, h.rootFolderName, nil)
	if err != nil {
		return nil, "", err
	}

	subName := ""
	settings, err := h.settings.Get(ctx)
	switch {
	case err == nil:
		subName = strings.TrimSpace(sanitize.FolderName(settings.SubfolderName))
	case err == mongo.ErrNoDocuments:
		// No settings saved yet; use the root folder.
	default:
		h.logger.Warn("capture settings read failed, saving to root folder", zap.Error(err))
	}

	if subName == "" {
		return root, root.Name, nil
	}

	sub, err := h.folders.Resolve(ctx, subName, &root.ID)
	if err != nil {
		return nil, "", err
	}
	return sub, folder.PathText([]models.Folder{*root, *sub}), nil
}

// fail responds with a generic failure message, logs the real reason, and
// records it on the request ledger entry. The response is still HTTP 200.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, v variant, clientMsg, reason string, err error) {
	ledger.SetErrorMessage(r.Context(), reason)
	h.logger.Warn("capture save failed",
		zap.String("media_type", v.mediaType),
		zap.String("reason", reason),
		zap.Error(err))
	jsonutil.OK(w, saveResponse{
		Success:   false,
		Message:   clientMsg,
		MediaType: v.mediaType,
	})
}
