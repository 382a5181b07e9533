// Package browse renders the capture library: the folder tree and the
// files inside each folder. History rows and save responses link here.
package browse

import (
	"net/http"

	"github.com/dalemusser/mediasave/internal/app/store/folder"
	"github.com/dalemusser/mediasave/internal/app/store/mediafile"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides the library browsing pages.
type Handler struct {
	folders *folder.Store
	files   *mediafile.Store
	storage storage.Store
	logger  *zap.Logger
}

// NewHandler creates a new browse Handler.
func NewHandler(db *mongo.Database, fileStorage storage.Store, logger *zap.Logger) *Handler {
	return &Handler{
		folders: folder.New(db),
		files:   mediafile.New(db),
		storage: fileStorage,
		logger:  logger,
	}
}

// Routes returns a chi.Router with the browse pages mounted.
//
// When mounted at /browse:
//   - GET /browse                    - Folders at the library root
//   - GET /browse/folders/{folderID} - One folder's subfolders and files
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Root)
	r.Get("/folders/{folderID}", h.Folder)
	return r
}

// crumbVM is one segment of the breadcrumb trail.
type crumbVM struct {
	Name string
	Link string
}

type folderVM struct {
	Name string
	Link string
}

type fileVM struct {
	Name      string
	URL       string
	Format    string
	MediaType string
	Size      int64
}

// BrowseVM is the view model for the browse pages.
type BrowseVM struct {
	Title   string
	AppName string

	Path      []crumbVM
	Folders   []folderVM
	Files     []fileVM
	FileCount int64
}

// Root lists the folders at the library root.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	vm := BrowseVM{Title: "Library", AppName: "MediaSave"}

	folders, err := h.folders.ListByParent(ctx, nil)
	if err != nil {
		h.logger.Error("failed to list root folders", zap.Error(err))
		http.Error(w, "Failed to load the library", http.StatusInternalServerError)
		return
	}
	for _, f := range folders {
		vm.Folders = append(vm.Folders, folderVM{Name: f.Name, Link: "/browse/folders/" + f.ID.Hex()})
	}

	templates.Render(w, r, "browse/folder", vm)
}

// Folder shows one folder's subfolders and files.
func (h *Handler) Folder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "folderID"))
	if err != nil {
		http.Error(w, "Folder not found", http.StatusNotFound)
		return
	}

	path, err := h.folders.GetPath(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "Folder not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load folder path", zap.String("folder_id", id.Hex()), zap.Error(err))
		http.Error(w, "Failed to load the folder", http.StatusInternalServerError)
		return
	}

	current := path[len(path)-1]
	vm := BrowseVM{Title: current.Name, AppName: "MediaSave"}
	vm.Path = append(vm.Path, crumbVM{Name: "Library", Link: "/browse"})
	for _, f := range path {
		vm.Path = append(vm.Path, crumbVM{Name: f.Name, Link: "/browse/folders/" + f.ID.Hex()})
	}

	subfolders, err := h.folders.ListByParent(ctx, &current.ID)
	if err != nil {
		h.logger.Error("failed to list subfolders", zap.String("folder_id", id.Hex()), zap.Error(err))
		http.Error(w, "Failed to load the folder", http.StatusInternalServerError)
		return
	}
	for _, f := range subfolders {
		vm.Folders = append(vm.Folders, folderVM{Name: f.Name, Link: "/browse/folders/" + f.ID.Hex()})
	}

	vm.FileCount, err = h.files.CountByFolder(ctx, &current.ID)
	if err != nil {
		h.logger.Error("failed to count folder files", zap.String("folder_id", id.Hex()), zap.Error(err))
		http.Error(w, "Failed to load the folder", http.StatusInternalServerError)
		return
	}

	files, err := h.files.ListByFolder(ctx, &current.ID, 1, 200)
	if err != nil {
		h.logger.Error("failed to list folder files", zap.String("folder_id", id.Hex()), zap.Error(err))
		http.Error(w, "Failed to load the folder", http.StatusInternalServerError)
		return
	}
	for _, f := range files {
		vm.Files = append(vm.Files, fileVM{
			Name:      f.Name,
			URL:       h.storage.URL(f.StorageKey),
			Format:    f.Format,
			MediaType: f.MediaType,
			Size:      f.Size,
		})
	}

	templates.Render(w, r, "browse/folder", vm)
}
