package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/getgranularity/backend/internal/common"
	"github.com/getgranularity/backend/internal/logging"
	"github.com/getgranularity/backend/internal/server/models"
	"github.com/getgranularity/backend/internal/server/services"
)

// FileManager is the slice of the file service used by these handlers.
type FileManager interface {
	Create(ctx context.Context, userID string, params services.CreateFileParams) error
	List(ctx context.Context, caller *models.User) ([]*models.File, error)
	Get(ctx context.Context, id string) (*models.File, error)
	Update(ctx context.Context, params services.UpdateFileParams) error
	Delete(ctx context.Context, id string) error
}

type fileHandlers struct {
	files  FileManager
	logger logging.Logger
}

type createFileRequest struct {
	FileName        string `json:"fileName"`
	FileBase64      string `json:"fileBase64"`
	FileContentType string `json:"fileContentType"`
	FileDescription string `json:"fileDescription"`
}

type updateFileRequest struct {
	ID              string `json:"id"`
	FileName        string `json:"fileName"`
	FileBase64      string `json:"fileBase64"`
	FileContentType string `json:"fileContentType"`
	FileDescription string `json:"fileDescription"`
}

func (h *fileHandlers) list(c *gin.Context) {
	files, err := h.files.List(c.Request.Context(), currentUser(c))
	if err != nil {
		h.logger.Error(c.Request.Context(), "GET /v1/files", "error", err.Error())
		respondError(c, http.StatusInternalServerError, msgInternalError)
		return
	}

	// an empty collection serializes as [], not null
	if files == nil {
		files = []*models.File{}
	}
	respondData(c, files)
}

func (h *fileHandlers) get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondError(c, http.StatusBadRequest, msgIDRequired)
		return
	}

	file, err := h.files.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			respondError(c, http.StatusBadRequest, msgFileMissing)
			return
		}
		h.logger.Error(c.Request.Context(), "GET /v1/files/:id", "error", err.Error())
		respondError(c, http.StatusInternalServerError, msgInternalError)
		return
	}

	respondData(c, file)
}

func (h *fileHandlers) create(c *gin.Context) {
	var req createFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	caller := currentUser(c)

	err := h.files.Create(c.Request.Context(), caller.ID, services.CreateFileParams{
		FileName:        req.FileName,
		FileBase64:      req.FileBase64,
		FileContentType: req.FileContentType,
		FileDescription: req.FileDescription,
	})
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			respondError(c, http.StatusBadRequest, msgInvalidRequest)
			return
		}
		h.logger.Error(c.Request.Context(), "POST /v1/files", "error", err.Error())
		respondError(c, http.StatusInternalServerError, msgInternalError)
		return
	}

	respondMessage(c, msgFileCreated)
}

func (h *fileHandlers) update(c *gin.Context) {
	var req updateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	err := h.files.Update(c.Request.Context(), services.UpdateFileParams{
		ID:              req.ID,
		FileName:        req.FileName,
		FileBase64:      req.FileBase64,
		FileContentType: req.FileContentType,
		FileDescription: req.FileDescription,
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			respondError(c, http.StatusBadRequest, msgFileMissing)
		case errors.Is(err, common.ErrorValidation):
			respondError(c, http.StatusBadRequest, msgInvalidRequest)
		default:
			h.logger.Error(c.Request.Context(), "PUT /v1/files", "error", err.Error())
			respondError(c, http.StatusInternalServerError, msgInternalError)
		}
		return
	}

	respondMessage(c, msgFileUpdated)
}

// delete takes the id from the query string and, unlike the other file
// routes, is registered without the access guard.
func (h *fileHandlers) delete(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		respondError(c, http.StatusBadRequest, msgIDRequired)
		return
	}

	err := h.files.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			respondError(c, http.StatusBadRequest, msgFileMissing)
			return
		}
		h.logger.Error(c.Request.Context(), "DELETE /v1/files", "error", err.Error())
		respondError(c, http.StatusInternalServerError, msgInternalError)
		return
	}

	respondMessage(c, msgFileDeleted)
}
