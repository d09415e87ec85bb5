package handler

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"tallerhub/internal/domain/entity"
	"tallerhub/internal/domain/repository"
	"tallerhub/internal/domain/service"
	"tallerhub/internal/infrastructure/ratelimit"
	"tallerhub/pkg/errors"
	"tallerhub/pkg/logger"
	"tallerhub/pkg/response"
)

const maxUploadSize = 15 << 20 // 15 MB

type FileHandler struct {
	uploader    service.FileUploadService
	fileRepo    repository.FileMetadataRepository
	rateLimiter *ratelimit.RateLimiter
}

func NewFileHandler(uploader service.FileUploadService, fileRepo repository.FileMetadataRepository) *FileHandler {
	return &FileHandler{
		uploader:    uploader,
		fileRepo:    fileRepo,
		rateLimiter: ratelimit.NewRateLimiter(),
	}
}

// Upload stores a document or image for a work order and records its
// metadata
func (h *FileHandler) Upload(c echo.Context) error {
	userID := c.Get("uid").(string)

	allowed, waitTime := h.rateLimiter.Allow(userID, "upload_file")
	if !allowed {
		return response.Error(c, errors.TooManyRequests("Upload limit reached. Please wait before uploading again", waitTime))
	}

	workOrderID := c.Param("id")
	category := c.FormValue("category")
	if category != "document" && category != "image" {
		return response.Error(c, errors.BadRequest("Category must be 'document' or 'image'", nil))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("File is required", err))
	}
	if fileHeader.Size > maxUploadSize {
		return response.Error(c, errors.BadRequest("File exceeds the 15MB limit", nil))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Failed to open uploaded file", err))
	}
	defer src.Close()

	fileType := fileHeader.Header.Get("Content-Type")
	folder := fmt.Sprintf("workorders/%s/%ss", workOrderID, category)

	url, objectName, err := h.uploader.UploadFile(c.Request().Context(), src, fileType, folder, false)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to store file", err))
	}

	metadata := &entity.FileMetadata{
		ID:          uuid.New().String(),
		URL:         url,
		ObjectName:  objectName,
		WorkOrderID: workOrderID,
		Category:    category,
		UploadedBy:  userID,
		Filename:    fileHeader.Filename,
		FileType:    fileType,
		FileSize:    fileHeader.Size,
	}
	if err := h.fileRepo.Create(c.Request().Context(), metadata); err != nil {
		// Orphaned blob; remove it so storage stays consistent with metadata
		if delErr := h.uploader.DeleteFile(c.Request().Context(), url); delErr != nil {
			logger.Warn("Failed to clean up orphaned upload %s: %v", objectName, delErr)
		}
		return response.Error(c, err)
	}

	return response.Created(c, metadata)
}

// List returns metadata for a work order's stored files, optionally
// filtered by category
func (h *FileHandler) List(c echo.Context) error {
	files, err := h.fileRepo.ListByWorkOrder(c.Request().Context(), c.Param("id"), c.QueryParam("category"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, files)
}

// Delete removes a stored file and its metadata record
func (h *FileHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	metadata, err := h.fileRepo.GetByID(ctx, c.Param("fileId"))
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.uploader.DeleteFile(ctx, metadata.URL); err != nil {
		return response.Error(c, errors.Internal("Failed to delete stored file", err))
	}
	if err := h.fileRepo.Delete(ctx, metadata.ID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "deleted"})
}
