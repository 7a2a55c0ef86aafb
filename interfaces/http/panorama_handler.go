package http

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"panorama-api/domain/dto"
	"panorama-api/domain/repository"
	"panorama-api/infrastructure/configuration"
	"panorama-api/infrastructure/logger"
	"panorama-api/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type IPanoramaHandler interface {
	Get(ctx *gin.Context)
	List(ctx *gin.Context)
	ListArchived(ctx *gin.Context)
	Create(ctx *gin.Context)
	Update(ctx *gin.Context)
	Archive(ctx *gin.Context)
	Restore(ctx *gin.Context)
	Delete(ctx *gin.Context)
	Upload(ctx *gin.Context)
}

type PanoramaHandler struct {
	panoramaUsecase usecase.IPanoramaUsecase
	storage         repository.IObjectStorage
	storageCfg      configuration.Storage
}

func NewPanoramaHandler(uc usecase.IPanoramaUsecase, storage repository.IObjectStorage, storageCfg configuration.Storage) IPanoramaHandler {
	return &PanoramaHandler{panoramaUsecase: uc, storage: storage, storageCfg: storageCfg}
}

func (h *PanoramaHandler) Get(ctx *gin.Context) {
	img, err := h.panoramaUsecase.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		status, msg := statusForError(err)
		ctx.JSON(status, gin.H{"error": msg})
		return
	}
	ctx.JSON(http.StatusOK, img)
}

func pageRequest(ctx *gin.Context) dto.PageRequest {
	var page dto.PageRequest
	if v := ctx.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page.Limit = n
		}
	}
	if v := ctx.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page.Offset = n
		}
	}
	return page
}

// List serves both the active listing and the ?url= single lookup.
func (h *PanoramaHandler) List(ctx *gin.Context) {
	if url := ctx.Query("url"); url != "" {
		img, err := h.panoramaUsecase.GetByURL(ctx.Request.Context(), url)
		if err != nil {
			status, msg := statusForError(err)
			ctx.JSON(status, gin.H{"error": msg})
			return
		}
		ctx.JSON(http.StatusOK, img)
		return
	}
	page, err := h.panoramaUsecase.ListActive(ctx.Request.Context(), pageRequest(ctx))
	if err != nil {
		status, msg := statusForError(err)
		ctx.JSON(status, gin.H{"error": msg})
		return
	}
	ctx.JSON(http.StatusOK, page)
}

func (h *PanoramaHandler) ListArchived(ctx *gin.Context) {
	page, err := h.panoramaUsecase.ListArchived(ctx.Request.Context(), pageRequest(ctx))
	if err != nil {
		status, msg := statusForError(err)
		ctx.JSON(status, gin.H{"error": msg})
		return
	}
	ctx.JSON(http.StatusOK, page)
}

func (h *PanoramaHandler) save(ctx *gin.Context, id string, created int) {
	userID := ctx.GetString("user_id")
	if userID == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized: missing user_id"})
		return
	}
	var req dto.SavePanoramaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error("invalid panorama payload")
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	if id != "" {
		req.ID = id
	}
	img, err := h.panoramaUsecase.Save(ctx.Request.Context(), userID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "invalid status") || strings.Contains(err.Error(), "not allowed") || strings.Contains(err.Error(), "cannot create") {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		status, msg := statusForError(err)
		ctx.JSON(status, gin.H{"error": msg})
		return
	}
	ctx.JSON(created, img)
}

func (h *PanoramaHandler) Create(ctx *gin.Context) {
	h.save(ctx, "", http.StatusCreated)
}

func (h *PanoramaHandler) Update(ctx *gin.Context) {
	h.save(ctx, ctx.Param("id"), http.StatusOK)
}

func (h *PanoramaHandler) Archive(ctx *gin.Context) {
	if err := h.panoramaUsecase.Archive(ctx.Request.Context(), ctx.Param("id")); err != nil {
		status, msg := statusForError(err)
		ctx.JSON(status, gin.H{"error": msg})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"archived": true})
}

func (h *PanoramaHandler) Restore(ctx *gin.Context) {
	if err := h.panoramaUsecase.Restore(ctx.Request.Context(), ctx.Param("id")); err != nil {
		status, msg := statusForError(err)
		ctx.JSON(status, gin.H{"error": msg})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"restored": true})
}

func (h *PanoramaHandler) Delete(ctx *gin.Context) {
	if err := h.panoramaUsecase.HardDelete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		status, msg := statusForError(err)
		ctx.JSON(status, gin.H{"error": msg})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"deleted": true})
}

// Upload stores the original in the raw bucket and returns its public URL
// for the subsequent metadata save.
func (h *PanoramaHandler) Upload(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	if userID == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized: missing user_id"})
		return
	}
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("open uploaded file failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	objectName := fmt.Sprintf("%s/%s%s", userID, uuid.NewString(), ext)
	contentType := fileHeader.Header.Get("Content-Type")
	url, err := h.storage.Upload(ctx.Request.Context(), h.storageCfg.RawBucket, objectName, file, fileHeader.Size, contentType)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"url": url})
}
