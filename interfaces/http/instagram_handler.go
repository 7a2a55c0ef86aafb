package http

import (
	"fmt"
	"net/http"

	"panorama-api/domain/dto"
	"panorama-api/infrastructure/logger"
	"panorama-api/usecase"

	"github.com/gin-gonic/gin"
)

type IInstagramHandler interface {
	Post(ctx *gin.Context)
	History(ctx *gin.Context)
	TokenStatus(ctx *gin.Context)
	TokenRefresh(ctx *gin.Context)
	TokenImport(ctx *gin.Context)
}

type InstagramHandler struct {
	instagramUsecase usecase.IInstagramUsecase
	tokenUsecase     usecase.ITokenUsecase
}

func NewInstagramHandler(instagramUsecase usecase.IInstagramUsecase, tokenUsecase usecase.ITokenUsecase) IInstagramHandler {
	return &InstagramHandler{instagramUsecase: instagramUsecase, tokenUsecase: tokenUsecase}
}

func (h *InstagramHandler) Post(ctx *gin.Context) {
	var req dto.InstagramPostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error("invalid instagram post payload")
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	result, err := h.instagramUsecase.Post(ctx.Request.Context(), req.ImageID, req.Caption, ctx.GetString("user_id"))
	if err != nil {
		status, msg := statusForError(err)
		ctx.JSON(status, gin.H{"error": msg})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func (h *InstagramHandler) History(ctx *gin.Context) {
	history, err := h.instagramUsecase.History(ctx.Request.Context(), ctx.Param("imageId"))
	if err != nil {
		status, msg := statusForError(err)
		ctx.JSON(status, gin.H{"error": msg})
		return
	}
	ctx.JSON(http.StatusOK, history)
}

func (h *InstagramHandler) TokenStatus(ctx *gin.Context) {
	info, err := h.tokenUsecase.GetTokenInfo(ctx.Request.Context())
	if err != nil {
		status, msg := statusForError(err)
		ctx.JSON(status, gin.H{"error": msg})
		return
	}
	if ctx.Query("validate") == "true" {
		valid, err := h.tokenUsecase.ValidateToken(ctx.Request.Context(), "")
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("token validation failed")
		} else {
			info.Valid = &valid
		}
	}
	ctx.JSON(http.StatusOK, info)
}

func (h *InstagramHandler) TokenRefresh(ctx *gin.Context) {
	info, err := h.tokenUsecase.RefreshAccessToken(ctx.Request.Context(), ctx.GetString("user_id"))
	if err != nil {
		status, msg := statusForError(err)
		ctx.JSON(status, gin.H{"error": msg})
		return
	}
	ctx.JSON(http.StatusOK, info)
}

func (h *InstagramHandler) TokenImport(ctx *gin.Context) {
	info, err := h.tokenUsecase.ImportFromEnv(ctx.Request.Context(), ctx.GetString("user_id"))
	if err != nil {
		status, msg := statusForError(err)
		ctx.JSON(status, gin.H{"error": msg})
		return
	}
	ctx.JSON(http.StatusCreated, info)
}
