package http

import (
	"crypto/md5"
	"fmt"
	"net/http"

	"panorama-api/domain/model"
	"panorama-api/infrastructure/logger"
	"panorama-api/usecase"

	"github.com/gin-gonic/gin"
)

const (
	ErrorUnmarshal = "Error while unmarshal"
)

type IUserHandler interface {
	Login(ctx *gin.Context)
	Register(ctx *gin.Context)
}

type UserHandler struct {
	userUsecase usecase.IUserUsecase
}

func NewUserHandler(userUsecase usecase.IUserUsecase) IUserHandler {
	return &UserHandler{userUsecase: userUsecase}
}

func (h *UserHandler) Login(ctx *gin.Context) {
	var req model.ReqLogin
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s %v", ErrorUnmarshal, err.Error())})
		return
	}

	res := h.userUsecase.Login(ctx.Request.Context(), req)
	ctx.JSON(http.StatusOK, res)
}

func (h *UserHandler) Register(ctx *gin.Context) {
	var req model.ReqRegister
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s %v", ErrorUnmarshal, err.Error())})
		return
	}
	req.Password = fmt.Sprintf("%x", md5.Sum([]byte(req.Password)))
	res := h.userUsecase.Register(ctx.Request.Context(), req)
	ctx.JSON(http.StatusOK, res)
}
