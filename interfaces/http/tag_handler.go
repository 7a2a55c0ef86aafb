package http

import (
	"net/http"

	"panorama-api/usecase"

	"github.com/gin-gonic/gin"
)

type ITagHandler interface {
	List(ctx *gin.Context)
}

type TagHandler struct {
	resolver usecase.ITagResolver
}

func NewTagHandler(resolver usecase.ITagResolver) ITagHandler {
	return &TagHandler{resolver: resolver}
}

func (h *TagHandler) List(ctx *gin.Context) {
	tags, err := h.resolver.ListAll(ctx.Request.Context())
	if err != nil {
		status, msg := statusForError(err)
		ctx.JSON(status, gin.H{"error": msg})
		return
	}
	ctx.JSON(http.StatusOK, tags)
}
