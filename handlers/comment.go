package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateComment(c *gin.Context) {
	doc, ok := bindDocument(c)
	if !ok {
		return
	}

	result, err := h.store.Comments.InsertOne(c.Request.Context(), doc)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) ListComments(c *gin.Context) {
	comments, err := h.store.Comments.FindAll(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}
