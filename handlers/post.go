package handlers

import (
	"net/http"

	"blogserver/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreatePost(c *gin.Context) {
	doc, ok := bindDocument(c)
	if !ok {
		return
	}

	result, err := h.store.Posts.InsertOne(c.Request.Context(), doc)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.store.Posts.FindAll(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetPost answers null when no post has the identifier.
func (h *Handler) GetPost(c *gin.Context) {
	post, err := h.store.Posts.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// UpdatePost replaces the editable post fields, creating the post under the
// path identifier when it does not exist yet.
func (h *Handler) UpdatePost(c *gin.Context) {
	body, ok := bindDocument(c)
	if !ok {
		return
	}

	result, err := h.store.Posts.UpsertFields(c.Request.Context(), c.Param("id"), models.UpdateFields(body))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
