package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"blogserver/database"
	"blogserver/middleware"
	"blogserver/models"

	"github.com/gin-gonic/gin"
)

// Handler serves every route of the blog API against one store.
type Handler struct {
	store  database.Store
	tokens *middleware.TokenService
	guard  gin.HandlerFunc
}

func New(store database.Store, tokens *middleware.TokenService) *Handler {
	return &Handler{
		store:  store,
		tokens: tokens,
		guard:  middleware.RequireToken(tokens),
	}
}

// bindDocument reads the request body as an open document. An empty body is
// an empty document.
func bindDocument(c *gin.Context) (models.Document, bool) {
	var doc models.Document
	if err := c.ShouldBindJSON(&doc); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid JSON body"})
		return nil, false
	}
	if doc == nil {
		doc = models.Document{}
	}
	return doc, true
}

// storeError renders a failed store call. Every store fault uses the same
// envelope; the status follows the error kind.
func storeError(c *gin.Context, err error) {
	status, message := http.StatusInternalServerError, "Database error"
	switch {
	case errors.Is(err, database.ErrInvalidArgument):
		status, message = http.StatusBadRequest, "Invalid argument"
	case errors.Is(err, database.ErrNotFound):
		status, message = http.StatusNotFound, "Not found"
	case errors.Is(err, database.ErrUnavailable):
		status, message = http.StatusServiceUnavailable, "Database unavailable"
	}

	log.Printf("[%s] %s %s: %v", middleware.RequestID(c), c.Request.Method, c.Request.URL.Path, err)
	c.JSON(status, gin.H{"message": message})
}
