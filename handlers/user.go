package handlers

import (
	"net/http"

	"blogserver/middleware"
	"blogserver/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateUser stores a registration record exactly as posted.
func (h *Handler) CreateUser(c *gin.Context) {
	doc, ok := bindDocument(c)
	if !ok {
		return
	}

	result, err := h.store.Users.InsertOne(c.Request.Context(), doc)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) CreateUserData(c *gin.Context) {
	doc, ok := bindDocument(c)
	if !ok {
		return
	}

	result, err := h.store.UserData.InsertOne(c.Request.Context(), doc)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetUserData serves both GET /userData/:id and GET /userData/:email, which
// share one path shape. An ObjectID selects the record lookup; anything else
// is an owner email and must pass the token guard first.
func (h *Handler) GetUserData(c *gin.Context) {
	key := c.Param("key")
	if primitive.IsValidObjectID(key) {
		h.getUserDataByID(c, key)
		return
	}

	h.guard(c)
	if c.IsAborted() {
		return
	}
	h.listUserDataByEmail(c, key)
}

// listUserDataByEmail only answers for the caller's own email.
func (h *Handler) listUserDataByEmail(c *gin.Context, email string) {
	if middleware.IdentityEmail(c) != email {
		c.JSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
		return
	}

	docs, err := h.store.UserData.FindByField(c.Request.Context(), models.EmailField, email)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *Handler) getUserDataByID(c *gin.Context, id string) {
	doc, err := h.store.UserData.FindByID(c.Request.Context(), id)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) DeleteUserData(c *gin.Context) {
	result, err := h.store.UserData.DeleteByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
