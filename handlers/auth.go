package handlers

import (
	"log"
	"net/http"

	"blogserver/middleware"

	"github.com/gin-gonic/gin"
)

// IssueToken signs the posted identity and hands it back as an HTTP-only
// cookie usable from the trusted cross-site origin.
func (h *Handler) IssueToken(c *gin.Context) {
	identity, ok := bindDocument(c)
	if !ok {
		return
	}

	token, err := h.tokens.Issue(identity)
	if err != nil {
		log.Printf("[%s] IssueToken error: %v", middleware.RequestID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
		return
	}

	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.TokenCookie, token, 0, "/", "", true, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout only asks the client to drop the cookie. The token itself stays
// valid until it expires.
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", true, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
