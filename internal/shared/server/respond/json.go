package respond

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Created writes a 201 JSON response for a newly stored resource.
func Created(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusCreated, payload)
}

// Attachment sets the headers for a file download named fileName. The body
// is written by the caller.
func Attachment(c *gin.Context, fileName, mimeType string) {
	c.Header("Content-Type", mimeType)
	c.Header("Content-Disposition", `attachment; filename="`+strings.NewReplacer(`"`, "'", "\r", "", "\n", "").Replace(fileName)+`"`)
}
