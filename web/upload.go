package web

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ServeFile streams a stored upload, S3 storage answers with a redirect
func (s *Site) ServeFile(c *gin.Context) {
	p := strings.TrimPrefix(c.Param("path"), "/")
	if dir := strings.Trim(s.MediaDir, "/"); dir != "" {
		p = dir + "/" + p
	}
	s.Storage.Serve(p, c.Request, c.Writer)
}
