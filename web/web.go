// Package web serves the public side of the portfolio
package web

import (
	"net/http"
	"strings"
	"time"

	"portfolio/handlers"
	"portfolio/models"
	"portfolio/storage"
	"portfolio/utils"

	"github.com/gin-gonic/gin"
)

const pageLimit = 6

type Site struct {
	Store   *models.Store
	Storage storage.StorageAPI
	// MediaDir is the storage directory uploads are written to
	MediaDir string
}

func (s *Site) Register(r gin.IRoutes) {
	r.GET("/", s.Home)
	r.GET("/about", s.About)
	r.GET("/guests", s.Guests)
	r.GET("/guest/:id", s.Guest)
	r.GET("/portfolio", s.Portfolio)
	r.GET("/portfolio/:id", s.Portfolio)

	files := utils.CacheRouter{CacheTime: 7 * 24 * time.Hour, Public: true}
	r.GET(s.filesRoute(), files.Handler(), s.ServeFile)
}

type OwnerResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type GuestResponse struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func newGuestResponse(u *models.User) GuestResponse {
	return GuestResponse{
		ID:          u.ID,
		Name:        u.Name,
		Description: utils.Excerpt(u.Description, utils.ExcerptLimit),
	}
}

func queryPage(c *gin.Context) int {
	return max(utils.StringToInt(c.Query("page"), 1), 1)
}

func mediaPage(p models.Page[models.Media]) gin.H {
	items := make([]handlers.MediaResponse, 0, len(p.Items))
	for i := range p.Items {
		items = append(items, handlers.NewMediaResponse(&p.Items[i]))
	}
	return gin.H{
		"items": items,
		"total": p.Total,
		"page":  p.Page,
		"pages": p.Pages(),
	}
}

func (s *Site) filesRoute() string {
	dir := strings.Trim(s.MediaDir, "/")
	if dir == "" {
		return "/files/*path"
	}
	return "/" + dir + "/*path"
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, handlers.NotFoundResponse)
}

func paramID(c *gin.Context) (uint64, bool) {
	id := utils.StringToUInt64(c.Param("id"))
	return id, id > 0
}
