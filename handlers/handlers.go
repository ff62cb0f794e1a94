package handlers

import (
	"net/http"

	"portfolio/auth"
	"portfolio/config"
	"portfolio/media"
	"portfolio/models"
	"portfolio/utils"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Error string `json:"error"`
}

var (
	// Predefined errors
	OKResponse       = Response{}
	NotFoundResponse = Response{"not found"}
	DBErrorResponse  = Response{"DB Error"}
	MediaErrResponse = Response{"the media could not be saved"}
)

const (
	adminPageLimit = 15
)

type PageResponse[T any] struct {
	Error string `json:"error"`
	Items []T    `json:"items"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Pages int    `json:"pages"`
}

func pageResponse[T, S any](p models.Page[S], convert func(*S) T) PageResponse[T] {
	result := PageResponse[T]{
		Items: make([]T, 0, len(p.Items)),
		Total: p.Total,
		Page:  p.Page,
		Pages: p.Pages(),
	}
	for i := range p.Items {
		result.Items = append(result.Items, convert(&p.Items[i]))
	}
	return result
}

// Handlers serves the administration area
type Handlers struct {
	Store  *models.Store
	Media  *media.Service
	Upload config.UploadConfig
}

func (h *Handlers) Register(r *auth.Router) {
	r.GET("/admin/media", h.MediaList)
	r.GET("/admin/media/add", h.MediaForm)
	r.POST("/admin/media/add", h.MediaAdd)
	r.POST("/admin/media/delete/:id", h.MediaDelete)

	r.GET("/admin/album", h.AlbumList, auth.PermissionAdmin)
	r.POST("/admin/album/add", h.AlbumAdd, auth.PermissionAdmin)
	r.POST("/admin/album/update/:id", h.AlbumUpdate, auth.PermissionAdmin)
	r.POST("/admin/album/delete/:id", h.AlbumDelete, auth.PermissionAdmin)

	r.GET("/admin/user", h.UserList, auth.PermissionAdmin)
	r.POST("/admin/user/add", h.UserAdd, auth.PermissionAdmin)
	r.POST("/admin/user/toggle-access/:id", h.UserToggleAccess, auth.PermissionAdmin)
	r.POST("/admin/user/delete/:id", h.UserDelete, auth.PermissionAdmin)
}

// RegisterLogin adds the routes that do not require a session
func (h *Handlers) RegisterLogin(r gin.IRoutes) {
	r.POST("/login", h.UserLogin)
	r.POST("/logout", h.UserLogout)
}

func paramID(c *gin.Context) (uint64, bool) {
	id := utils.StringToUInt64(c.Param("id"))
	if id == 0 {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return 0, false
	}
	return id, true
}

func queryPage(c *gin.Context) int {
	return max(utils.StringToInt(c.Query("page"), 1), 1)
}
