package handlers

import (
	"errors"
	"net/http"

	"portfolio/auth"
	"portfolio/logging"
	"portfolio/media"
	"portfolio/models"

	"github.com/gin-gonic/gin"
)

type MediaResponse struct {
	ID        uint64  `json:"id"`
	Title     string  `json:"title"`
	Path      string  `json:"path"`
	URL       string  `json:"url"`
	UserID    *uint64 `json:"user_id"`
	UserName  string  `json:"user_name"`
	AlbumID   *uint64 `json:"album_id"`
	AlbumName string  `json:"album_name"`
	CreatedAt int64   `json:"created_at"`
}

func NewMediaResponse(m *models.Media) MediaResponse {
	result := MediaResponse{
		ID:        m.ID,
		Title:     m.Title,
		Path:      m.Path,
		URL:       m.URL(),
		UserID:    m.UserID,
		AlbumID:   m.AlbumID,
		CreatedAt: m.CreatedAt,
	}
	if m.User != nil {
		result.UserName = m.User.Name
	}
	if m.Album != nil {
		result.AlbumName = m.Album.Name
	}
	return result
}

// room for the title, owner and album fields and the multipart boundaries
const multipartOverhead = 64 << 10

type MediaAddRequest struct {
	Title   string `form:"media[title]" binding:"required,max=255"`
	UserID  uint64 `form:"media[user]"`
	AlbumID uint64 `form:"media[album]"`
}

// MediaList shows everything to admins and only their own media to guests
func (h *Handlers) MediaList(c *gin.Context, actor auth.Actor) {
	filters := models.MediaFilters{
		Page:  queryPage(c),
		Limit: adminPageLimit,
	}
	if !actor.Admin {
		filters.UserID = &actor.ID
	}
	page, err := h.Store.ListMedia(c.Request.Context(), filters)
	if err != nil {
		logging.Ctx(c).Error().Err(err).Msg("media list")
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	c.JSON(http.StatusOK, pageResponse(page, NewMediaResponse))
}

type MediaFormResponse struct {
	Response
	Users  []UserResponse `json:"users"`
	Albums []models.Album  `json:"albums"`
}

// MediaForm lists the owners and albums an upload can be assigned to.
// Guests always own their uploads, so they get empty lists.
func (h *Handlers) MediaForm(c *gin.Context, actor auth.Actor) {
	result := MediaFormResponse{Response: OKResponse, Users: []UserResponse{}, Albums: []models.Album{}}
	if actor.Admin {
		ctx := c.Request.Context()
		users, err := h.Store.ActiveUsers(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, DBErrorResponse)
			return
		}
		albums, err := h.Store.Albums(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, DBErrorResponse)
			return
		}
		for i := range users {
			result.Users = append(result.Users, NewUserResponse(&users[i]))
		}
		result.Albums = append(result.Albums, albums...)
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handlers) MediaAdd(c *gin.Context, actor auth.Actor) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Upload.MaxSize+multipartOverhead)

	req := MediaAddRequest{}
	if err := c.ShouldBind(&req); err != nil {
		badUpload(c, err)
		return
	}

	var upload *models.PendingUpload
	if fh, err := c.FormFile("media[file]"); err == nil {
		upload = models.UploadFromHeader(fh)
	} else if !errors.Is(err, http.ErrMissingFile) {
		badUpload(c, err)
		return
	}
	if err := media.ValidateUpload(upload, h.Upload.MaxSize, h.Upload.AllowedTypes); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}

	ctx := c.Request.Context()
	m := &models.Media{Title: req.Title, File: upload}
	if actor.Admin {
		if req.UserID != 0 {
			owner, err := h.Store.FindUser(ctx, req.UserID)
			if err != nil || !owner.Active {
				c.JSON(http.StatusBadRequest, Response{"unknown or blocked user"})
				return
			}
			m.UserID = &owner.ID
		}
		if req.AlbumID != 0 {
			album, err := h.Store.FindAlbum(ctx, req.AlbumID)
			if err != nil {
				c.JSON(http.StatusBadRequest, Response{"unknown album"})
				return
			}
			m.AlbumID = &album.ID
		}
	} else {
		m.UserID = &actor.ID
	}

	if _, err := h.Media.Put(ctx, m, h.Upload.Directory, ""); err != nil {
		logging.Ctx(c).Error().Err(err).Str("title", req.Title).Msg("media upload")
		c.JSON(http.StatusInternalServerError, MediaErrResponse)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/media")
}

func (h *Handlers) MediaDelete(c *gin.Context, actor auth.Actor) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	m, err := h.Store.FindMedia(ctx, id)
	if errors.Is(err, models.ErrNotFound) || (err == nil && !actor.Admin && !actor.Owns(m)) {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	if err = h.Media.Remove(ctx, m); err != nil {
		logging.Ctx(c).Error().Err(err).Uint64("media_id", id).Msg("media delete")
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/media")
}

func badUpload(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		err = media.ErrFileTooLarge
	}
	c.JSON(http.StatusBadRequest, Response{err.Error()})
}
