package handlers

import (
	"errors"
	"net/http"

	"portfolio/auth"
	"portfolio/logging"
	"portfolio/models"

	"github.com/gin-gonic/gin"
)

type AlbumRequest struct {
	Name string `form:"album[name]" binding:"required,max=255"`
}

func (h *Handlers) AlbumList(c *gin.Context, actor auth.Actor) {
	albums, err := h.Store.Albums(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "albums": albums})
}

func (h *Handlers) AlbumAdd(c *gin.Context, actor auth.Actor) {
	req := AlbumRequest{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if err := h.Store.SaveAlbum(c.Request.Context(), &models.Album{Name: req.Name}); err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/album")
}

func (h *Handlers) AlbumUpdate(c *gin.Context, actor auth.Actor) {
	album := h.loadAlbum(c)
	if album == nil {
		return
	}
	req := AlbumRequest{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	album.Name = req.Name
	if err := h.Store.SaveAlbum(c.Request.Context(), album); err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/album")
}

func (h *Handlers) AlbumDelete(c *gin.Context, actor auth.Actor) {
	album := h.loadAlbum(c)
	if album == nil {
		return
	}
	if err := h.Store.DeleteAlbum(c.Request.Context(), album); err != nil {
		logging.Ctx(c).Error().Err(err).Uint64("album_id", album.ID).Msg("album delete")
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/album")
}

// loadAlbum writes the error response itself and returns nil on failure
func (h *Handlers) loadAlbum(c *gin.Context) *models.Album {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	album, err := h.Store.FindAlbum(c.Request.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return nil
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return nil
	}
	return album
}
