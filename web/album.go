package web

import (
	"errors"
	"net/http"

	"portfolio/handlers"
	"portfolio/models"

	"github.com/gin-gonic/gin"
)

// Portfolio lists the albums and one page of media: the selected album when
// it exists, the site owner's media otherwise
func (s *Site) Portfolio(c *gin.Context) {
	ctx := c.Request.Context()
	albums, err := s.Store.Albums(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handlers.DBErrorResponse)
		return
	}

	filters := models.MediaFilters{Page: queryPage(c), Limit: pageLimit}
	var album *models.Album
	if id, ok := paramID(c); ok {
		album, err = s.Store.FindAlbum(ctx, id)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusInternalServerError, handlers.DBErrorResponse)
			return
		}
	}
	if album != nil {
		filters.AlbumID = &album.ID
	} else {
		admin, ok := s.owner(c)
		if !ok {
			return
		}
		if admin == nil {
			c.JSON(http.StatusOK, gin.H{"albums": albums, "album": nil, "media": mediaPage(models.Page[models.Media]{Page: filters.Page, Limit: pageLimit})})
			return
		}
		filters.UserID = &admin.ID
	}

	page, err := s.Store.ListMedia(ctx, filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handlers.DBErrorResponse)
		return
	}
	c.JSON(http.StatusOK, gin.H{"albums": albums, "album": album, "media": mediaPage(page)})
}
