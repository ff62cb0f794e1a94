package web

import (
	"errors"
	"net/http"

	"portfolio/handlers"
	"portfolio/logging"
	"portfolio/models"

	"github.com/gin-gonic/gin"
)

func (s *Site) owner(c *gin.Context) (*models.User, bool) {
	admin, err := s.Store.Admin(c.Request.Context())
	if errors.Is(err, models.ErrNotFound) {
		return nil, true
	}
	if err != nil {
		logging.Ctx(c).Error().Err(err).Msg("site owner")
		c.JSON(http.StatusInternalServerError, handlers.DBErrorResponse)
		return nil, false
	}
	return admin, true
}

func (s *Site) Home(c *gin.Context) {
	admin, ok := s.owner(c)
	if !ok {
		return
	}
	var owner *OwnerResponse
	if admin != nil {
		owner = &OwnerResponse{Name: admin.Name, Description: admin.Description}
	}
	c.JSON(http.StatusOK, gin.H{"owner": owner})
}

func (s *Site) About(c *gin.Context) {
	admin, ok := s.owner(c)
	if !ok {
		return
	}
	if admin == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, OwnerResponse{Name: admin.Name, Description: admin.Description})
}

func (s *Site) Guests(c *gin.Context) {
	guests, err := s.Store.Guests(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handlers.DBErrorResponse)
		return
	}
	result := make([]GuestResponse, 0, len(guests))
	for i := range guests {
		result = append(result, newGuestResponse(&guests[i]))
	}
	c.JSON(http.StatusOK, gin.H{"guests": result})
}

// Guest shows one guest and their media; blocked guests are hidden
func (s *Site) Guest(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		notFound(c)
		return
	}
	ctx := c.Request.Context()
	guest, err := s.Store.FindUser(ctx, id)
	if errors.Is(err, models.ErrNotFound) || (err == nil && !guest.Active) {
		notFound(c)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, handlers.DBErrorResponse)
		return
	}
	page, err := s.Store.ListMedia(ctx, models.MediaFilters{
		UserID:     &guest.ID,
		ActiveUser: true,
		Page:       queryPage(c),
		Limit:      pageLimit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, handlers.DBErrorResponse)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"guest": GuestResponse{ID: guest.ID, Name: guest.Name, Description: guest.Description},
		"media": mediaPage(page),
	})
}
