package handlers

import (
	"errors"
	"net/http"

	"portfolio/auth"
	"portfolio/logging"
	"portfolio/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type UserLoginRequest struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type UserAddRequest struct {
	Name        string `form:"user[name]" binding:"required,max=100"`
	Email       string `form:"user[email]" binding:"required,email,max=180"`
	Password    string `form:"user[password]" binding:"required,min=6"`
	Description string `form:"user[description]"`
}

type UserResponse struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Admin       bool   `json:"admin"`
	Active      bool   `json:"active"`
	Description string `json:"description"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Admin:       u.Admin,
		Active:      u.Active,
		Description: u.Description,
	}
}

// UserLogin answers every failure the same way, the reason only goes to the log
func (h *Handlers) UserLogin(c *gin.Context) {
	req := UserLoginRequest{}
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	user, err := auth.Authenticate(c.Request.Context(), h.Store, req.Email, req.Password)
	if err != nil {
		logging.Ctx(c).Warn().Err(err).Str("email", req.Email).Msg("login refused")
		c.JSON(http.StatusUnauthorized, Response{auth.ErrInvalidCredentials.Error()})
		return
	}
	if err = auth.LoadSession(c).LoginUser(user); err != nil {
		logging.Ctx(c).Error().Err(err).Msg("session save")
		c.JSON(http.StatusInternalServerError, Response{"session error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "name": user.Name, "admin": user.Admin})
}

func (h *Handlers) UserLogout(c *gin.Context) {
	if err := auth.LoadSession(c).LogoutUser(); err != nil {
		logging.Ctx(c).Warn().Err(err).Msg("session clear")
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handlers) UserList(c *gin.Context, actor auth.Actor) {
	page, err := h.Store.ListUsers(c.Request.Context(), queryPage(c), adminPageLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	c.JSON(http.StatusOK, pageResponse(page, NewUserResponse))
}

func (h *Handlers) UserAdd(c *gin.Context, actor auth.Actor) {
	req := UserAddRequest{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	user := &models.User{
		Name:        req.Name,
		Email:       req.Email,
		Roles:       []string{models.RoleUser},
		Active:      true,
		Description: req.Description,
	}
	if err := user.SetPassword(req.Password); err != nil {
		c.JSON(http.StatusInternalServerError, Response{"password error"})
		return
	}
	err := h.Store.CreateUser(c.Request.Context(), user)
	if errors.Is(err, models.ErrEmailTaken) {
		c.JSON(http.StatusConflict, Response{err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/user")
}

func (h *Handlers) UserToggleAccess(c *gin.Context, actor auth.Actor) {
	user := h.loadOtherUser(c, actor)
	if user == nil {
		return
	}
	user.Active = !user.Active
	if err := h.Store.SaveUser(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	logging.Ctx(c).Info().Uint64("user_id", user.ID).Bool("active", user.Active).Msg("user access changed")
	c.Redirect(http.StatusSeeOther, "/admin/user")
}

func (h *Handlers) UserDelete(c *gin.Context, actor auth.Actor) {
	user := h.loadOtherUser(c, actor)
	if user == nil {
		return
	}
	if err := h.Store.DeleteUser(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/user")
}

// loadOtherUser refuses the current account, admins cannot lock themselves out
func (h *Handlers) loadOtherUser(c *gin.Context, actor auth.Actor) *models.User {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	if id == actor.ID {
		c.JSON(http.StatusBadRequest, Response{"you cannot change your own account"})
		return nil
	}
	user, err := h.Store.FindUser(c.Request.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return nil
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return nil
	}
	return user
}
