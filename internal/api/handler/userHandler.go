package handler

import (
	"errors"
	"net/http"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// RegisterRoutes registers user-management routes. Everything requires
// authentication; everything except /me additionally requires admin.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	users := rg.Group("/users", authMW)
	{
		users.GET("/me", h.GetMe)
		users.PATCH("/me", h.UpdateMe)

		users.GET("", middleware.RequireAdmin(), h.List)
		users.POST("", middleware.RequireAdmin(), h.Create)
		users.GET("/:username", middleware.RequireAdmin(), h.Get)
		users.PATCH("/:username", middleware.RequireAdmin(), h.Update)
		users.DELETE("/:username", middleware.RequireAdmin(), h.Delete)
	}
}

// List retrieves users with optional username search
// GET /api/v1/users?search=&limit=&offset=
func (h *UserHandler) List(c *gin.Context) {
	limit, offset := paginationParams(c)

	users, err := h.userService.List(c.Query("search"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}

// Create creates a user directly (admin only; no confirmation flow)
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Create(req)
	if err != nil {
		h.writeUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Get retrieves a user by username
// GET /api/v1/users/:username
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.Get(c.Param("username"))
	if err != nil {
		h.writeUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Update patches a user; admins may change the role
// PATCH /api/v1/users/:username
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Update(c.Param("username"), req, true)
	if err != nil {
		h.writeUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Delete removes a user
// DELETE /api/v1/users/:username
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.Delete(c.Param("username")); err != nil {
		h.writeUserError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// GetMe retrieves the authenticated caller's profile
// GET /api/v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	user, err := h.userService.GetByID(userID.(string))
	if err != nil {
		h.writeUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromModelToUserResponse(user))
}

// UpdateMe patches the caller's own profile; the role field is only
// honored for admin callers
// PATCH /api/v1/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.UpdateUserDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.GetByID(userID.(string))
	if err != nil {
		h.writeUserError(c, err)
		return
	}

	allowRoleChange := middleware.CallerRole(c).IsAdmin()
	updated, err := h.userService.Update(user.Username, req, allowRoleChange)
	if err != nil {
		h.writeUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *UserHandler) writeUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrReservedUsername),
		errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
