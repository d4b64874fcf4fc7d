package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/work-assignment-api/internal/dto"
	apierrors "github.com/yukikurage/work-assignment-api/internal/errors"
	"github.com/yukikurage/work-assignment-api/internal/models"
	"github.com/yukikurage/work-assignment-api/internal/repository"
	"github.com/yukikurage/work-assignment-api/internal/services"
)

// UserHandler coordinates account-management HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func parseUserID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return 0, false
	}
	return id, true
}

// List returns users, optionally filtered by role and active flag.
func (h *UserHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var filter repository.UserFilter
	if roleStr := c.Query("role"); roleStr != "" {
		role := models.Role(roleStr)
		if !role.IsValid() {
			apierrors.BadRequest(c, "Invalid role filter")
			return
		}
		filter.Role = &role
	}
	if activeStr := c.Query("active"); activeStr != "" {
		active, err := strconv.ParseBool(activeStr)
		if err != nil {
			apierrors.BadRequest(c, "Invalid active filter")
			return
		}
		filter.IsActive = &active
	}

	users, err := h.userService.ListUsers(actor, filter)
	if err != nil {
		respondUserError(c, err)
		return
	}

	dtos := make([]dto.UserDTO, len(users))
	for i, user := range users {
		dtos[i] = dto.ToUserDTO(user)
	}

	c.JSON(http.StatusOK, gin.H{"users": dtos})
}

// Get returns a single user.
func (h *UserHandler) Get(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(id, actor)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Update applies an admin edit of allow-listed profile fields.
func (h *UserHandler) Update(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	type UpdateUserRequest struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		IsActive *bool   `json:"is_active"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(services.UpdateUserInput{
		Actor:    actor,
		UserID:   id,
		Name:     req.Name,
		Email:    req.Email,
		IsActive: req.IsActive,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Delete removes a user account and their assigned work items.
func (h *UserHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(id, actor); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
	})
}

// LinkCalendar stores the caller's calendar token pair.
func (h *UserHandler) LinkCalendar(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type LinkCalendarRequest struct {
		AccessToken  string `json:"access_token" binding:"required"`
		RefreshToken string `json:"refresh_token"`
	}

	var req LinkCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.LinkCalendar(actor, req.AccessToken, req.RefreshToken)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UnlinkCalendar clears the caller's calendar token pair.
func (h *UserHandler) UnlinkCalendar(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.userService.UnlinkCalendar(actor)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAdminRequired):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrNameTooLong),
		errors.Is(err, services.ErrInvalidEmail):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
