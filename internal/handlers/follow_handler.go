package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/socio-irdl/socio/backend/internal/models"
	"github.com/socio-irdl/socio/backend/internal/repositories"
)

// FollowHandler handles the follow/unfollow toggle
type FollowHandler struct {
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository) *FollowHandler {
	return &FollowHandler{
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterFollowRoutes registers the follow toggle route
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.PUT("/users/:username/follow", h.ToggleFollow)
}

// ToggleFollow follows or unfollows :username for the authenticated user.
// The follow edge is mirrored in both documents and a follow notification
// is created or deleted alongside it. Responds {status:1} for follow,
// {status:0} for unfollow. Writes are sequential without compensation: a
// failure after the first document persists leaves the pair for a later
// corrective toggle to repair.
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	currentUser, err := h.userRepository.GetUserByUsername(ctx, claims.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	targetUser, err := h.userRepository.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if targetUser.ID == currentUser.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "You can't follow yourself")
	}

	if currentUser.Following.Has(targetUser.ID) {
		currentUser.Following = currentUser.Following.Remove(targetUser.ID)
		targetUser.Followers = targetUser.Followers.Remove(currentUser.ID)

		if err := h.userRepository.SaveUser(ctx, currentUser); err != nil {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		if err := h.userRepository.SaveUser(ctx, targetUser); err != nil {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}

		if err := h.notificationRepository.DeleteNotification(
			currentUser.ID.Hex(), targetUser.ID.Hex(), models.ActionFollow, ""); err != nil {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}

		return c.JSON(http.StatusOK, echo.Map{"status": 0})
	}

	currentUser.Following = currentUser.Following.Add(targetUser.ID)
	targetUser.Followers = targetUser.Followers.Add(currentUser.ID)

	if err := h.userRepository.SaveUser(ctx, currentUser); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	if err := h.userRepository.SaveUser(ctx, targetUser); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	notification := &models.Notification{
		ActionType: models.ActionFollow,
		SenderID:   currentUser.ID.Hex(),
		ReceiverID: targetUser.ID.Hex(),
	}
	if err := h.notificationRepository.CreateNotification(notification); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"status": 1})
}
