package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/socio-irdl/socio/backend/internal/models"
	"github.com/socio-irdl/socio/backend/internal/repositories"
	"github.com/socio-irdl/socio/backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LikeHandler handles the like/unlike toggle
type LikeHandler struct {
	userRepository         repositories.UserRepository
	postRepository         repositories.PostRepository
	activityRepository     repositories.ActivityRepository
	notificationRepository repositories.NotificationRepository
	activityCleaner        *services.ActivityCleaner
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
	activityRepo repositories.ActivityRepository,
	notifRepo repositories.NotificationRepository,
	cleaner *services.ActivityCleaner,
) *LikeHandler {
	return &LikeHandler{
		userRepository:         userRepo,
		postRepository:         postRepo,
		activityRepository:     activityRepo,
		notificationRepository: notifRepo,
		activityCleaner:        cleaner,
	}
}

// RegisterLikeRoutes registers the like toggle route
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.PATCH("/posts/:postId/like", h.ToggleLike)
}

// ToggleLike likes or unlikes a post for the authenticated user. Liking
// records a like activity and, unless the liker owns the post, a like
// notification; unliking deletes both. The updated post is returned and an
// activity cleanup pass for the acting user runs afterwards.
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		if err == repositories.ErrPostNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	currentUser, err := h.userRepository.GetUserByUsername(ctx, claims.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	if post.Likes == nil {
		post.Likes = map[string]bool{}
	}

	isOwner := post.UserID == currentUser.ID

	if post.LikedBy(currentUser.Username) {
		delete(post.Likes, currentUser.Username)

		if err := h.activityRepository.DeleteActivity(
			currentUser.ID.Hex(), postID.Hex(), models.ActionLike); err != nil {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		if err := h.notificationRepository.DeleteNotification(
			currentUser.ID.Hex(), post.UserID.Hex(), models.ActionLike, postID.Hex()); err != nil {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
	} else {
		post.Likes[currentUser.Username] = true

		activity := &models.Activity{
			UserID:     currentUser.ID.Hex(),
			PostID:     postID.Hex(),
			ActionType: models.ActionLike,
			Timestamp:  time.Now(),
		}
		if err := h.activityRepository.CreateActivity(activity); err != nil {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}

		// Self-likes never notify.
		if !isOwner {
			notification := &models.Notification{
				ActionType: models.ActionLike,
				SenderID:   currentUser.ID.Hex(),
				ReceiverID: post.UserID.Hex(),
				PostID:     postID.Hex(),
			}
			if err := h.notificationRepository.CreateNotification(notification); err != nil {
				return echo.NewHTTPError(http.StatusConflict, err.Error())
			}
		}
	}

	updatedPost, err := h.postRepository.UpdateLikes(ctx, postID, post.Likes)
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	if err := h.activityCleaner.CleanupUser(ctx, currentUser); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, updatedPost)
}
