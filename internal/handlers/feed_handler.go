package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/socio-irdl/socio/backend/internal/repositories"
)

// FeedHandler handles the feed listing
type FeedHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *FeedHandler {
	return &FeedHandler{
		postRepository: postRepo,
		userRepository: userRepo,
	}
}

// RegisterFeedRoutes registers the feed route
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns feed posts for the authenticated user, newest first and
// paged by 10. Posts by authors with a block relationship to the viewer in
// either direction are excluded in the query, before pagination.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	currentUser, err := h.userRepository.GetUserByUsername(ctx, claims.Username)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	page := getPageParam(c)
	skip := int64((page - 1) * postPageSize)
	posts, err := h.postRepository.GetFeedPosts(ctx, currentUser.BlockedEitherWay(), skip, postPageSize)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, posts)
}
