package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"github.com/socio-irdl/socio/backend/internal/models"
	"github.com/socio-irdl/socio/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookmarkHandler handles the bookmark toggle and the bookmarked-posts
// listing
type BookmarkHandler struct {
	userRepository repositories.UserRepository
	postRepository repositories.PostRepository
}

// NewBookmarkHandler creates a new BookmarkHandler
func NewBookmarkHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository) *BookmarkHandler {
	return &BookmarkHandler{
		userRepository: userRepo,
		postRepository: postRepo,
	}
}

// RegisterBookmarkRoutes registers bookmark routes
func (h *BookmarkHandler) RegisterBookmarkRoutes(g *echo.Group) {
	g.PUT("/posts/:postId/bookmark", h.ToggleBookmark)
	g.GET("/bookmarks", h.GetBookmarkedPosts)
}

// ToggleBookmark adds or removes a post in the authenticated user's
// bookmark sequence. New bookmarks append at the end. Responds {status:1}
// for bookmarked, {status:0} for removed.
func (h *BookmarkHandler) ToggleBookmark(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	ctx := c.Request().Context()
	currentUser, err := h.userRepository.GetUserByUsername(ctx, claims.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if _, err := h.postRepository.GetPostByID(ctx, postID); err != nil {
		if err == repositories.ErrPostNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	status := 1
	if lo.Contains(currentUser.Bookmarks, postID) {
		currentUser.Bookmarks = lo.Without(currentUser.Bookmarks, postID)
		status = 0
	} else {
		currentUser.Bookmarks = append(currentUser.Bookmarks, postID)
	}

	if err := h.userRepository.SaveUser(ctx, currentUser); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"status": status})
}

// GetBookmarkedPosts lists the authenticated user's bookmarked posts in
// reverse bookmark order, paged by 10. Posts by blocked-or-blocking authors
// are filtered out before the page window is cut; they stay in the bookmark
// sequence and reappear if the block is lifted.
func (h *BookmarkHandler) GetBookmarkedPosts(c echo.Context) error {
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

	posts, err := h.postRepository.GetPostsByIDs(ctx, currentUser.Bookmarks)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	visible := lo.Filter(posts, func(p models.Post, _ int) bool {
		return !currentUser.BlocksOrBlockedBy(p.UserID)
	})
	visible = lo.Reverse(visible)

	return c.JSON(http.StatusOK, paginate(visible, getPageParam(c), postPageSize))
}
