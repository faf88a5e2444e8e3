package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/socio-irdl/socio/backend/internal/models"
	"github.com/socio-irdl/socio/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostHandler handles post CRUD HTTP requests
type PostHandler struct {
	postRepository         repositories.PostRepository
	userRepository         repositories.UserRepository
	activityRepository     repositories.ActivityRepository
	notificationRepository repositories.NotificationRepository
	uploadDir              string
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	activityRepo repositories.ActivityRepository,
	notifRepo repositories.NotificationRepository,
	uploadDir string,
) *PostHandler {
	return &PostHandler{
		postRepository:         postRepo,
		userRepository:         userRepo,
		activityRepository:     activityRepo,
		notificationRepository: notifRepo,
		uploadDir:              uploadDir,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:postId", h.GetSinglePost)
	g.PUT("/posts/:postId", h.EditPost)
	g.DELETE("/posts/:postId", h.DeletePost)
	g.GET("/users/:username/posts", h.GetUserPosts)
}

// CreatePost creates a post for the authenticated user, snapshotting the
// author's display fields onto the document. A post needs a description, an
// image, or both.
func (h *PostHandler) CreatePost(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByUsername(ctx, claims.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	description := c.FormValue("description")
	postImage, err := saveUploadedFile(c, "post_image", h.uploadDir)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error storing post image")
	}

	if description == "" && postImage == "" {
		return echo.NewHTTPError(http.StatusForbidden, "You must type a caption for your post")
	}

	post := &models.Post{
		UserID:      user.ID,
		Username:    user.Username,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Country:     user.Country,
		UserPicture: user.UserPicture,
		Description: description,
		PostImage:   postImage,
		Likes:       map[string]bool{},
	}

	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	return c.JSON(http.StatusCreated, post)
}

// GetSinglePost returns one post. Access is denied when a block
// relationship exists between the viewer and the post's author.
func (h *PostHandler) GetSinglePost(c echo.Context) error {
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

	viewerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid user identity")
	}
	viewer, err := h.userRepository.GetUserByID(ctx, viewerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if viewer.ID != post.UserID && viewer.BlocksOrBlockedBy(post.UserID) {
		return echo.NewHTTPError(http.StatusForbidden, "Access denied. You are blocked by this author or have blocked this author.")
	}

	return c.JSON(http.StatusOK, post)
}

// EditPost replaces the body and image of the authenticated user's post
func (h *PostHandler) EditPost(c echo.Context) error {
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
	if post.Username != claims.Username {
		return echo.NewHTTPError(http.StatusForbidden, "Only the author can edit a post")
	}

	description := c.FormValue("description")
	postImage, err := saveUploadedFile(c, "post_image", h.uploadDir)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error storing post image")
	}

	updated, err := h.postRepository.UpdatePost(ctx, postID, description, postImage)
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	return c.JSON(http.StatusOK, updated)
}

// DeletePost deletes the authenticated user's post and cascades: every
// notification and activity referencing the post is removed first.
func (h *PostHandler) DeletePost(c echo.Context) error {
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
	if post.Username != claims.Username {
		return echo.NewHTTPError(http.StatusForbidden, "Only the author can delete a post")
	}

	if err := h.notificationRepository.DeleteNotificationsByPost(postID.Hex()); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	if err := h.activityRepository.DeleteActivitiesByPost(postID.Hex()); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	if err := h.postRepository.DeletePost(ctx, postID); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Post deleted successfully!"})
}

// GetUserPosts lists one user's posts newest first, paged by 10
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	page := getPageParam(c)
	skip := int64((page - 1) * postPageSize)
	posts, err := h.postRepository.GetPostsByAuthor(ctx, user.ID, skip, postPageSize)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	return c.JSON(http.StatusOK, posts)
}
