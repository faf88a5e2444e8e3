package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"github.com/socio-irdl/socio/backend/internal/models"
	"github.com/socio-irdl/socio/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler handles profile and people-listing HTTP requests
type UserHandler struct {
	userRepository repositories.UserRepository
	postRepository repositories.PostRepository
	uploadDir      string
	publicBaseURL  string
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository, uploadDir, publicBaseURL string) *UserHandler {
	return &UserHandler{
		userRepository: userRepo,
		postRepository: postRepo,
		uploadDir:      uploadDir,
		publicBaseURL:  publicBaseURL,
	}
}

// RegisterUserRoutes registers profile and people-listing routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/:username", h.GetUser)
	g.PUT("/profile", h.UpdateProfile)
	g.PUT("/profile/password", h.UpdatePassword)
	g.PUT("/profile/picture", h.UpdatePicture)
	g.GET("/users/:username/followers", h.GetFollowers)
	g.GET("/users/:username/following", h.GetFollowing)
	g.GET("/users/:username/is-following", h.IsFollowing)
	g.GET("/find-friends", h.GetFindFriends)
	g.GET("/suggested-users", h.GetSuggestedUsers)
	g.GET("/blocked-users", h.GetBlockedUsers)
}

// GetUser returns a user's profile. Access is denied when a block
// relationship exists between the viewer and the profile in either
// direction.
func (h *UserHandler) GetUser(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	viewerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid user identity")
	}
	if user.ID != viewerID && user.BlocksOrBlockedBy(viewerID) {
		return echo.NewHTTPError(http.StatusForbidden, "Access denied. You are blocked by this user or have blocked this user.")
	}

	return c.JSON(http.StatusOK, user)
}

// UpdateProfile edits the authenticated user's profile after confirming the
// current password, then refreshes the author snapshot on their posts.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByUsername(ctx, claims.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.ConfirmPassword)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid password")
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Country = req.Country
	user.Bio = req.Bio
	user.Occupation = req.Occupation

	if err := h.userRepository.SaveUser(ctx, user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.postRepository.RefreshAuthorSnapshot(ctx, user); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	return c.JSON(http.StatusOK, user)
}

// UpdatePassword changes the authenticated user's password after verifying
// the current one
func (h *UserHandler) UpdatePassword(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByUsername(ctx, claims.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Incorrect current password")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}
	user.Password = string(hashed)

	if err := h.userRepository.SaveUser(ctx, user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Password changed successfully"})
}

// UpdatePicture stores an uploaded profile picture, saves its URL on the
// user and refreshes the snapshot on their posts
func (h *UserHandler) UpdatePicture(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	filename, err := saveUploadedFile(c, "picture", h.uploadDir)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error storing profile picture")
	}
	if filename == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "No picture uploaded")
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByUsername(ctx, claims.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	user.UserPicture = h.publicBaseURL + "/profile_pics/" + filename
	if err := h.userRepository.SaveUser(ctx, user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.postRepository.RefreshAuthorSnapshot(ctx, user); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"updated_image": user.UserPicture})
}

// GetFollowers lists a user's followers as summaries, paged by 20
func (h *UserHandler) GetFollowers(c echo.Context) error {
	return h.listRelated(c, c.Param("username"), func(u *models.User) []primitive.ObjectID { return u.Followers })
}

// GetFollowing lists the users a user follows as summaries, paged by 20
func (h *UserHandler) GetFollowing(c echo.Context) error {
	return h.listRelated(c, c.Param("username"), func(u *models.User) []primitive.ObjectID { return u.Following })
}

// GetBlockedUsers lists the users the authenticated user has blocked,
// paged by 20
func (h *UserHandler) GetBlockedUsers(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return h.listRelated(c, claims.Username, func(u *models.User) []primitive.ObjectID { return u.BlockedUsers })
}

func (h *UserHandler) listRelated(c echo.Context, username string, pick func(*models.User) []primitive.ObjectID) error {
	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByUsername(ctx, username)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	related, err := h.userRepository.GetUsersByIDs(ctx, pick(user))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	summaries := lo.Map(related, func(u models.User, _ int) models.UserSummary {
		return u.ToSummary()
	})
	return c.JSON(http.StatusOK, paginate(summaries, getPageParam(c), peoplePageSize))
}

// IsFollowing reports whether the authenticated user follows :username
func (h *UserHandler) IsFollowing(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	current, err := h.userRepository.GetUserByUsername(ctx, claims.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	target, err := h.userRepository.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"is_following": current.Following.Has(target.ID)})
}

// GetFindFriends lists candidate users to follow: everyone except self,
// blocked-or-blocking users and already-followed users, paged by 20
func (h *UserHandler) GetFindFriends(c echo.Context) error {
	return h.listCandidates(c, 0, peoplePageSize)
}

// GetSuggestedUsers returns up to 8 follow suggestions from the same
// candidate pool, unpaged
func (h *UserHandler) GetSuggestedUsers(c echo.Context) error {
	return h.listCandidates(c, 8, 0)
}

func (h *UserHandler) listCandidates(c echo.Context, limit int64, pageSize int) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	current, err := h.userRepository.GetUserByUsername(ctx, claims.Username)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	exclude := append(current.BlockedEitherWay(), current.Following...)
	exclude = append(exclude, current.ID)

	candidates, err := h.userRepository.FindUsersExcluding(ctx, exclude, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	summaries := lo.Map(candidates, func(u models.User, _ int) models.UserSummary {
		return u.ToSummary()
	})
	if pageSize > 0 {
		summaries = paginate(summaries, getPageParam(c), pageSize)
	}
	return c.JSON(http.StatusOK, summaries)
}
