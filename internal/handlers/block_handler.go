package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/socio-irdl/socio/backend/internal/repositories"
)

// BlockHandler handles the block/unblock toggle
type BlockHandler struct {
	userRepository repositories.UserRepository
	chatRepository repositories.ChatRepository
}

// NewBlockHandler creates a new BlockHandler
func NewBlockHandler(userRepo repositories.UserRepository, chatRepo repositories.ChatRepository) *BlockHandler {
	return &BlockHandler{
		userRepository: userRepo,
		chatRepository: chatRepo,
	}
}

// RegisterBlockRoutes registers the block toggle route
func (h *BlockHandler) RegisterBlockRoutes(g *echo.Group) {
	g.PUT("/users/:username/block", h.ToggleBlock)
}

// ToggleBlock blocks or unblocks :username for the authenticated user.
// Blocking mirrors the block edge in both documents, severs any follow edge
// in either direction and disables the direct-message channel between the
// pair; unblocking removes the block edges and re-enables the channel. A
// prior follow state is not restored on unblock. Responds {status:1} for
// block, {status:0} for unblock.
func (h *BlockHandler) ToggleBlock(c echo.Context) error {
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
		return echo.NewHTTPError(http.StatusBadRequest, "You can't block yourself")
	}

	if currentUser.BlockedUsers.Has(targetUser.ID) {
		currentUser.BlockedUsers = currentUser.BlockedUsers.Remove(targetUser.ID)
		targetUser.BlockedBy = targetUser.BlockedBy.Remove(currentUser.ID)

		if err := h.setChatAllowed(c, currentUser.Username, targetUser.Username, true); err != nil {
			return err
		}

		if err := h.userRepository.SaveUser(ctx, currentUser); err != nil {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		if err := h.userRepository.SaveUser(ctx, targetUser); err != nil {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}

		return c.JSON(http.StatusOK, echo.Map{"status": 0})
	}

	currentUser.BlockedUsers = currentUser.BlockedUsers.Add(targetUser.ID)
	targetUser.BlockedBy = targetUser.BlockedBy.Add(currentUser.ID)

	// Entering a block state leaves the follow subgraph entirely: all four
	// follow-edge memberships between the pair are cleared.
	targetUser.Followers = targetUser.Followers.Remove(currentUser.ID)
	targetUser.Following = targetUser.Following.Remove(currentUser.ID)
	currentUser.Following = currentUser.Following.Remove(targetUser.ID)
	currentUser.Followers = currentUser.Followers.Remove(targetUser.ID)

	if err := h.setChatAllowed(c, currentUser.Username, targetUser.Username, false); err != nil {
		return err
	}

	if err := h.userRepository.SaveUser(ctx, currentUser); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	if err := h.userRepository.SaveUser(ctx, targetUser); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"status": 1})
}

func (h *BlockHandler) setChatAllowed(c echo.Context, a, b string, allow bool) error {
	ctx := c.Request().Context()
	chat, err := h.chatRepository.GetChatByMembers(ctx, a, b)
	if err != nil {
		if err == repositories.ErrChatNotFound {
			return nil
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.chatRepository.SetAllowMessage(ctx, chat.ID, allow); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return nil
}
