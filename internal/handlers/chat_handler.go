package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/socio-irdl/socio/backend/internal/models"
	"github.com/socio-irdl/socio/backend/internal/repositories"
	"github.com/socio-irdl/socio/backend/internal/ws"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatHandler handles direct-message HTTP requests. Live delivery goes
// through the websocket hub when the recipient is online.
type ChatHandler struct {
	chatRepository repositories.ChatRepository
	userRepository repositories.UserRepository
	hub            *ws.Hub
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatRepo repositories.ChatRepository, userRepo repositories.UserRepository, hub *ws.Hub) *ChatHandler {
	return &ChatHandler{
		chatRepository: chatRepo,
		userRepository: userRepo,
		hub:            hub,
	}
}

// RegisterChatRoutes registers chat routes
func (h *ChatHandler) RegisterChatRoutes(g *echo.Group) {
	g.GET("/chats", h.GetChats)
	g.POST("/chats/:username", h.GetOrCreateChat)
	g.GET("/chats/:chatId/messages", h.GetMessages)
	g.POST("/chats/:chatId/messages", h.SendMessage)
	g.GET("/users/:username/online", h.GetPresence)
	g.GET("/chat/ws", h.hub.Serve)
}

// GetPresence reports whether :username currently has a chat socket open
func (h *ChatHandler) GetPresence(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return c.JSON(http.StatusOK, echo.Map{"online": h.hub.IsOnline(c.Param("username"))})
}

// GetChats lists the authenticated user's chats, most recently active first
func (h *ChatHandler) GetChats(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	chats, err := h.chatRepository.GetChatsByMember(c.Request().Context(), claims.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, chats)
}

// GetOrCreateChat returns the chat with :username, creating it on first
// contact. Creation is refused while a block relationship exists between
// the pair.
func (h *ChatHandler) GetOrCreateChat(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	currentUser, err := h.userRepository.GetUserByUsername(ctx, claims.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	partner, err := h.userRepository.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if partner.ID == currentUser.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "You can't chat with yourself")
	}

	chat, err := h.chatRepository.GetChatByMembers(ctx, currentUser.Username, partner.Username)
	if err == nil {
		return c.JSON(http.StatusOK, chat)
	}
	if err != repositories.ErrChatNotFound {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if currentUser.BlocksOrBlockedBy(partner.ID) {
		return echo.NewHTTPError(http.StatusForbidden, "Access denied. You are blocked by this user or have blocked this user.")
	}

	chat = &models.Chat{
		Members:      []string{currentUser.Username, partner.Username},
		AllowMessage: true,
	}
	if err := h.chatRepository.CreateChat(ctx, chat); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	return c.JSON(http.StatusCreated, chat)
}

// GetMessages lists a chat's messages oldest first, paged by 10 from the
// page query parameter
func (h *ChatHandler) GetMessages(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	chat, err := h.memberChat(c, claims.Username)
	if err != nil {
		return err
	}

	page := getPageParam(c)
	skip := int64((page - 1) * postPageSize)
	messages, err := h.chatRepository.GetMessagesByChat(c.Request().Context(), chat.ID, skip, postPageSize)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, messages)
}

// SendMessage appends a message to a chat the authenticated user belongs
// to. Messaging is rejected while the channel is disabled by a block. The
// message is pushed to the other member's socket when they are online.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	chat, err := h.memberChat(c, claims.Username)
	if err != nil {
		return err
	}
	if !chat.AllowMessage {
		return echo.NewHTTPError(http.StatusForbidden, "Messaging is disabled for this chat")
	}

	message := &models.Message{
		ChatID: chat.ID,
		Sender: claims.Username,
		Text:   req.Text,
	}
	if err := h.chatRepository.CreateMessage(c.Request().Context(), message); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	h.hub.Send(chat.OtherMember(claims.Username), ws.Event{Type: "message", Payload: message})

	return c.JSON(http.StatusCreated, message)
}

func (h *ChatHandler) memberChat(c echo.Context, username string) (*models.Chat, error) {
	chatID, err := primitive.ObjectIDFromHex(c.Param("chatId"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid chat ID")
	}

	chat, err := h.chatRepository.GetChatByID(c.Request().Context(), chatID)
	if err != nil {
		if err == repositories.ErrChatNotFound {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Chat not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !chat.HasMember(username) {
		return nil, echo.NewHTTPError(http.StatusForbidden, "You are not a member of this chat")
	}
	return chat, nil
}
