package server

import (
	"errors"
	"net/http"
	"strconv"

	"morsechat/internal/auth"
	"morsechat/internal/morse"
	"morsechat/internal/mw"
	"morsechat/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler 聚合所有 HTTP handler，依赖注入 service 层。
type Handler struct {
	accountSvc *service.AccountService
	requestSvc *service.RequestService
	msgSvc     *service.MessageService
}

func NewHandler(accountSvc *service.AccountService, requestSvc *service.RequestService, msgSvc *service.MessageService) *Handler {
	return &Handler{accountSvc: accountSvc, requestSvc: requestSvc, msgSvc: msgSvc}
}

// errorStatus 把业务错误映射为 HTTP 状态码，未知错误返回 500。
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrInvalidDecision),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrInvalidPattern),
		errors.Is(err, service.ErrSelfRequestForbidden),
		errors.Is(err, service.ErrSelfMessageForbidden):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotRequestTarget),
		errors.Is(err, service.ErrChatNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrRequestNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateName),
		errors.Is(err, service.ErrDuplicateRequest),
		errors.Is(err, service.ErrRequestNotPending):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error, op string) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		mw.Logger(c).Error().Err(err).Uint("account_id", auth.GetAccountID(c)).Msg(op)
		c.JSON(status, gin.H{"error": op + " failed"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func actor(c *gin.Context) service.Actor {
	return service.Actor{AccountID: auth.GetAccountID(c)}
}

func idParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

type credentials struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Register 处理账号注册请求。
func (h *Handler) Register(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	acc, err := h.accountSvc.Register(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		writeError(c, err, "register")
		return
	}
	c.JSON(http.StatusOK, acc)
}

// Login 处理登录请求。
func (h *Handler) Login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	result, err := h.accountSvc.Login(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		writeError(c, err, "login")
		return
	}
	c.JSON(http.StatusOK, result)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshToken 处理 token 刷新请求。
func (h *Handler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	result, err := h.accountSvc.RefreshTokens(c.Request.Context(), req.RefreshToken)
	if err != nil {
		mw.Logger(c).Warn().Err(err).Msg("refresh token")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Logout 吊销 refresh token。
func (h *Handler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if err := h.accountSvc.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		writeError(c, err, "logout")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListAccounts 返回除自己以外的账号列表。
func (h *Handler) ListAccounts(c *gin.Context) {
	accs, err := h.accountSvc.List(c.Request.Context(), actor(c))
	if err != nil {
		writeError(c, err, "list accounts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accs})
}

// SendChatRequest 向目标账号发起聊天请求。
func (h *Handler) SendChatRequest(c *gin.Context) {
	var req struct {
		TargetID uint `json:"target_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.TargetID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	out, err := h.requestSvc.Create(c.Request.Context(), actor(c), req.TargetID)
	if err != nil {
		writeError(c, err, "send chat request")
		return
	}
	c.JSON(http.StatusCreated, out)
}

// RespondToChatRequest 接受或拒绝发给自己的聊天请求。
func (h *Handler) RespondToChatRequest(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}
	var req struct {
		Decision string `json:"decision"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	out, err := h.requestSvc.Respond(c.Request.Context(), actor(c), id, service.Decision(req.Decision))
	if err != nil {
		writeError(c, err, "respond to chat request")
		return
	}
	c.JSON(http.StatusOK, out)
}

// ListIncomingRequests 返回发给自己的请求。
func (h *Handler) ListIncomingRequests(c *gin.Context) {
	out, err := h.requestSvc.Incoming(c.Request.Context(), actor(c))
	if err != nil {
		writeError(c, err, "list incoming requests")
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": out})
}

// ListOutgoingRequests 返回自己发出的请求。
func (h *Handler) ListOutgoingRequests(c *gin.Context) {
	out, err := h.requestSvc.Outgoing(c.Request.Context(), actor(c))
	if err != nil {
		writeError(c, err, "list outgoing requests")
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": out})
}

// SendMessage 向 :id 账号发送消息，正文为摩尔斯码或待编码的明文。
func (h *Handler) SendMessage(c *gin.Context) {
	to, ok := idParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}
	var req struct {
		Morse string `json:"morse"`
		Text  string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	msg, err := h.msgSvc.Send(c.Request.Context(), actor(c), service.SendInput{RecipientID: to, Morse: req.Morse, Text: req.Text})
	if err != nil {
		writeError(c, err, "send message")
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// ListMessages 返回与 :id 账号之间的全部消息。
func (h *Handler) ListMessages(c *gin.Context) {
	with, ok := idParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}
	msgs, err := h.msgSvc.ListWith(c.Request.Context(), actor(c), with)
	if err != nil {
		writeError(c, err, "list messages")
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

type tableRow struct {
	Char string `json:"char"`
	Code string `json:"code"`
}

// MorseTable 返回编码表，顺序与展示顺序一致。
func (h *Handler) MorseTable(c *gin.Context) {
	entries := morse.Table()
	rows := make([]tableRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, tableRow{Char: string(e.Char), Code: e.Code})
	}
	c.JSON(http.StatusOK, gin.H{"table": rows})
}

// Encode 把明文编码为摩尔斯码。
func (h *Handler) Encode(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"morse": morse.Encode(req.Text)})
}

// Decode 把摩尔斯码解码为明文。
func (h *Handler) Decode(c *gin.Context) {
	var req struct {
		Morse string `json:"morse"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": morse.Decode(req.Morse)})
}
