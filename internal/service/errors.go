package service

import "errors"

// 业务错误，由 server.writeError 统一映射为 HTTP 状态码。
var (
	ErrDuplicateName      = errors.New("name taken")
	ErrInvalidName        = errors.New("invalid name")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")

	ErrSelfRequestForbidden = errors.New("cannot request a chat with yourself")
	ErrDuplicateRequest     = errors.New("chat request already exists")
	ErrRequestNotFound      = errors.New("chat request not found")
	ErrNotRequestTarget     = errors.New("chat request is addressed to another account")
	ErrRequestNotPending    = errors.New("chat request already answered")
	ErrInvalidDecision      = errors.New("decision must be accept or reject")

	ErrSelfMessageForbidden = errors.New("cannot message yourself")
	ErrChatNotAuthorized    = errors.New("chat not authorized")
	ErrEmptyMessage         = errors.New("message is empty")
	ErrInvalidPattern       = errors.New("message must be dots, dashes and / separated by spaces")
)
