// Package policy 判断一个账号能否给另一个账号发消息。
package policy

import "context"

// DefaultPrivilegedID 是未配置时免于聊天请求限制的账号。
const DefaultPrivilegedID uint = 1

// RequestLookup 查询两个账号之间（任一方向）是否有已接受的聊天请求。
type RequestLookup interface {
	HasAccepted(ctx context.Context, a, b uint) (bool, error)
}

// Policy 在每条消息写入前做判断，本身不保存任何状态，每次发送都要重新计算。
type Policy struct {
	PrivilegedID uint
}

func New(privilegedID uint) Policy {
	return Policy{PrivilegedID: privilegedID}
}

// IsPrivileged 判断 id 是否为特权账号，PrivilegedID 为 0 表示没有特权账号。
func (p Policy) IsPrivileged(id uint) bool {
	return p.PrivilegedID != 0 && id == p.PrivilegedID
}

// CanSend 判断 senderID 能否给 recipientID 发消息。特权账号收发都不受限制，
// 其他账号需要双方之间有已接受的请求。自己给自己发的情况由调用方提前拦截。
func (p Policy) CanSend(ctx context.Context, senderID, recipientID uint, lookup RequestLookup) (bool, error) {
	if p.IsPrivileged(senderID) || p.IsPrivileged(recipientID) {
		return true, nil
	}
	return lookup.HasAccepted(ctx, senderID, recipientID)
}
