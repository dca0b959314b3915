package service

// Actor is the authenticated account an operation runs on behalf of.
type Actor struct {
	AccountID uint
}
