package domain

import "errors"

// Common domain errors
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrOldPasswordWrong   = errors.New("old password is incorrect")
	ErrCannotActOnSelf    = errors.New("cannot perform this action on your own account")
)

// Role errors
var (
	ErrRoleNotFound        = errors.New("role does not exist")
	ErrRoleAlreadyAssigned = errors.New("user already has this role")
	ErrRoleNotAssigned     = errors.New("user does not have this role")
)

// Book errors
var (
	ErrBookNotFound     = errors.New("book not found")
	ErrBookNotAvailable = errors.New("book is not available")
	ErrBookHasOrders    = errors.New("book has existing orders and cannot be deleted")
)

// Order errors
var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidOrderStatus = errors.New("invalid order status transition")
)
