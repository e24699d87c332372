package domain

import "time"

// RoleAdmin is the only role a session token can carry.
const RoleAdmin = "admin"

// AdminSession is the verified content of an admin session token.
type AdminSession struct {
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
