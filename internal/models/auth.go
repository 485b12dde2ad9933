package models

import "github.com/golang-jwt/jwt/v5"

// ServiceRole classifies a caller of the timetable API.
type ServiceRole string

const (
	RoleAdmin    ServiceRole = "admin"
	RoleOperator ServiceRole = "operator"
	RoleViewer   ServiceRole = "viewer"
)

// ServiceClaims is the JWT payload issued to service callers. There is no
// user directory behind this token: a caller is authenticated by possession
// of a signed token naming its role, not by a session tied to a user record.
type ServiceClaims struct {
	Subject string      `json:"sub"`
	Role    ServiceRole `json:"role"`
	jwt.RegisteredClaims
}
