package models

import "gorm.io/gorm"

// User represents an account identified by a university kerberos id.
// Password always holds a bcrypt hash, never the plain credential.
type User struct {
	gorm.Model
	KerberosID string `json:"kerberosId" gorm:"uniqueIndex;not null"`
	Password   string `json:"-" gorm:"not null"`
}
