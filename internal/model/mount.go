package model

import "gorm.io/gorm"

type Permission string

const (
	PermissionRead      Permission = "read"
	PermissionReadWrite Permission = "readwrite"
)

// Mount grants a project access to a TM. Lower priority is consulted first
// on ties. A project never mounts the same TM twice.
type Mount struct {
	gorm.Model
	ProjectID  string `gorm:"uuid;not null;uniqueIndex:idx_project_tm"`
	TMID       string `gorm:"uuid;not null;uniqueIndex:idx_project_tm"`
	Priority   int    `gorm:"not null"`
	Permission string `gorm:"not null"`
}
