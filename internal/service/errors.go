package service

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"
)

// The error taxonomy of the engine. Every mutating operation either fully
// commits (segment + aggregate together) or surfaces one of these and leaves
// prior state intact. Tag mismatches and degraded lookups are result flags,
// never errors.

func notFound(kind, id string) error {
	return status.Errorf(codes.NotFound, "%s %s not found", kind, id)
}

func permissionDenied(msg string) error {
	return status.Error(codes.PermissionDenied, msg)
}

func invalidKind(msg string) error {
	return status.Error(codes.FailedPrecondition, msg)
}

func alreadyExists(msg string) error {
	return status.Error(codes.AlreadyExists, msg)
}

// asNotFound maps a store read error to the taxonomy, keeping unexpected
// storage failures distinct from missing rows.
func asNotFound(err error, kind, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(kind, id)
	}
	return err
}
