package store

import (
	"context"

	"github.com/emrgen/transmem/internal/model"
)

type Store interface {
	ProjectStore
	FileStore
	SegmentStore
	TMStore
	MountStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

type ProjectStore interface {
	// CreateProject creates a new project.
	CreateProject(ctx context.Context, project *model.Project) error
	// GetProject retrieves a project by ID.
	GetProject(ctx context.Context, id string) (*model.Project, error)
	// ListProjects retrieves all projects.
	ListProjects(ctx context.Context) ([]*model.Project, error)
	// UpdateProject updates a project.
	UpdateProject(ctx context.Context, project *model.Project) error
	// DeleteProject deletes a project and its files, segments and mounts.
	DeleteProject(ctx context.Context, id string) error
}

type FileStore interface {
	// CreateFile creates a new file row.
	CreateFile(ctx context.Context, file *model.File) error
	// GetFile retrieves a file by ID.
	GetFile(ctx context.Context, id string) (*model.File, error)
	// ListFiles retrieves the files of a project.
	ListFiles(ctx context.Context, projectID string) ([]*model.File, error)
	// DeleteFile deletes a file and its segments.
	DeleteFile(ctx context.Context, id string) error
	// RecomputeFileStats recomputes the file's aggregate counters from the
	// current segment rows and persists them on the file row.
	RecomputeFileStats(ctx context.Context, fileID string) (model.Stats, error)
}

type SegmentStore interface {
	// InsertSegments inserts segment rows in bulk.
	InsertSegments(ctx context.Context, segments []*model.Segment) error
	// GetSegment retrieves a segment by ID.
	GetSegment(ctx context.Context, id string) (*model.Segment, error)
	// ListSegmentsPage retrieves one page of a file's segments in order.
	ListSegmentsPage(ctx context.Context, fileID string, offset, limit int) ([]*model.Segment, int64, error)
	// ListFileSegments retrieves all segments of a file in order.
	ListFileSegments(ctx context.Context, fileID string) ([]*model.Segment, error)
	// UpdateSegment persists a segment row.
	UpdateSegment(ctx context.Context, segment *model.Segment) error
	// ListProjectSegmentsByHash retrieves the project's segments sharing a
	// source hash, excluding one segment (the query itself).
	ListProjectSegmentsByHash(ctx context.Context, projectID, srcHash, excludeSegmentID string) ([]*model.Segment, error)
	// ListProjectTranslatedSegments retrieves the project's segments that
	// carry a target, excluding one segment.
	ListProjectTranslatedSegments(ctx context.Context, projectID, excludeSegmentID string) ([]*model.Segment, error)
}

type TMStore interface {
	// CreateTM creates a new translation memory.
	CreateTM(ctx context.Context, tm *model.TM) error
	// GetTM retrieves a translation memory by ID.
	GetTM(ctx context.Context, id string) (*model.TM, error)
	// ListTMs retrieves all translation memories.
	ListTMs(ctx context.Context) ([]*model.TM, error)
	// DeleteTM deletes a translation memory, its entries and its mounts.
	DeleteTM(ctx context.Context, id string) error
	// InsertTMEntries inserts entries in bulk.
	InsertTMEntries(ctx context.Context, entries []*model.TMEntry) error
	// ListTMEntries retrieves all entries of a TM.
	ListTMEntries(ctx context.Context, tmID string) ([]*model.TMEntry, error)
	// ListTMEntriesByHash retrieves the entries of a TM sharing a source hash.
	ListTMEntriesByHash(ctx context.Context, tmID, srcHash string) ([]*model.TMEntry, error)
	// FindTMEntry retrieves the entry with the given source key and target
	// text, if any. Used by commit to upsert instead of duplicating.
	FindTMEntry(ctx context.Context, tmID, sourceKey, targetText string) (*model.TMEntry, error)
	// SaveTMEntry creates or updates a single entry.
	SaveTMEntry(ctx context.Context, entry *model.TMEntry) error
	// CountTMEntries counts the entries of a TM.
	CountTMEntries(ctx context.Context, tmID string) (int64, error)
	// PruneTMEntries keeps the most recent keep entries per source key of a
	// TM and deletes the rest. Returns the number of deleted rows.
	PruneTMEntries(ctx context.Context, tmID string, keep int) (int64, error)
}

type MountStore interface {
	// CreateMount mounts a TM to a project.
	CreateMount(ctx context.Context, mount *model.Mount) error
	// GetMount retrieves the mount of a TM in a project.
	GetMount(ctx context.Context, projectID, tmID string) (*model.Mount, error)
	// ListMounts retrieves a project's mounts ordered by priority.
	ListMounts(ctx context.Context, projectID string) ([]*model.Mount, error)
	// DeleteMount unmounts a TM from a project.
	DeleteMount(ctx context.Context, projectID, tmID string) error
}
