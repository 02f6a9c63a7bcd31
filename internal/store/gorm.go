package store

import (
	"context"

	"github.com/emrgen/transmem/internal/model"
	"github.com/emrgen/transmem/internal/token"
	"gorm.io/gorm"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

func (g *GormStore) CreateProject(ctx context.Context, project *model.Project) error {
	return g.db.Create(project).Error
}

func (g *GormStore) GetProject(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	err := g.db.Where("id = ?", id).First(&project).Error
	return &project, err
}

func (g *GormStore) ListProjects(ctx context.Context) ([]*model.Project, error) {
	var projects []*model.Project
	err := g.db.Order("created_at asc").Find(&projects).Error
	return projects, err
}

func (g *GormStore) UpdateProject(ctx context.Context, project *model.Project) error {
	return g.db.Save(project).Error
}

func (g *GormStore) DeleteProject(ctx context.Context, id string) error {
	fileIDs := g.db.Model(&model.File{}).Select("id").Where("project_id = ?", id)
	if err := g.db.Where("file_id IN (?)", fileIDs).Delete(&model.Segment{}).Error; err != nil {
		return err
	}
	if err := g.db.Where("project_id = ?", id).Delete(&model.File{}).Error; err != nil {
		return err
	}
	if err := g.db.Where("project_id = ?", id).Delete(&model.Mount{}).Error; err != nil {
		return err
	}
	return g.db.Where("id = ?", id).Delete(&model.Project{}).Error
}

func (g *GormStore) CreateFile(ctx context.Context, file *model.File) error {
	return g.db.Create(file).Error
}

func (g *GormStore) GetFile(ctx context.Context, id string) (*model.File, error) {
	var file model.File
	err := g.db.Where("id = ?", id).First(&file).Error
	return &file, err
}

func (g *GormStore) ListFiles(ctx context.Context, projectID string) ([]*model.File, error) {
	var files []*model.File
	err := g.db.Where("project_id = ?", projectID).Order("created_at asc").Find(&files).Error
	return files, err
}

func (g *GormStore) DeleteFile(ctx context.Context, id string) error {
	if err := g.db.Where("file_id = ?", id).Delete(&model.Segment{}).Error; err != nil {
		return err
	}
	return g.db.Where("id = ?", id).Delete(&model.File{}).Error
}

// RecomputeFileStats is a pure function of the current segment rows. Statuses
// are normalized in Go before counting, a raw group-by over the status column
// would trust corrupted values.
func (g *GormStore) RecomputeFileStats(ctx context.Context, fileID string) (model.Stats, error) {
	var segments []*model.Segment
	err := g.db.Select("id", "status", "target_tokens").Where("file_id = ?", fileID).Find(&segments).Error
	if err != nil {
		return model.Stats{}, err
	}

	var stats model.Stats
	for _, segment := range segments {
		stats.Total++
		switch segment.NormalizedStatus() {
		case model.StatusNew:
			stats.New++
		case model.StatusDraft:
			stats.Draft++
		case model.StatusTranslated:
			stats.Translated++
		case model.StatusConfirmed:
			stats.Confirmed++
		case model.StatusReviewed:
			stats.Reviewed++
		}
	}

	err = g.db.Model(&model.File{}).Where("id = ?", fileID).Updates(map[string]interface{}{
		"total_segments":      stats.Total,
		"new_segments":        stats.New,
		"draft_segments":      stats.Draft,
		"translated_segments": stats.Translated,
		"confirmed_segments":  stats.Confirmed,
		"reviewed_segments":   stats.Reviewed,
	}).Error
	if err != nil {
		return model.Stats{}, err
	}

	return stats, nil
}

func (g *GormStore) InsertSegments(ctx context.Context, segments []*model.Segment) error {
	if len(segments) == 0 {
		return nil
	}
	return g.db.CreateInBatches(segments, 200).Error
}

func (g *GormStore) GetSegment(ctx context.Context, id string) (*model.Segment, error) {
	var segment model.Segment
	err := g.db.Where("id = ?", id).First(&segment).Error
	return &segment, err
}

func (g *GormStore) ListSegmentsPage(ctx context.Context, fileID string, offset, limit int) ([]*model.Segment, int64, error) {
	var total int64
	err := g.db.Model(&model.Segment{}).Where("file_id = ?", fileID).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var segments []*model.Segment
	err = g.db.Where("file_id = ?", fileID).Order("order_index asc").Offset(offset).Limit(limit).Find(&segments).Error
	return segments, total, err
}

func (g *GormStore) ListFileSegments(ctx context.Context, fileID string) ([]*model.Segment, error) {
	var segments []*model.Segment
	err := g.db.Where("file_id = ?", fileID).Order("order_index asc").Find(&segments).Error
	return segments, err
}

func (g *GormStore) UpdateSegment(ctx context.Context, segment *model.Segment) error {
	return g.db.Save(segment).Error
}

func (g *GormStore) ListProjectSegmentsByHash(ctx context.Context, projectID, srcHash, excludeSegmentID string) ([]*model.Segment, error) {
	fileIDs := g.db.Model(&model.File{}).Select("id").Where("project_id = ?", projectID)

	var segments []*model.Segment
	query := g.db.Where("src_hash = ?", srcHash).Where("file_id IN (?)", fileIDs)
	if excludeSegmentID != "" {
		query = query.Where("id <> ?", excludeSegmentID)
	}
	err := query.Order("updated_at desc").Find(&segments).Error
	if err != nil {
		return nil, err
	}

	return translated(segments), nil
}

func (g *GormStore) ListProjectTranslatedSegments(ctx context.Context, projectID, excludeSegmentID string) ([]*model.Segment, error) {
	fileIDs := g.db.Model(&model.File{}).Select("id").Where("project_id = ?", projectID)

	var segments []*model.Segment
	query := g.db.Where("file_id IN (?)", fileIDs)
	if excludeSegmentID != "" {
		query = query.Where("id <> ?", excludeSegmentID)
	}
	err := query.Order("updated_at desc").Find(&segments).Error
	if err != nil {
		return nil, err
	}

	return translated(segments), nil
}

// translated keeps only segments whose target carries non-whitespace text.
// Internal leverage never offers empty translations.
func translated(segments []*model.Segment) []*model.Segment {
	kept := make([]*model.Segment, 0, len(segments))
	for _, segment := range segments {
		target, err := token.Unmarshal(segment.TargetTokens)
		if err != nil {
			continue
		}
		if token.HasText(target) {
			kept = append(kept, segment)
		}
	}
	return kept
}

func (g *GormStore) CreateTM(ctx context.Context, tm *model.TM) error {
	return g.db.Create(tm).Error
}

func (g *GormStore) GetTM(ctx context.Context, id string) (*model.TM, error) {
	var tm model.TM
	err := g.db.Where("id = ?", id).First(&tm).Error
	return &tm, err
}

func (g *GormStore) ListTMs(ctx context.Context) ([]*model.TM, error) {
	var tms []*model.TM
	err := g.db.Order("created_at asc").Find(&tms).Error
	return tms, err
}

func (g *GormStore) DeleteTM(ctx context.Context, id string) error {
	if err := g.db.Where("tm_id = ?", id).Delete(&model.TMEntry{}).Error; err != nil {
		return err
	}
	if err := g.db.Where("tm_id = ?", id).Delete(&model.Mount{}).Error; err != nil {
		return err
	}
	return g.db.Where("id = ?", id).Delete(&model.TM{}).Error
}

func (g *GormStore) InsertTMEntries(ctx context.Context, entries []*model.TMEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return g.db.CreateInBatches(entries, 200).Error
}

func (g *GormStore) ListTMEntries(ctx context.Context, tmID string) ([]*model.TMEntry, error) {
	var entries []*model.TMEntry
	err := g.db.Where("tm_id = ?", tmID).Order("updated_at desc").Find(&entries).Error
	return entries, err
}

func (g *GormStore) ListTMEntriesByHash(ctx context.Context, tmID, srcHash string) ([]*model.TMEntry, error) {
	var entries []*model.TMEntry
	err := g.db.Where("tm_id = ? AND src_hash = ?", tmID, srcHash).Order("updated_at desc").Find(&entries).Error
	return entries, err
}

func (g *GormStore) FindTMEntry(ctx context.Context, tmID, sourceKey, targetText string) (*model.TMEntry, error) {
	var entry model.TMEntry
	err := g.db.Where("tm_id = ? AND source_key = ? AND target_text = ?", tmID, sourceKey, targetText).First(&entry).Error
	return &entry, err
}

func (g *GormStore) SaveTMEntry(ctx context.Context, entry *model.TMEntry) error {
	return g.db.Save(entry).Error
}

func (g *GormStore) CountTMEntries(ctx context.Context, tmID string) (int64, error) {
	var count int64
	err := g.db.Model(&model.TMEntry{}).Where("tm_id = ?", tmID).Count(&count).Error
	return count, err
}

func (g *GormStore) PruneTMEntries(ctx context.Context, tmID string, keep int) (int64, error) {
	var entries []*model.TMEntry
	err := g.db.Select("id", "source_key").Where("tm_id = ?", tmID).Order("updated_at desc").Find(&entries).Error
	if err != nil {
		return 0, err
	}

	seen := make(map[string]int)
	var stale []uint
	for _, entry := range entries {
		seen[entry.SourceKey]++
		if seen[entry.SourceKey] > keep {
			stale = append(stale, entry.ID)
		}
	}

	if len(stale) == 0 {
		return 0, nil
	}

	res := g.db.Where("id IN (?)", stale).Delete(&model.TMEntry{})
	return res.RowsAffected, res.Error
}

func (g *GormStore) CreateMount(ctx context.Context, mount *model.Mount) error {
	return g.db.Create(mount).Error
}

func (g *GormStore) GetMount(ctx context.Context, projectID, tmID string) (*model.Mount, error) {
	var mount model.Mount
	err := g.db.Where("project_id = ? AND tm_id = ?", projectID, tmID).First(&mount).Error
	return &mount, err
}

func (g *GormStore) ListMounts(ctx context.Context, projectID string) ([]*model.Mount, error) {
	var mounts []*model.Mount
	err := g.db.Where("project_id = ?", projectID).Order("priority asc").Find(&mounts).Error
	return mounts, err
}

func (g *GormStore) DeleteMount(ctx context.Context, projectID, tmID string) error {
	return g.db.Where("project_id = ? AND tm_id = ?", projectID, tmID).Delete(&model.Mount{}).Error
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}
