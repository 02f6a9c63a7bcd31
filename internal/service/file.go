package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emrgen/transmem/internal/model"
	"github.com/emrgen/transmem/internal/store"
	"github.com/emrgen/transmem/internal/token"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NewFileService creates a new FileService.
func NewFileService(store store.Store) *FileService {
	return &FileService{
		store: store,
	}
}

// FileService imports files into projects and reads their segments. Format
// conversion proper (XLIFF/XLSX) lives with the desktop shell; the engine
// ingests plain text with inline markup, one segment per non-empty line.
type FileService struct {
	store store.Store
}

type FileView struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Name      string    `json:"name"`
	Path      string    `json:"path,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	TotalSegments      int64 `json:"totalSegments"`
	NewSegments        int64 `json:"newSegments"`
	DraftSegments      int64 `json:"draftSegments"`
	TranslatedSegments int64 `json:"translatedSegments"`
	ConfirmedSegments  int64 `json:"confirmedSegments"`
	ReviewedSegments   int64 `json:"reviewedSegments"`
}

type SegmentView struct {
	ID            string        `json:"id"`
	FileID        string        `json:"fileId"`
	OrderIndex    int           `json:"orderIndex"`
	SourceTokens  []token.Token `json:"sourceTokens"`
	TargetTokens  []token.Token `json:"targetTokens"`
	Status        model.Status  `json:"status"`
	TagsSignature string        `json:"tagsSignature"`
	MatchKey      string        `json:"matchKey"`
	SrcHash       string        `json:"srcHash"`
	Meta          string        `json:"meta,omitempty"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type AddFileOptions struct {
	// Name overrides the file name derived from the path.
	Name string `json:"name,omitempty"`
}

// AddToProject imports a file: the content is segmented, tokenized and
// inserted in one transaction with exactly one aggregate recompute for the
// whole batch.
func (f *FileService) AddToProject(ctx context.Context, projectID, path string, options AddFileOptions) (*FileView, error) {
	project, err := f.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, asNotFound(err, "project", projectID)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	name := options.Name
	if name == "" {
		name = filepath.Base(path)
	}

	file := &model.File{
		ID:        uuid.New().String(),
		ProjectID: project.ID,
		Name:      name,
		Path:      path,
	}

	segments, err := segmentContent(string(content), file.ID, project.SrcLang)
	if err != nil {
		return nil, err
	}

	err = f.store.Transaction(ctx, func(tx store.Store) error {
		if err := tx.CreateFile(ctx, file); err != nil {
			return err
		}
		if err := tx.InsertSegments(ctx, segments); err != nil {
			return err
		}

		// one recompute per bulk call, not per row
		stats, err := tx.RecomputeFileStats(ctx, file.ID)
		if err != nil {
			return err
		}
		file.ApplyStats(stats)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.Infof("imported %s with %d segments into project %s", name, len(segments), project.ID)

	return fileView(file), nil
}

// segmentContent splits raw content into segment rows, one per non-empty
// line, deriving the match columns from the source tokens.
func segmentContent(content, fileID, srcLang string) ([]*model.Segment, error) {
	var segments []*model.Segment

	order := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		tokens := token.Tokenize(line)
		source, err := token.Marshal(tokens)
		if err != nil {
			return nil, err
		}

		matchKey := token.MatchKey(tokens, srcLang)
		segments = append(segments, &model.Segment{
			ID:            uuid.New().String(),
			FileID:        fileID,
			OrderIndex:    order,
			SourceTokens:  source,
			TargetTokens:  "[]",
			Status:        string(model.StatusNew),
			TagsSignature: token.TagsSignature(tokens),
			MatchKey:      matchKey,
			SrcHash:       token.Hash(matchKey),
		})
		order++
	}

	return segments, nil
}

func (f *FileService) Get(ctx context.Context, id string) (*FileView, error) {
	file, err := f.store.GetFile(ctx, id)
	if err != nil {
		return nil, asNotFound(err, "file", id)
	}
	return fileView(file), nil
}

func (f *FileService) List(ctx context.Context, projectID string) ([]*FileView, error) {
	files, err := f.store.ListFiles(ctx, projectID)
	if err != nil {
		return nil, err
	}

	views := make([]*FileView, 0, len(files))
	for _, file := range files {
		views = append(views, fileView(file))
	}
	return views, nil
}

func (f *FileService) Delete(ctx context.Context, id string) error {
	if _, err := f.store.GetFile(ctx, id); err != nil {
		return asNotFound(err, "file", id)
	}

	return f.store.Transaction(ctx, func(tx store.Store) error {
		return tx.DeleteFile(ctx, id)
	})
}

// GetSegmentsPage reads one page of a file's segments in document order.
func (f *FileService) GetSegmentsPage(ctx context.Context, fileID string, offset, limit int) ([]*SegmentView, int64, error) {
	if _, err := f.store.GetFile(ctx, fileID); err != nil {
		return nil, 0, asNotFound(err, "file", fileID)
	}

	segments, total, err := f.store.ListSegmentsPage(ctx, fileID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	views := make([]*SegmentView, 0, len(segments))
	for _, segment := range segments {
		view, err := segmentView(segment)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, view)
	}

	return views, total, nil
}

type ExportOptions struct {
	// Separator between source and target, tab by default.
	Separator string `json:"separator,omitempty"`
}

// Export writes the file's segments as delimited bilingual text. Refuses to
// overwrite an existing output unless force is set.
func (f *FileService) Export(ctx context.Context, fileID, outputPath string, options ExportOptions, force bool) error {
	if _, err := f.store.GetFile(ctx, fileID); err != nil {
		return asNotFound(err, "file", fileID)
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return alreadyExists(fmt.Sprintf("output %s exists, pass force to overwrite", outputPath))
		}
	}

	segments, err := f.store.ListFileSegments(ctx, fileID)
	if err != nil {
		return err
	}

	separator := options.Separator
	if separator == "" {
		separator = "\t"
	}

	var b strings.Builder
	for _, segment := range segments {
		view, err := segmentView(segment)
		if err != nil {
			return err
		}
		b.WriteString(token.Render(view.SourceTokens))
		b.WriteString(separator)
		b.WriteString(token.Render(view.TargetTokens))
		b.WriteString("\n")
	}

	return os.WriteFile(outputPath, []byte(b.String()), 0644)
}

func fileView(file *model.File) *FileView {
	return &FileView{
		ID:                 file.ID,
		ProjectID:          file.ProjectID,
		Name:               file.Name,
		Path:               file.Path,
		CreatedAt:          file.CreatedAt,
		UpdatedAt:          file.UpdatedAt,
		TotalSegments:      file.TotalSegments,
		NewSegments:        file.NewSegments,
		DraftSegments:      file.DraftSegments,
		TranslatedSegments: file.TranslatedSegments,
		ConfirmedSegments:  file.ConfirmedSegments,
		ReviewedSegments:   file.ReviewedSegments,
	}
}

// segmentView decodes a segment row for callers. The status is normalized on
// every read, a stored value is never exposed verbatim.
func segmentView(segment *model.Segment) (*SegmentView, error) {
	source, err := token.Unmarshal(segment.SourceTokens)
	if err != nil {
		return nil, err
	}
	target, err := token.Unmarshal(segment.TargetTokens)
	if err != nil {
		return nil, err
	}

	return &SegmentView{
		ID:            segment.ID,
		FileID:        segment.FileID,
		OrderIndex:    segment.OrderIndex,
		SourceTokens:  source,
		TargetTokens:  target,
		Status:        segment.NormalizedStatus(),
		TagsSignature: segment.TagsSignature,
		MatchKey:      segment.MatchKey,
		SrcHash:       segment.SrcHash,
		Meta:          segment.Meta,
		UpdatedAt:     segment.UpdatedAt,
	}, nil
}
