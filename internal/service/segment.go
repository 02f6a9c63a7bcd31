package service

import (
	"context"

	"github.com/emrgen/transmem/internal/cache"
	"github.com/emrgen/transmem/internal/model"
	"github.com/emrgen/transmem/internal/queue"
	"github.com/emrgen/transmem/internal/store"
	"github.com/emrgen/transmem/internal/token"
	"github.com/sirupsen/logrus"
)

// NewSegmentService creates a new SegmentService. Cache and queue may be nil,
// both are best-effort collaborators outside the transaction.
func NewSegmentService(store store.Store, matchCache *cache.MatchCache, queue queue.SegmentQueue) *SegmentService {
	return &SegmentService{
		store: store,
		cache: matchCache,
		queue: queue,
	}
}

// SegmentService owns the segment update contract: target tokens, status and
// the file's aggregate counters commit together or not at all.
type SegmentService struct {
	store store.Store
	cache *cache.MatchCache
	queue queue.SegmentQueue
}

type UpdateTargetRequest struct {
	SegmentID    string        `json:"segmentId"`
	TargetTokens []token.Token `json:"targetTokens"`
	Status       string        `json:"status"`
}

type UpdateTargetResponse struct {
	Segment *SegmentView `json:"segment"`
	// TagMismatch flags a target whose tag skeleton disagrees with the
	// source. The write succeeded regardless, translators save partial work;
	// the QA layer surfaces the flag.
	TagMismatch bool `json:"tagMismatch"`
}

// UpdateTarget persists new target tokens and status for a segment and
// recomputes the owning file's aggregates inside the same transaction. No
// reader observes the segment row updated without the aggregate or vice
// versa.
func (s *SegmentService) UpdateTarget(ctx context.Context, request *UpdateTargetRequest) (*UpdateTargetResponse, error) {
	var segment *model.Segment
	var projectID string
	var mismatch bool

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		segment, err = tx.GetSegment(ctx, request.SegmentID)
		if err != nil {
			return asNotFound(err, "segment", request.SegmentID)
		}

		file, err := tx.GetFile(ctx, segment.FileID)
		if err != nil {
			return asNotFound(err, "file", segment.FileID)
		}
		projectID = file.ProjectID

		target, err := token.Marshal(request.TargetTokens)
		if err != nil {
			return err
		}

		mismatch = token.TagsSignature(request.TargetTokens) != segment.TagsSignature
		status := model.NormalizeStatus(request.Status, token.HasText(request.TargetTokens))

		segment.TargetTokens = target
		segment.Status = string(status)
		if err := tx.UpdateSegment(ctx, segment); err != nil {
			return err
		}

		_, err = tx.RecomputeFileStats(ctx, segment.FileID)
		return err
	})
	if err != nil {
		return nil, err
	}

	// post-commit collaborators, both best effort
	s.cache.InvalidateProject(ctx, projectID)
	if s.queue != nil {
		err := s.queue.PublishChange(ctx, &queue.SegmentChange{
			SegmentID: segment.ID,
			FileID:    segment.FileID,
			ProjectID: projectID,
			Status:    segment.Status,
			UpdatedAt: segment.UpdatedAt,
		})
		if err != nil {
			logrus.Warnf("segment change publish failed: %v", err)
		}
	}

	view, err := segmentView(segment)
	if err != nil {
		return nil, err
	}

	return &UpdateTargetResponse{
		Segment:     view,
		TagMismatch: mismatch,
	}, nil
}

// Get reads one segment with its status normalized.
func (s *SegmentService) Get(ctx context.Context, id string) (*SegmentView, error) {
	segment, err := s.store.GetSegment(ctx, id)
	if err != nil {
		return nil, asNotFound(err, "segment", id)
	}
	return segmentView(segment)
}
