package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/emrgen/transmem/internal/cache"
	"github.com/emrgen/transmem/internal/exchange"
	"github.com/emrgen/transmem/internal/match"
	"github.com/emrgen/transmem/internal/model"
	"github.com/emrgen/transmem/internal/store"
	"github.com/emrgen/transmem/internal/token"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NewTMService creates a new TMService. The cache may be nil.
func NewTMService(store store.Store, engine *match.Engine, matchCache *cache.MatchCache) *TMService {
	return &TMService{
		store:  store,
		engine: engine,
		cache:  matchCache,
	}
}

// TMService manages translation memories, their mounts, lookups through the
// match engine and promotion of confirmed segments.
type TMService struct {
	store  store.Store
	engine *match.Engine
	cache  *cache.MatchCache
}

type TMView struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	SrcLang   string    `json:"srcLang"`
	TgtLang   string    `json:"tgtLang"`
	Entries   int64     `json:"entries"`
	CreatedAt time.Time `json:"createdAt"`
}

type MountView struct {
	TMID       string `json:"tmId"`
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Priority   int    `json:"priority"`
	Permission string `json:"permission"`
}

type CreateTMRequest struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	SrcLang string `json:"srcLang"`
	TgtLang string `json:"tgtLang"`
}

func (t *TMService) Create(ctx context.Context, request *CreateTMRequest) (*TMView, error) {
	kind := model.TMKind(request.Kind)
	if kind != model.TMKindWorking && kind != model.TMKindMain {
		return nil, invalidKind(fmt.Sprintf("invalid tm kind %q, expected working or main", request.Kind))
	}

	tm := &model.TM{
		ID:      uuid.New().String(),
		Kind:    string(kind),
		Name:    request.Name,
		SrcLang: request.SrcLang,
		TgtLang: request.TgtLang,
	}
	if err := t.store.CreateTM(ctx, tm); err != nil {
		return nil, err
	}

	logrus.Infof("tm created with id: %s", tm.ID)

	return t.tmView(ctx, tm), nil
}

func (t *TMService) Get(ctx context.Context, id string) (*TMView, error) {
	tm, err := t.store.GetTM(ctx, id)
	if err != nil {
		return nil, asNotFound(err, "tm", id)
	}
	return t.tmView(ctx, tm), nil
}

func (t *TMService) List(ctx context.Context) ([]*TMView, error) {
	tms, err := t.store.ListTMs(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*TMView, 0, len(tms))
	for _, tm := range tms {
		views = append(views, t.tmView(ctx, tm))
	}
	return views, nil
}

func (t *TMService) Delete(ctx context.Context, id string) error {
	if _, err := t.store.GetTM(ctx, id); err != nil {
		return asNotFound(err, "tm", id)
	}

	err := t.store.Transaction(ctx, func(tx store.Store) error {
		return tx.DeleteTM(ctx, id)
	})
	if err != nil {
		return err
	}

	t.cache.InvalidateTMs(ctx)
	return nil
}

// Mount grants a project access to a TM at a priority and permission.
func (t *TMService) Mount(ctx context.Context, projectID, tmID string, priority int, permission string) (*MountView, error) {
	if _, err := t.store.GetProject(ctx, projectID); err != nil {
		return nil, asNotFound(err, "project", projectID)
	}
	tm, err := t.store.GetTM(ctx, tmID)
	if err != nil {
		return nil, asNotFound(err, "tm", tmID)
	}

	perm := model.Permission(permission)
	if perm != model.PermissionRead && perm != model.PermissionReadWrite {
		return nil, invalidKind(fmt.Sprintf("invalid permission %q, expected read or readwrite", permission))
	}

	if _, err := t.store.GetMount(ctx, projectID, tmID); err == nil {
		return nil, alreadyExists(fmt.Sprintf("tm %s already mounted to project %s", tmID, projectID))
	}

	mount := &model.Mount{
		ProjectID:  projectID,
		TMID:       tmID,
		Priority:   priority,
		Permission: string(perm),
	}
	if err := t.store.CreateMount(ctx, mount); err != nil {
		return nil, err
	}

	t.cache.InvalidateProject(ctx, projectID)

	return &MountView{
		TMID:       tm.ID,
		Name:       tm.Name,
		Kind:       tm.Kind,
		Priority:   mount.Priority,
		Permission: mount.Permission,
	}, nil
}

func (t *TMService) Unmount(ctx context.Context, projectID, tmID string) error {
	if _, err := t.store.GetMount(ctx, projectID, tmID); err != nil {
		return asNotFound(err, "mount", tmID)
	}

	if err := t.store.DeleteMount(ctx, projectID, tmID); err != nil {
		return err
	}

	t.cache.InvalidateProject(ctx, projectID)
	return nil
}

func (t *TMService) ListMounts(ctx context.Context, projectID string) ([]*MountView, error) {
	if _, err := t.store.GetProject(ctx, projectID); err != nil {
		return nil, asNotFound(err, "project", projectID)
	}

	mounts, err := t.store.ListMounts(ctx, projectID)
	if err != nil {
		return nil, err
	}

	views := make([]*MountView, 0, len(mounts))
	for _, mount := range mounts {
		view := &MountView{
			TMID:       mount.TMID,
			Priority:   mount.Priority,
			Permission: mount.Permission,
		}
		if tm, err := t.store.GetTM(ctx, mount.TMID); err == nil {
			view.Name = tm.Name
			view.Kind = tm.Kind
		}
		views = append(views, view)
	}

	return views, nil
}

// Get100Match returns the authoritative exact match for a source hash, going
// through the redis cache first.
func (t *TMService) Get100Match(ctx context.Context, projectID, srcHash string) (*match.Result, error) {
	if result, ok := t.cache.Get(ctx, projectID, srcHash); ok {
		return result, nil
	}

	if _, err := t.store.GetProject(ctx, projectID); err != nil {
		return nil, asNotFound(err, "project", projectID)
	}

	result, err := t.engine.Exact100(ctx, projectID, srcHash, "")
	if err != nil {
		return nil, err
	}

	t.cache.Set(ctx, projectID, srcHash, result)
	return result, nil
}

// GetMatches returns the ranked fuzzy matches for a segment, drawing on
// every mounted TM and the project's own translated segments.
func (t *TMService) GetMatches(ctx context.Context, projectID, segmentID string) (*match.Result, error) {
	if _, err := t.store.GetProject(ctx, projectID); err != nil {
		return nil, asNotFound(err, "project", projectID)
	}
	segment, err := t.store.GetSegment(ctx, segmentID)
	if err != nil {
		return nil, asNotFound(err, "segment", segmentID)
	}

	return t.engine.Fuzzy(ctx, projectID, segment.MatchKey, segment.ID)
}

type ConcordanceResult struct {
	Hits     []match.Hit `json:"hits"`
	Warnings []string    `json:"warnings,omitempty"`
}

func (t *TMService) Concordance(ctx context.Context, projectID, query string) (*ConcordanceResult, error) {
	if _, err := t.store.GetProject(ctx, projectID); err != nil {
		return nil, asNotFound(err, "project", projectID)
	}

	hits, warnings, err := t.engine.Concordance(ctx, projectID, query)
	if err != nil {
		return nil, err
	}

	return &ConcordanceResult{Hits: hits, Warnings: warnings}, nil
}

// CommitToMain promotes the confirmed segments of a file into a main-kind TM.
// Working TMs are not valid commit targets and the file's project must hold
// a readwrite mount of the target.
func (t *TMService) CommitToMain(ctx context.Context, tmID, fileID string) (int, error) {
	tm, err := t.store.GetTM(ctx, tmID)
	if err != nil {
		return 0, asNotFound(err, "tm", tmID)
	}
	if tm.Kind != string(model.TMKindMain) {
		return 0, invalidKind(fmt.Sprintf("tm %s is %s-kind, only main tms accept commits", tmID, tm.Kind))
	}

	file, err := t.store.GetFile(ctx, fileID)
	if err != nil {
		return 0, asNotFound(err, "file", fileID)
	}

	mount, err := t.store.GetMount(ctx, file.ProjectID, tmID)
	if err != nil {
		return 0, permissionDenied(fmt.Sprintf("tm %s is not mounted readwrite to project %s", tmID, file.ProjectID))
	}
	if mount.Permission != string(model.PermissionReadWrite) {
		return 0, permissionDenied(fmt.Sprintf("tm %s is mounted read-only to project %s", tmID, file.ProjectID))
	}

	committed := 0
	err = t.store.Transaction(ctx, func(tx store.Store) error {
		segments, err := tx.ListFileSegments(ctx, fileID)
		if err != nil {
			return err
		}

		for _, segment := range segments {
			if segment.NormalizedStatus() != model.StatusConfirmed {
				continue
			}

			target, err := token.Unmarshal(segment.TargetTokens)
			if err != nil {
				logrus.Errorf("skipping corrupted segment %s: %v", segment.ID, err)
				continue
			}
			source, err := token.Unmarshal(segment.SourceTokens)
			if err != nil {
				logrus.Errorf("skipping corrupted segment %s: %v", segment.ID, err)
				continue
			}

			targetText := token.Render(target)
			entry, err := tx.FindTMEntry(ctx, tmID, segment.MatchKey, targetText)
			if err != nil {
				entry = &model.TMEntry{
					TMID:       tmID,
					SourceKey:  segment.MatchKey,
					SrcHash:    segment.SrcHash,
					SourceText: token.Render(source),
				}
			}

			entry.TargetText = targetText
			entry.TagsSignature = segment.TagsSignature
			entry.Provenance = "commit:" + fileID
			if err := tx.SaveTMEntry(ctx, entry); err != nil {
				return err
			}
			committed++
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	t.cache.InvalidateTMs(ctx)
	logrus.Infof("committed %d segments of file %s into tm %s", committed, fileID, tm.Name)

	return committed, nil
}

// ImportPreview summarizes a TMX file without writing anything.
func (t *TMService) ImportPreview(ctx context.Context, path string) (*exchange.Preview, error) {
	return exchange.ReadPreview(path)
}

type ImportOptions struct {
	// Provenance overrides the recorded origin, the file name by default.
	Provenance string `json:"provenance,omitempty"`
}

// ImportExecute loads a TMX file into a TM in one transaction and returns
// the number of inserted entries.
func (t *TMService) ImportExecute(ctx context.Context, tmID, path string, options ImportOptions) (int, error) {
	tm, err := t.store.GetTM(ctx, tmID)
	if err != nil {
		return 0, asNotFound(err, "tm", tmID)
	}

	doc, err := exchange.Read(path)
	if err != nil {
		return 0, err
	}

	provenance := options.Provenance
	if provenance == "" {
		provenance = "import:" + filepath.Base(path)
	}

	entries := make([]*model.TMEntry, 0, len(doc.Units))
	for _, unit := range doc.Units {
		tokens := token.Tokenize(unit.Source)
		key := token.MatchKey(tokens, tm.SrcLang)
		entries = append(entries, &model.TMEntry{
			TMID:          tm.ID,
			SourceKey:     key,
			SourceText:    unit.Source,
			TargetText:    unit.Target,
			TagsSignature: token.TagsSignature(tokens),
			SrcHash:       token.Hash(key),
			Provenance:    provenance,
		})
	}

	err = t.store.Transaction(ctx, func(tx store.Store) error {
		return tx.InsertTMEntries(ctx, entries)
	})
	if err != nil {
		return 0, err
	}

	t.cache.InvalidateTMs(ctx)
	logrus.Infof("imported %d entries into tm %s", len(entries), tm.Name)

	return len(entries), nil
}

// ExportTM writes a TM's entries as a TMX file.
func (t *TMService) ExportTM(ctx context.Context, tmID, path string) error {
	tm, err := t.store.GetTM(ctx, tmID)
	if err != nil {
		return asNotFound(err, "tm", tmID)
	}

	entries, err := t.store.ListTMEntries(ctx, tmID)
	if err != nil {
		return err
	}

	doc := &exchange.Document{SrcLang: tm.SrcLang, TgtLang: tm.TgtLang}
	for _, entry := range entries {
		doc.Units = append(doc.Units, exchange.Unit{Source: entry.SourceText, Target: entry.TargetText})
	}

	return exchange.Write(path, doc)
}

func (t *TMService) tmView(ctx context.Context, tm *model.TM) *TMView {
	view := &TMView{
		ID:        tm.ID,
		Kind:      tm.Kind,
		Name:      tm.Name,
		SrcLang:   tm.SrcLang,
		TgtLang:   tm.TgtLang,
		CreatedAt: tm.CreatedAt,
	}
	if count, err := t.store.CountTMEntries(ctx, tm.ID); err == nil {
		view.Entries = count
	}
	return view
}
