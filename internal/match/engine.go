package match

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/emrgen/transmem/internal/model"
	"github.com/emrgen/transmem/internal/store"
	"github.com/emrgen/transmem/internal/token"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultFloor is the lowest fuzzy score still offered to the UI.
	DefaultFloor = 30
	// DefaultLimit caps the ranked result list.
	DefaultLimit = 20
)

const (
	OriginTM       = "tm"
	OriginInternal = "internal"
)

// Match is one leverage candidate, from a mounted TM or from another segment
// of the same project.
type Match struct {
	Origin        string    `json:"origin"`
	TMID          string    `json:"tmId,omitempty"`
	TMName        string    `json:"tmName,omitempty"`
	SegmentID     string    `json:"segmentId,omitempty"`
	SourceText    string    `json:"sourceText"`
	TargetText    string    `json:"targetText"`
	TagsSignature string    `json:"tagsSignature,omitempty"`
	Score         int       `json:"score"`
	Diff          string    `json:"diff,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`

	priority int
}

// Result carries the candidates of one lookup plus the warnings of stores
// that were skipped. A degraded lookup is not a failed lookup.
type Result struct {
	Best       *Match   `json:"best,omitempty"`
	Candidates []Match  `json:"candidates"`
	Warnings   []string `json:"warnings,omitempty"`
}

// Hit is one concordance search result.
type Hit struct {
	TMID       string    `json:"tmId"`
	TMName     string    `json:"tmName"`
	SourceText string    `json:"sourceText"`
	TargetText string    `json:"targetText"`
	UpdatedAt  time.Time `json:"updatedAt"`

	tier int
}

// NewEngine creates a read-only match engine over the store. The engine
// never mutates any store.
func NewEngine(store store.Store) *Engine {
	return &Engine{
		store: store,
		Floor: DefaultFloor,
		Limit: DefaultLimit,
	}
}

type Engine struct {
	store store.Store
	Floor int
	Limit int
}

// Exact100 returns the authoritative 100% match for a source hash plus the
// full candidate list for UI disambiguation. Candidates come from every TM
// mounted to the project and from the project's own segments (internal
// leverage). Missing matches are an empty result, not an error; unreachable
// stores are skipped with a warning.
func (e *Engine) Exact100(ctx context.Context, projectID, srcHash, excludeSegmentID string) (*Result, error) {
	result := &Result{Candidates: make([]Match, 0)}

	mounts, err := e.store.ListMounts(ctx, projectID)
	if err != nil {
		return nil, err
	}

	for _, mount := range mounts {
		tm, entries, err := e.tmEntriesByHash(ctx, mount.TMID, srcHash)
		if err != nil {
			result.Warnings = append(result.Warnings, degraded(mount.TMID, err))
			continue
		}

		for _, entry := range entries {
			result.Candidates = append(result.Candidates, Match{
				Origin:        OriginTM,
				TMID:          tm.ID,
				TMName:        tm.Name,
				SourceText:    entry.SourceText,
				TargetText:    entry.TargetText,
				TagsSignature: entry.TagsSignature,
				Score:         100,
				UpdatedAt:     entry.UpdatedAt,
				priority:      mount.Priority,
			})
		}
	}

	segments, err := e.store.ListProjectSegmentsByHash(ctx, projectID, srcHash, excludeSegmentID)
	if err != nil {
		return nil, err
	}
	for _, segment := range segments {
		m, err := internalMatch(segment)
		if err != nil {
			logrus.Errorf("skipping corrupted segment %s: %v", segment.ID, err)
			continue
		}
		m.Score = 100
		result.Candidates = append(result.Candidates, m)
	}

	rank(result.Candidates)
	if len(result.Candidates) > 0 {
		result.Best = &result.Candidates[0]
	}

	return result, nil
}

// Fuzzy returns the ranked fuzzy matches for a query match key. Both read and
// readwrite mounts participate, permission only gates writes. Candidates
// below the floor are discarded, at most Limit results are returned.
func (e *Engine) Fuzzy(ctx context.Context, projectID, matchKey, excludeSegmentID string) (*Result, error) {
	result := &Result{Candidates: make([]Match, 0)}

	mounts, err := e.store.ListMounts(ctx, projectID)
	if err != nil {
		return nil, err
	}

	for _, mount := range mounts {
		tm, entries, err := e.tmEntries(ctx, mount.TMID)
		if err != nil {
			result.Warnings = append(result.Warnings, degraded(mount.TMID, err))
			continue
		}

		for _, entry := range entries {
			score := Score(matchKey, entry.SourceKey)
			if score < e.Floor {
				continue
			}
			result.Candidates = append(result.Candidates, Match{
				Origin:        OriginTM,
				TMID:          tm.ID,
				TMName:        tm.Name,
				SourceText:    entry.SourceText,
				TargetText:    entry.TargetText,
				TagsSignature: entry.TagsSignature,
				Score:         score,
				Diff:          wordDiff(entry.SourceKey, matchKey),
				UpdatedAt:     entry.UpdatedAt,
				priority:      mount.Priority,
			})
		}
	}

	segments, err := e.store.ListProjectTranslatedSegments(ctx, projectID, excludeSegmentID)
	if err != nil {
		return nil, err
	}
	for _, segment := range segments {
		score := Score(matchKey, segment.MatchKey)
		if score < e.Floor {
			continue
		}
		m, err := internalMatch(segment)
		if err != nil {
			logrus.Errorf("skipping corrupted segment %s: %v", segment.ID, err)
			continue
		}
		m.Score = score
		m.Diff = wordDiff(segment.MatchKey, matchKey)
		result.Candidates = append(result.Candidates, m)
	}

	rank(result.Candidates)
	if len(result.Candidates) > e.Limit {
		result.Candidates = result.Candidates[:e.Limit]
	}
	if len(result.Candidates) > 0 {
		result.Best = &result.Candidates[0]
	}

	return result, nil
}

// Concordance searches the mounted TM content for free text. Exact substring
// hits rank first, then entries containing every query word, most recently
// updated first within each tier. An empty query returns nothing without
// touching any store.
func (e *Engine) Concordance(ctx context.Context, projectID, query string) ([]Hit, []string, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return make([]Hit, 0), nil, nil
	}
	words := strings.Fields(query)

	mounts, err := e.store.ListMounts(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	hits := make([]Hit, 0)
	var warnings []string
	for _, mount := range mounts {
		tm, entries, err := e.tmEntries(ctx, mount.TMID)
		if err != nil {
			warnings = append(warnings, degraded(mount.TMID, err))
			continue
		}

		for _, entry := range entries {
			text := strings.ToLower(entry.SourceKey + " " + entry.TargetText)
			tier := 0
			switch {
			case strings.Contains(text, query):
				tier = 1
			case containsAll(text, words):
				tier = 2
			default:
				continue
			}

			hits = append(hits, Hit{
				TMID:       tm.ID,
				TMName:     tm.Name,
				SourceText: entry.SourceText,
				TargetText: entry.TargetText,
				UpdatedAt:  entry.UpdatedAt,
				tier:       tier,
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].tier != hits[j].tier {
			return hits[i].tier < hits[j].tier
		}
		return hits[i].UpdatedAt.After(hits[j].UpdatedAt)
	})

	return hits, warnings, nil
}

func (e *Engine) tmEntries(ctx context.Context, tmID string) (*model.TM, []*model.TMEntry, error) {
	tm, err := e.store.GetTM(ctx, tmID)
	if err != nil {
		return nil, nil, err
	}
	entries, err := e.store.ListTMEntries(ctx, tmID)
	if err != nil {
		return nil, nil, err
	}
	return tm, entries, nil
}

func (e *Engine) tmEntriesByHash(ctx context.Context, tmID, srcHash string) (*model.TM, []*model.TMEntry, error) {
	tm, err := e.store.GetTM(ctx, tmID)
	if err != nil {
		return nil, nil, err
	}
	entries, err := e.store.ListTMEntriesByHash(ctx, tmID, srcHash)
	if err != nil {
		return nil, nil, err
	}
	return tm, entries, nil
}

func internalMatch(segment *model.Segment) (Match, error) {
	source, err := token.Unmarshal(segment.SourceTokens)
	if err != nil {
		return Match{}, err
	}
	target, err := token.Unmarshal(segment.TargetTokens)
	if err != nil {
		return Match{}, err
	}

	return Match{
		Origin:        OriginInternal,
		SegmentID:     segment.ID,
		SourceText:    token.Render(source),
		TargetText:    token.Render(target),
		TagsSignature: segment.TagsSignature,
		UpdatedAt:     segment.UpdatedAt,
	}, nil
}

// rank orders candidates: score first, then internal leverage ahead of
// mounted TMs, then mount priority (lower first), then recency.
func rank(candidates []Match) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if (a.Origin == OriginInternal) != (b.Origin == OriginInternal) {
			return a.Origin == OriginInternal
		}
		if a.priority != b.priority {
			return a.priority < b.priority
		}
		return a.UpdatedAt.After(b.UpdatedAt)
	})
}

func containsAll(text string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(text, w) {
			return false
		}
	}
	return true
}

// wordDiff renders a unified diff of the candidate source key against the
// query, one word per line, for UI highlighting of what changed.
func wordDiff(candidateKey, queryKey string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(strings.Join(strings.Fields(candidateKey), "\n")),
		B:        difflib.SplitLines(strings.Join(strings.Fields(queryKey), "\n")),
		FromFile: "match",
		ToFile:   "query",
		Context:  1,
	})
	if err != nil {
		return ""
	}
	return diff
}

func degraded(tmID string, err error) string {
	msg := fmt.Sprintf("tm %s unreachable, lookup degraded: %v", tmID, err)
	logrus.Warn(msg)
	return msg
}
