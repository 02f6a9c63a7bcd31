package match

import (
	"context"
	"fmt"
	"testing"

	"github.com/emrgen/transmem/internal/model"
	"github.com/emrgen/transmem/internal/store"
	"github.com/emrgen/transmem/internal/tester"
	"github.com/emrgen/transmem/internal/token"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fixture struct {
	store     store.Store
	projectID string
}

func setupFixture(t *testing.T) *fixture {
	tester.RemoveDBFile()
	tester.Setup()

	s := store.NewGormStore(tester.TestDB())
	project := &model.Project{
		ID:      uuid.New().String(),
		Name:    "manual",
		SrcLang: "en",
		TgtLang: "fr",
	}
	assert.NoError(t, s.CreateProject(context.TODO(), project))

	return &fixture{store: s, projectID: project.ID}
}

func (f *fixture) mountTM(t *testing.T, name string, priority int, entries map[string]string) string {
	tm := &model.TM{
		ID:      uuid.New().String(),
		Kind:    string(model.TMKindMain),
		Name:    name,
		SrcLang: "en",
		TgtLang: "fr",
	}
	assert.NoError(t, f.store.CreateTM(context.TODO(), tm))

	var rows []*model.TMEntry
	for source, target := range entries {
		tokens := token.Tokenize(source)
		key := token.MatchKey(tokens, "en")
		rows = append(rows, &model.TMEntry{
			TMID:          tm.ID,
			SourceKey:     key,
			SourceText:    source,
			TargetText:    target,
			TagsSignature: token.TagsSignature(tokens),
			SrcHash:       token.Hash(key),
		})
	}
	assert.NoError(t, f.store.InsertTMEntries(context.TODO(), rows))

	assert.NoError(t, f.store.CreateMount(context.TODO(), &model.Mount{
		ProjectID:  f.projectID,
		TMID:       tm.ID,
		Priority:   priority,
		Permission: string(model.PermissionRead),
	}))

	return tm.ID
}

func (f *fixture) addSegment(t *testing.T, source, target string) string {
	file := &model.File{
		ID:        uuid.New().String(),
		ProjectID: f.projectID,
		Name:      "chapter.txt",
	}
	assert.NoError(t, f.store.CreateFile(context.TODO(), file))

	sourceTokens := token.Tokenize(source)
	sourceData, err := token.Marshal(sourceTokens)
	assert.NoError(t, err)
	targetData, err := token.Marshal(token.Tokenize(target))
	assert.NoError(t, err)

	key := token.MatchKey(sourceTokens, "en")
	segment := &model.Segment{
		ID:            uuid.New().String(),
		FileID:        file.ID,
		SourceTokens:  sourceData,
		TargetTokens:  targetData,
		Status:        string(model.StatusConfirmed),
		TagsSignature: token.TagsSignature(sourceTokens),
		MatchKey:      key,
		SrcHash:       token.Hash(key),
	}
	assert.NoError(t, f.store.InsertSegments(context.TODO(), []*model.Segment{segment}))

	return segment.ID
}

func queryHash(source string) string {
	return token.Hash(token.MatchKey(token.Tokenize(source), "en"))
}

func TestEngine_Exact100_PriorityBreaksTies(t *testing.T) {
	f := setupFixture(t)
	engine := NewEngine(f.store)

	f.mountTM(t, "Vendor-EN-FR", 2, map[string]string{
		"Hello world": "Bonjour tout le monde",
	})
	f.mountTM(t, "Main-EN-FR", 1, map[string]string{
		"Hello world": "Bonjour le monde",
	})

	result, err := engine.Exact100(context.TODO(), f.projectID, queryHash("Hello world"), "")
	assert.NoError(t, err)
	assert.NotNil(t, result.Best)
	assert.Len(t, result.Candidates, 2)

	assert.Equal(t, 100, result.Best.Score)
	assert.Equal(t, "Main-EN-FR", result.Best.TMName)
	assert.Equal(t, "Bonjour le monde", result.Best.TargetText)
}

func TestEngine_Exact100_InternalLeverageFirst(t *testing.T) {
	f := setupFixture(t)
	engine := NewEngine(f.store)

	f.mountTM(t, "Main-EN-FR", 1, map[string]string{
		"Hello world": "Bonjour le monde",
	})
	segmentID := f.addSegment(t, "Hello world", "Bonjour, monde")

	result, err := engine.Exact100(context.TODO(), f.projectID, queryHash("Hello world"), "")
	assert.NoError(t, err)
	assert.Len(t, result.Candidates, 2)

	assert.Equal(t, OriginInternal, result.Best.Origin)
	assert.Equal(t, segmentID, result.Best.SegmentID)
	assert.Equal(t, "Bonjour, monde", result.Best.TargetText)
}

func TestEngine_Exact100_TagVariantsCollide(t *testing.T) {
	f := setupFixture(t)
	engine := NewEngine(f.store)

	f.mountTM(t, "Main-EN-FR", 1, map[string]string{
		"<b>Hello</b> world": "<b>Bonjour</b> le monde",
	})

	// a differently tagged rendition of the same wording still hits 100
	result, err := engine.Exact100(context.TODO(), f.projectID, queryHash("Hello <i>world</i>"), "")
	assert.NoError(t, err)
	assert.NotNil(t, result.Best)
	assert.Equal(t, 100, result.Best.Score)
}

func TestEngine_Exact100_NoMatchIsEmptyNotError(t *testing.T) {
	f := setupFixture(t)
	engine := NewEngine(f.store)

	f.mountTM(t, "Main-EN-FR", 1, map[string]string{
		"Hello world": "Bonjour le monde",
	})

	result, err := engine.Exact100(context.TODO(), f.projectID, queryHash("Completely different sentence"), "")
	assert.NoError(t, err)
	assert.Nil(t, result.Best)
	assert.Empty(t, result.Candidates)
	assert.Empty(t, result.Warnings)
}

func TestEngine_Exact100_ExcludesTheQueriedSegment(t *testing.T) {
	f := setupFixture(t)
	engine := NewEngine(f.store)

	segmentID := f.addSegment(t, "Hello world", "Bonjour le monde")

	result, err := engine.Exact100(context.TODO(), f.projectID, queryHash("Hello world"), segmentID)
	assert.NoError(t, err)
	assert.Empty(t, result.Candidates)
}

func TestEngine_Fuzzy_FloorAndRanking(t *testing.T) {
	f := setupFixture(t)
	engine := NewEngine(f.store)

	f.mountTM(t, "Main-EN-FR", 1, map[string]string{
		"the quick brown fox":  "le renard brun rapide",
		"the quick brown bear": "l'ours brun rapide",
		"nothing alike at all": "rien de comparable",
	})

	key := token.MatchKey(token.Tokenize("the quick brown fox"), "en")
	result, err := engine.Fuzzy(context.TODO(), f.projectID, key, "")
	assert.NoError(t, err)

	// the unrelated entry scores 0 and stays below the floor
	assert.Len(t, result.Candidates, 2)
	assert.Equal(t, 100, result.Candidates[0].Score)
	assert.Equal(t, "le renard brun rapide", result.Candidates[0].TargetText)
	assert.Equal(t, 75, result.Candidates[1].Score)
	assert.NotEmpty(t, result.Candidates[1].Diff)
}

func TestEngine_Fuzzy_LimitCapsCandidates(t *testing.T) {
	f := setupFixture(t)
	engine := NewEngine(f.store)

	entries := make(map[string]string)
	for i := 0; i < DefaultLimit+5; i++ {
		entries[fmt.Sprintf("the quick brown fox number %d", i)] = fmt.Sprintf("le renard %d", i)
	}
	f.mountTM(t, "Main-EN-FR", 1, entries)

	key := token.MatchKey(token.Tokenize("the quick brown fox number one"), "en")
	result, err := engine.Fuzzy(context.TODO(), f.projectID, key, "")
	assert.NoError(t, err)
	assert.Len(t, result.Candidates, DefaultLimit)
}

func TestEngine_Fuzzy_InternalLeverage(t *testing.T) {
	f := setupFixture(t)
	engine := NewEngine(f.store)

	f.addSegment(t, "the quick brown fox", "le renard brun rapide")

	key := token.MatchKey(token.Tokenize("the quick brown bear"), "en")
	result, err := engine.Fuzzy(context.TODO(), f.projectID, key, "")
	assert.NoError(t, err)
	assert.Len(t, result.Candidates, 1)
	assert.Equal(t, OriginInternal, result.Candidates[0].Origin)
	assert.Equal(t, 75, result.Candidates[0].Score)
}

func TestEngine_Concordance(t *testing.T) {
	f := setupFixture(t)
	engine := NewEngine(f.store)

	f.mountTM(t, "Main-EN-FR", 1, map[string]string{
		"the brown fox jumps":     "le renard brun saute",
		"a fox and a brown bear":  "un renard et un ours brun",
		"nothing relevant here":   "rien d'utile ici",
		"the quick gray squirrel": "l'écureuil gris rapide",
	})

	hits, warnings, err := engine.Concordance(context.TODO(), f.projectID, "brown fox")
	assert.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Len(t, hits, 2)

	// the exact substring hit ranks ahead of the all-words hit
	assert.Equal(t, "the brown fox jumps", hits[0].SourceText)
	assert.Equal(t, "a fox and a brown bear", hits[1].SourceText)
}

func TestEngine_Concordance_EmptyQuery(t *testing.T) {
	f := setupFixture(t)
	engine := NewEngine(f.store)

	hits, warnings, err := engine.Concordance(context.TODO(), f.projectID, "   ")
	assert.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Empty(t, hits)
}
