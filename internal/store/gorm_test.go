package store

import (
	"context"
	"testing"

	"github.com/emrgen/transmem/internal/model"
	"github.com/emrgen/transmem/internal/tester"
	"github.com/emrgen/transmem/internal/token"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func seedFile(t *testing.T, s *GormStore) *model.File {
	project := &model.Project{ID: uuid.New().String(), Name: "manual", SrcLang: "en", TgtLang: "fr"}
	assert.NoError(t, s.CreateProject(context.TODO(), project))

	file := &model.File{ID: uuid.New().String(), ProjectID: project.ID, Name: "chapter.txt"}
	assert.NoError(t, s.CreateFile(context.TODO(), file))
	return file
}

func seedSegment(t *testing.T, s *GormStore, fileID, status, target string) *model.Segment {
	targetData, err := token.Marshal(token.Tokenize(target))
	assert.NoError(t, err)

	segment := &model.Segment{
		ID:           uuid.New().String(),
		FileID:       fileID,
		SourceTokens: "[]",
		TargetTokens: targetData,
		Status:       status,
	}
	assert.NoError(t, s.InsertSegments(context.TODO(), []*model.Segment{segment}))
	return segment
}

func TestGormStore_RecomputeFileStats(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	s := NewGormStore(tester.TestDB())
	file := seedFile(t, s)

	seedSegment(t, s, file.ID, "new", "")
	seedSegment(t, s, file.ID, "translated", "Bonjour")
	seedSegment(t, s, file.ID, "confirmed", "Bonjour le monde")
	// corrupted statuses are normalized before counting
	seedSegment(t, s, file.ID, "garbage", "Bonjour")
	seedSegment(t, s, file.ID, "garbage", "")

	stats, err := s.RecomputeFileStats(context.TODO(), file.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), stats.Total)
	assert.Equal(t, int64(2), stats.New)
	assert.Equal(t, int64(1), stats.Draft)
	assert.Equal(t, int64(1), stats.Translated)
	assert.Equal(t, int64(1), stats.Confirmed)

	// the counters landed on the file row
	got, err := s.GetFile(context.TODO(), file.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), got.TotalSegments)
	assert.Equal(t, int64(2), got.NewSegments)
}

func TestGormStore_TranslatedSegmentsOnly(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	s := NewGormStore(tester.TestDB())
	file := seedFile(t, s)

	translated := seedSegment(t, s, file.ID, "confirmed", "Bonjour")
	seedSegment(t, s, file.ID, "new", "")
	seedSegment(t, s, file.ID, "draft", "   ")

	segments, err := s.ListProjectTranslatedSegments(context.TODO(), file.ProjectID, "")
	assert.NoError(t, err)
	assert.Len(t, segments, 1)
	assert.Equal(t, translated.ID, segments[0].ID)

	// excluding the only translated row leaves nothing
	segments, err = s.ListProjectTranslatedSegments(context.TODO(), file.ProjectID, translated.ID)
	assert.NoError(t, err)
	assert.Empty(t, segments)
}

func TestGormStore_PruneTMEntries(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	s := NewGormStore(tester.TestDB())

	tm := &model.TM{ID: uuid.New().String(), Kind: "working", Name: "scratch", SrcLang: "en", TgtLang: "fr"}
	assert.NoError(t, s.CreateTM(context.TODO(), tm))

	var entries []*model.TMEntry
	for i := 0; i < 8; i++ {
		entries = append(entries, &model.TMEntry{
			TMID:       tm.ID,
			SourceKey:  "hello world",
			SourceText: "Hello world",
			TargetText: "Bonjour le monde",
		})
	}
	entries = append(entries, &model.TMEntry{
		TMID:       tm.ID,
		SourceKey:  "good morning",
		SourceText: "Good morning",
		TargetText: "Bonjour",
	})
	assert.NoError(t, s.InsertTMEntries(context.TODO(), entries))

	pruned, err := s.PruneTMEntries(context.TODO(), tm.ID, 5)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), pruned)

	count, err := s.CountTMEntries(context.TODO(), tm.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(6), count)

	// already within the cap, nothing to do
	pruned, err = s.PruneTMEntries(context.TODO(), tm.ID, 5)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), pruned)
}

func TestGormStore_Transaction_RollsBack(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	s := NewGormStore(tester.TestDB())
	file := seedFile(t, s)

	err := s.Transaction(context.TODO(), func(tx Store) error {
		seg := &model.Segment{ID: uuid.New().String(), FileID: file.ID, SourceTokens: "[]", Status: "new"}
		if err := tx.InsertSegments(context.TODO(), []*model.Segment{seg}); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.Error(t, err)

	segments, err := s.ListFileSegments(context.TODO(), file.ID)
	assert.NoError(t, err)
	assert.Empty(t, segments)
}
