package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emrgen/transmem/internal/store"
	"github.com/emrgen/transmem/internal/tester"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func writeContentFile(t *testing.T, lines ...string) string {
	path := filepath.Join(t.TempDir(), "chapter.txt")
	err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644)
	assert.NoError(t, err)
	return path
}

func newTestProject(t *testing.T, s store.Store) string {
	view, err := NewProjectService(s).Create(context.TODO(), &CreateProjectRequest{
		Name:    "manual",
		SrcLang: "en",
		TgtLang: "fr",
	})
	assert.NoError(t, err)
	return view.ID
}

func TestFileService_AddToProject(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	s := store.NewGormStore(tester.TestDB())
	files := NewFileService(s)
	projectID := newTestProject(t, s)

	path := writeContentFile(t,
		"Hello <b>world</b>",
		"",
		"   ",
		"Second sentence",
		"Third sentence",
	)

	file, err := files.AddToProject(context.TODO(), projectID, path, AddFileOptions{})
	assert.NoError(t, err)
	assert.Equal(t, "chapter.txt", file.Name)

	// blank lines are not segments
	assert.Equal(t, int64(3), file.TotalSegments)
	assert.Equal(t, int64(3), file.NewSegments)
	assert.Equal(t, int64(0), file.ConfirmedSegments)

	segments, total, err := files.GetSegmentsPage(context.TODO(), file.ID, 0, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, segments, 3)

	first := segments[0]
	assert.Equal(t, 0, first.OrderIndex)
	assert.Equal(t, "hello world", first.MatchKey)
	assert.Equal(t, "<b></b>", first.TagsSignature)
	assert.NotEmpty(t, first.SrcHash)
	assert.Empty(t, first.TargetTokens)
}

func TestFileService_AddToUnknownProject(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	files := NewFileService(store.NewGormStore(tester.TestDB()))

	path := writeContentFile(t, "Hello")
	_, err := files.AddToProject(context.TODO(), "missing", path, AddFileOptions{})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestFileService_SegmentsPaging(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	s := store.NewGormStore(tester.TestDB())
	files := NewFileService(s)
	projectID := newTestProject(t, s)

	lines := make([]string, 0, 25)
	for i := 0; i < 25; i++ {
		lines = append(lines, "sentence number "+strings.Repeat("x", i+1))
	}
	file, err := files.AddToProject(context.TODO(), projectID, writeContentFile(t, lines...), AddFileOptions{})
	assert.NoError(t, err)

	page, total, err := files.GetSegmentsPage(context.TODO(), file.ID, 10, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Len(t, page, 10)
	assert.Equal(t, 10, page[0].OrderIndex)
	assert.Equal(t, 19, page[9].OrderIndex)
}

func TestFileService_Export(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	s := store.NewGormStore(tester.TestDB())
	files := NewFileService(s)
	projectID := newTestProject(t, s)

	file, err := files.AddToProject(context.TODO(), projectID, writeContentFile(t, "Hello world"), AddFileOptions{})
	assert.NoError(t, err)

	output := filepath.Join(t.TempDir(), "out.tsv")
	assert.NoError(t, files.Export(context.TODO(), file.ID, output, ExportOptions{}, false))

	data, err := os.ReadFile(output)
	assert.NoError(t, err)
	assert.Equal(t, "Hello world\t\n", string(data))

	// refuses to overwrite unless forced
	err = files.Export(context.TODO(), file.ID, output, ExportOptions{}, false)
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
	assert.NoError(t, files.Export(context.TODO(), file.ID, output, ExportOptions{}, true))
}

func TestFileService_Delete(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	s := store.NewGormStore(tester.TestDB())
	files := NewFileService(s)
	projectID := newTestProject(t, s)

	file, err := files.AddToProject(context.TODO(), projectID, writeContentFile(t, "Hello world"), AddFileOptions{})
	assert.NoError(t, err)

	assert.NoError(t, files.Delete(context.TODO(), file.ID))

	_, err = files.Get(context.TODO(), file.ID)
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, _, err = files.GetSegmentsPage(context.TODO(), file.ID, 0, 10)
	assert.Equal(t, codes.NotFound, status.Code(err))
}
