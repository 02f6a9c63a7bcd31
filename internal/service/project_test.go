package service

import (
	"context"
	"testing"

	"github.com/emrgen/transmem/internal/store"
	"github.com/emrgen/transmem/internal/tester"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestProjectService_Create(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	projects := NewProjectService(store.NewGormStore(tester.TestDB()))

	created, err := projects.Create(context.TODO(), &CreateProjectRequest{
		Name:    "manual",
		SrcLang: "en",
		TgtLang: "fr",
		Prompt:  "formal register",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := projects.Get(context.TODO(), created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "manual", got.Name)
	assert.Equal(t, "en", got.SrcLang)
	assert.Equal(t, "fr", got.TgtLang)
	assert.Equal(t, "formal register", got.Prompt)

	listed, err := projects.List(context.TODO())
	assert.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestProjectService_GetUnknown(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	projects := NewProjectService(store.NewGormStore(tester.TestDB()))

	_, err := projects.Get(context.TODO(), uuid.New().String())
	assert.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestProjectService_UpdatePrompt(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	projects := NewProjectService(store.NewGormStore(tester.TestDB()))

	created, err := projects.Create(context.TODO(), &CreateProjectRequest{
		Name:    "manual",
		SrcLang: "en",
		TgtLang: "fr",
	})
	assert.NoError(t, err)

	updated, err := projects.UpdatePrompt(context.TODO(), created.ID, "casual tone")
	assert.NoError(t, err)
	assert.Equal(t, "casual tone", updated.Prompt)

	got, err := projects.Get(context.TODO(), created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "casual tone", got.Prompt)
}

func TestProjectService_Delete(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	projects := NewProjectService(store.NewGormStore(tester.TestDB()))

	created, err := projects.Create(context.TODO(), &CreateProjectRequest{
		Name:    "manual",
		SrcLang: "en",
		TgtLang: "fr",
	})
	assert.NoError(t, err)

	assert.NoError(t, projects.Delete(context.TODO(), created.ID))

	_, err = projects.Get(context.TODO(), created.ID)
	assert.Equal(t, codes.NotFound, status.Code(err))

	err = projects.Delete(context.TODO(), created.ID)
	assert.Equal(t, codes.NotFound, status.Code(err))
}
