package service

import (
	"context"
	"time"

	"github.com/emrgen/transmem/internal/model"
	"github.com/emrgen/transmem/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NewProjectService creates a new ProjectService.
func NewProjectService(store store.Store) *ProjectService {
	return &ProjectService{
		store: store,
	}
}

// ProjectService manages translation projects.
type ProjectService struct {
	store store.Store
}

type ProjectView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SrcLang   string    `json:"srcLang"`
	TgtLang   string    `json:"tgtLang"`
	Prompt    string    `json:"prompt,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateProjectRequest struct {
	Name    string `json:"name"`
	SrcLang string `json:"srcLang"`
	TgtLang string `json:"tgtLang"`
	Prompt  string `json:"prompt,omitempty"`
}

func (p *ProjectService) Create(ctx context.Context, request *CreateProjectRequest) (*ProjectView, error) {
	project := &model.Project{
		ID:      uuid.New().String(),
		Name:    request.Name,
		SrcLang: request.SrcLang,
		TgtLang: request.TgtLang,
		Prompt:  request.Prompt,
	}

	if err := p.store.CreateProject(ctx, project); err != nil {
		return nil, err
	}

	logrus.Infof("project created with id: %s", project.ID)

	return projectView(project), nil
}

func (p *ProjectService) Get(ctx context.Context, id string) (*ProjectView, error) {
	project, err := p.store.GetProject(ctx, id)
	if err != nil {
		return nil, asNotFound(err, "project", id)
	}

	return projectView(project), nil
}

func (p *ProjectService) List(ctx context.Context) ([]*ProjectView, error) {
	projects, err := p.store.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*ProjectView, 0, len(projects))
	for _, project := range projects {
		views = append(views, projectView(project))
	}

	return views, nil
}

func (p *ProjectService) Delete(ctx context.Context, id string) error {
	if _, err := p.store.GetProject(ctx, id); err != nil {
		return asNotFound(err, "project", id)
	}

	return p.store.Transaction(ctx, func(tx store.Store) error {
		return tx.DeleteProject(ctx, id)
	})
}

// UpdatePrompt replaces the project's AI instruction prompt.
func (p *ProjectService) UpdatePrompt(ctx context.Context, id, prompt string) (*ProjectView, error) {
	project, err := p.store.GetProject(ctx, id)
	if err != nil {
		return nil, asNotFound(err, "project", id)
	}

	project.Prompt = prompt
	if err := p.store.UpdateProject(ctx, project); err != nil {
		return nil, err
	}

	return projectView(project), nil
}

func projectView(project *model.Project) *ProjectView {
	return &ProjectView{
		ID:        project.ID,
		Name:      project.Name,
		SrcLang:   project.SrcLang,
		TgtLang:   project.TgtLang,
		Prompt:    project.Prompt,
		CreatedAt: project.CreatedAt,
		UpdatedAt: project.UpdatedAt,
	}
}
