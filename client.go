package transmem

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/emrgen/transmem/internal/exchange"
	"github.com/emrgen/transmem/internal/match"
	"github.com/emrgen/transmem/internal/service"
)

// Client talks to a running engine over its HTTP command surface.
type Client struct {
	base string
	http *http.Client
}

func NewClient(port string) *Client {
	return &Client{
		base: "http://localhost:" + port + "/v1",
		http: &http.Client{},
	}
}

func (c *Client) do(method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequest(method, c.base+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		var remote struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(res.Body).Decode(&remote); err == nil && remote.Error != "" {
			return fmt.Errorf("%s", remote.Error)
		}
		return fmt.Errorf("request failed with status %d", res.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) CreateProject(request *service.CreateProjectRequest) (*service.ProjectView, error) {
	var view service.ProjectView
	err := c.do(http.MethodPost, "/projects", request, &view)
	return &view, err
}

func (c *Client) ListProjects() ([]*service.ProjectView, error) {
	var views []*service.ProjectView
	err := c.do(http.MethodGet, "/projects", nil, &views)
	return views, err
}

func (c *Client) GetProject(id string) (*service.ProjectView, error) {
	var view service.ProjectView
	err := c.do(http.MethodGet, "/projects/"+id, nil, &view)
	return &view, err
}

func (c *Client) DeleteProject(id string) error {
	return c.do(http.MethodDelete, "/projects/"+id, nil, nil)
}

func (c *Client) UpdatePrompt(id, prompt string) (*service.ProjectView, error) {
	var view service.ProjectView
	err := c.do(http.MethodPut, "/projects/"+id+"/prompt", map[string]string{"prompt": prompt}, &view)
	return &view, err
}

func (c *Client) AddFile(projectID, path string, options service.AddFileOptions) (*service.FileView, error) {
	var view service.FileView
	err := c.do(http.MethodPost, "/projects/"+projectID+"/files", map[string]any{"path": path, "options": options}, &view)
	return &view, err
}

func (c *Client) ListFiles(projectID string) ([]*service.FileView, error) {
	var views []*service.FileView
	err := c.do(http.MethodGet, "/projects/"+projectID+"/files", nil, &views)
	return views, err
}

type SegmentsPage struct {
	Segments []*service.SegmentView `json:"segments"`
	Total    int64                  `json:"total"`
}

func (c *Client) GetSegmentsPage(fileID string, offset, limit int) (*SegmentsPage, error) {
	var page SegmentsPage
	path := fmt.Sprintf("/files/%s/segments?offset=%d&limit=%d", fileID, offset, limit)
	err := c.do(http.MethodGet, path, nil, &page)
	return &page, err
}

func (c *Client) ExportFile(fileID, outputPath string, options service.ExportOptions, force bool) error {
	return c.do(http.MethodPost, "/files/"+fileID+"/export", map[string]any{
		"outputPath": outputPath,
		"options":    options,
		"force":      force,
	}, nil)
}

func (c *Client) UpdateTarget(request *service.UpdateTargetRequest) (*service.UpdateTargetResponse, error) {
	var response service.UpdateTargetResponse
	err := c.do(http.MethodPut, "/segments/"+request.SegmentID+"/target", request, &response)
	return &response, err
}

func (c *Client) ListTMs() ([]*service.TMView, error) {
	var views []*service.TMView
	err := c.do(http.MethodGet, "/tms", nil, &views)
	return views, err
}

func (c *Client) CreateTM(request *service.CreateTMRequest) (*service.TMView, error) {
	var view service.TMView
	err := c.do(http.MethodPost, "/tms", request, &view)
	return &view, err
}

func (c *Client) DeleteTM(id string) error {
	return c.do(http.MethodDelete, "/tms/"+id, nil, nil)
}

func (c *Client) Mount(projectID, tmID string, priority int, permission string) (*service.MountView, error) {
	var view service.MountView
	err := c.do(http.MethodPost, "/projects/"+projectID+"/mounts", map[string]any{
		"tmId":       tmID,
		"priority":   priority,
		"permission": permission,
	}, &view)
	return &view, err
}

func (c *Client) Unmount(projectID, tmID string) error {
	return c.do(http.MethodDelete, "/projects/"+projectID+"/mounts/"+tmID, nil, nil)
}

func (c *Client) ListMounts(projectID string) ([]*service.MountView, error) {
	var views []*service.MountView
	err := c.do(http.MethodGet, "/projects/"+projectID+"/mounts", nil, &views)
	return views, err
}

func (c *Client) Get100Match(projectID, srcHash string) (*match.Result, error) {
	var result match.Result
	err := c.do(http.MethodGet, "/projects/"+projectID+"/match100?hash="+url.QueryEscape(srcHash), nil, &result)
	return &result, err
}

func (c *Client) GetMatches(projectID, segmentID string) (*match.Result, error) {
	var result match.Result
	err := c.do(http.MethodGet, "/projects/"+projectID+"/matches?segmentId="+url.QueryEscape(segmentID), nil, &result)
	return &result, err
}

func (c *Client) Concordance(projectID, query string) (*service.ConcordanceResult, error) {
	var result service.ConcordanceResult
	err := c.do(http.MethodGet, "/projects/"+projectID+"/concordance?q="+url.QueryEscape(query), nil, &result)
	return &result, err
}

func (c *Client) ImportPreview(path string) (*exchange.Preview, error) {
	var preview exchange.Preview
	err := c.do(http.MethodPost, "/tmx/preview", map[string]string{"path": path}, &preview)
	return &preview, err
}

func (c *Client) ImportExecute(tmID, path string, options service.ImportOptions) (int, error) {
	var response struct {
		Inserted int `json:"inserted"`
	}
	err := c.do(http.MethodPost, "/tms/"+tmID+"/import", map[string]any{"path": path, "options": options}, &response)
	return response.Inserted, err
}

func (c *Client) CommitToMain(tmID, fileID string) (int, error) {
	var response struct {
		Committed int `json:"committed"`
	}
	err := c.do(http.MethodPost, "/tms/"+tmID+"/commit", map[string]string{"fileId": fileID}, &response)
	return response.Committed, err
}

func (c *Client) ExportTM(tmID, path string) error {
	return c.do(http.MethodPost, "/tms/"+tmID+"/export", map[string]string{"path": path}, nil)
}
