package digitize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"papercast/pkg/models"
)

const apiKeyHeader = "api-subscription-key"

// ClientConfig configures the REST job client.
type ClientConfig struct {
	// APIKey is the subscription key sent with every request.
	APIKey string

	// BaseURL is the service endpoint, e.g. "https://api.sarvam.ai".
	BaseURL string

	// HTTPClient is optional; a 2-minute-timeout client is used when nil.
	HTTPClient *http.Client
}

// Client implements Digitizer against the document digitization REST API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a job client. The API key is required.
func NewClient(config ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.sarvam.ai"
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 2 * time.Minute}
	}
	return &Client{
		apiKey:  config.APIKey,
		baseURL: config.BaseURL,
		http:    httpClient,
	}, nil
}

type createJobRequest struct {
	Language     string `json:"language"`
	OutputFormat string `json:"output_format"`
}

type createJobResponse struct {
	JobID string `json:"job_id"`
}

// CreateJob registers a new digitization job bound to a language and output format.
func (c *Client) CreateJob(ctx context.Context, language string, format models.OutputFormat) (Job, error) {
	body, err := json.Marshal(createJobRequest{
		Language:     language,
		OutputFormat: string(format),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/doc-digitization/jobs", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	var created createJobResponse
	if err := c.doJSON(req, &created); err != nil {
		return nil, err
	}
	if created.JobID == "" {
		return nil, fmt.Errorf("%w: create returned no job id", ErrUnexpectedStatus)
	}

	return &remoteJob{client: c, id: created.JobID}, nil
}

// remoteJob is one job handle bound to a Client.
type remoteJob struct {
	client *Client
	id     string
}

func (j *remoteJob) ID() string {
	return j.id
}

// Upload sends the chunk file as multipart form data.
func (j *remoteJob) Upload(ctx context.Context, path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := part.Write(file); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		j.url("/files"), &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set(apiKeyHeader, j.client.apiKey)

	return j.client.doJSON(req, nil)
}

// Start begins remote processing of the uploaded document.
func (j *remoteJob) Start(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, j.url("/start"), nil)
	if err != nil {
		return err
	}
	req.Header.Set(apiKeyHeader, j.client.apiKey)

	return j.client.doJSON(req, nil)
}

// Status fetches the job's current state.
func (j *remoteJob) Status(ctx context.Context) (JobStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.url("/status"), nil)
	if err != nil {
		return JobStatus{}, err
	}
	req.Header.Set(apiKeyHeader, j.client.apiKey)

	var status JobStatus
	if err := j.client.doJSON(req, &status); err != nil {
		return JobStatus{}, err
	}
	return status, nil
}

// Download fetches the zip archive holding the job's digitized output.
func (j *remoteJob) Download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.url("/output"), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(apiKeyHeader, j.client.apiKey)

	resp, err := j.client.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %s: %s", ErrUnexpectedStatus, resp.Status, string(body))
	}

	return io.ReadAll(resp.Body)
}

func (j *remoteJob) url(suffix string) string {
	return j.client.baseURL + "/doc-digitization/jobs/" + j.id + suffix
}

// doJSON executes the request, checks for a 2xx status, and decodes the
// response body into out when out is non-nil.
func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s: %s", ErrUnexpectedStatus, resp.Status, string(body))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
