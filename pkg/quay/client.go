package quay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sclorg/container-common-scripts/pkg/config"
	"github.com/sclorg/container-common-scripts/pkg/errors"
	"github.com/sclorg/container-common-scripts/pkg/logging"
)

const defaultTimeout = 30 * time.Second

// Client talks to the quay.io repository API
type Client struct {
	BaseURL   string
	Namespace string
	Token     string
	HTTP      *http.Client

	logger zerolog.Logger
}

// NewClient creates a client for the configured API and namespace
func NewClient(cfg config.Quay, token string) *Client {
	return &Client{
		BaseURL:   strings.TrimSuffix(cfg.APIURL, "/"),
		Namespace: cfg.Namespace,
		Token:     token,
		HTTP:      &http.Client{Timeout: defaultTimeout},
		logger:    logging.GetLogger("quay"),
	}
}

// RepositoryURL returns the API URL of repo
func (c *Client) RepositoryURL(repo string) string {
	return fmt.Sprintf("%s/repository/%s/%s", c.BaseURL, url.PathEscape(c.Namespace), url.PathEscape(repo))
}

type updateRequest struct {
	Description string `json:"description"`
}

// UpdateDescription replaces the description of repo
func (c *Client) UpdateDescription(ctx context.Context, repo, description string) error {
	if c.Token == "" {
		return errors.New(errors.ErrConfigInvalid, "no quay.io API token configured")
	}

	body, err := json.Marshal(updateRequest{Description: description})
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode request")
	}

	endpoint := c.RepositoryURL(repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, errors.ErrRemote, "failed to build request for %s", endpoint)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug().
		Str("url", endpoint).
		Int("bytes", len(description)).
		Msg("Updating repository description")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return errors.Wrapf(err, errors.ErrRemote, "request to %s failed", endpoint)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.Newf(errors.ErrRemote, "quay.io answered %s for %s: %s",
			resp.Status, repo, strings.TrimSpace(string(msg))).
			WithDetail("status", resp.StatusCode)
	}

	c.logger.Info().Str("repository", c.Namespace+"/"+repo).Msg("Description updated")
	return nil
}
