// internal/workflows/fulfillment/deploy/client.go
package deploy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"siteforge/internal/common/errors"
	"siteforge/internal/common/metrics"
	"siteforge/internal/models"
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Client pushes static site bundles to the hosting platform and resolves
// their public domains.
type Client struct {
	config *Config
	client *http.Client
	logger Logger
}

func NewClient(config *Config, log Logger) *Client {
	return &Client{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: log.With(map[string]interface{}{
			"component": "deploy",
		}),
	}
}

type deployRequest struct {
	Name            string       `json:"name"`
	Files           []deployFile `json:"files"`
	Target          string       `json:"target"`
	ProjectSettings struct {
		Framework *string `json:"framework"`
	} `json:"projectSettings"`
}

type deployFile struct {
	File string `json:"file"`
	Data string `json:"data"`
}

type deployResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type domainsResponse struct {
	Domains []struct {
		Name string `json:"name"`
		Main bool   `json:"main"`
	} `json:"domains"`
}

// Deploy pushes the HTML bundle as a production deployment. The raw
// platform error body is preserved in the failure detail so operators see
// exactly what the platform rejected.
func (c *Client) Deploy(ctx context.Context, projectName, html string) (*models.DeploymentRecord, error) {
	var reqBody deployRequest
	reqBody.Name = projectName
	reqBody.Files = []deployFile{{File: "index.html", Data: html}}
	reqBody.Target = "production"

	payload, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint("/v13/deployments"), bytes.NewReader(payload))
	if err != nil {
		return nil, errors.NewDeploymentFailedError(projectName, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.Token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.NewDeploymentFailedError(projectName, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewDeploymentFailedError(projectName, err.Error())
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.NewDeploymentFailedError(projectName,
			fmt.Sprintf("status %d: %s", resp.StatusCode, string(body)))
	}

	var deployment deployResponse
	if err := json.Unmarshal(body, &deployment); err != nil {
		return nil, errors.NewDeploymentFailedError(projectName, err.Error())
	}

	metrics.DeploymentsCreated.Inc()
	c.logger.Info("deployment created", map[string]interface{}{
		"projectName":  projectName,
		"deploymentId": deployment.ID,
	})

	return &models.DeploymentRecord{
		ProjectName:  projectName,
		DeploymentID: deployment.ID,
		PublicDomain: deployment.URL,
	}, nil
}

// ResolveDomain looks up the project's public domain, preferring the one
// marked main. Lookup failures fall back to the platform-assigned name;
// a deployment with a provisional domain beats no deployment.
func (c *Client) ResolveDomain(ctx context.Context, projectName string) string {
	fallbackDomain := fmt.Sprintf("%s.vercel.app", projectName)

	req, err := http.NewRequestWithContext(ctx, "GET",
		c.endpoint(fmt.Sprintf("/v9/projects/%s/domains", url.PathEscape(projectName))), nil)
	if err != nil {
		return fallbackDomain
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("domain lookup failed, using fallback", map[string]interface{}{
			"projectName": projectName,
			"error":       err.Error(),
		})
		return fallbackDomain
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("domain lookup failed, using fallback", map[string]interface{}{
			"projectName": projectName,
			"status":      resp.StatusCode,
		})
		return fallbackDomain
	}

	var domains domainsResponse
	if err := json.NewDecoder(resp.Body).Decode(&domains); err != nil || len(domains.Domains) == 0 {
		return fallbackDomain
	}

	for _, d := range domains.Domains {
		if d.Main {
			return d.Name
		}
	}
	return domains.Domains[0].Name
}

func (c *Client) endpoint(path string) string {
	u := c.config.BaseURL + path
	if c.config.TeamID != "" {
		u += "?teamId=" + url.QueryEscape(c.config.TeamID)
	}
	return u
}
