package pgxkb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/trialfit-scoring-server/internal/domain"
)

// RemoteClient queries an external CPIC-style guideline service for toxicity
// assessments. A 404 response means the combination is not covered and is not
// an error.
type RemoteClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewRemoteClient creates a client for the configured guideline service.
func NewRemoteClient(cfg domain.PGxConfig) *RemoteClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &RemoteClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type remoteAssessment struct {
	ToxicityTier     string  `json:"toxicity_tier"`
	AdjustmentFactor float64 `json:"adjustment_factor"`
	Guidance         string  `json:"guidance"`
	Source           string  `json:"source"`
}

// Lookup fetches the assessment for one (drug, gene, variant) combination.
func (c *RemoteClient) Lookup(ctx context.Context, drugName, gene, variant string) (*domain.PGxAssessment, error) {
	endpoint := fmt.Sprintf("%s/guidelines?%s", c.baseURL, url.Values{
		"drug":    {drugName},
		"gene":    {gene},
		"variant": {variant},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating guideline request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying guideline service: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Fall through to decode.
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("guideline service returned status %d", resp.StatusCode)
	}

	var remote remoteAssessment
	if err := json.NewDecoder(resp.Body).Decode(&remote); err != nil {
		return nil, fmt.Errorf("decoding guideline response: %w", err)
	}

	tier := domain.ToxicityTier(remote.ToxicityTier)
	if !tier.IsValid() {
		return nil, fmt.Errorf("guideline service returned unknown toxicity tier %q", remote.ToxicityTier)
	}
	if remote.AdjustmentFactor < 0.0 || remote.AdjustmentFactor > 1.0 {
		return nil, fmt.Errorf("guideline service returned out-of-range adjustment factor %v", remote.AdjustmentFactor)
	}

	source := remote.Source
	if source == "" {
		source = "remote"
	}

	return &domain.PGxAssessment{
		Tier:             tier,
		AdjustmentFactor: remote.AdjustmentFactor,
		Guidance:         remote.Guidance,
		Source:           source,
	}, nil
}
