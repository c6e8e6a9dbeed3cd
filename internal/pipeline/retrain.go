package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/richxcame/pricing-pipeline/pkg/httpclient"
)

// HTTPRetrainer invokes an out-of-process model-training service over HTTP,
// satisfying forecastengine.Retrainer. A nil client (no training service
// URL configured) is never constructed by NewHTTPRetrainer; callers that
// have no training service wire a nil Retrainer into New instead.
type HTTPRetrainer struct {
	client *httpclient.Client
	path   string
}

// NewHTTPRetrainer builds a Retrainer that POSTs to baseURL+path whenever
// the orchestrator's retraining gate fires.
func NewHTTPRetrainer(baseURL, path string) *HTTPRetrainer {
	return &HTTPRetrainer{
		client: httpclient.NewClient(baseURL),
		path:   path,
	}
}

type retrainResponse struct {
	Success bool               `json:"success"`
	Metrics map[string]float64 `json:"metrics"`
}

// Retrain posts an empty retrain request and parses the training service's
// success flag and reported metrics. Any transport or decode failure is
// surfaced to the caller, which treats it as a failed retrain and proceeds
// with the existing model.
func (r *HTTPRetrainer) Retrain(ctx context.Context) (bool, map[string]float64, error) {
	body, err := r.client.Post(ctx, r.path, map[string]any{}, nil)
	if err != nil {
		return false, nil, fmt.Errorf("retrain request failed: %w", err)
	}

	var resp retrainResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, nil, fmt.Errorf("retrain response decode failed: %w", err)
	}

	return resp.Success, resp.Metrics, nil
}
