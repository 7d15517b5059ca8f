// Package httpml reaches the scoring model over HTTP. The model server is an
// opaque collaborator: it takes the encoded feature vector and returns a raw
// probability. cmd/mlstub provides a local stand-in.
package httpml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

type Client struct {
	baseURL string
	hc      *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: timeout},
	}
}

type scoreRequest struct {
	Features []float32 `json:"features"`
}

type scoreResponse struct {
	Probability float64 `json:"probability"`
}

// Score posts the single-row vector to the model server and returns its raw
// probability.
func (c *Client) Score(ctx context.Context, vector []float32) (float64, error) {
	body, err := json.Marshal(scoreRequest{Features: vector})
	if err != nil {
		return 0, errors.Wrap(err, "marshal score request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return 0, errors.Wrap(err, "build score request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "call model server")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, errors.Errorf("model server returned %d: %s", resp.StatusCode, msg)
	}

	var out scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, errors.Wrap(err, "decode score response")
	}
	if out.Probability < 0 || out.Probability > 1 {
		return 0, fmt.Errorf("model server returned probability %f outside [0,1]", out.Probability)
	}
	return out.Probability, nil
}

// Check probes the model server's health endpoint.
func (c *Client) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return errors.Wrap(err, "model server unreachable")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("model server health returned %d", resp.StatusCode)
	}
	return nil
}
