package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RemoteText talks to a local Ollama-compatible text-generation server:
// POST {Endpoint}/api/generate with {model, prompt, stream:false}, and
// reads the "response" string field back out (§4.F, §6), grounded on
// the request/response shape of the eval harness's own provider clients.
type RemoteText struct {
	Endpoint string
	Model    string
	Client   *http.Client
}

// NewRemoteText builds a RemoteText oracle against endpoint/model, with
// a default 60s request timeout.
func NewRemoteText(endpoint, model string) *RemoteText {
	return &RemoteText{
		Endpoint: endpoint,
		Model:    model,
		Client:   &http.Client{Timeout: 60 * time.Second},
	}
}

type remoteRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type remoteResponse struct {
	Response string `json:"response"`
}

func (r *RemoteText) CallText(ctx context.Context, prompt string) Response {
	reqBody, err := json.Marshal(remoteRequest{Model: r.Model, Prompt: prompt, Stream: false})
	if err != nil {
		return Response{OK: false, Err: fmt.Sprintf("failed to marshal request: %s", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint+"/api/generate", bytes.NewReader(reqBody))
	if err != nil {
		return Response{OK: false, Err: fmt.Sprintf("failed to build request: %s", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return Response{OK: false, Err: fmt.Sprintf("transport failure: %s", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{OK: false, Err: fmt.Sprintf("failed to read response: %s", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return Response{OK: false, Err: fmt.Sprintf("oracle endpoint returned status %d: %s", resp.StatusCode, string(body))}
	}

	var parsed remoteResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Response{OK: false, Err: fmt.Sprintf("failed to parse response: %s", err)}
	}
	return Response{OK: true, Text: parsed.Response}
}
