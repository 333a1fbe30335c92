package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// RemoteError is a non-2xx answer from the managed backend.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string { return e.Message }

// GatewayClient issues requests against the managed backend. Every request
// carries the project's anon key; user calls also carry the user's bearer token.
type GatewayClient struct {
	baseURL string
	anonKey string
	client  *http.Client
}

func NewGatewayClient(baseURL, anonKey string, timeout time.Duration) *GatewayClient {
	return &GatewayClient{
		baseURL: baseURL,
		anonKey: anonKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Do sends the request. An empty token falls back to the anon key.
func (g *GatewayClient) Do(ctx context.Context, method, path string, query url.Values, token string, headers http.Header, body io.Reader) (*http.Response, error) {
	u := g.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}

	if token == "" {
		token = g.anonKey
	}
	req.Header.Set("apikey", g.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		for _, vv := range v {
			req.Header.Add(k, vv)
		}
	}

	return g.client.Do(req)
}

// DoJSON marshals in as the body, sends the request and decodes the answer into out.
// A nil out discards the body.
func (g *GatewayClient) DoJSON(ctx context.Context, method, path string, query url.Values, token string, headers http.Header, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	resp, err := g.Do(ctx, method, path, query, token, headers, body)
	if err != nil {
		return err
	}
	return DecodeJSON(resp, out)
}

// DecodeJSON closes the body. Error statuses become *RemoteError carrying the
// backend's message when one can be found.
func DecodeJSON(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return &RemoteError{Status: resp.StatusCode, Message: remoteMessage(resp.StatusCode, body)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// remoteMessage picks the first message field GoTrue or PostgREST put in the body.
func remoteMessage(status int, body []byte) string {
	var payload struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		for _, m := range []string{payload.Message, payload.Msg, payload.ErrorDescription, payload.Error} {
			if m != "" {
				return m
			}
		}
	}
	return fmt.Sprintf("upstream error: status=%d", status)
}
