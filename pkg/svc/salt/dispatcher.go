package salt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Dispatcher executes a Salt execution-module function against a node
// target and returns the raw per-node reply (a JSON object mapping node id
// to result data). Retry policy is the implementation's concern, not the
// caller's.
type Dispatcher interface {
	Local(ctx context.Context, target, fun string, args ...string) ([]byte, error)
}

// defaultHTTPTimeout bounds a single salt-api request. State runs can be
// slow, so this is generous.
const defaultHTTPTimeout = 15 * time.Minute

// APIClient is a Dispatcher backed by salt-api (rest_cherrypy) running on
// the master, authenticating with PAM external auth.
type APIClient struct {
	baseURL  string
	username string
	password string
	token    string
	client   *http.Client
}

// NewAPIClient creates a salt-api client for the given endpoint, e.g.
// "https://master:8000".
func NewAPIClient(baseURL, username, password string) *APIClient {
	return &APIClient{
		baseURL:  baseURL,
		username: username,
		password: password,
		client:   &http.Client{Timeout: defaultHTTPTimeout},
	}
}

// loginReply mirrors salt-api's /login response envelope.
type loginReply struct {
	Return []struct {
		Token string `json:"token"`
	} `json:"return"`
}

// runReply mirrors salt-api's run response envelope. RawMessage keeps the
// per-node object bytes untouched so downstream parsing can preserve the
// dispatcher's enumeration order.
type runReply struct {
	Return []json.RawMessage `json:"return"`
}

// Login authenticates against salt-api and stores the session token.
func (c *APIClient) Login(ctx context.Context) error {
	payload := map[string]string{
		"username": c.username,
		"password": c.password,
		"eauth":    "pam",
	}

	body, err := c.post(ctx, "/login", "", payload)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}

	var reply loginReply

	err = json.Unmarshal(body, &reply)
	if err != nil {
		return fmt.Errorf("%w: decoding login reply: %w", ErrAuthFailed, err)
	}

	if len(reply.Return) == 0 || reply.Return[0].Token == "" {
		return fmt.Errorf("%w: no token in login reply", ErrAuthFailed)
	}

	c.token = reply.Return[0].Token

	return nil
}

// Local runs fun on the minions matched by target using the local client
// and returns the raw node-to-result object.
func (c *APIClient) Local(ctx context.Context, target, fun string, args ...string) ([]byte, error) {
	if c.token == "" {
		err := c.Login(ctx)
		if err != nil {
			return nil, err
		}
	}

	logrus.WithFields(logrus.Fields{
		"target": target,
		"fun":    fun,
		"args":   args,
	}).Debug("dispatching salt run")

	payload := map[string]any{
		"client": "local",
		"tgt":    target,
		"fun":    fun,
		"arg":    args,
	}

	body, err := c.post(ctx, "/", c.token, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s on %q: %w", ErrDispatchFailed, fun, target, err)
	}

	var reply runReply

	err = json.Unmarshal(body, &reply)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding run reply: %w", ErrDispatchFailed, err)
	}

	if len(reply.Return) == 0 {
		return nil, fmt.Errorf("%w: empty return for %s on %q", ErrDispatchFailed, fun, target)
	}

	return reply.Return[0], nil
}

// post sends a JSON payload and returns the response body.
func (c *APIClient) post(ctx context.Context, path, token string, payload any) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	request, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded),
	)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	if token != "" {
		request.Header.Set("X-Auth-Token", token)
	}

	response, err := c.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", response.Status)
	}

	var buf bytes.Buffer

	_, err = buf.ReadFrom(response.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return buf.Bytes(), nil
}
