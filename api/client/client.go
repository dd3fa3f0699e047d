package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/vocdoni/zk-governance/api"
	"github.com/vocdoni/zk-governance/log"
)

const (
	// HTTPGET is the method string used for calling Request()
	HTTPGET = http.MethodGet
	// HTTPPOST is the method string used for calling Request()
	HTTPPOST = http.MethodPost

	errCodeNot200 = "API error"

	// DefaultRetries this enables Request() to handle the situation where the server connection fails
	DefaultRetries = 3
	// DefaultTimeout is the default timeout for the HTTP client
	DefaultTimeout = 10 * time.Second

	retryDelay = 500 * time.Millisecond
)

// HTTPclient is the governance node API HTTP client.
type HTTPclient struct {
	c       *http.Client
	host    *url.URL
	retries int
	apiKey  string
}

// New connects to the API host and returns the handle. It fails if the host
// does not answer the ping endpoint.
func New(host string) (*HTTPclient, error) {
	hostURL, err := url.Parse(host)
	if err != nil {
		return nil, err
	}

	tr := &http.Transport{
		IdleConnTimeout:    DefaultTimeout,
		DisableCompression: false,
		WriteBufferSize:    1 * 1024 * 1024, // 1 MiB
		ReadBufferSize:     1 * 1024 * 1024, // 1 MiB
	}
	c := &HTTPclient{
		c:       &http.Client{Transport: tr, Timeout: DefaultTimeout},
		host:    hostURL,
		retries: DefaultRetries,
	}
	log.Debugw("http client created", "host", hostURL.String())
	if err := c.ping(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *HTTPclient) ping() error {
	data, status, err := c.Request(HTTPGET, nil, nil, api.PingEndpoint)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%s: %d (%s)", errCodeNot200, status, data)
	}
	return nil
}

// SetHostAddr configures the host address of the API server.
func (c *HTTPclient) SetHostAddr(host *url.URL) error {
	c.host = host
	return c.ping()
}

// SetAPIKey sets the key sent with every request in the api.APIKeyHeader
// header. An empty key sends none.
func (c *HTTPclient) SetAPIKey(key string) {
	c.apiKey = key
}

// SetRetries configures the number of retries for the HTTP client. At
// least one attempt is always made.
func (c *HTTPclient) SetRetries(n int) {
	if n < 1 {
		n = 1
	}
	c.retries = n
}

// SetTimeout configures the timeout for the HTTP client.
func (c *HTTPclient) SetTimeout(d time.Duration) {
	c.c.Timeout = d
	if tr, ok := c.c.Transport.(*http.Transport); ok {
		tr.ResponseHeaderTimeout = d
	}
}

// endpoint builds the URL of urlPath on the configured host. params holds
// query key/value pairs; an odd trailing key is ignored.
func (c *HTTPclient) endpoint(params []string, urlPath ...string) *url.URL {
	u := *c.host
	u.Path = path.Join(u.Path, path.Join(urlPath...))
	values := url.Values{}
	for i := 0; i+1 < len(params); i += 2 {
		values.Set(params[i], params[i+1])
	}
	u.RawQuery = values.Encode()
	return &u
}

// do sends the request, retrying transport failures up to c.retries times.
func (c *HTTPclient) do(method, u string, body []byte) (*http.Response, error) {
	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequest(method, u, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Accept", "application/json")
		}
		if c.apiKey != "" {
			req.Header.Set(api.APIKeyHeader, c.apiKey)
		}
		resp, err := c.c.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		log.Warnw("http request failed", "url", u, "error", err.Error(), "attempt", attempt, "retries", c.retries)
		if attempt < c.retries {
			time.Sleep(retryDelay)
		}
	}
	return nil, fmt.Errorf("http request failed after %d attempts: %w", c.retries, lastErr)
}

// Request sends a raw request to urlPath on the API host and returns the
// response body and status code. A non nil jsonBody is sent as JSON and
// params are query key/value pairs.
func (c *HTTPclient) Request(method string, jsonBody any, params []string, urlPath ...string) ([]byte, int, error) {
	var body []byte
	if jsonBody != nil {
		var err error
		if body, err = json.Marshal(jsonBody); err != nil {
			return nil, 0, fmt.Errorf("failed to marshal JSON: %w", err)
		}
	}
	u := c.endpoint(params, urlPath...).String()
	if len(body) > 512 {
		log.Debugw("http client request", "type", method, "url", u, "body", string(body[:512])+"...")
	} else {
		log.Debugw("http client request", "type", method, "url", u, "body", string(body))
	}

	resp, err := c.do(method, u, body)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, resp.StatusCode, nil
}
