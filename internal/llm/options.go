package llm

import "net/http"

// Option configures a provider constructor.
type Option func(*providerConfig)

type providerConfig struct {
	apiKey     string
	baseURL    string
	model      string
	maxRetries int
	httpClient *http.Client
}

func newProviderConfig(defaultModel string, opts []Option) providerConfig {
	cfg := providerConfig{model: defaultModel}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// WithAPIKey sets the API key. If not provided, each provider reads its own
// environment variable.
func WithAPIKey(key string) Option {
	return func(c *providerConfig) {
		c.apiKey = key
	}
}

// WithBaseURL points the provider at a different endpoint, such as a proxy,
// a self-hosted gateway, or an httptest server.
func WithBaseURL(url string) Option {
	return func(c *providerConfig) {
		c.baseURL = url
	}
}

// WithModel overrides the default model for requests that do not name one.
func WithModel(model string) Option {
	return func(c *providerConfig) {
		if model != "" {
			c.model = model
		}
	}
}

// WithMaxRetries sets the SDK's automatic retry count. The default is zero.
func WithMaxRetries(n int) Option {
	return func(c *providerConfig) {
		c.maxRetries = n
	}
}

// WithHTTPClient replaces the transport used by the SDK.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *providerConfig) {
		c.httpClient = hc
	}
}
