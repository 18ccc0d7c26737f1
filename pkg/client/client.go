package client

import (
	"net/http"

	"aristo/pkg/utils"

	"github.com/go-resty/resty/v2"
)

const userAgent = "aristo (+https://github.com/aristo/aristo)"

// NewBaseHTTPClient builds the unauthenticated client that sits underneath the
// OAuth transport. TLS verification and proxies come from the config.
func NewBaseHTTPClient(config *utils.Config) *http.Client {
	proxies := NewProxyPool(config.HTTP.Proxies)
	return &http.Client{
		Transport: NewCustomTransport(config.HTTP.VerifyTLS, proxies.ProxyFunc()),
		Timeout:   config.HTTP.TimeoutDuration(),
	}
}

// NewRestClient wraps an (already authorized) http.Client with timeouts,
// retries and rate limiting.
func NewRestClient(config *utils.Config, hc *http.Client) *resty.Client {
	var r *resty.Client
	if hc != nil {
		r = resty.NewWithClient(hc)
	} else {
		r = resty.New()
	}

	r.SetTimeout(config.HTTP.TimeoutDuration())
	r.SetHeader("User-Agent", userAgent)

	// Retry transport failures and throttling, never client errors. A POST
	// may have been applied even when its response was lost, so it is sent once.
	r.SetRetryCount(config.HTTP.MaxRetries)
	r.AddRetryCondition(func(resp *resty.Response, err error) bool {
		if resp != nil && resp.Request != nil && resp.Request.Method == http.MethodPost {
			return false
		}
		if err != nil {
			return true
		}
		code := resp.StatusCode()
		return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
	})

	limiter := NewRateLimiter(config.HTTP.RequestsPerSecond)
	r.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	r.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		utils.Debug.Printf("%s %s -> %d (%s)\n",
			resp.Request.Method, resp.Request.URL, resp.StatusCode(), resp.Time())
		return nil
	})

	return r
}
