package util

import (
	"net/http"
	"net/url"
)

// NewProxyFunc builds the proxy selector used by verification source
// clients. Explicit proxy URLs win over the standard environment
// variables; with neither configured the environment rules apply as-is.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		target := httpProxy
		if req.URL.Scheme == "https" && httpsProxy != "" {
			target = httpsProxy
		}
		if target == "" {
			return http.ProxyFromEnvironment(req)
		}
		return url.Parse(target)
	}
}
