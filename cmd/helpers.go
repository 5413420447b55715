package main

import (
	"strings"
	"time"

	"github.com/Tenjin25/ARRealignment/internal/config"
	"github.com/Tenjin25/ARRealignment/internal/fetcher"
)

func newFetcher(c *config.Config) *fetcher.HTTPFetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:   c.Fetch.UserAgent,
		Timeout:     time.Duration(c.Fetch.TimeoutSecs) * time.Second,
		MaxRetries:  c.Fetch.MaxRetries,
		GitHubToken: c.Fetch.GitHubToken,
	})
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
