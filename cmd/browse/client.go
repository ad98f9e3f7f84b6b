package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"space-traveling/cmd/internal/httpclient"
	"space-traveling/cmd/web/dto"
)

// apiClient reads the listing from the web front-end's JSON API.
type apiClient struct {
	base *httpclient.BaseClient
}

func newAPIClient(baseURL string, httpClient *http.Client) *apiClient {
	return &apiClient{base: httpclient.NewBaseClientWithClient(httpClient, baseURL)}
}

// Posts returns the first page, or the page cursor points to when it is not empty.
func (c *apiClient) Posts(ctx context.Context, cursor string) (dto.PostPageDTO, error) {
	var q url.Values
	if cursor != "" {
		q = url.Values{"cursor": {cursor}}
	}
	req, err := c.base.NewRequest(ctx, http.MethodGet, "/api/v1/posts", q)
	if err != nil {
		return dto.PostPageDTO{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.base.Do(req)
	if err != nil {
		return dto.PostPageDTO{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return dto.PostPageDTO{}, fmt.Errorf("web ListPosts: status=%d body=%s", resp.StatusCode, string(b))
	}
	var page dto.PostPageDTO
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return dto.PostPageDTO{}, err
	}
	return page, nil
}
