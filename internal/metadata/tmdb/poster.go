package tmdb

import (
	"context"
	"strings"
)

// FetchPoster downloads poster image bytes. Only URLs under the configured
// image base are fetched.
func (c *Client) FetchPoster(ctx context.Context, posterURL string) ([]byte, error) {
	if !c.Enabled() {
		return nil, wrapError("poster", posterURL, ErrDisabled)
	}
	if !strings.HasPrefix(posterURL, c.imageBaseURL+"/") {
		return nil, wrapError("poster", posterURL, ErrBadRequest)
	}

	data, err := c.fetch(ctx, "poster", posterURL, "image/*")
	if err != nil {
		return nil, wrapError("poster", posterURL, err)
	}
	return data, nil
}
