package seeweb

import (
	"context"
	"fmt"
	"net/url"
)

// Connect creates a link of linkType from src to tgt.
func (c *Client) Connect(ctx context.Context, src, tgt, linkType string) error {
	form := url.Values{"src": {src}, "tgt": {tgt}, "link_type": {linkType}}
	if err := c.postForm(ctx, PathConnect, form, nil); err != nil {
		return fmt.Errorf("linking %s -%s-> %s: %w", src, linkType, tgt, err)
	}
	return nil
}

// Disconnect removes the link of linkType from src to tgt.
func (c *Client) Disconnect(ctx context.Context, src, tgt, linkType string) error {
	form := url.Values{"source": {src}, "target": {tgt}, "link_type": {linkType}}
	if err := c.postForm(ctx, PathDisconnect, form, nil); err != nil {
		return fmt.Errorf("unlinking %s -%s-> %s: %w", src, linkType, tgt, err)
	}
	return nil
}
