package seeweb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/see-platform/seesync/internal/ro"
)

// Search runs an arbitrary catalog query and returns the raw JSON answer.
// A "uid" query answers with one definition (or null); other queries
// answer with a list of ids.
func (c *Client) Search(ctx context.Context, query url.Values) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.get(ctx, PathSearch, query, &raw); err != nil {
		return nil, fmt.Errorf("searching %s: %w", query.Encode(), err)
	}
	return raw, nil
}

// GetRODef fetches the definition stored under uid.
func (c *Client) GetRODef(ctx context.Context, uid string) (ro.Def, error) {
	var def ro.Def
	if err := c.get(ctx, PathSearch, url.Values{"uid": {uid}}, &def); err != nil {
		return nil, fmt.Errorf("fetching RO %s: %w", uid, err)
	}
	if def == nil {
		return nil, fmt.Errorf("RO %s: %w", uid, ro.ErrNotFound)
	}
	return def, nil
}

// GetROData fetches the "value" field of the data RO stored under uid.
func (c *Client) GetROData(ctx context.Context, uid string) (any, error) {
	def, err := c.GetRODef(ctx, uid)
	if err != nil {
		return nil, err
	}
	return def["value"], nil
}

// Exists reports whether an RO is registered under uid.
func (c *Client) Exists(ctx context.Context, uid string) (bool, error) {
	_, err := c.GetRODef(ctx, uid)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ro.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// GetByName lists the ids of every RO of roType named name.
func (c *Client) GetByName(ctx context.Context, roType, name string) ([]string, error) {
	var ids []string
	if err := c.get(ctx, PathSearch, url.Values{"type": {roType}, "name": {name}}, &ids); err != nil {
		return nil, fmt.Errorf("searching %s '%s': %w", roType, name, err)
	}
	return ids, nil
}

// GetSingleByName returns the id of the only RO of roType named name.
func (c *Client) GetSingleByName(ctx context.Context, roType, name string) (string, error) {
	ids, err := c.GetByName(ctx, roType, name)
	if err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("no %s named '%s': %w", roType, name, ro.ErrNotFound)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%d ROs of type %s share name '%s': %w", len(ids), roType, name, ro.ErrAmbiguous)
	}
}
