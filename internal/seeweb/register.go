package seeweb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/see-platform/seesync/internal/ro"
)

type apiResponse struct {
	Status string          `json:"status"`
	Msg    string          `json:"msg"`
	Res    json.RawMessage `json:"res"`
}

// Register stores def as a new RO of roType and returns the id the server
// assigned.
func (c *Client) Register(ctx context.Context, roType string, def ro.Def) (string, error) {
	body, err := json.Marshal(def)
	if err != nil {
		return "", fmt.Errorf("encoding RO %s: %w", def.ID(), err)
	}
	id, err := c.register(ctx, url.Values{"ro_type": {roType}, "ro_def": {string(body)}})
	if err != nil {
		return "", fmt.Errorf("registering %s %s: %w", roType, def.ID(), err)
	}
	return id, nil
}

// RegisterData stores def as a data RO typed by the interface named iface.
func (c *Client) RegisterData(ctx context.Context, iface string, def ro.Def) (string, error) {
	iid, err := c.GetSingleByName(ctx, ro.TypeInterface, iface)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(def)
	if err != nil {
		return "", fmt.Errorf("encoding RO %s: %w", def.ID(), err)
	}
	id, err := c.register(ctx, url.Values{"interface": {iid}, "ro_def": {string(body)}})
	if err != nil {
		return "", fmt.Errorf("registering data %s: %w", def.ID(), err)
	}
	return id, nil
}

func (c *Client) register(ctx context.Context, form url.Values) (string, error) {
	var ans apiResponse
	if err := c.postForm(ctx, PathRegister, form, &ans); err != nil {
		return "", err
	}
	if ans.Status != "success" {
		return "", &APIError{Endpoint: PathRegister, Msg: ans.Msg}
	}
	var id string
	if err := json.Unmarshal(ans.Res, &id); err != nil {
		id = string(ans.Res)
	}
	if id == "" {
		return "", &APIError{Endpoint: PathRegister, Msg: "answer carries no RO id"}
	}
	return id, nil
}

// Remove deletes the RO stored under uid. With recursive set the ROs it
// contains are removed too.
func (c *Client) Remove(ctx context.Context, uid string, recursive bool) error {
	form := url.Values{"uid": {uid}, "recursive": {strconv.FormatBool(recursive)}}
	if err := c.postForm(ctx, PathRemove, form, nil); err != nil {
		return fmt.Errorf("removing RO %s: %w", uid, err)
	}
	c.logger.Debug("removed RO", "id", uid, "recursive", recursive)
	return nil
}
