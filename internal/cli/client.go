package cli

import (
	"context"
	"fmt"

	"github.com/see-platform/seesync/internal/branding"
	"github.com/see-platform/seesync/internal/config"
	"github.com/see-platform/seesync/internal/seeweb"
)

// newClient builds a SEEweb client from the resolved settings. With login
// set it opens a session when a user is configured.
func newClient(ctx context.Context, login bool) (*seeweb.Client, error) {
	s := config.Current()
	c, err := seeweb.New(s.Root,
		seeweb.WithTimeout(s.Timeout),
		seeweb.WithLogger(logger),
		seeweb.WithMetrics(recorder))
	if err != nil {
		return nil, err
	}
	if !login {
		return c, nil
	}
	if s.User == "" {
		logger.Warn("no SEEweb user configured, continuing anonymously",
			"hint", fmt.Sprintf("set %s or --user", branding.EnvVar("user")))
		return c, nil
	}
	if err := c.Login(ctx, s.User, s.Password); err != nil {
		return nil, err
	}
	return c, nil
}
