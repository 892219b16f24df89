package seeweb

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// maxBody is the number of body bytes kept in StatusError messages.
const maxBody = 200

// ErrRemote matches every failure to get a usable answer from SEEweb.
var ErrRemote = errors.New("seeweb request failed")

// StatusError is a non-2xx HTTP answer.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > maxBody {
		cut := maxBody
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut] + "..."
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Endpoint, e.StatusCode, body)
}

// Is lets errors.Is(err, ErrRemote) match.
func (e *StatusError) Is(target error) bool { return target == ErrRemote }

// APIError is an answer whose status field is not "success".
type APIError struct {
	Endpoint string
	Msg      string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: server refused request: %s", e.Endpoint, e.Msg)
}
