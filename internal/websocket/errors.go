// internal/websocket/errors.go
package websocket

import "errors"

var (
	ErrBadCommand = errors.New("malformed command payload")
)
