// internal/websocket/utils.go
package websocket

import "encoding/json"

// DecodeData re-decodes a message payload, which arrives as generic JSON
// values, into target.
func DecodeData(data interface{}, target interface{}) error {
	if data == nil {
		return ErrBadCommand
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}
