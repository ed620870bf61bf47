// Package api defines the wire messages of the beercounter RPC services.
//
// Messages are plain Go structs carried by connect with a JSON codec, so any
// HTTP client can call the API with Content-Type application/json.
package api

import (
	"encoding/json"
	"fmt"
)

// Codec marshals messages as JSON. Its name replaces connect's built-in
// protobuf JSON codec, which only accepts proto.Message values.
type Codec struct{}

// Name implements connect.Codec.
func (Codec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", msg, err)
	}
	return data, nil
}

// Unmarshal implements connect.Codec. An empty body decodes to the zero message.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", msg, err)
	}
	return nil
}
