package api

import (
	"encoding/json"
	"net/http"
)

// Response is a normalized success envelope.
type Response struct {
	StatusCode int
	Header     http.Header

	// Body always has a top-level "data" key. JSON bodies that already had
	// one are kept byte for byte; bare payloads are wrapped; non-JSON
	// bodies become {"success": true, "data": "<text>"}.
	Body json.RawMessage

	// Data is the "data" member of Body.
	Data json.RawMessage

	// Text holds the raw body of a non-JSON response.
	Text string
}

// Decode unmarshals the data member into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Data, v); err != nil {
		return malformedError(r.StatusCode, err)
	}
	return nil
}

// DecodeBody unmarshals the whole envelope into v, for responses that carry
// siblings of data such as pagination meta.
func (r *Response) DecodeBody(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return malformedError(r.StatusCode, err)
	}
	return nil
}

// File is the payload of a binary download.
type File struct {
	Data        []byte
	ContentType string
	Filename    string
}
