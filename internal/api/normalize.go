package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"
)

// isJSON reports whether a Content-Type header denotes a JSON body.
func isJSON(header http.Header) bool {
	mediaType, _, err := mime.ParseMediaType(header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// jsonError builds an Error from a JSON error body. The errors map is taken
// from whichever upstream shape is present:
//
//	{"message": "...", "errors": {"field": ["..."]}}
//	{"error": {"message": "...", "errors": {...}}}
//	{"error": "..."}
//	{"message": "..."}
//
// and always holds at least {"general": [message]}.
func jsonError(status int, body []byte) *Error {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return malformedError(status, err)
	}

	obj, _ := raw.(map[string]any)
	message := stringValue(obj["message"])
	fields := make(map[string][]string)

	switch errs := obj["errors"].(type) {
	case map[string]any:
		collectFields(fields, errs)
	case []any:
		if msgs := stringList(errs); len(msgs) > 0 {
			fields[GeneralField] = msgs
		}
	case string:
		if errs != "" {
			fields[GeneralField] = []string{errs}
		}
	}

	switch e := obj["error"].(type) {
	case string:
		if message == "" {
			message = e
		}
		if len(fields) == 0 && e != "" {
			fields[GeneralField] = []string{e}
		}
	case map[string]any:
		if message == "" {
			message = stringValue(e["message"])
		}
		if len(fields) == 0 {
			if nested, ok := e["errors"].(map[string]any); ok {
				collectFields(fields, nested)
			}
		}
	}

	if message == "" {
		if s, ok := raw.(string); ok && s != "" {
			message = s
		} else {
			message = defaultMessage(status)
		}
	}
	if len(fields) == 0 {
		fields[GeneralField] = []string{message}
	}

	return &Error{
		Status:  status,
		Message: message,
		Errors:  fields,
		Kind:    kindForStatus(status),
	}
}

// collectFields copies field messages from src into dst. Single strings
// become one-element lists, so an already-normalized map passes through
// unchanged.
func collectFields(dst map[string][]string, src map[string]any) {
	for field, v := range src {
		switch val := v.(type) {
		case string:
			dst[field] = []string{val}
		case []any:
			if msgs := stringList(val); len(msgs) > 0 {
				dst[field] = msgs
			}
		case nil:
		default:
			dst[field] = []string{fmt.Sprint(val)}
		}
	}
}

func stringList(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case map[string]any:
			if msg := stringValue(v["message"]); msg != "" {
				out = append(out, msg)
			}
		case nil:
		default:
			out = append(out, fmt.Sprint(v))
		}
	}
	return out
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

// jsonSuccess normalizes a JSON success body into a {data: ...} envelope.
// Bodies that already carry a top-level data key are kept verbatim.
func jsonSuccess(status int, header http.Header, body []byte) (*Response, *Error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return &Response{
			StatusCode: status,
			Header:     header,
			Body:       json.RawMessage(`{"data":null}`),
			Data:       json.RawMessage(`null`),
		}, nil
	}
	if !json.Valid(trimmed) {
		return nil, malformedError(http.StatusInternalServerError, fmt.Errorf("invalid JSON in %d response", status))
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err == nil && obj != nil {
		if data, ok := obj["data"]; ok {
			return &Response{StatusCode: status, Header: header, Body: json.RawMessage(trimmed), Data: data}, nil
		}
	}

	wrapped, err := json.Marshal(map[string]json.RawMessage{"data": trimmed})
	if err != nil {
		return nil, malformedError(http.StatusInternalServerError, err)
	}
	return &Response{StatusCode: status, Header: header, Body: wrapped, Data: json.RawMessage(trimmed)}, nil
}

// textSuccess wraps a non-JSON success body as {success: true, data: text}.
func textSuccess(status int, header http.Header, body []byte) (*Response, *Error) {
	text := string(body)
	data, err := json.Marshal(text)
	if err != nil {
		return nil, malformedError(http.StatusInternalServerError, err)
	}
	envelope, err := json.Marshal(struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}{true, data})
	if err != nil {
		return nil, malformedError(http.StatusInternalServerError, err)
	}
	return &Response{StatusCode: status, Header: header, Body: envelope, Data: data, Text: text}, nil
}
