package fetcher

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
)

// apiError is the object GitHub returns in place of a listing.
type apiError struct {
	Message string `json:"message"`
}

// CollectJSONArray decodes a top-level JSON array element by element, checking
// ctx between elements. Empty input yields no items. A top-level object with a
// "message" field is reported as an error, as GitHub sends for missing paths.
func CollectJSONArray[T any](ctx context.Context, r io.Reader) ([]T, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "json: read opening token")
	}

	switch tok {
	case json.Delim('['):
	case json.Delim('{'):
		return nil, eris.Errorf("json: expected array, got object%s", objectMessage(dec))
	default:
		return nil, eris.Errorf("json: expected '[', got %v", tok)
	}

	var items []T
	for dec.More() {
		if err := ctx.Err(); err != nil {
			return items, eris.Wrap(err, "json: context cancelled")
		}
		var item T
		if err := dec.Decode(&item); err != nil {
			return items, eris.Wrapf(err, "json: decode element %d", len(items))
		}
		items = append(items, item)
	}
	if _, err := dec.Token(); err != nil {
		return items, eris.Wrap(err, "json: read closing token")
	}
	return items, nil
}

// objectMessage scans the remaining keys of an object for "message".
func objectMessage(dec *json.Decoder) string {
	var e apiError
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return ""
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return ""
		}
		if key == "message" {
			_ = json.Unmarshal(raw, &e.Message)
		}
	}
	if e.Message == "" {
		return ""
	}
	return " (" + e.Message + ")"
}
