package canvasapi

import (
	"encoding/json"
	"fmt"

	"github.com/go-faster/jx"
)

// DecodeObject decodes a single-record response body.
func DecodeObject(raw json.RawMessage) (map[string]any, error) {
	v, err := decodeValue(jx.DecodeBytes(raw))
	if err != nil {
		return nil, &APIError{Message: "failed to decode response: " + err.Error()}
	}
	rec, ok := v.(map[string]any)
	if !ok {
		return nil, &APIError{Message: "failed to decode response: expected a JSON object"}
	}
	return rec, nil
}

// DecodeArray decodes an un-paginated array response body, e.g. upcoming
// events. Paginated collections go through FetchAll instead.
func DecodeArray(raw json.RawMessage) ([]map[string]any, error) {
	recs, err := decodeRecords(raw)
	if err != nil {
		return nil, &APIError{Message: "failed to decode response: " + err.Error()}
	}
	return recs, nil
}

// decodeRecords decodes an array of objects, the shape every collection
// endpoint returns.
func decodeRecords(raw []byte) ([]map[string]any, error) {
	v, err := decodeValue(jx.DecodeBytes(raw))
	if err != nil {
		return nil, err
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON array")
	}
	recs := make([]map[string]any, len(arr))
	for i, el := range arr {
		rec, ok := el.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("element %d is not an object", i)
		}
		recs[i] = rec
	}
	return recs, nil
}

// decodeValue walks one JSON value into the generic form handlers consume:
// objects as map[string]any, arrays as []any, numbers as float64.
func decodeValue(d *jx.Decoder) (any, error) {
	switch d.Next() {
	case jx.String:
		return d.Str()
	case jx.Number:
		return d.Float64()
	case jx.Bool:
		return d.Bool()
	case jx.Null:
		return nil, d.Null()
	case jx.Object:
		obj := make(map[string]any)
		err := d.Obj(func(d *jx.Decoder, key string) error {
			v, err := decodeValue(d)
			if err != nil {
				return err
			}
			obj[key] = v
			return nil
		})
		return obj, err
	case jx.Array:
		arr := make([]any, 0)
		err := d.Arr(func(d *jx.Decoder) error {
			v, err := decodeValue(d)
			if err != nil {
				return err
			}
			arr = append(arr, v)
			return nil
		})
		return arr, err
	default:
		return nil, fmt.Errorf("unexpected JSON token")
	}
}
