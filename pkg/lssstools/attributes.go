package lssstools

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/lssstools/lssstools-go/pkg/lssstools/dataset"
	"github.com/lssstools/lssstools-go/pkg/lssstools/models"
)

// setInfoAttributes copies the info block into dataset attributes.
// Array files only hold scalar attributes, so nested values become their
// JSON text and booleans become "true"/"false".
func setInfoAttributes(attrs *dataset.Attributes, info models.Info) error {
	for _, key := range info.Keys() {
		v, _ := info.Get(key)
		value, err := attributeValue(v)
		if err != nil {
			return NewRecordError("info", key, err)
		}
		attrs.Set(key, value)
	}
	return nil
}

// attributeValue converts a decoded JSON value to string, int64 or float64.
func attributeValue(v any) (any, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	case float64:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "null", nil
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}
	return fmt.Sprint(v), nil
}
