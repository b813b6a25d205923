package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin/binding"
)

// rawPatch is a decoded partial-update body. Present keys overwrite the
// target field; absent keys leave it unchanged; an explicit null clears
// nullable fields.
type rawPatch map[string]json.RawMessage

// bindJSONBytes unmarshals an already-read body and runs the same
// struct validation ShouldBindJSON would.
func bindJSONBytes(body []byte, obj interface{}) error {
	if err := json.Unmarshal(body, obj); err != nil {
		return err
	}
	return binding.Validator.ValidateStruct(obj)
}

func decodePatch(body []byte) (rawPatch, error) {
	var raw rawPatch
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	return raw, nil
}

// field assigns *dst when the key is present in the patch
func field[T any](raw rawPatch, key string, dst **T) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	var val T
	if err := json.Unmarshal(v, &val); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dst = &val
	return nil
}

// nullableField assigns *dst when the key is present; an explicit null
// maps to a set-but-nil inner pointer, which clears the column.
func nullableField[T any](raw rawPatch, key string, dst ***T) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		var cleared *T
		*dst = &cleared
		return nil
	}
	var val T
	if err := json.Unmarshal(v, &val); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	inner := &val
	*dst = &inner
	return nil
}
