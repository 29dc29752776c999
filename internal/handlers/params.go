package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// optionalBool is a boolean request field that may be left out. A blank form
// value counts as left out, so the stored value or default applies.
type optionalBool struct {
	value *bool
}

// UnmarshalParam implements binding.BindUnmarshaler for form fields.
func (b *optionalBool) UnmarshalParam(param string) error {
	param = strings.TrimSpace(param)
	if param == "" {
		b.value = nil
		return nil
	}
	v, err := strconv.ParseBool(param)
	if err != nil {
		return fmt.Errorf("invalid boolean %q", param)
	}
	b.value = &v
	return nil
}

func (b *optionalBool) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		b.value = nil
		return nil
	case bool:
		b.value = &v
		return nil
	case string:
		return b.UnmarshalParam(v)
	default:
		return fmt.Errorf("invalid boolean %s", data)
	}
}
