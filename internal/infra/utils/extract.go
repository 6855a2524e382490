package utils

import (
	"fmt"

	"github.com/thoas/go-funk"
)

// ExtractValue uses go-funk to look up a dotted property path in a decoded
// document. The boolean is false when the path does not resolve.
func ExtractValue(doc any, propertyPath string) (any, bool) {
	if propertyPath == "" || doc == nil {
		return nil, false
	}

	value := funk.Get(doc, propertyPath)
	if value == nil {
		return nil, false
	}
	return value, true
}

// ExtractStringValue returns the value at propertyPath formatted as a string,
// or an empty string when it is absent.
func ExtractStringValue(doc any, propertyPath string) string {
	value, ok := ExtractValue(doc, propertyPath)
	if !ok {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		// JSON numbers decode as float64; OCS codes are integers.
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
