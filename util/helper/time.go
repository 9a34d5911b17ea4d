package helper_util

import (
	"fmt"
	"time"
)

// ParseTime parses the RFC3339 timestamps used in query params and
// stored node properties.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	return t, err
}

// ParseNullableTime converts an optional Neo4j property, such as an API
// key's expiry or last-used timestamp, into a *time.Time. A nil
// property stays nil.
func ParseNullableTime(value interface{}) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}

	switch v := value.(type) {
	case time.Time:
		return &v, nil
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, err
		}
		return &t, nil
	default:
		return nil, fmt.Errorf("unsupported type for time parsing: %T", value)
	}
}
