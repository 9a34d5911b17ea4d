// api/dao/helpers.go
package dao

// Neo4j node properties come back as interface{} values; these helpers
// keep the per-entity mapping functions flat.

func getStringProp(props map[string]interface{}, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

func getIntProp(props map[string]interface{}, key string) int {
	if v, ok := props[key].(int64); ok {
		return int(v)
	}
	return 0
}

func getBoolProp(props map[string]interface{}, key string) bool {
	if v, ok := props[key].(bool); ok {
		return v
	}
	return false
}
