package util

import "strconv"

const DefaultLimit = 10

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func ClampLimitOffset(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
