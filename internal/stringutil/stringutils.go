package stringutil

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
)

func IsAnyEmpty(strings ...string) bool {
	for _, s := range strings {
		if s == "" {
			return true
		}
	}
	return false
}

func RandomBytesString(max int) string {
	var bytes = make([]byte, max)

	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}

	return base64.RawURLEncoding.EncodeToString(bytes)
}

// SplitTrimmed splits a comma-separated list, trims each entry and drops empty ones.
func SplitTrimmed(list string) []string {
	var fields = make([]string, 0, 4)
	for _, field := range strings.Split(list, ",") {
		if field = strings.TrimSpace(field); field != "" {
			fields = append(fields, field)
		}
	}
	return fields
}
