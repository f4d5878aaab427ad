package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

func getInt32Env(key string, fallback int32) int32 {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := toInt32(value); err == nil {
			return i
		}
		log.Printf("Invalid int32 for %s, using fallback", key)
	}
	return fallback
}

func toInt32(s string) (int32, error) {
	i, err := strconv.ParseInt(s, 10, 32)
	return int32(i), err
}

// getListEnv splits a comma separated variable, dropping blanks and lower-casing entries.
func getListEnv(key string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
