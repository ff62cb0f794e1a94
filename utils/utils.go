package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
	"unicode/utf8"
)

const ExcerptLimit = 150

// RandHex returns n random bytes, hex encoded
func RandHex(n int) string {
	buf := make([]byte, n)
	_, err := rand.Read(buf)
	if err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// Excerpt shortens text to at most limit characters, cutting at the last
// space and appending an ellipsis. Shorter texts are returned unchanged.
func Excerpt(text string, limit int) string {
	if limit <= 0 {
		limit = ExcerptLimit
	}
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	cut := string([]rune(text)[:limit])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ") + "…"
}

// StringToUInt64 returns 0 for anything that is not a positive number
func StringToUInt64(in string) uint64 {
	i, _ := strconv.ParseUint(in, 10, 64)
	return i
}

func StringToInt(in string, fallback int) int {
	i, err := strconv.Atoi(in)
	if err != nil {
		return fallback
	}
	return i
}
