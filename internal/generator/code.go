package generator

import (
	"crypto/rand"
	"fmt"
)

const (
	alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// MaxCodeLength bounds the codes accepted on lookup.
	MaxCodeLength = 32

	// bytes >= maxByte are rejected so every letter of the alphabet is equally likely.
	maxByte = 256 - (256 % len(alphabet))
)

// Code returns a random alphanumeric short code of the given length.
func Code(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}

	code := make([]byte, 0, length)
	buf := make([]byte, length*2)

	for len(code) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= maxByte {
				continue
			}
			code = append(code, alphabet[int(b)%len(alphabet)])
			if len(code) == length {
				break
			}
		}
	}

	return string(code), nil
}

// Valid reports whether code has the shape of a short code.
func Valid(code string) bool {
	if code == "" || len(code) > MaxCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
