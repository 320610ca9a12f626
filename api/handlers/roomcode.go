package handlers

import (
	"crypto/rand"
	"regexp"
)

const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const roomCodeLength = 5

var roomCodePattern = regexp.MustCompile(`^[A-Z0-9]{5}$`)

// GenerateRoomCode returns a short shareable trip code, e.g. "AB12C".
// Random bytes outside the largest multiple of the alphabet size are
// rejected so every character is drawn uniformly.
func GenerateRoomCode() (string, error) {
	const max = 256 - 256%len(roomCodeAlphabet)
	code := make([]byte, 0, roomCodeLength)
	buf := make([]byte, 1)
	for len(code) < roomCodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		if int(buf[0]) >= max {
			continue
		}
		code = append(code, roomCodeAlphabet[int(buf[0])%len(roomCodeAlphabet)])
	}
	return string(code), nil
}

// ValidRoomCode reports whether s looks like a trip code
func ValidRoomCode(s string) bool {
	return roomCodePattern.MatchString(s)
}
