package game

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	RoomCodeLength = 6
	RoomCodeChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// roomCodeAttempts bounds the retries on code collision.
	roomCodeAttempts = 5
)

// GenerateRoomCode draws a code from crypto/rand.
func GenerateRoomCode() (string, error) {
	code := make([]byte, RoomCodeLength)
	max := big.NewInt(int64(len(RoomCodeChars)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = RoomCodeChars[n.Int64()]
	}
	return string(code), nil
}

// NormalizeRoomCode trims and upper-cases a client supplied code and checks its shape.
func NormalizeRoomCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !ValidRoomCode(code) {
		return "", ErrCodeInvalid
	}
	return code, nil
}

func ValidRoomCode(code string) bool {
	if len(code) != RoomCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(RoomCodeChars, rune(code[i])) {
			return false
		}
	}
	return true
}
