package utils

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateSessionID derives a short session identifier from the input string.
// The hour component keeps the ID stable across requests from the same client
// within an hour without storing anything server-side.
func GenerateSessionID(input string) string {
	hash := md5.Sum([]byte(input + fmt.Sprintf("%d", time.Now().Unix()/3600)))
	return hex.EncodeToString(hash[:])[:16]
}

// MD5Hash generates MD5 hash of input string
func MD5Hash(input string) string {
	hash := md5.Sum([]byte(input))
	return hex.EncodeToString(hash[:])
}

// ValidateSessionID validates if a session ID format is correct
func ValidateSessionID(sessionID string) bool {
	if len(sessionID) != 16 {
		return false
	}

	_, err := hex.DecodeString(sessionID)
	return err == nil
}
