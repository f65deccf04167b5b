package domain

import (
	"crypto/rand"
	"strings"
)

const (
	orderCodePrefix = "ORD-"
	orderCodeLength = 8
	// no 0/O or 1/I so codes survive being read out loud
	orderCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// GenerateOrderCode returns a random public order code such as "ORD-7KQ2M9XA".
func GenerateOrderCode() (string, error) {
	randomBytes := make([]byte, orderCodeLength)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.Grow(len(orderCodePrefix) + orderCodeLength)
	sb.WriteString(orderCodePrefix)

	for _, b := range randomBytes {
		sb.WriteByte(orderCodeAlphabet[int(b)%len(orderCodeAlphabet)])
	}

	return sb.String(), nil
}
