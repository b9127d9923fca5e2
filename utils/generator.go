package utils

import (
	"crypto/rand"
	"math/big"
)

const temporaryPasswordLength = 10
const letterBytes = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

// GenerateTemporaryPassword returns a random password for newly created
// candidates. Ambiguous characters are left out of the alphabet.
func GenerateTemporaryPassword() (string, error) {
	b := make([]byte, temporaryPasswordLength)
	max := big.NewInt(int64(len(letterBytes)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = letterBytes[n.Int64()]
	}
	return string(b), nil
}
