package utils

import (
	"crypto/rand"
	"math/big"
)

// FriendCodeCharset is the alphabet friend codes are drawn from.
const FriendCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// FriendCodeLength is the number of symbols in a friend code.
const FriendCodeLength = 6

// GenerateRandomCode returns n symbols drawn uniformly from charset.
func GenerateRandomCode(n int, charset string) (string, error) {
	b := make([]byte, n)
	max := big.NewInt(int64(len(charset)))
	for i := range b {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = charset[num.Int64()]
	}
	return string(b), nil
}

// GenerateFriendCode draws a single friend code candidate. Uniqueness is the caller's job.
func GenerateFriendCode() (string, error) {
	return GenerateRandomCode(FriendCodeLength, FriendCodeCharset)
}
