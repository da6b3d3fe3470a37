package auth

import (
	"crypto/rand"

	"golang.org/x/crypto/bcrypt"
)

// CodeLength is the length of a confirmation code sent by email.
const CodeLength = 6

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // no 0/O/1/I, codes are typed by hand

// GenerateCode returns a random confirmation code of CodeLength characters.
func GenerateCode() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}

// HashCode creates a bcrypt hash from the given plaintext confirmation code.
// Codes are treated like passwords: only the hash is ever stored.
func HashCode(code string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// VerifyCode checks if the provided plaintext code matches the stored bcrypt hash.
func VerifyCode(hashedCode, providedCode string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedCode), []byte(providedCode))
}
