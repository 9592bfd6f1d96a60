package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const orderNumberAlphabet = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// GenerateGuestID creates an opaque identifier for an anonymous browsing
// session. NanoIDs are URL-friendly and compact, so they travel well in
// headers and query strings.
func GenerateGuestID() (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate guest id: %w", err)
	}
	return "guest-" + id, nil
}

// GenerateOrderNumber creates a short human-readable order reference,
// e.g. "VEL-8XK2M9QT". The alphabet omits characters that are easy to
// misread over the phone (I, O, 0-lookalikes stay out).
func GenerateOrderNumber() (string, error) {
	ref, err := gonanoid.Generate(orderNumberAlphabet, 8)
	if err != nil {
		return "", fmt.Errorf("generate order number: %w", err)
	}
	return "VEL-" + ref, nil
}

// GenerateOTPCode returns a 6-digit numeric verification code.
func GenerateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
