package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/mr-tron/base58"

	"cosmic-blueprint/internal/domain"
)

// InputFingerprint computes a deterministic fingerprint of a BirthInput.
// Formula: SHA256(date|time|timezone|latitude|longitude|location)
// Returns the base58-encoded hash (43 or 44 characters).
func InputFingerprint(in domain.BirthInput) string {
	data := fmt.Sprintf("%s|%s|%s|%s|%s|%s",
		in.Date,
		in.Time,
		in.Timezone,
		formatCoord(in.Latitude),
		formatCoord(in.Longitude),
		in.Location,
	)

	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}

// PairFingerprint computes a deterministic id for an ordered pair of inputs.
// Formula: SHA256(fingerprint_a|fingerprint_b)
// Returns hex-encoded hash (64 characters).
func PairFingerprint(a, b domain.BirthInput) string {
	data := fmt.Sprintf("%s|%s", InputFingerprint(a), InputFingerprint(b))

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// formatCoord uses the shortest representation that round-trips, so equal
// floats always format identically.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
