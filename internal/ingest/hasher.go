package ingest

import (
	"crypto/md5"
	"encoding/hex"
)

// Hasher computes the salted one-way digest used to mask a field.
type Hasher struct{}

func NewHasher() *Hasher {
	return &Hasher{}
}

// Digest returns lowercase hex MD5 of value followed by salt.
func (h *Hasher) Digest(value, salt string) string {
	sum := md5.Sum([]byte(value + salt))
	return hex.EncodeToString(sum[:])
}
