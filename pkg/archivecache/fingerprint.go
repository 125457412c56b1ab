package archivecache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Fingerprint captures everything that affects a generated chapter archive.
// Changes to any of these fields should invalidate the cached archive.
type Fingerprint struct {
	ChapterID   int      `json:"chapter_id"`
	ChapterName string   `json:"chapter_name"`
	ReciterPath string   `json:"reciter_path"`
	VerseKeys   []string `json:"verse_keys"`
}

// Hash computes a SHA256 hash of the fingerprint.
func (fp *Fingerprint) Hash() (string, error) {
	data, err := json.Marshal(fp)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

// Equal compares two fingerprints for equality.
func (fp *Fingerprint) Equal(other *Fingerprint) bool {
	if fp == nil && other == nil {
		return true
	}
	if fp == nil || other == nil {
		return false
	}

	hash1, err1 := fp.Hash()
	hash2, err2 := other.Hash()

	if err1 != nil || err2 != nil {
		return false
	}

	return hash1 == hash2
}
