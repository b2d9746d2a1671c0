package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Cache holds rendered artifacts keyed by their on-disk version
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
	Flush()
	Len() int
}

// ArtifactKey identifies one version of a file. A rewrite of the file
// changes its modification time or size and therefore its key.
func ArtifactKey(path string, modTime time.Time, size int64) string {
	h := sha256.New()
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(modTime.UnixNano(), 10)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(size, 10)))
	return "psb:v1:" + hex.EncodeToString(h.Sum(nil))
}
