package pixmap

import (
	"crypto/sha1"
	"fmt"
	"hash/crc32"
)

// checksums returns the SHA-1 of b as uppercase hex along with its
// IEEE CRC-32. The SHA-1 deduplicates rows in the picture index while
// the CRC-32 keys the per-directory preview database.
func checksums(b []byte) (string, uint32) {
	return fmt.Sprintf("%X", sha1.Sum(b)), crc32.ChecksumIEEE(b)
}
