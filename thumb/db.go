package thumb

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
)

// DB is the preview database written to each indexed directory. It
// maps picture checksums to previews and implements the
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces.
type DB struct {
	checksums map[uint32]uint16
	thumbs    []*Thumbnail
}

// New returns an empty preview database
func New() *DB {
	return &DB{
		checksums: make(map[uint32]uint16),
	}
}

// Length returns the number of checksums in the database
func (db *DB) Length() int {
	return len(db.checksums)
}

// Set stores the provided preview for the given CRC. The first preview
// stored for a CRC wins.
func (db *DB) Set(crc uint32, t *Thumbnail) error {
	if err := t.validate(); err != nil {
		return err
	}
	if _, ok := db.checksums[crc]; !ok {
		db.thumbs = append(db.thumbs, t)
		db.checksums[crc] = uint16(len(db.thumbs) - 1)
	}
	return nil
}

// Get returns the preview stored for the given CRC, or nil
func (db *DB) Get(crc uint32) *Thumbnail {
	i, ok := db.checksums[crc]
	if !ok {
		return nil
	}
	return db.thumbs[i]
}

// MarshalBinary encodes the database into binary form and returns the
// result
func (db *DB) MarshalBinary() ([]byte, error) {
	length := len(db.checksums)

	if length > maxEntries {
		return nil, fmt.Errorf("thumb: more than %d entries", maxEntries)
	}

	keys := make([]uint32, 0, len(db.checksums))
	for k := range db.checksums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	b := new(bytes.Buffer)
	b.WriteString(dbMagic)

	if err := binary.Write(b, binary.LittleEndian, uint16(length)); err != nil {
		return nil, err
	}

	// Write out CRC values and preview indices
	for _, k := range keys {
		if err := binary.Write(b, binary.LittleEndian, k); err != nil {
			return nil, err
		}
		if err := binary.Write(b, binary.LittleEndian, db.checksums[k]); err != nil {
			return nil, err
		}
	}

	// Write out previews, length-prefixed
	if err := binary.Write(b, binary.LittleEndian, uint16(len(db.thumbs))); err != nil {
		return nil, err
	}
	for _, t := range db.thumbs {
		blob, err := t.MarshalBinary()
		if err != nil {
			return nil, err
		}
		if err := binary.Write(b, binary.LittleEndian, uint32(len(blob))); err != nil {
			return nil, err
		}
		if _, err := b.Write(blob); err != nil {
			return nil, err
		}
	}

	return b.Bytes(), nil
}

// UnmarshalBinary decodes the database from binary form
func (db *DB) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)

	var m [len(dbMagic)]byte
	if _, err := r.Read(m[:]); err != nil || string(m[:]) != dbMagic {
		return errors.New("thumb: bad magic")
	}

	var length uint16
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return err
	}
	if int(length) > maxEntries {
		return fmt.Errorf("thumb: more than %d entries", maxEntries)
	}

	db.checksums = make(map[uint32]uint16)
	db.thumbs = nil

	for i := 0; i < int(length); i++ {
		var crc uint32
		var offset uint16
		if err := binary.Read(r, binary.LittleEndian, &crc); err != nil {
			return err
		}
		if err := binary.Read(r, binary.LittleEndian, &offset); err != nil {
			return err
		}
		db.checksums[crc] = offset
	}

	var count uint16
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		var size uint32
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return err
		}
		blob := make([]byte, size)
		if n, err := r.Read(blob); n != int(size) || err != nil {
			return errors.New("thumb: insufficient data")
		}
		t := new(Thumbnail)
		if err := t.UnmarshalBinary(blob); err != nil {
			return err
		}
		db.thumbs = append(db.thumbs, t)
	}

	for _, offset := range db.checksums {
		if int(offset) >= len(db.thumbs) {
			return errors.New("thumb: preview index out of range")
		}
	}

	return nil
}
