package pixmap

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"pixmap/thumb"
)

// PictureDB is the sqlite-backed picture index.
type PictureDB struct {
	db *sql.DB
}

// NewPictureDB opens, creating if necessary, the picture index in the
// given file.
func NewPictureDB(file string) (*PictureDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS picture (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, crc INTEGER NOT NULL, name STRING NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, frames INTEGER NOT NULL, maxval INTEGER NOT NULL, thumb BLOB)"); err != nil {
		return nil, err
	}

	return &PictureDB{
		db: db,
	}, nil
}

// Close closes the underlying database.
func (db *PictureDB) Close() error {
	return db.db.Close()
}

// Picture describes one indexed picture. Width, Height and Maxval are
// those of the first image in the file; Frames is how many images the
// file holds.
type Picture struct {
	SHA1   string
	CRC    uint32
	Name   string
	Width  int
	Height int
	Frames int
	Maxval uint16
}

// AddPicture stores a picture and its preview, deduplicating by
// content hash, and returns the row ID.
func (db *PictureDB) AddPicture(p Picture, preview []byte) (int64, error) {
	var id int64
	switch err := db.db.QueryRow("SELECT id FROM picture WHERE sha1 = ?", p.SHA1).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT INTO picture (sha1, crc, name, width, height, frames, maxval, thumb) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			p.SHA1, p.CRC, p.Name, p.Width, p.Height, p.Frames, p.Maxval, preview)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// FindPictureByCRC returns the indexed picture with the given CRC, or
// nil if there is no match.
func (db *PictureDB) FindPictureByCRC(crc uint32) (*Picture, error) {
	p := Picture{CRC: crc}
	switch err := db.db.QueryRow("SELECT sha1, name, width, height, frames, maxval FROM picture WHERE crc = ?", crc).Scan(&p.SHA1, &p.Name, &p.Width, &p.Height, &p.Frames, &p.Maxval); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return &p, nil
	default:
		return nil, err
	}
}

// FindThumbnailBySHA1 returns the preview stored for the given content
// hash, or nil if there is no match or no preview.
func (db *PictureDB) FindThumbnailBySHA1(sha string) (*thumb.Thumbnail, error) {
	var blob []byte
	switch err := db.db.QueryRow("SELECT thumb FROM picture WHERE sha1 = ?", sha).Scan(&blob); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		if blob == nil {
			return nil, nil
		}
		t := new(thumb.Thumbnail)
		if err := t.UnmarshalBinary(blob); err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, err
	}
}
