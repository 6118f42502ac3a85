package pixmap

import (
	"context"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"pixmap/ppm"
	"pixmap/thumb"
)

const scanWorkers = 10

// Ignore any file greater than 256 MB
const maxFileSize = 256 << (10 * 2)

func (s *Scanner) findDirectories(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(dir string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a directory
			if !info.Mode().IsDir() {
				return nil
			}

			select {
			case out <- dir:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

// indexFile decodes one picture file and records it in the index and,
// when it decodes, in the per-directory preview database. Files the
// decoder rejects are logged and skipped; the scan carries on.
func (s *Scanner) indexFile(file string, sidecar *thumb.DB) error {
	data, err := ioutil.ReadFile(file)
	if err != nil {
		return err
	}

	sha, crc := checksums(data)

	images, err := ppm.DecodeAll(data)
	if err != nil {
		s.logger.Printf("Skipping \"%s\": %v\n", file, err)
		return nil
	}

	config, err := ppm.ParseConfig(data)
	if err != nil {
		return err
	}

	t, err := thumbnail(images[0])
	if err != nil {
		return err
	}
	blob, err := t.MarshalBinary()
	if err != nil {
		return err
	}

	if _, err := s.db.AddPicture(Picture{
		SHA1:   sha,
		CRC:    crc,
		Name:   filepath.Base(file),
		Width:  images[0].Width(),
		Height: images[0].Height(),
		Frames: len(images),
		Maxval: config.Maxval,
	}, blob); err != nil {
		return err
	}

	return sidecar.Set(crc, t)
}

func (s *Scanner) directoryWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for dir := range in {
			sidecar := thumb.New()
			if err := filepath.Walk(dir, func(file string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}

				// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
				if info.Name()[0] == '.' {
					if info.Mode().IsDir() {
						return filepath.SkipDir
					}
					return nil
				}

				// Ignore anything that isn't a normal file
				if !info.Mode().IsRegular() {
					return nil
				}

				if info.Size() > maxFileSize {
					return nil
				}

				if filepath.Ext(file) != ".ppm" {
					return nil
				}

				// Check files are in the "top" directory
				if filepath.Dir(file) != dir {
					return nil
				}

				return s.indexFile(file, sidecar)
			}); err != nil {
				errc <- err
				return
			}

			if sidecar.Length() > 0 {
				b, err := sidecar.MarshalBinary()
				if err != nil {
					errc <- err
					return
				}

				if err := ioutil.WriteFile(filepath.Join(dir, thumb.Filename), b, 0644); err != nil {
					errc <- err
					return
				}
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks the directory tree rooted at path, indexing every .ppm
// file it can decode and writing a preview database into each
// directory that contained at least one.
func (s *Scanner) Scan(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	dirs, errc, err := s.findDirectories(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < scanWorkers; i++ {
		errc, err := s.directoryWorker(ctx, dirs)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
