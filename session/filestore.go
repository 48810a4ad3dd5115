package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/juho05/log"
	"github.com/xdg-go/pbkdf2"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	sealSaltSize   = 16
	sealNonceSize  = 24
	sealIterations = 210_000
)

var errSealedSlot = errors.New("cannot open sealed session file")

// FileStore keeps the record in a single JSON file. With a passphrase the file is sealed
// with secretbox under a PBKDF2-derived key.
type FileStore struct {
	path       string
	passphrase []byte
}

func NewFileStore(path string, passphrase string) *FileStore {
	f := &FileStore{path: path}
	if passphrase != "" {
		f.passphrase = []byte(passphrase)
	}
	return f
}

func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Save(ctx context.Context, rec Record) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	if f.passphrase != nil {
		data, err = f.seal(data)
		if err != nil {
			return fmt.Errorf("save session file: %w", err)
		}
	}

	dir := filepath.Dir(f.path)
	if err = os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("save session file: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("save session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save session file: %w", err)
	}
	if err = tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("save session file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("save session file: %w", err)
	}
	if err = os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("save session file: %w", err)
	}
	return nil
}

func (f *FileStore) Load(ctx context.Context) (Record, bool) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Errorf("Session file unavailable: %s", err)
		}
		return Record{}, false
	}
	if len(data) == 0 {
		return Record{}, false
	}
	if f.passphrase != nil {
		data, err = f.open(data)
		if err != nil {
			log.Tracef("Ignoring session file %s: %s", f.path, err)
			return Record{}, false
		}
	}
	rec, err := decodeRecord(data)
	if err != nil {
		log.Tracef("Ignoring malformed session file %s: %s", f.path, err)
		return Record{}, false
	}
	return rec, true
}

func (f *FileStore) Clear(ctx context.Context) error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear session file: %w", err)
	}
	return nil
}

func (f *FileStore) key(salt []byte) *[32]byte {
	var key [32]byte
	copy(key[:], pbkdf2.Key(f.passphrase, salt, sealIterations, 32, sha256.New))
	return &key
}

// seal output: salt | nonce | box
func (f *FileStore) seal(plain []byte) ([]byte, error) {
	header := make([]byte, sealSaltSize+sealNonceSize)
	if _, err := io.ReadFull(rand.Reader, header); err != nil {
		return nil, fmt.Errorf("seal: %w", err)
	}
	var nonce [sealNonceSize]byte
	copy(nonce[:], header[sealSaltSize:])
	return secretbox.Seal(header, plain, &nonce, f.key(header[:sealSaltSize])), nil
}

func (f *FileStore) open(sealed []byte) ([]byte, error) {
	if len(sealed) < sealSaltSize+sealNonceSize+secretbox.Overhead {
		return nil, errSealedSlot
	}
	var nonce [sealNonceSize]byte
	copy(nonce[:], sealed[sealSaltSize:sealSaltSize+sealNonceSize])
	plain, ok := secretbox.Open(nil, sealed[sealSaltSize+sealNonceSize:], &nonce, f.key(sealed[:sealSaltSize]))
	if !ok {
		return nil, errSealedSlot
	}
	return plain, nil
}
