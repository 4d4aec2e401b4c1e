package dupe

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"sync/atomic"

	"github.com/spf13/afero"
)

// ErrUnreadable is wrapped by every error a Hasher returns for a file it could not read
var ErrUnreadable = errors.New("file is unreadable")

// Hasher computes a content digest for a file
type Hasher interface {
	Hash(fsys afero.Fs, path string) (string, error)
}

// TokenHasher hashes the whitespace-delimited tokens of a file with SHA-256.
// Tokens are fed to the hash back to back, so two files that differ only in
// spacing or line breaks produce the same digest.
type TokenHasher struct{}

func (TokenHasher) Hash(fsys afero.Fs, path string) (string, error) {
	return hashFile(fsys, path, func(h hash.Hash) io.Writer { return tokenWriter{h} })
}

// ByteHasher hashes the raw bytes of a file with SHA-256
type ByteHasher struct{}

func (ByteHasher) Hash(fsys afero.Fs, path string) (string, error) {
	return hashFile(fsys, path, func(h hash.Hash) io.Writer { return h })
}

// NewHasher returns the hasher registered under name ("token" or "bytes")
func NewHasher(name string) (Hasher, error) {
	switch name {
	case "", "token":
		return TokenHasher{}, nil
	case "bytes":
		return ByteHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown hash mode %q", name)
	}
}

func hashFile(fsys afero.Fs, path string, sink func(hash.Hash) io.Writer) (digest string, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("hashing file `%s`: %w: %w", path, ErrUnreadable, err)
		}
	}()

	f, err := fsys.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(sink(h), f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// tokenWriter forwards everything except whitespace to w
type tokenWriter struct {
	w io.Writer
}

func (t tokenWriter) Write(p []byte) (int, error) {
	start := 0
	for i, b := range p {
		if !isSpace(b) {
			continue
		}
		if i > start {
			if _, err := t.w.Write(p[start:i]); err != nil {
				return start, err
			}
		}
		start = i + 1
	}
	if start < len(p) {
		if _, err := t.w.Write(p[start:]); err != nil {
			return start, err
		}
	}
	return len(p), nil
}

// isSpace matches the C locale whitespace set used to split tokens
func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// CountingHasher wraps a Hasher and counts how many files it was asked to hash
type CountingHasher struct {
	Hasher Hasher
	calls  atomic.Int64
}

func (c *CountingHasher) Hash(fsys afero.Fs, path string) (string, error) {
	c.calls.Add(1)
	return c.Hasher.Hash(fsys, path)
}

// Calls returns the number of Hash invocations so far
func (c *CountingHasher) Calls() int {
	return int(c.calls.Load())
}
