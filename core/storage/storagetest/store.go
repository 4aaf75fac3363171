// Package storagetest provides an in-memory storage.Client for tests.
package storagetest

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"spaces-sync/core/storage"
)

// Op names a recorded client call.
type Op string

const (
	OpList   Op = "list"
	OpGet    Op = "get"
	OpPut    Op = "put"
	OpRemove Op = "remove"
)

// Call is one recorded client call.
type Call struct {
	Op         Op
	Key        string
	PublicRead bool
}

type object struct {
	data     []byte
	etag     string
	modified time.Time
	public   bool
}

// Store is a concurrency-safe, single-bucket-aware object store held in memory.
type Store struct {
	mu      sync.Mutex
	buckets map[string]map[string]*object
	calls   []Call

	// ListErr, when set, is returned by every ListObjects call.
	ListErr error
	// GetErr maps keys to errors returned by GetObject instead of content.
	GetErr map[string]error
	// PutErr maps keys to errors returned by PutObject.
	PutErr map[string]error
	// RemoveErr maps keys to errors returned by RemoveObject.
	RemoveErr map[string]error
}

var _ storage.Client = (*Store)(nil)

// New returns a store with the named buckets created.
func New(buckets ...string) *Store {
	s := &Store{
		buckets:   make(map[string]map[string]*object),
		GetErr:    make(map[string]error),
		PutErr:    make(map[string]error),
		RemoveErr: make(map[string]error),
	}
	for _, b := range buckets {
		s.buckets[b] = make(map[string]*object)
	}
	return s
}

// Seed writes an object without recording a call.
func (s *Store) Seed(bucket, key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bucketLocked(bucket)[key] = newObject(data, false)
}

// Contents returns a copy of every object in bucket as key -> string content.
func (s *Store) Contents(bucket string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string)
	for k, o := range s.buckets[bucket] {
		out[k] = string(o.data)
	}
	return out
}

// IsPublic reports whether the object at key was written with public-read.
func (s *Store) IsPublic(bucket, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.buckets[bucket][key]
	return ok && o.public
}

// Calls returns the recorded calls in order.
func (s *Store) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsFor returns the mutation calls (put, remove) recorded for key.
func (s *Store) CallsFor(key string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Key == key && (c.Op == OpPut || c.Op == OpRemove) {
			out = append(out, c)
		}
	}
	return out
}

// Mutations returns the number of put and remove calls recorded.
func (s *Store) Mutations() int {
	n := 0
	for _, c := range s.Calls() {
		if c.Op == OpPut || c.Op == OpRemove {
			n++
		}
	}
	return n
}

// ResetCalls clears the call log.
func (s *Store) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

func (s *Store) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.buckets[bucketName]
	return ok, nil
}

func (s *Store) ListObjects(ctx context.Context, bucketName string) ([]storage.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Op: OpList})
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	b, ok := s.buckets[bucketName]
	if !ok {
		return nil, fmt.Errorf("bucket %s does not exist", bucketName)
	}
	out := make([]storage.ObjectInfo, 0, len(b))
	for k, o := range b {
		out = append(out, storage.ObjectInfo{Key: k, Size: int64(len(o.data)), ETag: o.etag, LastModified: o.modified})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *Store) GetObject(ctx context.Context, bucketName, objectName string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Op: OpGet, Key: objectName})
	if err := s.GetErr[objectName]; err != nil {
		return nil, err
	}
	o, ok := s.buckets[bucketName][objectName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, objectName)
	}
	return io.NopCloser(bytes.NewReader(append([]byte(nil), o.data...))), nil
}

func (s *Store) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts storage.PutOptions) (storage.UploadInfo, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return storage.UploadInfo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Op: OpPut, Key: objectName, PublicRead: opts.PublicRead})
	if err := s.PutErr[objectName]; err != nil {
		return storage.UploadInfo{}, err
	}
	if int64(len(data)) != objectSize {
		return storage.UploadInfo{}, fmt.Errorf("size mismatch for %s: declared %d, read %d", objectName, objectSize, len(data))
	}
	o := newObject(data, opts.PublicRead)
	s.bucketLocked(bucketName)[objectName] = o
	return storage.UploadInfo{Key: objectName, ETag: o.etag, Size: objectSize}, nil
}

func (s *Store) RemoveObject(ctx context.Context, bucketName, objectName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Op: OpRemove, Key: objectName})
	if err := s.RemoveErr[objectName]; err != nil {
		return err
	}
	delete(s.buckets[bucketName], objectName)
	return nil
}

func (s *Store) bucketLocked(bucket string) map[string]*object {
	b, ok := s.buckets[bucket]
	if !ok {
		b = make(map[string]*object)
		s.buckets[bucket] = b
	}
	return b
}

func newObject(data []byte, public bool) *object {
	sum := md5.Sum(data)
	return &object{
		data:     append([]byte(nil), data...),
		etag:     hex.EncodeToString(sum[:]),
		modified: time.Now().UTC(),
		public:   public,
	}
}
