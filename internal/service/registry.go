package service

import "sync"

// uploadRegistry tracks at most one in-flight multipart upload per key. It is
// advisory and in-process only: the object store happily allocates concurrent
// uploads for the same key, the registry just stops a single gateway from
// handing out a second one while the first is still live.
type uploadRegistry struct {
	mu     sync.Mutex
	active map[string]string // key -> uploadID, "" while the create call is in flight
}

func newUploadRegistry() *uploadRegistry {
	return &uploadRegistry{active: make(map[string]string)}
}

// reserve claims the key for a new upload. It reports false if another
// upload already holds the key.
func (r *uploadRegistry) reserve(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.active[key]; ok {
		return false
	}
	r.active[key] = ""
	return true
}

// bind records the upload ID the store allocated for a reserved key.
func (r *uploadRegistry) bind(key, uploadID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[key] = uploadID
}

// release frees the key if uploadID owns it. An empty uploadID frees an
// unbound reservation; an uploadID the registry never saw (for example after
// a restart) leaves the current owner untouched.
func (r *uploadRegistry) release(key, uploadID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.active[key]; ok && current == uploadID {
		delete(r.active, key)
	}
}
