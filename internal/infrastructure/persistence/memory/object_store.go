package memory

import (
	"bytes"
	"context"

	"dashboard-backend/internal/application/ports"
	apperrors "dashboard-backend/internal/errors"
)

// ObjectStore keeps dataset files in memory.
type ObjectStore struct {
	store *Store
}

var _ ports.ObjectStore = (*ObjectStore)(nil)

func (o *ObjectStore) Put(_ context.Context, key string, body []byte, contentType string) error {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()

	o.store.objects[key] = object{body: bytes.Clone(body), contentType: contentType}
	return nil
}

func (o *ObjectStore) Get(_ context.Context, key string) ([]byte, error) {
	o.store.mu.RLock()
	defer o.store.mu.RUnlock()

	obj, ok := o.store.objects[key]
	if !ok {
		return nil, apperrors.NotFound(apperrors.CodeStorageError, "Object not found").WithResource(key).Build()
	}
	return bytes.Clone(obj.body), nil
}

func (o *ObjectStore) Delete(_ context.Context, key string) error {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()

	delete(o.store.objects, key)
	return nil
}
