package repository

import (
	"context"
	"net/url"

	"github.com/noah-isme/sma-admin-console/pkg/apiclient"
)

// resource is a REST collection of T under path, e.g. /subjects.
type resource[T any] struct {
	client *apiclient.Client
	path   string
}

func newResource[T any](client *apiclient.Client, path string) resource[T] {
	return resource[T]{client: client, path: path}
}

func (r resource[T]) itemPath(id string, rest ...string) string {
	return r.path + apiclient.PathJoin(append([]string{id}, rest...)...)
}

func (r resource[T]) list(ctx context.Context, query url.Values) ([]T, error) {
	var items []T
	if err := r.client.Get(ctx, r.path, query, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (r resource[T]) get(ctx context.Context, id string) (*T, error) {
	var item T
	if err := r.client.Get(ctx, r.itemPath(id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// create posts item and overwrites it with the stored document.
func (r resource[T]) create(ctx context.Context, item *T) error {
	return r.client.Post(ctx, r.path, item, item)
}

// update puts item and overwrites it with the stored document.
func (r resource[T]) update(ctx context.Context, id string, item *T) error {
	return r.client.Put(ctx, r.itemPath(id), item, item)
}

func (r resource[T]) remove(ctx context.Context, id string) error {
	return r.client.Delete(ctx, r.itemPath(id))
}

// setQuery adds key=value when value is not empty.
func setQuery(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
