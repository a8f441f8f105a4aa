package mock

import (
	"bytes"
	"context"
	"io"

	"github.com/openadmit/openadmit/pkg/storage"
)

type SaveCall struct {
	Key     string
	Content []byte
}

type Storage struct {
	Impl struct {
		Save   func(ctx context.Context, key string, r io.Reader) (int64, error)
		Open   func(ctx context.Context, key string) (io.ReadCloser, error)
		Remove func(ctx context.Context, key string) error
	}
	Calls struct {
		Save   []SaveCall
		Open   []string
		Remove []string
	}
}

var _ storage.Storage = &Storage{}

func New() *Storage {
	return &Storage{}
}

func (m *Storage) Save(ctx context.Context, key string, r io.Reader) (int64, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.Calls.Save = append(m.Calls.Save, SaveCall{Key: key, Content: content})
	if m.Impl.Save == nil {
		panic("it should not be called")
	}
	return m.Impl.Save(ctx, key, bytes.NewReader(content))
}

func (m *Storage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	m.Calls.Open = append(m.Calls.Open, key)
	if m.Impl.Open == nil {
		panic("it should not be called")
	}
	return m.Impl.Open(ctx, key)
}

func (m *Storage) Remove(ctx context.Context, key string) error {
	m.Calls.Remove = append(m.Calls.Remove, key)
	if m.Impl.Remove == nil {
		panic("it should not be called")
	}
	return m.Impl.Remove(ctx, key)
}
