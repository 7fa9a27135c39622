// Package storage provides the blob backend contract used for voice notes,
// post images and profile pictures: hand over a blob, get back a URL the
// stored document can reference.
package storage

import (
	"context"
	"io"
)

type Storage interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}
