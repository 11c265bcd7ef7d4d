package store

import "context"

// Store persists the raw settings payload. Reads return (nil, nil) when
// nothing has been saved yet; decoding and default-merging happen above this
// layer.
type Store interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, payload []byte) error
}
