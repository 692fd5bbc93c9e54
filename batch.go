package protowire

import (
	"context"
	"io"

	"golang.org/x/sync/errgroup"
)

// BatchDecode runs FromBytes over each of sources concurrently and
// returns one []Field slice per source, in the same order as sources.
// This package performs no internal concurrency itself (spec.md §5); this
// helper exists because the spec explicitly sanctions callers doing their
// own parallelism over independent messages, and a fan-out over an
// errgroup is the idiomatic way to do that without every caller
// reinventing it. One goroutine is started per source; the number running
// at once is not limited.
//
// If any source fails to decode, BatchDecode returns the first error
// encountered (by errgroup's usual first-error-wins rule) and a nil
// slice. DecodeTyped/DecodeRawFields have no internal cancellation points
// of their own, so ctx cancellation does not interrupt a decode already in
// progress; it only prevents starting decodes that haven't begun yet.
func BatchDecode(ctx context.Context, schema []FieldType, sources []io.Reader, opts ...Option) ([][]Field, error) {
	results := make([][]Field, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fields, err := FromBytes(src, schema, opts...)
			if err != nil {
				return err
			}
			results[i] = fields
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// BatchEncode runs ToBytes over each of messages concurrently and returns
// one encoded []byte per message, in the same order as messages. See
// BatchDecode's doc comment for the concurrency and cancellation model,
// which is identical.
func BatchEncode(ctx context.Context, messages [][]Field, opts ...Option) ([][]byte, error) {
	results := make([][]byte, len(messages))
	g, ctx := errgroup.WithContext(ctx)
	for i, fields := range messages {
		i, fields := i, fields
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := ToBytes(fields, opts...)
			if err != nil {
				return err
			}
			results[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
