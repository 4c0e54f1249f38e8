package runner

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroup(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	g := &Group{Logger: zerolog.New(&buf)}
	boom := errors.New("boom")

	failed := g.Go(ctx, "fetcher", func(context.Context) error { return boom })
	stopped := g.Go(ctx, "scanner", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})

	err := <-failed
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "fetcher: boom", err.Error())
	_, open := <-failed
	assert.False(t, open)

	cancel()
	assert.NoError(t, <-stopped)
	g.Wait()
	assert.Contains(t, buf.String(), `"worker":"fetcher"`)
}

func TestGroup_ZeroValueLogger(t *testing.T) {
	var g Group
	assert.NoError(t, <-g.Go(context.Background(), "noop", func(context.Context) error { return nil }))
	g.Wait()
}
