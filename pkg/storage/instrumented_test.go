// Copyright © 2018 One Concern

package storage_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/oneconcern/reviz/pkg/errors"
	"github.com/oneconcern/reviz/pkg/storage"
	"github.com/oneconcern/reviz/pkg/storage/localfs"
	"github.com/oneconcern/reviz/pkg/storage/status"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInstrument(t *testing.T) {
	tracer := mocktracer.New()
	store := storage.Instrument(tracer, zap.NewNop(), localfs.New(afero.NewMemMapFs()))
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a,v", bytes.NewBufferString("text")))
	has, err := store.Has(ctx, "a,v")
	require.NoError(t, err)
	assert.True(t, has)

	b, err := storage.ReadAll(ctx, store, "a,v")
	require.NoError(t, err)
	assert.Equal(t, "text", string(b))

	_, err = store.Get(ctx, "b,v")
	assert.True(t, errors.Is(err, status.ErrNotExists))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a,v"}, keys)
	require.NoError(t, store.Delete(ctx, "a,v"))

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 6)
	assert.Equal(t, "storage.localfs.Put", spans[0].OperationName)
	assert.Equal(t, "storage.localfs.Get", spans[3].OperationName)
	assert.Equal(t, true, spans[3].Tag("error"))
	assert.Nil(t, spans[2].Tag("error"))

	parent := tracer.StartSpan("commit")
	_, _ = store.Has(opentracing.ContextWithSpan(ctx, parent), "a,v")
	parent.Finish()
	spans = tracer.FinishedSpans()
	child := spans[len(spans)-2]
	assert.Equal(t, parent.Context().(mocktracer.MockSpanContext).SpanID, child.ParentID)
}
