package eventbus

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type exported struct {
	file string
}

type previewed struct{}

func bufferedLogger() (*logrus.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetLevel(logrus.WarnLevel)
	return log, &buf
}

func TestPublisher_DeliversToMatchingHandlers(t *testing.T) {
	t.Parallel()
	publisher := NewEventPublisher(nil)

	var got []string
	publisher.Subscribe(func(ctx context.Context, e exported) {
		got = append(got, "ctx:"+e.file)
	})
	publisher.Subscribe(func(e exported) {
		got = append(got, e.file)
	})
	publisher.Subscribe(func(e previewed) {
		t.Error("previewed handler must not run")
	})

	publisher.Publish(context.Background(), exported{file: "a.docx"})
	publisher.Publish(exported{file: "b.docx"})

	require.Equal(t, []string{"ctx:a.docx", "b.docx"}, got)
}

func TestPublisher_LogsUnhandledEvents(t *testing.T) {
	t.Parallel()
	log, buf := bufferedLogger()
	publisher := NewEventPublisher(log)
	publisher.Subscribe(func(e *exported) {})

	publisher.Publish(previewed{})

	require.Contains(t, buf.String(), "no subscriber handled the event")
}

func TestPublisher_RecoversFromPanics(t *testing.T) {
	t.Parallel()
	log, buf := bufferedLogger()
	publisher := NewEventPublisher(log)

	calls := 0
	publisher.Subscribe(func(e exported) { panic("boom") })
	publisher.Subscribe(func(e exported) { calls++ })

	require.NotPanics(t, func() { publisher.Publish(exported{}) })
	require.Equal(t, 1, calls)
	require.Contains(t, buf.String(), "handler panicked")
	require.NotContains(t, buf.String(), "no subscriber handled the event")
}

func TestPublisher_NilArguments(t *testing.T) {
	t.Parallel()
	publisher := NewEventPublisher(nil)

	var got *exported
	called := false
	publisher.Subscribe(func(e *exported) {
		called = true
		got = e
	})
	publisher.Publish(nil)

	require.True(t, called)
	require.Nil(t, got)
}

func TestPublisher_Unsubscribe(t *testing.T) {
	t.Parallel()
	publisher := NewEventPublisher(nil)
	handler := func(e exported) {}
	publisher.Subscribe(handler)
	publisher.Subscribe(func(e previewed) {})
	require.Equal(t, 2, publisher.SubscribersCount())

	publisher.Unsubscribe(handler)
	require.Equal(t, 1, publisher.SubscribersCount())
}

func TestPublisher_ConcurrentPublish(t *testing.T) {
	t.Parallel()
	publisher := NewEventPublisher(nil)
	var count atomic.Int64
	publisher.Subscribe(func(e exported) { count.Add(1) })

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			publisher.Publish(exported{})
		}()
	}
	wg.Wait()
	require.Equal(t, int64(16), count.Load())
}

func TestMatchSignature(t *testing.T) {
	t.Parallel()

	require.True(t, MatchSignature(func(e *exported) {}, []any{&exported{}}))
	require.False(t, MatchSignature(func(e *exported) {}, []any{&previewed{}}))
	require.False(t, MatchSignature(func(e *exported) {}, []any{}))
	require.False(t, MatchSignature(func(e *exported) {}, []any{&exported{}, &exported{}}))
	require.True(t, MatchSignature(func(ctx context.Context) {}, []any{context.Background()}))
	require.False(t, MatchSignature(func(e exported) {}, []any{nil}))
	require.False(t, MatchSignature("not a func", []any{}))
}
