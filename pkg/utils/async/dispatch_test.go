package async_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/ecoloop/ecoloop/pkg/domain/types"
	"github.com/ecoloop/ecoloop/pkg/utils/async"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func waitTimeout(t *testing.T, wg *sync.WaitGroup, d time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(d):
		t.Fatal("Async handler did not complete within timeout")
	}
}

func TestDispatch(t *testing.T) {
	t.Run("Execute handler asynchronously", func(t *testing.T) {
		var wg sync.WaitGroup
		executed := false

		wg.Add(1)
		async.Dispatch(context.Background(), func(ctx context.Context) error {
			defer wg.Done()
			executed = true
			return nil
		})

		waitTimeout(t, &wg, time.Second)
		gt.True(t, executed)
	})

	t.Run("Handle errors in async handler", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)
		async.Dispatch(context.Background(), func(ctx context.Context) error {
			defer wg.Done()
			return goerr.New("test error")
		})
		waitTimeout(t, &wg, time.Second)
	})

	t.Run("Recover from panic in async handler", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)
		async.Dispatch(context.Background(), func(ctx context.Context) error {
			defer wg.Done()
			panic("test panic")
		})
		waitTimeout(t, &wg, time.Second)
	})

	t.Run("Handler outlives a cancelled request context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var wg sync.WaitGroup
		var handlerErr error
		wg.Add(1)
		async.Dispatch(ctx, func(ctx context.Context) error {
			defer wg.Done()
			handlerErr = ctx.Err()
			return nil
		})
		waitTimeout(t, &wg, time.Second)
		gt.NoError(t, handlerErr)
	})
}

func TestContextPreservation(t *testing.T) {
	t.Run("AuthContext is preserved", func(t *testing.T) {
		user := model.NewUser("donor@example.org", "Dana", "hash", types.RoleDonor)
		authCtx := model.NewAuthContext(user, types.SessionID("session-789"))
		ctx := model.WithAuthContext(context.Background(), authCtx)

		var wg sync.WaitGroup
		var preserved *model.AuthContext

		wg.Add(1)
		async.Dispatch(ctx, func(ctx context.Context) error {
			defer wg.Done()
			preserved, _ = model.GetAuthContext(ctx)
			return nil
		})
		waitTimeout(t, &wg, time.Second)

		gt.NotNil(t, preserved)
		gt.Equal(t, authCtx.UserID, preserved.UserID)
		gt.Equal(t, authCtx.SessionID, preserved.SessionID)
		gt.Equal(t, authCtx.Email, preserved.Email)
		gt.True(t, preserved != authCtx)
	})

	t.Run("Logger is preserved in background context", func(t *testing.T) {
		ctx := ctxlog.With(context.Background(), ctxlog.From(context.Background()))

		var wg sync.WaitGroup
		var hasLogger bool

		wg.Add(1)
		async.Dispatch(ctx, func(ctx context.Context) error {
			defer wg.Done()
			hasLogger = ctxlog.From(ctx) != nil
			return nil
		})
		waitTimeout(t, &wg, time.Second)
		gt.True(t, hasLogger)
	})
}
