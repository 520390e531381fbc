package usecases

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sglre6355/heimdall/internal/modules/media_console/application/ports"
)

// sinkOp is one unit of media output work. A start op loads url and plays it;
// any other op unloads the output.
type sinkOp struct {
	ctx        context.Context
	start      bool
	generation uint64
	url        string
}

// sinkWorker runs media output calls on their own goroutine, in the order the
// console loop submitted them, so a slow sink never holds up the loop.
type sinkWorker struct {
	sink ports.MediaSink
	loop scheduler

	mu      sync.Mutex
	pending []sinkOp
	wake    chan struct{}
}

func newSinkWorker(sink ports.MediaSink, loop scheduler) *sinkWorker {
	return &sinkWorker{
		sink: sink,
		loop: loop,
		wake: make(chan struct{}, 1),
	}
}

// submit queues op without blocking.
func (w *sinkWorker) submit(op sinkOp) {
	w.mu.Lock()
	w.pending = append(w.pending, op)
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *sinkWorker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.wake:
		}

		for {
			op, ok := w.next()
			if !ok {
				break
			}
			w.perform(ctx, op)
		}
	}
}

func (w *sinkWorker) next() (sinkOp, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return sinkOp{}, false
	}
	op := w.pending[0]
	w.pending = w.pending[1:]
	return op, true
}

func (w *sinkWorker) perform(ctx context.Context, op sinkOp) {
	if !op.start {
		if err := w.sink.Pause(ctx); err != nil {
			slog.Warn("failed to pause media output", "error", err)
		}
		if err := w.sink.SetSource(ctx, ""); err != nil {
			slog.Warn("failed to unload media output", "error", err)
		}
		return
	}

	// Superseded before the worker got to it.
	if op.ctx.Err() != nil {
		return
	}

	err := w.sink.SetSource(op.ctx, op.url)
	if err == nil {
		err = w.sink.Play(op.ctx)
	}
	w.loop.post(sinkStartedCommand{generation: op.generation, url: op.url, err: err})
}
