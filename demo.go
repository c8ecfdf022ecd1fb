package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"taskprogress/internal/config"
	"taskprogress/internal/progress"
	"taskprogress/internal/signal"
	"taskprogress/internal/summary"
)

// dependencySize is the simulated download size of the dependency step.
const dependencySize = 48 << 20

func runDemo(opts *options, out io.Writer) error {
	e, err := setUp(opts, out, false)
	if err != nil {
		return err
	}
	defer e.close()

	return signal.SetUpHandler(e.interrupt, func(ctx context.Context) error {
		if opts.watch {
			stop := e.watch(ctx, opts)
			defer stop()
		}

		err := runScenario(ctx, e, opts)
		if err := finish(e, opts, out); err != nil {
			return err
		}
		return err
	})
}

// interrupt stops every running task and lets the render loop close.
func (e *env) interrupt(sig os.Signal) {
	e.logger.Info("interrupted", "signal", sig.String())
	e.ind.CancelAll()
	e.ind.SetCanClose()
}

// watch feeds config file changes into the indicators until the returned
// function is called.
func (e *env) watch(ctx context.Context, opts *options) func() {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		err := config.Watch(ctx, e.cfgPath, func(cfg *config.Config, err error) {
			if err != nil {
				e.logger.Warn("config reload failed", "path", e.cfgPath, "error", err)
				return
			}
			e.ind.SetFormat(opts.apply(cfg.Format()))
		})
		if err != nil {
			e.logger.Warn("config watch stopped", "path", e.cfgPath, "error", err)
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

// runScenario simulates a build: the main module waits on the logging
// module while dependencies download. It returns once every task finished
// or ctx is done.
func runScenario(ctx context.Context, e *env, opts *options) error {
	ind := e.ind
	mainTask := ind.NewSpinnerTask("Building Main",
		progress.WithShortDescription("Main"),
		progress.WithMessage("waiting on Logging"),
	)
	ind.AddTask(mainTask)
	ind.Show()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		deps := ind.NewBarTask("Fetching dependencies", dependencySize, progress.WithShortDescription("Deps"))
		ind.AddTask(deps)
		chunk := max(dependencySize/opts.steps*3, 1)
		for fetched := 0; fetched < dependencySize; fetched += chunk {
			if err := sleep(ctx, opts.step); err != nil {
				deps.Cancel()
				return err
			}
			deps.SetMessage(fmt.Sprintf("%s of %s", humanize.Bytes(uint64(min(fetched+chunk, dependencySize))), humanize.Bytes(dependencySize)))
			deps.Advance(chunk)
		}
		return nil
	})

	g.Go(func() error {
		if err := sleep(ctx, 10*opts.step); err != nil {
			mainTask.Cancel()
			return err
		}
		logging := ind.NewBarTask("Building Logging", opts.steps, progress.WithShortDescription("Logging"))
		ind.AddTask(logging)
		for i := range opts.steps {
			if err := sleep(ctx, opts.step); err != nil {
				logging.Cancel()
				mainTask.Cancel()
				return err
			}
			logging.Step()
			switch i {
			case opts.steps / 2:
				ind.PostMessage("We're halfway there")
			case opts.steps * 3 / 4:
				logging.SetMessage("Almost done...")
			}
		}
		mainTask.SetMessage("linking")
		if err := sleep(ctx, 5*opts.step); err != nil {
			mainTask.Cancel()
			return err
		}
		mainTask.Finish()
		return nil
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// finish allows the render loop to close, waits for it and prints the
// summary.
func finish(e *env, opts *options, out io.Writer) error {
	e.ind.SetCanClose()
	if err := e.ind.Wait(context.Background()); err != nil {
		return fmt.Errorf("failed to render progress: %w", err)
	}

	tasks := e.ind.Snapshot()
	e.logger.Info("run finished", "summary", summary.Counts(tasks))
	if !opts.summary {
		return nil
	}
	return summary.Write(out, tasks, summary.Options{
		Indent: "  ",
		Theme:  e.ind.Theme(),
		Now:    e.ind.Now(),
	})
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
