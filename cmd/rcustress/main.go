// Command rcustress is the stress-test driver named in spec.md §1 as
// an out-of-scope external collaborator: it spawns a pool of readers
// spinning on rcu.ReadLock/ReadUnlock against a value a single writer
// republishes on an interval, and asserts (by aborting) that no reader
// ever observes a retired value through the collaborator contract.
// It is modeled directly on original_source/src/main.c.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	rcu "github.com/dijkstracula/go-rcu"
)

const sentinel = ^uint64(0)

var errUseAfterReclaim = errors.New("rcustress: reader observed a retired value through an open critical section")

func main() {
	workers := flag.Int("workers", 64, "number of reader goroutines")
	duration := flag.Duration("duration", 5*time.Second, "how long to run the stress test")
	updateInterval := flag.Duration("update-interval", 10*time.Microsecond, "writer republish interval")
	flag.Parse()

	log := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, log, *workers, *duration, *updateInterval); err != nil {
		log.Fatal().Err(err).Msg("stress test failed")
	}
}

func run(ctx context.Context, log zerolog.Logger, workers int, duration, updateInterval time.Duration) error {
	domain, err := rcu.NewDomain()
	if err != nil {
		return err
	}

	var slot atomic.Pointer[uint64]
	writer := domain.Join()
	first := uint64(1)
	rcu.Publish(&slot, &first)

	log.Info().
		Int("workers", workers).
		Dur("duration", duration).
		Dur("update_interval", updateInterval).
		Msg("starting rcu stress test")

	runCtx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	iterations := make([]uint64, workers)

	for i := 0; i < workers; i++ {
		i := i
		g.Go(func() error {
			return readWorker(runCtx, gctx, domain, &slot, &iterations[i])
		})
	}

	g.Go(func() error {
		return writerLoop(runCtx, domain, writer, &slot, updateInterval)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	domain.Leave(writer)

	var total uint64
	for i, n := range iterations {
		log.Debug().Int("worker", i).Uint64("iterations", n).Msg("worker finished")
		total += n
	}
	log.Info().Uint64("total_iterations", total).Msg("stress test complete")
	return nil
}

func readWorker(runCtx, gctx context.Context, domain *rcu.Domain, slot *atomic.Pointer[uint64], iterations *uint64) error {
	p := domain.Join()
	defer domain.Leave(p)

	for {
		select {
		case <-runCtx.Done():
			return nil
		case <-gctx.Done():
			return nil
		default:
		}

		domain.ReadLock(p)
		v := rcu.Read(p, slot)
		if *v == sentinel {
			domain.ReadUnlock(p)
			return errUseAfterReclaim
		}
		*iterations++
		domain.ReadUnlock(p)
	}
}

func writerLoop(runCtx context.Context, domain *rcu.Domain, writer *rcu.Participant, slot *atomic.Pointer[uint64], updateInterval time.Duration) error {
	ticker := time.NewTicker(updateInterval)
	defer ticker.Stop()

	var n uint64 = 1
	for {
		select {
		case <-runCtx.Done():
			return nil
		case <-ticker.C:
			n++
			next := n
			rcu.Retire(domain, slot, &next, func(old *uint64) {
				*old = sentinel
			})
		}
	}
}
