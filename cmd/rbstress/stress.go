package main

import (
	"context"
	"fmt"
	randv2 "math/rand/v2"
	"sync"

	"github.com/google/btree"
	"github.com/panjf2000/ants/v2"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/repairing-yu/rust-red-black-tree/lib/tree"
)

type stressConfig struct {
	total    uint64
	workers  int
	seed     uint64
	validate bool
}

// runStress fans the workers out on a shared goroutine pool. Each worker
// owns an independent tree plus its reference sets, so workers never
// contend on the container itself. The first divergence wins and fails
// the whole run.
func runStress(logger *zap.Logger, stats *stressStats, cfg stressConfig) error {
	pool := lo.Must(ants.NewPool(cfg.workers))
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for w := 0; w < cfg.workers; w++ {
		w := w
		wg.Add(1)
		lo.Must0(pool.Submit(func() {
			defer wg.Done()
			if err := stressWorker(logger, stats, cfg, w); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}))
	}
	wg.Wait()
	return firstErr
}

// stressWorker inserts cfg.total random keys drawn from [1, cfg.total],
// then drains every surviving key in shuffled order. Duplicate draws
// exercise the insert no-op path, the drain exercises every delete
// shape. After each operation the tree is checked against a hash map
// and an ordered B-tree holding the same keys.
func stressWorker(logger *zap.Logger, stats *stressStats, cfg stressConfig, worker int) error {
	ctx := context.Background()
	rng := randv2.New(randv2.NewPCG(cfg.seed, cfg.seed+uint64(worker)))

	rbt := tree.NewRBTree[uint64]()
	ref := make(map[uint64]struct{}, cfg.total)
	orderedRef := btree.NewOrderedG[uint64](2)

	for i := uint64(0); i < cfg.total; i++ {
		key := rng.Uint64N(cfg.total) + 1
		rbt.Insert(key)
		ref[key] = struct{}{}
		orderedRef.ReplaceOrInsert(key)
		stats.inserts.Add(ctx, 1)

		if _, ok := rbt.Get(key); !ok {
			stats.diverges.Add(ctx, 1)
			return fmt.Errorf("worker %d: key %d absent right after insert", worker, key)
		}
		if err := crossCheck(rbt, ref, orderedRef, cfg.validate); err != nil {
			stats.diverges.Add(ctx, 1)
			return fmt.Errorf("worker %d: after insert %d: %w", worker, key, err)
		}
		stats.checks.Add(ctx, 1)
	}
	logger.Debug("insert phase done",
		zap.Int("worker", worker),
		zap.Int("distinct", len(ref)),
	)

	for _, key := range lo.Shuffle(lo.Keys(ref)) {
		rbt.Delete(key)
		delete(ref, key)
		orderedRef.Delete(key)
		stats.deletes.Add(ctx, 1)

		if _, ok := rbt.Get(key); ok {
			stats.diverges.Add(ctx, 1)
			return fmt.Errorf("worker %d: key %d still present after delete", worker, key)
		}
		if err := crossCheck(rbt, ref, orderedRef, cfg.validate); err != nil {
			stats.diverges.Add(ctx, 1)
			return fmt.Errorf("worker %d: after delete %d: %w", worker, key, err)
		}
		stats.checks.Add(ctx, 1)
	}

	if size := rbt.Size(); size != 0 {
		stats.diverges.Add(ctx, 1)
		return fmt.Errorf("worker %d: %d keys left after full drain", worker, size)
	}
	logger.Debug("drain phase done", zap.Int("worker", worker))
	return nil
}

func crossCheck(rbt tree.RBTree[uint64], ref map[uint64]struct{}, orderedRef *btree.BTreeG[uint64], validate bool) error {
	size := rbt.Size()
	if want := int64(len(ref)); size != want {
		return fmt.Errorf("size drift: tree %d, map %d", size, want)
	}
	if want := int64(orderedRef.Len()); size != want {
		return fmt.Errorf("size drift: tree %d, btree %d", size, want)
	}
	if validate {
		if err := tree.Validate[uint64](rbt); err != nil {
			return err
		}
	}
	return nil
}
