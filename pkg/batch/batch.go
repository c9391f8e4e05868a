// Package batch fans a txid list out across a bounded worker pool and
// collects one DecodeResult per input at that input's own index; tasks
// complete in no fixed order.
package batch

import (
	"context"
	"sync"

	"github.com/btcsuite/btcd/wire"
	"golang.org/x/sync/semaphore"

	"carrierscope/pkg/cache"
	"carrierscope/pkg/decode"
	"carrierscope/pkg/rpc"
	"carrierscope/pkg/types"
)

// Runner fans decode work for many txids out across a semaphore-bounded
// worker pool.
type Runner struct {
	client   *rpc.Client
	cache    *cache.Cache
	sem      *semaphore.Weighted
	network  string
}

// NewRunner builds a Runner with the given worker pool size.
func NewRunner(client *rpc.Client, txCache *cache.Cache, network string, poolSize int) *Runner {
	if poolSize < 1 {
		poolSize = 1
	}
	return &Runner{
		client:  client,
		cache:   txCache,
		sem:     semaphore.NewWeighted(int64(poolSize)),
		network: network,
	}
}

// Run decodes every txid in txids concurrently (bounded by the runner's
// pool size) and returns one DecodeResult per input: tasks complete in no
// fixed order, but the result for txids[i] is stored at index i.
func (r *Runner) Run(ctx context.Context, txids []string) []types.DecodeResult {
	results := make([]types.DecodeResult, len(txids))
	var wg sync.WaitGroup

	for i, txid := range txids {
		if err := r.sem.Acquire(ctx, 1); err != nil {
			results[i] = types.DecodeResult{
				Txid: txid,
				Ok:   false,
				Error: &types.ErrorInfo{
					Code:    "CANCELLED",
					Message: err.Error(),
				},
			}
			continue
		}

		wg.Add(1)
		go func(idx int, txid string) {
			defer wg.Done()
			defer r.sem.Release(1)
			results[idx] = r.decodeOne(ctx, txid)
		}(i, txid)
	}

	wg.Wait()
	return results
}

func (r *Runner) decodeOne(ctx context.Context, txid string) types.DecodeResult {
	tx, ok := r.cache.Get(txid)
	if !ok {
		fetched, err := r.client.GetRawTransaction(ctx, txid)
		if err != nil {
			return types.DecodeResult{
				Txid: txid,
				Ok:   false,
				Error: &types.ErrorInfo{
					Code:    "RPC_ERROR",
					Message: err.Error(),
				},
			}
		}
		tx = fetched
		r.cache.Put(txid, tx)
	}

	prevouts := r.resolvePrevouts(ctx, tx)
	return decode.Decode(tx, r.network, prevouts)
}

// resolvePrevouts fetches the previous output for every input, best
// effort: a failed lookup simply leaves that outpoint absent from the map,
// which degrades Omni sender resolution but never fails the decode.
func (r *Runner) resolvePrevouts(ctx context.Context, tx *wire.MsgTx) map[wire.OutPoint]decode.Prevout {
	prevouts := make(map[wire.OutPoint]decode.Prevout, len(tx.TxIn))
	for _, in := range tx.TxIn {
		prevTxid := in.PreviousOutPoint.Hash.String()
		prevTx, ok := r.cache.Get(prevTxid)
		if !ok {
			fetched, err := r.client.GetRawTransaction(ctx, prevTxid)
			if err != nil {
				continue
			}
			prevTx = fetched
			r.cache.Put(prevTxid, prevTx)
		}
		idx := in.PreviousOutPoint.Index
		if int(idx) >= len(prevTx.TxOut) {
			continue
		}
		out := prevTx.TxOut[idx]
		prevouts[in.PreviousOutPoint] = decode.Prevout{
			ValueSats:   out.Value,
			ScriptBytes: out.PkScript,
		}
	}
	return prevouts
}
