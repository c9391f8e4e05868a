// Package rpc wraps github.com/btcsuite/btcd/rpcclient with the bounded
// retry/backoff policy the decoder needs: transient transport errors are
// retried with exponential backoff, but "transaction not found" style
// errors are surfaced immediately since retrying cannot fix them.
package rpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/btcd/wire"

	"carrierscope/pkg/config"
	"carrierscope/pkg/log"
)

// nonRetryableSubstrings identifies errors that retrying will never fix.
var nonRetryableSubstrings = []string{
	"no such transaction",
	"invalid transaction id",
}

// Client is a backoff-retrying Bitcoin Core RPC client exposing exactly
// the operations the decoder needs. It places no limit on concurrent calls,
// and New does not apply cfg.TimeoutSecs.
type Client struct {
	rpc *rpcclient.Client
}

// New dials a Bitcoin Core RPC endpoint per cfg.
func New(cfg config.RPCConfig) (*Client, error) {
	connCfg := &rpcclient.ConnConfig{
		Host:         cfg.Host,
		User:         cfg.User,
		Pass:         cfg.Pass,
		HTTPPostMode: true,
		DisableTLS:   cfg.DisableTLS,
	}
	rc, err := rpcclient.New(connCfg, nil)
	if err != nil {
		return nil, err
	}
	return &Client{rpc: rc}, nil
}

// Shutdown releases the underlying connection.
func (c *Client) Shutdown() {
	c.rpc.Shutdown()
}

// GetRawTransaction fetches and deserializes a transaction by txid, with
// exponential backoff (initial 100ms, multiplier 2.0, cap 30s) on
// retryable transport errors.
func (c *Client) GetRawTransaction(ctx context.Context, txid string) (*wire.MsgTx, error) {
	hash, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return nil, err
	}

	var lastErr error
	delay := 100 * time.Millisecond
	const maxDelay = 30 * time.Second

	for attempt := 0; attempt < 6; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		tx, err := c.rpc.GetRawTransaction(hash)
		if err == nil {
			return tx.MsgTx(), nil
		}
		lastErr = err
		if !retryable(err) {
			log.RPCC.Debugf("getrawtransaction %s: non-retryable error: %v", txid, err)
			return nil, err
		}

		log.RPCC.Warnf("getrawtransaction %s: attempt %d failed: %v, retrying in %s", txid, attempt+1, err, delay)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
	return nil, lastErr
}

// HealthCheck performs a cheap liveness probe against the RPC endpoint.
func (c *Client) HealthCheck() error {
	_, err := c.rpc.GetBlockChainInfo()
	return err
}

func retryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, substr := range nonRetryableSubstrings {
		if strings.Contains(msg, substr) {
			return false
		}
	}
	return true
}

// ErrShutdown is returned by callers that attempt to use a Client after
// Shutdown has been called.
var ErrShutdown = errors.New("rpc client shut down")
