// Package log wires a shared btclog/v2 backend and the subsystem loggers
// the decoder, RPC client, and cache consult, following the same
// subsystem-logger convention btcsuite packages use.
package log

import (
	"os"

	"github.com/btcsuite/btclog/v2"
)

// Subsystem loggers. DTCT backs the detector cascade, RPCC the RPC
// transport, CACH the transaction cache.
var (
	backend = btclog.NewBackend(os.Stdout)

	DTCT = backend.Logger("DTCT")
	RPCC = backend.Logger("RPCC")
	CACH = backend.Logger("CACH")
)

// SetLevel sets the logging level (btclog.LevelTrace..LevelOff) across all
// subsystem loggers.
func SetLevel(level btclog.Level) {
	DTCT.SetLevel(level)
	RPCC.SetLevel(level)
	CACH.SetLevel(level)
}
