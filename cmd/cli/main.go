package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"carrierscope/pkg/batch"
	"carrierscope/pkg/cache"
	"carrierscope/pkg/config"
	"carrierscope/pkg/crypto"
	"carrierscope/pkg/decode"
	"carrierscope/pkg/rpc"
	"carrierscope/pkg/types"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "decode":
		handleDecode(os.Args[2:])
	case "arc4":
		handleARC4(os.Args[2:])
	case "batch":
		handleBatch(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  carrierscope decode <txid>")
	fmt.Fprintln(os.Stderr, "  carrierscope decode --fixture <fixture.json>")
	fmt.Fprintln(os.Stderr, "  carrierscope arc4 <txid> <hex>")
	fmt.Fprintln(os.Stderr, "  carrierscope batch <txid-list-file>")
}

func handleDecode(args []string) {
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	if args[0] == "--fixture" {
		if len(args) < 2 {
			usage()
			os.Exit(1)
		}
		decodeFixture(args[1])
		return
	}

	decodeLive(args[0])
}

func decodeFixture(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		printError("FILE_NOT_FOUND", err.Error())
		os.Exit(1)
	}

	var fixture types.Fixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		printError("INVALID_FIXTURE", err.Error())
		os.Exit(1)
	}

	rawBytes, err := hex.DecodeString(fixture.RawTx)
	if err != nil {
		printError("INVALID_FIXTURE", fmt.Sprintf("raw_tx is not valid hex: %v", err))
		os.Exit(1)
	}

	tx := &wire.MsgTx{}
	if err := tx.Deserialize(bytes.NewReader(rawBytes)); err != nil {
		printError("INVALID_TX", err.Error())
		os.Exit(1)
	}

	prevouts := make(map[wire.OutPoint]decode.Prevout, len(fixture.Prevouts))
	for _, p := range fixture.Prevouts {
		hash, err := chainhash.NewHashFromStr(p.Txid)
		if err != nil {
			continue
		}
		scriptBytes, err := hex.DecodeString(p.ScriptPubkeyHex)
		if err != nil {
			continue
		}
		prevouts[wire.OutPoint{Hash: *hash, Index: p.Vout}] = decode.Prevout{
			ValueSats:   p.ValueSats,
			ScriptBytes: scriptBytes,
		}
	}

	result := decode.Decode(tx, fixture.Network, prevouts)
	printResult(result)
}

func decodeLive(txid string) {
	cfg, err := config.Load(os.Getenv("CARRIERSCOPE_CONFIG"))
	if err != nil {
		printError("CONFIG_ERROR", err.Error())
		os.Exit(1)
	}

	client, err := rpc.New(cfg.RPC)
	if err != nil {
		printError("RPC_ERROR", err.Error())
		os.Exit(1)
	}
	defer client.Shutdown()

	runner := batch.NewRunner(client, cache.New(nil), "mainnet", cfg.Batch.PoolSize)
	results := runner.Run(context.Background(), []string{txid})
	printResult(results[0])
}

func handleARC4(args []string) {
	if len(args) < 2 {
		usage()
		os.Exit(1)
	}
	key := crypto.ARC4Key(args[0])
	if key == nil {
		printError("INVALID_KEY", "txid must be a 64-character hex string")
		os.Exit(1)
	}
	data, err := hex.DecodeString(args[1])
	if err != nil {
		printError("INVALID_HEX", err.Error())
		os.Exit(1)
	}
	decoded := crypto.Decode(key, data)
	fmt.Println(hex.EncodeToString(decoded))
}

func handleBatch(args []string) {
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}

	f, err := os.Open(args[0])
	if err != nil {
		printError("FILE_NOT_FOUND", err.Error())
		os.Exit(1)
	}
	defer f.Close()

	var txids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			txids = append(txids, line)
		}
	}

	cfg, err := config.Load(os.Getenv("CARRIERSCOPE_CONFIG"))
	if err != nil {
		printError("CONFIG_ERROR", err.Error())
		os.Exit(1)
	}
	client, err := rpc.New(cfg.RPC)
	if err != nil {
		printError("RPC_ERROR", err.Error())
		os.Exit(1)
	}
	defer client.Shutdown()

	var store cache.Store
	if cfg.Cache.Enabled {
		bolt, err := cache.OpenBoltStore(cfg.Cache.DBPath)
		if err != nil {
			printError("CACHE_ERROR", err.Error())
			os.Exit(1)
		}
		defer bolt.Close()
		store = bolt
	}

	runner := batch.NewRunner(client, cache.New(store), "mainnet", cfg.Batch.PoolSize)
	results := runner.Run(context.Background(), txids)

	outputJSON, _ := json.MarshalIndent(results, "", "  ")
	fmt.Println(string(outputJSON))
}

func printResult(result types.DecodeResult) {
	outputJSON, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(outputJSON))
	if !result.Ok {
		os.Exit(1)
	}
}

func printError(code, message string) {
	result := types.DecodeResult{
		Ok: false,
		Error: &types.ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
	outputJSON, _ := json.Marshal(result)
	fmt.Println(string(outputJSON))
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}
