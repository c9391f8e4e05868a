// Package datastorage implements the generic DataStorage detector: the
// cascade's last content-bearing fallback, which concatenates every byte
// of every P2MS pubkey position and sniffs the result for a recognizable
// pattern.
package datastorage

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"encoding/json"
	"io"
	"strings"

	"carrierscope/pkg/extract"
	"carrierscope/pkg/types"
)

// maxCompressionSignatureOffset bounds how many leading bytes of noise a
// compression magic may be preceded by before we give up looking for it.
const maxCompressionSignatureOffset = 32

// bitcoinWhitepaperTxid is a well-known historical artifact: the
// transaction that embeds the Bitcoin whitepaper PDF across its outputs.
const bitcoinWhitepaperTxid = "54e48e5f5c656b26c3bca14a8c95aa583d07ebe84dde3b7dd4a78f4238e4e699"

// Detect implements the generic DataStorage detector.
func Detect(txid string, outputs []types.P2MSOutput) (*types.DataStorage, bool) {
	if len(outputs) == 0 {
		return nil, false
	}

	var concat []byte
	for _, o := range outputs {
		concat = append(concat, extract.ConcatAll(o.Pubkeys)...)
	}
	if len(concat) == 0 {
		return nil, false
	}

	if txid == bitcoinWhitepaperTxid {
		return &types.DataStorage{
			Pattern: "BitcoinWhitepaper",
			Payload: concat,
			Metadata: map[string]string{
				"mime": "application/pdf",
			},
		}, true
	}

	if isProofOfBurn(outputs) {
		return &types.DataStorage{Pattern: "ProofOfBurn", Payload: concat}, true
	}

	if pattern, decompressed, ok := tryCompression(concat); ok {
		result := &types.DataStorage{Pattern: pattern, Payload: decompressed}
		annotateNested(result, decompressed)
		return result, true
	}

	if pattern, mime, ok := tryBinaryMagic(concat); ok {
		return &types.DataStorage{Pattern: pattern, Payload: concat, Metadata: map[string]string{"mime": mime}}, true
	}

	if isValidJSON(concat) {
		return &types.DataStorage{Pattern: "JsonData", Payload: concat}, true
	}
	if isValidXML(concat) {
		return &types.DataStorage{Pattern: "XmlData", Payload: concat}, true
	}
	if pattern, ok := tryScript(concat); ok {
		return &types.DataStorage{Pattern: pattern, Payload: concat}, true
	}
	if isMeaningfulText(concat) {
		return &types.DataStorage{Pattern: "PlainText", Payload: concat}, true
	}

	return nil, false
}

func isProofOfBurn(outputs []types.P2MSOutput) bool {
	for _, o := range outputs {
		for _, pk := range o.Pubkeys {
			if matchesAllBytes(pk, 33, 0x03, 0xFF) || matchesAllBytes(pk, 65, 0x04, 0xFF) {
				return true
			}
		}
	}
	return false
}

func matchesAllBytes(data []byte, length int, prefix, fill byte) bool {
	if len(data) != length || data[0] != prefix {
		return false
	}
	for _, b := range data[1:] {
		if b != fill {
			return false
		}
	}
	return true
}

func tryCompression(data []byte) (string, []byte, bool) {
	if off, ok := findMagic(data, []byte{0x1F, 0x8B}); ok {
		if out, err := gunzip(data[off:]); err == nil {
			return "CompressedGzip", out, true
		}
	}
	if off, ok := findZlibHeader(data); ok {
		if out, err := inflate(data[off:]); err == nil {
			return "CompressedZlib", out, true
		}
	}
	if off, ok := findBzip2Header(data); ok {
		if out, err := bunzip2(data[off:]); err == nil {
			return "CompressedBzip2", out, true
		}
	}
	return "", nil, false
}

func findMagic(data, magic []byte) (int, bool) {
	limit := maxCompressionSignatureOffset
	if limit > len(data) {
		limit = len(data)
	}
	for off := 0; off <= limit; off++ {
		if off+len(magic) > len(data) {
			break
		}
		if bytes.Equal(data[off:off+len(magic)], magic) {
			return off, true
		}
	}
	return 0, false
}

func findZlibHeader(data []byte) (int, bool) {
	limit := maxCompressionSignatureOffset
	if limit > len(data) {
		limit = len(data)
	}
	for off := 0; off <= limit; off++ {
		if off+2 > len(data) {
			break
		}
		if data[off] != 0x78 {
			continue
		}
		cmf := int(data[off])
		flg := int(data[off+1])
		if (cmf*256+flg)%31 == 0 {
			return off, true
		}
	}
	return 0, false
}

func findBzip2Header(data []byte) (int, bool) {
	limit := maxCompressionSignatureOffset
	if limit > len(data) {
		limit = len(data)
	}
	for off := 0; off <= limit; off++ {
		if off+4 > len(data) {
			break
		}
		if data[off] == 'B' && data[off+1] == 'Z' && data[off+2] == 'h' && data[off+3] >= '1' && data[off+3] <= '9' {
			return off, true
		}
	}
	return 0, false
}

func gunzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func bunzip2(data []byte) ([]byte, error) {
	r := bzip2.NewReader(bytes.NewReader(data))
	return io.ReadAll(r)
}

// annotateNested flags a decompressed buffer that itself begins with a
// nested archive magic.
func annotateNested(result *types.DataStorage, decompressed []byte) {
	switch {
	case bytes.HasPrefix(decompressed, []byte{0x50, 0x4B, 0x03, 0x04}):
		setMeta(result, "nested_archive", "zip")
	case bytes.HasPrefix(decompressed, []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}):
		setMeta(result, "nested_archive", "7z")
	case len(decompressed) > 262 && bytes.Equal(decompressed[257:262], []byte("ustar")):
		setMeta(result, "nested_archive", "tar")
	}
}

func setMeta(result *types.DataStorage, key, value string) {
	if result.Metadata == nil {
		result.Metadata = make(map[string]string)
	}
	result.Metadata[key] = value
}

func tryBinaryMagic(data []byte) (string, string, bool) {
	switch {
	case bytes.HasPrefix(data, []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		return "BinaryFile", "image/png", true
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return "BinaryFile", "image/jpeg", true
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return "BinaryFile", "image/gif", true
	case bytes.HasPrefix(data, []byte("%PDF")):
		return "BinaryFile", "application/pdf", true
	case bytes.HasPrefix(data, []byte{0x50, 0x4B, 0x03, 0x04}):
		return "BinaryFile", "application/zip", true
	case bytes.HasPrefix(data, []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}):
		return "BinaryFile", "application/x-7z-compressed", true
	case len(data) > 262 && bytes.Equal(data[257:262], []byte("ustar")):
		return "BinaryFile", "application/x-tar", true
	}
	return "", "", false
}

func isValidJSON(data []byte) bool {
	var v interface{}
	return json.Unmarshal(data, &v) == nil
}

func isValidXML(data []byte) bool {
	s := strings.TrimSpace(string(data))
	return strings.HasPrefix(s, "<?xml") || (strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">") && strings.Count(s, "<") == strings.Count(s, ">"))
}

func tryScript(data []byte) (string, bool) {
	s := string(data)
	switch {
	case strings.HasPrefix(s, "#!") && strings.Contains(s, "python"):
		return "PythonScript", true
	case strings.HasPrefix(s, "#!") && (strings.Contains(s, "bash") || strings.Contains(s, "/sh")):
		return "ShellScript", true
	case keywordDensity(s, []string{"def ", "import ", "print("}) >= 2:
		return "PythonScript", true
	case keywordDensity(s, []string{"function", "const ", "var ", "=>"}) >= 2:
		return "JavaScriptCode", true
	case keywordDensity(s, []string{"#!/bin/sh", "echo ", "fi\n", "then\n"}) >= 2:
		return "ShellScript", true
	}
	return "", false
}

func keywordDensity(s string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			n++
		}
	}
	return n
}

func isMeaningfulText(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	printable := 0
	alpha := 0
	hexDigits := 0
	for _, b := range data {
		if b >= 0x20 && b < 0x7F || b == '\n' || b == '\t' || b == '\r' {
			printable++
		}
		if b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' {
			alpha++
		}
		if b >= '0' && b <= '9' || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F' {
			hexDigits++
		}
	}
	ratio := float64(printable) / float64(len(data))
	allHex := hexDigits == len(data)
	if ratio < 0.75 || allHex || alpha < 5 {
		return false
	}
	if len(data) < 50 {
		return true
	}
	return containsCommonWord(string(data))
}

var commonWords = []string{" the ", " and ", " of ", " to ", " a ", " is ", " in ", " for "}

func containsCommonWord(s string) bool {
	lower := strings.ToLower(s)
	for _, w := range commonWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
