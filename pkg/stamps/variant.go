package stamps

import (
	"bytes"
	"encoding/json"
	"strings"
)

// srcVariants maps a lowercased JSON "p" field value to its canonical SRC
// variant tag.
var srcVariants = map[string]string{
	"src-20":   "SRC-20",
	"src20":    "SRC-20",
	"src-721":  "SRC-721",
	"src721":   "SRC-721",
	"src-721r": "SRC-721r",
	"src721r":  "SRC-721r",
	"src-101":  "SRC-101",
	"src101":   "SRC-101",
}

// Classification is the outcome of the ordered Stamps variant classifier.
type Classification struct {
	Variant     string
	ContentType string
}

// Classify runs the ordered variant classifier against raw (the decoded
// base64 bytes if decoding succeeded, otherwise the cleaned payload
// itself).
func Classify(raw []byte) Classification {
	if isZlibHeader(raw) {
		return Classification{"Compressed", "application/zlib"}
	}
	if bytes.HasPrefix(raw, []byte{0x1F, 0x8B}) {
		return Classification{"Compressed", "application/gzip"}
	}
	if c, ok := classifyImage(raw); ok {
		return c
	}
	if c, ok := classifyJSON(raw); ok {
		return c
	}
	if looksLikeHTML(raw) {
		return Classification{"HTML", "text/html"}
	}
	if looksLikeSVG(raw) {
		return Classification{"Classic", "image/svg+xml"}
	}
	if looksLikeXML(raw) {
		return Classification{"Data", "application/xml"}
	}
	if printableRatio(raw) >= 0.8 && len(raw) >= 10 {
		return Classification{"Data", "text/plain"}
	}
	return Classification{"Data", "application/octet-stream"}
}

func isZlibHeader(raw []byte) bool {
	for _, off := range []int{0, 5, 7} {
		if off+2 > len(raw) {
			continue
		}
		if raw[off] != 0x78 {
			continue
		}
		cmf := int(raw[off])
		flg := int(raw[off+1])
		if (cmf*256+flg)%31 == 0 {
			return true
		}
	}
	return false
}

func classifyImage(raw []byte) (Classification, bool) {
	switch {
	case bytes.HasPrefix(raw, []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		return Classification{"Classic", "image/png"}, true
	case bytes.HasPrefix(raw, []byte{0xFF, 0xD8, 0xFF}):
		return Classification{"Classic", "image/jpeg"}, true
	case bytes.HasPrefix(raw, []byte("GIF87a")), bytes.HasPrefix(raw, []byte("GIF89a")):
		return Classification{"Classic", "image/gif"}, true
	case len(raw) >= 12 && bytes.HasPrefix(raw, []byte("RIFF")) && bytes.Equal(raw[8:12], []byte("WEBP")):
		return Classification{"Classic", "image/webp"}, true
	case bytes.HasPrefix(raw, []byte("BM")):
		return Classification{"Classic", "image/bmp"}, true
	}
	limit := len(raw)
	if limit > 1024 {
		limit = 1024
	}
	if bytes.Contains(raw[:limit], []byte("%PDF")) {
		return Classification{"Classic", "application/pdf"}, true
	}
	return Classification{}, false
}

func classifyJSON(raw []byte) (Classification, bool) {
	if !json.Valid(raw) {
		return Classification{}, false
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err == nil {
		if p, ok := doc["p"].(string); ok {
			if variant, ok := srcVariants[strings.ToLower(p)]; ok {
				return Classification{variant, "application/json"}, true
			}
		}
	}
	// Any other valid JSON (objects without a matching "p" field, arrays,
	// or top-level scalars) still counts as JSON data.
	return Classification{"Data", "application/json"}, true
}

func looksLikeHTML(raw []byte) bool {
	lower := strings.ToLower(string(raw))
	head := lower
	if len(head) > 200 {
		head = head[:200]
	}
	score := 0
	for _, marker := range []string{"<!doctype", "<html", "<head", "<meta", "<style"} {
		score += strings.Count(head, marker)
	}
	body := lower
	if len(body) > 1000 {
		body = body[:1000]
	}
	for _, marker := range []string{"<body", "<script"} {
		score += strings.Count(body, marker)
	}
	if strings.Contains(body, "<script") && strings.Contains(body, "</script") {
		score++
	}
	return score >= 2
}

func looksLikeSVG(raw []byte) bool {
	s := string(raw)
	if strings.HasPrefix(s, "<svg") {
		return true
	}
	return strings.HasPrefix(s, "<?xml") && strings.Contains(s, "<svg")
}

func looksLikeXML(raw []byte) bool {
	s := string(raw)
	return strings.HasPrefix(s, "<?xml") || strings.HasPrefix(s, "<rss")
}

func printableRatio(raw []byte) float64 {
	if len(raw) == 0 {
		return 0
	}
	printable := 0
	for _, b := range raw {
		if b >= 0x20 && b < 0x7F || b == '\t' || b == '\n' || b == '\r' {
			printable++
		}
	}
	return float64(printable) / float64(len(raw))
}
