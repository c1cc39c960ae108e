package models

import (
	"encoding/hex"
	"fmt"
	"strings"
)

func printable(p []byte) string {
	o := make([]byte, len(p))
	for i, c := range p {
		if c >= 0x20 && c <= 0x7e {
			o[i] = c
		} else {
			o[i] = '.'
		}
	}
	return string(o)
}

// HexDump formats mem as word-grouped hex lines with an ASCII column, fitting 80 columns.
func HexDump(base uint64, mem []byte, bits int) []string {
	bsz := bits / 8
	addrFmt := fmt.Sprintf("0x%%0%dx:", bsz*2)
	blockCount := ((80 - bsz*2 - 4) * 3 / 4) / ((bsz + 1) * 2)
	lineSize := blockCount * bsz

	var out []string
	blocks := make([]string, blockCount)
	tail := make([]string, blockCount)
	for i := 0; i < len(mem); i += lineSize {
		line := mem[i:]
		for j := range blocks {
			start, end := j*bsz, (j+1)*bsz
			if start >= len(line) {
				blocks[j] = strings.Repeat(" ", bsz*2)
				tail[j] = strings.Repeat(" ", bsz)
				continue
			}
			pad := 0
			if end > len(line) {
				pad, end = end-len(line), len(line)
			}
			blocks[j] = hex.EncodeToString(line[start:end]) + strings.Repeat("  ", pad)
			tail[j] = printable(line[start:end]) + strings.Repeat(" ", pad)
		}
		out = append(out, fmt.Sprintf(addrFmt, base+uint64(i))+" "+strings.Join(blocks, " ")+" ["+strings.Join(tail, " ")+"]")
	}
	return out
}
