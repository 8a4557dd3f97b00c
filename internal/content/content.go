// Package content owns a file's bytes, either via a read-only memory-map
// (large files) or a heap copy (small files), and always exposes the result
// as a plain read-only byte slice so every downstream stage (line index, diff
// engine, file view) sees the same type regardless of which path was taken.
//
// The mmap path favors zero-copy access over a proportional allocation:
// github.com/edsrzf/mmap-go hands back the kernel's page cache directly
// rather than reading the whole file into a heap buffer.
package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// LargeFileThreshold is the size above which a file is memory-mapped rather
// than read into a heap buffer; files larger than this skip normalization.
const LargeFileThreshold = 300 * 1024 * 1024 // 300 MiB

// ErrorKind classifies why a load failed.
type ErrorKind int

const (
	ErrKindUnknown ErrorKind = iota
	ErrKindIoOpen
	ErrKindIoRead
	ErrKindMmap
	ErrKindDiffInternal
)

// LoadError is a fatal error from the load pipeline, tagged with its ErrorKind so
// callers can format a kind-specific message without a type per kind.
type LoadError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Source is a loaded file's bytes, plus enough bookkeeping to release a memory-map
// on Close. Data is never copied after load; B (in spec terms) is this slice.
type Source struct {
	Data          []byte
	Mapped        bool   // true if Data is backed by an OS memory-map
	PrettyPrinted bool   // true if the small-file JSON pretty-print path fired
	mm            mmap.MMap
	file          *os.File
}

// Close releases any OS resources held by s (the memory-map and/or file handle).
// Safe to call on a zero-value or already-closed Source.
func (s *Source) Close() error {
	if s == nil {
		return nil
	}
	var err error
	if s.mm != nil {
		err = s.mm.Unmap()
		s.mm = nil
	}
	if s.file != nil {
		if cerr := s.file.Close(); err == nil {
			err = cerr
		}
		s.file = nil
	}
	return err
}

// Load opens path and produces a Source: files larger than LargeFileThreshold
// are memory-mapped verbatim (no CRLF normalization, no JSON pretty-print --
// the mmap fast path must never allocate a proportional buffer). Smaller
// files are read to memory, CRLF-normalized to LF, and pretty-printed if they
// parse as JSON; any failure in that enrichment falls back silently to the
// normalized raw bytes.
func Load(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Kind: ErrKindIoOpen, Path: path, Err: err}
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, &LoadError{Kind: ErrKindIoOpen, Path: path, Err: err}
	}

	if info.Size() > LargeFileThreshold {
		m, err := mmap.Map(f, mmap.RDONLY, 0)
		if err != nil {
			_ = f.Close()
			return nil, &LoadError{Kind: ErrKindMmap, Path: path, Err: err}
		}
		return &Source{Data: []byte(m), Mapped: true, mm: m, file: f}, nil
	}
	defer f.Close()

	raw := make([]byte, info.Size())
	if _, err := readFull(f, raw); err != nil {
		return nil, &LoadError{Kind: ErrKindIoRead, Path: path, Err: err}
	}

	normalized := normalizeCRLF(raw)
	pretty, ok := tryPrettyPrintJSON(normalized)
	if ok {
		return &Source{Data: pretty, PrettyPrinted: true}, nil
	}
	return &Source{Data: normalized}, nil
}

func readFull(f *os.File, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := f.Read(buf[total:])
		total += n
		if err != nil {
			if total == len(buf) {
				return total, nil
			}
			return total, err
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}

// normalizeCRLF replaces every "\r\n" with "\n". If data contains no "\r", it is
// returned unchanged (no allocation).
func normalizeCRLF(data []byte) []byte {
	if !bytes.ContainsRune(data, '\r') {
		return data
	}
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n' {
			continue
		}
		out = append(out, data[i])
	}
	return out
}

// tryPrettyPrintJSON pretty-prints data if it looks like JSON (first non-whitespace
// byte is '{' or '[') and parses successfully. Any failure is reported via ok=false
// so the caller can fall back to the raw bytes silently.
func tryPrettyPrintJSON(data []byte) ([]byte, bool) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return nil, false
	}

	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return nil, false
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, trimmed, "", "  "); err != nil {
		return nil, false
	}
	buf.WriteByte('\n')
	return buf.Bytes(), true
}
