// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

// package backup reads and writes Zstandard-compressed JSON dumps of the
// entry store.
package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/moygit/keymaster/internal/model"
)

// FormatVersion is written into every backup and checked on read.
const FormatVersion = 1

// Data is the document stored inside the compressed stream.
type Data struct {
	Version   int           `json:"version"`
	CreatedAt time.Time     `json:"created_at"`
	Entries   []model.Entry `json:"entries"`
}

// New builds a backup document from entries, sorted by nickname.
func New(entries []model.Entry, now time.Time) *Data {
	sorted := append([]model.Entry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Nickname < sorted[j].Nickname })
	return &Data{Version: FormatVersion, CreatedAt: now.UTC(), Entries: sorted}
}

// Write streams data as pretty-printed JSON through a zstd encoder into w.
func Write(w io.Writer, data *Data) error {
	zstdWriter, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}

	encoder := json.NewEncoder(zstdWriter)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		_ = zstdWriter.Close()
		return fmt.Errorf("could not encode json to zstd writer: %w", err)
	}
	if err := zstdWriter.Close(); err != nil {
		return fmt.Errorf("could not flush zstd writer: %w", err)
	}
	return nil
}

// Read decodes a backup produced by Write.
func Read(r io.Reader) (*Data, error) {
	zstdReader, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer zstdReader.Close()

	var data Data
	if err := json.NewDecoder(zstdReader).Decode(&data); err != nil {
		return nil, fmt.Errorf("could not decode json from zstd reader: %w", err)
	}
	if data.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported backup version %d", data.Version)
	}
	return &data, nil
}
