package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/zstd"
)

// Open loads the tree stored at path, or starts the initial layout when
// the file does not exist yet. Every later mutation rewrites the file.
// An empty path keeps the tree in memory only.
func Open(path string) (*Tree, error) {
	if path == "" {
		return NewTree(nil), nil
	}

	items, err := readItems(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		items = nil
	case err != nil:
		return nil, err
	}

	t := NewTree(items)
	t.persist = func(root []*Item) error { return writeItems(path, root) }

	if items == nil {
		if err := writeItems(path, t.root); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func readItems(path string) ([]*Item, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("storage decoder: %w", err)
	}
	defer dec.Close()

	data, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", path, err)
	}

	var items []*Item
	if err := sonic.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if items == nil {
		items = []*Item{}
	}
	return items, nil
}

func writeItems(path string, items []*Item) error {
	data, err := sonic.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode storage tree: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("storage encoder: %w", err)
	}
	compressed := enc.EncodeAll(data, nil)
	enc.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, compressed, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
