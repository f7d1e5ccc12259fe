package rag

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

const (
	indexFileName    = "index.bin"
	metadataFileName = "metadata.json"
)

// fileStore persists the index as a binary vector blob plus a parallel JSON
// metadata file. Each file is written to a temp file and renamed so a single
// write is atomic; a crash between the two writes can still leave the pair
// out of step, which is an accepted risk.
type fileStore struct {
	dir string
}

func newFileStore(dir string) (*fileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &fileStore{dir: dir}, nil
}

func (s *fileStore) indexPath() string    { return filepath.Join(s.dir, indexFileName) }
func (s *fileStore) metadataPath() string { return filepath.Join(s.dir, metadataFileName) }

// save rewrites both files wholesale.
func (s *fileStore) save(dim int, vectors [][]float32, metadata []ChunkMeta) error {
	if err := s.writeIndex(dim, vectors); err != nil {
		return fmt.Errorf("write index blob: %w", err)
	}
	if err := s.writeMetadata(metadata); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// load reads both files. Missing files are reported as an error so the
// caller can start with an empty index.
func (s *fileStore) load() (int, [][]float32, []ChunkMeta, error) {
	dim, vectors, err := s.readIndex()
	if err != nil {
		return 0, nil, nil, err
	}

	raw, err := os.ReadFile(s.metadataPath())
	if err != nil {
		return 0, nil, nil, err
	}
	var metadata []ChunkMeta
	if err := json.Unmarshal(raw, &metadata); err != nil {
		return 0, nil, nil, fmt.Errorf("parse metadata: %w", err)
	}

	if len(metadata) != len(vectors) {
		return 0, nil, nil, fmt.Errorf("metadata/vector count mismatch: %d vs %d", len(metadata), len(vectors))
	}
	return dim, vectors, metadata, nil
}

// Blob layout: uint32 dimension, uint32 count, then count*dimension
// little-endian float32 values.
func (s *fileStore) writeIndex(dim int, vectors [][]float32) error {
	buf := make([]byte, 8+4*dim*len(vectors))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(dim))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(vectors)))

	off := 8
	for _, vec := range vectors {
		for _, v := range vec {
			binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
			off += 4
		}
	}
	return atomicWrite(s.indexPath(), buf)
}

func (s *fileStore) readIndex() (int, [][]float32, error) {
	raw, err := os.ReadFile(s.indexPath())
	if err != nil {
		return 0, nil, err
	}
	if len(raw) < 8 {
		return 0, nil, fmt.Errorf("index blob truncated: %d bytes", len(raw))
	}

	dim := int(binary.LittleEndian.Uint32(raw[0:4]))
	count := int(binary.LittleEndian.Uint32(raw[4:8]))
	if len(raw) != 8+4*dim*count {
		return 0, nil, fmt.Errorf("index blob size mismatch: dim %d count %d but %d bytes", dim, count, len(raw))
	}

	vectors := make([][]float32, count)
	off := 8
	for i := 0; i < count; i++ {
		vec := make([]float32, dim)
		for j := 0; j < dim; j++ {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(raw[off : off+4]))
			off += 4
		}
		vectors[i] = vec
	}
	return dim, vectors, nil
}

func (s *fileStore) writeMetadata(metadata []ChunkMeta) error {
	if metadata == nil {
		metadata = []ChunkMeta{}
	}
	raw, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return err
	}
	return atomicWrite(s.metadataPath(), raw)
}

func atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
