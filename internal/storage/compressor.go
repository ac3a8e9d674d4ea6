package storage

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"livenotify/internal/storage/interfaces"
	"livenotify/internal/structures"
)

// zstdMagic is the little-endian frame magic 0xFD2FB528.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

var ErrCompressedDocument = errors.New("document is zstd-compressed but persistence.compress is off")

func isZstd(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

type ZstdCompression struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func (z *ZstdCompression) Compress(val []byte) ([]byte, error) {
	return z.encoder.EncodeAll(val, make([]byte, 0, len(val)/2)), nil
}

// Decompress passes plain JSON through so switching compression on keeps an
// existing document readable.
func (z *ZstdCompression) Decompress(val []byte) ([]byte, error) {
	if !isZstd(val) {
		return val, nil
	}
	return z.decoder.DecodeAll(val, nil)
}

func NewZstdCompressor() (interfaces.CompressorInterface, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &ZstdCompression{encoder: encoder, decoder: decoder}, nil
}

// PlainCompression stores the document as readable JSON.
type PlainCompression struct{}

func (p *PlainCompression) Compress(val []byte) ([]byte, error) {
	return val, nil
}

func (p *PlainCompression) Decompress(val []byte) ([]byte, error) {
	if isZstd(val) {
		return nil, ErrCompressedDocument
	}
	return val, nil
}

func NewCompressor(conf *structures.Config) (interfaces.CompressorInterface, error) {
	if conf.Persistence.Compress {
		return NewZstdCompressor()
	}
	return &PlainCompression{}, nil
}
