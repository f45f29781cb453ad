package service

import (
	"github.com/antonk9218/imgsuite/internal/entity"
)

func (s *compressService) Compress(src []byte, filename string, quality float64) (*entity.CompressionResult, error) {
	return s.compressor.Compress(src, filename, quality)
}
