// Package dataset reads the MNIST handwritten-digit corpus stored in IDX
// files and serves it as tensors: random training batches and the full
// test split.
package dataset

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// IDX magic numbers.
const (
	ImageMagic = 0x00000803 // 2051
	LabelMagic = 0x00000801 // 2049
)

// maxIDXBytes bounds the payload a header may announce.
const maxIDXBytes = 1 << 31

// ErrBadMagic is wrapped by every error caused by an unexpected IDX magic
// number.
var ErrBadMagic = errors.New("invalid IDX magic number")

// Images is a decoded IDX image file. Pixels holds Count images of Rows*Cols
// values each, row-major, scaled from [0, 255] to [0, 1].
type Images struct {
	Count  int
	Rows   int
	Cols   int
	Pixels []float32
}

// ImageSize returns the number of values per image.
func (im *Images) ImageSize() int {
	return im.Rows * im.Cols
}

// Image returns the pixels of image i.
func (im *Images) Image(i int) []float32 {
	size := im.ImageSize()
	return im.Pixels[i*size : (i+1)*size]
}

// ReadImages decodes an IDX image stream.
//
// Format:
//
//	magic number: 0x00000803 (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes
//	number of cols: 4 bytes
//	pixel data: unsigned bytes (0-255)
func ReadImages(r io.Reader) (*Images, error) {
	var header struct {
		Magic, Count, Rows, Cols uint32
	}
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, errors.Wrap(err, "read image header")
	}
	if header.Magic != ImageMagic {
		return nil, errors.Wrapf(ErrBadMagic, "image file: got %d, want %d", header.Magic, ImageMagic)
	}

	total := uint64(header.Count) * uint64(header.Rows) * uint64(header.Cols)
	if total > maxIDXBytes {
		return nil, errors.Errorf("image file announces %d images of %dx%d, too large",
			header.Count, header.Rows, header.Cols)
	}

	raw, err := readPayload(r, total)
	if err != nil {
		return nil, errors.Wrapf(err, "read %d images of %dx%d", header.Count, header.Rows, header.Cols)
	}

	pixels := make([]float32, total)
	for i, b := range raw {
		pixels[i] = float32(b) / 255
	}

	return &Images{
		Count:  int(header.Count),
		Rows:   int(header.Rows),
		Cols:   int(header.Cols),
		Pixels: pixels,
	}, nil
}

// ReadLabels decodes an IDX label stream.
//
// Format:
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes
//	label data: unsigned bytes (0-9)
func ReadLabels(r io.Reader) ([]uint8, error) {
	var header struct {
		Magic, Count uint32
	}
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, errors.Wrap(err, "read label header")
	}
	if header.Magic != LabelMagic {
		return nil, errors.Wrapf(ErrBadMagic, "label file: got %d, want %d", header.Magic, LabelMagic)
	}
	if uint64(header.Count) > maxIDXBytes {
		return nil, errors.Errorf("label file announces %d labels, too large", header.Count)
	}

	labels, err := readPayload(r, uint64(header.Count))
	if err != nil {
		return nil, errors.Wrapf(err, "read %d labels", header.Count)
	}
	return labels, nil
}

// readPayload reads exactly n bytes. The buffer grows with the bytes actually
// read, so a header announcing more data than the stream holds fails with
// io.ErrUnexpectedEOF without allocating the announced size.
func readPayload(r io.Reader, n uint64) ([]byte, error) {
	buf, err := io.ReadAll(io.LimitReader(r, int64(n)))
	if err != nil {
		return nil, err
	}
	if uint64(len(buf)) != n {
		return nil, errors.Wrapf(io.ErrUnexpectedEOF, "got %d of %d bytes", len(buf), n)
	}
	return buf, nil
}

// WriteImages encodes images as an IDX image stream, mapping each pixel
// from [0, 1] back to a byte.
func WriteImages(w io.Writer, im *Images) error {
	if len(im.Pixels) != im.Count*im.ImageSize() {
		return errors.Errorf("images: %d pixels for %d images of %dx%d",
			len(im.Pixels), im.Count, im.Rows, im.Cols)
	}
	header := [4]uint32{ImageMagic, uint32(im.Count), uint32(im.Rows), uint32(im.Cols)}
	if err := binary.Write(w, binary.BigEndian, header); err != nil {
		return errors.Wrap(err, "write image header")
	}

	raw := make([]byte, len(im.Pixels))
	for i, p := range im.Pixels {
		raw[i] = uint8(min(max(p, 0), 1)*255 + 0.5)
	}
	_, err := w.Write(raw)
	return errors.Wrap(err, "write pixels")
}

// WriteLabels encodes labels as an IDX label stream.
func WriteLabels(w io.Writer, labels []uint8) error {
	header := [2]uint32{LabelMagic, uint32(len(labels))}
	if err := binary.Write(w, binary.BigEndian, header); err != nil {
		return errors.Wrap(err, "write label header")
	}
	_, err := w.Write(labels)
	return errors.Wrap(err, "write labels")
}
