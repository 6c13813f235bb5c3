package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/born-ml/dyngraph/internal/tensor"
	"github.com/pkg/errors"
)

// ReadSafeTensors decodes a SafeTensors stream into leaf tensors keyed by
// name, plus the file metadata.
func ReadSafeTensors(r io.Reader) (map[string]*tensor.Tensor, map[string]string, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, nil, errors.Wrap(err, "failed to read header size")
	}
	if headerSize > MaxHeaderSize {
		return nil, nil, errors.Wrapf(ErrHeaderTooLarge, "%d bytes", headerSize)
	}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, nil, errors.Wrap(err, "failed to read header")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(headerJSON, &raw); err != nil {
		return nil, nil, errors.Wrap(err, "failed to parse header")
	}

	var metadata map[string]string
	if m, ok := raw[metadataKey]; ok {
		if err := json.Unmarshal(m, &metadata); err != nil {
			return nil, nil, errors.Wrap(err, "failed to parse metadata")
		}
		delete(raw, metadataKey)
	}

	headers := make(map[string]SafeTensorHeader, len(raw))
	metas := make([]TensorMeta, 0, len(raw))
	for name, msg := range raw {
		if err := ValidateTensorName(name); err != nil {
			return nil, nil, err
		}
		var h SafeTensorHeader
		if err := json.Unmarshal(msg, &h); err != nil {
			return nil, nil, errors.Wrapf(err, "failed to parse tensor %q", name)
		}
		if h.DType != "F32" {
			return nil, nil, errors.Wrapf(ErrUnsupportedDType, "tensor %q has dtype %s", name, h.DType)
		}
		headers[name] = h
		metas = append(metas, TensorMeta{
			Name:   name,
			Offset: h.DataOffsets[0],
			Size:   h.DataOffsets[1] - h.DataOffsets[0],
		})
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read tensor data")
	}
	if err := ValidateTensorOffsets(metas, int64(len(data))); err != nil {
		return nil, nil, err
	}
	if sum, ok := metadata[checksumKey]; ok {
		if err := ValidateChecksum(data, sum); err != nil {
			return nil, nil, err
		}
	}

	tensors := make(map[string]*tensor.Tensor, len(headers))
	for name, h := range headers {
		bytes := data[h.DataOffsets[0]:h.DataOffsets[1]]
		shape, err := decodeShape(name, h.Shape, int64(len(bytes))/4)
		if err != nil {
			return nil, nil, err
		}
		if int64(len(bytes)) != int64(shape.NumElements())*4 {
			return nil, nil, &ValidationError{
				Err:     ErrOutOfBounds,
				Tensor:  name,
				Details: fmt.Sprintf("%d bytes for shape %v", len(bytes), shape),
			}
		}

		values := make([]float32, len(bytes)/4)
		for i := range values {
			values[i] = math.Float32frombits(binary.LittleEndian.Uint32(bytes[i*4:]))
		}
		tensors[name] = tensor.FromSlice(values, shape)
	}

	return tensors, metadata, nil
}

// decodeShape converts a header shape. Negative dimensions are rejected with
// ErrInvalidShape and element counts above limit with ErrOutOfBounds. The
// running product is checked before every multiplication so it cannot wrap.
func decodeShape(name string, dims []int64, limit int64) (tensor.Shape, error) {
	shape := make(tensor.Shape, len(dims))
	count := int64(1)
	for i, d := range dims {
		if d < 0 {
			return nil, &ValidationError{
				Err:     ErrInvalidShape,
				Tensor:  name,
				Details: fmt.Sprintf("dimension %d is %d", i, d),
			}
		}
		shape[i] = int(d)
		if count == 0 {
			continue
		}
		if d > limit/count {
			return nil, &ValidationError{
				Err:     ErrOutOfBounds,
				Tensor:  name,
				Details: fmt.Sprintf("shape %v needs more than %d elements", dims, limit),
			}
		}
		count *= d
	}
	return shape, nil
}

// ReadFile reads a SafeTensors file from path.
func ReadFile(path string) (map[string]*tensor.Tensor, map[string]string, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	return ReadSafeTensors(bufio.NewReader(file))
}
