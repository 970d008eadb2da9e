package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"io"
	"math"
	"os"
	"sort"

	"github.com/born-ml/dezero/internal/tensor"
	"github.com/pkg/errors"
)

const (
	metadataKey = "__metadata__"
	dtypeF64    = "F64"
	f64Size     = 8
)

// SafeTensorHeader represents a tensor in the SafeTensors header.
type SafeTensorHeader struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// Write encodes tensors to w. Tensors are written in alphabetical order by
// name and metadata, when non-empty, goes under "__metadata__".
func Write(w io.Writer, tensors map[string]*tensor.Buffer, metadata map[string]string) error {
	names := make([]string, 0, len(tensors))
	for name := range tensors {
		if name == "" || name == metadataKey {
			return errors.Wrapf(ErrInvalidTensorName, "%q", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	header := make(map[string]any, len(names)+1)
	if len(metadata) > 0 {
		header[metadataKey] = metadata
	}
	var offset int64
	for _, name := range names {
		buf := tensors[name]
		if buf.Shape.NumElements() != len(buf.Data) {
			return errors.Errorf("tensor %q: shape %v does not match %d elements", name, buf.Shape, len(buf.Data))
		}
		shape := make([]int64, len(buf.Shape))
		for i, dim := range buf.Shape {
			shape[i] = int64(dim)
		}
		size := int64(len(buf.Data)) * f64Size
		header[name] = SafeTensorHeader{
			DType:       dtypeF64,
			Shape:       shape,
			DataOffsets: [2]int64{offset, offset + size},
		}
		offset += size
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "failed to marshal header")
	}
	// Pad with spaces so the data section starts 8-byte aligned.
	for len(headerJSON)%8 != 0 {
		headerJSON = append(headerJSON, ' ')
	}

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return errors.Wrap(err, "failed to write header size")
	}
	if _, err := bw.Write(headerJSON); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	var word [f64Size]byte
	for _, name := range names {
		for _, v := range tensors[name].Data {
			binary.LittleEndian.PutUint64(word[:], math.Float64bits(v))
			if _, err := bw.Write(word[:]); err != nil {
				return errors.Wrapf(err, "failed to write tensor %s", name)
			}
		}
	}
	return errors.Wrap(bw.Flush(), "failed to flush tensor data")
}

// WriteFile writes tensors to a new file at path.
func WriteFile(path string, tensors map[string]*tensor.Buffer, metadata map[string]string) (err error) {
	//nolint:gosec // G304: the output path is chosen by the user
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "failed to close file")
		}
	}()
	return Write(file, tensors, metadata)
}

// Read decodes a SafeTensors stream written with F64 tensors.
func Read(r io.Reader) (map[string]*tensor.Buffer, map[string]string, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, nil, errors.Wrap(err, "failed to read header size")
	}
	if headerSize > MaxHeaderSize {
		return nil, nil, ErrHeaderTooLarge
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
	headers := make(map[string]SafeTensorHeader, len(raw))
	for name, msg := range raw {
		if name == metadataKey {
			if err := json.Unmarshal(msg, &metadata); err != nil {
				return nil, nil, errors.Wrap(err, "failed to parse metadata")
			}
			continue
		}
		var h SafeTensorHeader
		if err := json.Unmarshal(msg, &h); err != nil {
			return nil, nil, errors.Wrapf(err, "failed to parse header of tensor %s", name)
		}
		if h.DType != dtypeF64 {
			return nil, nil, errors.Wrapf(ErrUnsupportedDType, "tensor %s has dtype %s", name, h.DType)
		}
		headers[name] = h
	}

	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := headers[names[i]].DataOffsets, headers[names[j]].DataOffsets
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		return a[1] < b[1]
	})

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read tensor data")
	}

	tensors := make(map[string]*tensor.Buffer, len(names))
	var next int64
	for _, name := range names {
		buf, end, err := decodeTensor(name, headers[name], data, next)
		if err != nil {
			return nil, nil, err
		}
		tensors[name] = buf
		next = end
	}
	if next != int64(len(data)) {
		return nil, nil, errors.Wrapf(ErrOffsetOverlap, "%d trailing bytes", int64(len(data))-next)
	}
	return tensors, metadata, nil
}

// ReadFile reads a SafeTensors file from path.
func ReadFile(path string) (map[string]*tensor.Buffer, map[string]string, error) {
	//nolint:gosec // G304: the input path is chosen by the user
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open file")
	}
	defer func() {
		_ = file.Close() // read-only
	}()
	return Read(bufio.NewReader(file))
}

// decodeTensor checks h against the data section and decodes it. Tensors must
// be packed back to back starting at want.
func decodeTensor(name string, h SafeTensorHeader, data []byte, want int64) (*tensor.Buffer, int64, error) {
	start, end := h.DataOffsets[0], h.DataOffsets[1]
	if start != want {
		return nil, 0, errors.Wrapf(ErrOffsetOverlap, "tensor %s starts at %d, expected %d", name, start, want)
	}
	if end < start || end > int64(len(data)) {
		return nil, 0, errors.Wrapf(ErrOutOfBounds, "tensor %s spans [%d, %d) of %d bytes", name, start, end, len(data))
	}

	shape := make(tensor.Shape, len(h.Shape))
	for i, dim := range h.Shape {
		shape[i] = int(dim)
	}
	if err := shape.Validate(); err != nil {
		return nil, 0, errors.WithMessagef(err, "tensor %s", name)
	}
	if int64(shape.NumElements())*f64Size != end-start {
		return nil, 0, errors.Errorf("tensor %s: shape %v needs %d bytes, offsets give %d",
			name, shape, shape.NumElements()*f64Size, end-start)
	}

	values := make([]float64, shape.NumElements())
	for i := range values {
		off := start + int64(i)*f64Size
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[off : off+f64Size]))
	}
	buf, err := tensor.New(values, shape)
	if err != nil {
		return nil, 0, errors.WithMessagef(err, "tensor %s", name)
	}
	return buf, end, nil
}
