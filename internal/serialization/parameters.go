package serialization

import (
	"github.com/born-ml/dyngraph/internal/nn"
	"github.com/born-ml/dyngraph/internal/tensor"
	"github.com/pkg/errors"
)

// SaveParameters writes the parameters to path, keyed by parameter name.
// Names must be unique.
func SaveParameters(path string, params []*nn.Parameter, metadata map[string]string) error {
	tensors := make(map[string]*tensor.Tensor, len(params))
	for _, p := range params {
		if _, dup := tensors[p.Name()]; dup {
			return &ValidationError{Err: ErrInvalidTensorName, Tensor: p.Name(), Details: "duplicate parameter name"}
		}
		tensors[p.Name()] = p.Tensor()
	}
	return WriteFile(path, tensors, metadata)
}

// LoadParameters overwrites the data of each parameter with the tensor of the
// same name stored at path and returns the file metadata. Every parameter
// must be present with an identical shape; gradients are left untouched.
func LoadParameters(path string, params []*nn.Parameter) (map[string]string, error) {
	tensors, metadata, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	for _, p := range params {
		stored, ok := tensors[p.Name()]
		if !ok {
			return nil, errors.Wrapf(ErrMissingTensor, "%q", p.Name())
		}
		if !stored.Shape().Equal(p.Tensor().Shape()) {
			return nil, errors.Wrapf(tensor.ErrShapeMismatch, "%q stored as %v, parameter is %v",
				p.Name(), stored.Shape(), p.Tensor().Shape())
		}
	}
	for _, p := range params {
		p.Tensor().SetData(tensors[p.Name()].Data())
	}
	return metadata, nil
}
