package dataset

import (
	"bufio"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/born-ml/dyngraph/internal/tensor"
	"github.com/pkg/errors"
)

// File names expected by Load inside the data directory.
const (
	TrainImagesFile = "mnist-train-images"
	TrainLabelsFile = "mnist-train-labels"
	TestImagesFile  = "mnist-test-images"
	TestLabelsFile  = "mnist-test-labels"
)

// NumClasses is the number of digit classes.
const NumClasses = 10

// Split pairs images with their labels.
type Split struct {
	Images *Images
	Labels []uint8
}

// Len returns the number of examples.
func (s Split) Len() int {
	if s.Images == nil {
		return 0
	}
	return s.Images.Count
}

func (s Split) validate(name string) error {
	if s.Images == nil {
		return errors.Errorf("%s split has no images", name)
	}
	if s.Images.Count != len(s.Labels) {
		return errors.Errorf("%s split: %d images but %d labels", name, s.Images.Count, len(s.Labels))
	}
	for i, l := range s.Labels {
		if l >= NumClasses {
			return errors.Errorf("%s split: label %d at index %d is not a digit", name, l, i)
		}
	}
	return nil
}

// MNIST holds both splits in memory and samples training batches.
type MNIST struct {
	train Split
	test  Split
	rng   *rand.Rand
}

// New builds a dataset from decoded splits. Both splits must have matching
// image and label counts and the same image size; the training split must
// not be empty. rng drives Sample; nil seeds a fresh generator.
func New(train, test Split, rng *rand.Rand) (*MNIST, error) {
	if err := train.validate("train"); err != nil {
		return nil, err
	}
	if err := test.validate("test"); err != nil {
		return nil, err
	}
	if train.Len() == 0 {
		return nil, errors.New("train split is empty")
	}
	if train.Images.ImageSize() != test.Images.ImageSize() {
		return nil, errors.Errorf("image size differs: train %dx%d, test %dx%d",
			train.Images.Rows, train.Images.Cols, test.Images.Rows, test.Images.Cols)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &MNIST{train: train, test: test, rng: rng}, nil
}

// Load reads the four MNIST files from dir.
func Load(dir string, rng *rand.Rand) (*MNIST, error) {
	train, err := loadSplit(dir, TrainImagesFile, TrainLabelsFile)
	if err != nil {
		return nil, err
	}
	test, err := loadSplit(dir, TestImagesFile, TestLabelsFile)
	if err != nil {
		return nil, err
	}
	return New(train, test, rng)
}

func loadSplit(dir, imagesFile, labelsFile string) (Split, error) {
	images, err := readFile(filepath.Join(dir, imagesFile), ReadImages)
	if err != nil {
		return Split{}, err
	}
	labels, err := readFile(filepath.Join(dir, labelsFile), ReadLabels)
	if err != nil {
		return Split{}, err
	}
	return Split{Images: images, Labels: labels}, nil
}

func readFile[T any](path string, decode func(r io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, errors.Wrap(err, "open dataset file")
	}
	defer f.Close()

	v, err := decode(bufio.NewReader(f))
	if err != nil {
		return zero, errors.Wrapf(err, "decode %s", path)
	}
	return v, nil
}

// TrainSize returns the number of training examples.
func (m *MNIST) TrainSize() int {
	return m.train.Len()
}

// TestSize returns the number of test examples.
func (m *MNIST) TestSize() int {
	return m.test.Len()
}

// ImageSize returns the number of values per image (784 for MNIST).
func (m *MNIST) ImageSize() int {
	return m.train.Images.ImageSize()
}

// Sample draws batchSize training examples uniformly with replacement and
// returns images [batchSize, ImageSize] and labels [batchSize]. Neither
// tensor needs a gradient.
func (m *MNIST) Sample(batchSize int) (x, t *tensor.Tensor) {
	indices := make([]int, batchSize)
	for i := range indices {
		indices[i] = m.rng.IntN(m.train.Len())
	}
	return gather(m.train, indices)
}

// TestSet returns the whole test split as images [N, ImageSize] and labels
// [N].
func (m *MNIST) TestSet() (x, t *tensor.Tensor) {
	indices := make([]int, m.test.Len())
	for i := range indices {
		indices[i] = i
	}
	return gather(m.test, indices)
}

func gather(s Split, indices []int) (x, t *tensor.Tensor) {
	size := s.Images.ImageSize()
	x = tensor.New(tensor.Shape{len(indices), size})
	t = tensor.New(tensor.Shape{len(indices)})
	x.MarkNeedGrad(false)
	t.MarkNeedGrad(false)

	images, labels := x.Data(), t.Data()
	for i, idx := range indices {
		copy(images[i*size:(i+1)*size], s.Images.Image(idx))
		labels[i] = float32(s.Labels[idx])
	}
	return x, t
}
