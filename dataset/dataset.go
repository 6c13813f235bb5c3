// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset loads MNIST from IDX files and serves it as tensors.
//
// Load expects the files mnist-train-images, mnist-train-labels,
// mnist-test-images and mnist-test-labels in one directory.
//
//	data, err := dataset.Load("datasets", rand.New(rand.NewPCG(1, 2)))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	x, labels := data.Sample(128) // [128, 784], [128]
package dataset

import (
	"io"
	"math/rand/v2"

	"github.com/born-ml/dyngraph/internal/dataset"
)

// MNIST holds both splits in memory and samples training batches.
type MNIST = dataset.MNIST

// Split pairs decoded images with their labels.
type Split = dataset.Split

// Images is a decoded IDX image file scaled to [0, 1].
type Images = dataset.Images

// ErrBadMagic is wrapped by errors caused by an unexpected IDX magic number.
var ErrBadMagic = dataset.ErrBadMagic

// NumClasses is the number of digit classes.
const NumClasses = dataset.NumClasses

// Load reads the four MNIST files from dir. rng drives sampling; nil seeds a
// fresh generator.
func Load(dir string, rng *rand.Rand) (*MNIST, error) {
	return dataset.Load(dir, rng)
}

// New builds a dataset from already decoded splits.
func New(train, test Split, rng *rand.Rand) (*MNIST, error) {
	return dataset.New(train, test, rng)
}

// ReadImages decodes an IDX image stream.
func ReadImages(r io.Reader) (*Images, error) {
	return dataset.ReadImages(r)
}

// ReadLabels decodes an IDX label stream.
func ReadLabels(r io.Reader) ([]uint8, error) {
	return dataset.ReadLabels(r)
}
