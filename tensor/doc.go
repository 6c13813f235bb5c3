// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the float32 tensor type used by the dyngraph
// autodiff engine.
//
// # Overview
//
// A Tensor owns a flat row-major value buffer and a gradient buffer of the
// same length, a shape, a need-gradient flag and an optional link to the
// graph node that produced it. Tensors created directly are leaves; tensors
// returned by autodiff operators are linked to their producing node.
//
// # Basic Usage
//
//	x := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
//	w := tensor.Randomized(tensor.Shape{2, 3}) // uniform in [-0.5, 0.5)
//	fmt.Println(x.Shape(), x.Data(), w.Grad())
//
// # Errors
//
// Precondition violations panic with an error wrapping one of the sentinel
// errors below; match them with errors.Is.
package tensor
