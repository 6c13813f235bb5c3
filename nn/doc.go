// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network building blocks on top of the autodiff
// engine.
//
// # Overview
//
//   - Module: Forward plus Parameters
//   - Parameter: named trainable tensor
//   - Linear: y = x @ W + b with Xavier-initialized W [in, out] and b [1, out]
//   - ReLU: activation module
//   - Sequential and NewMLP: layer stacks
//
// # Basic Usage
//
//	model := nn.NewMLP([]int{784, 128, 128, 10}, nil)
//	logits := model.Forward(x) // [batch, 784] -> [batch, 10]
//	loss := autodiff.CrossEntropyLoss(logits, labels)
//	autodiff.Backward(loss)
package nn
