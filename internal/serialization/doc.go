// Package serialization saves and restores trained parameters in the
// SafeTensors format.
//
//	Format Structure:
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON {name: {dtype, shape, data_offsets}, "__metadata__": {...}}]
//	  [Tensor data: little-endian float32, tensors in name order]
//
// Only F32 tensors are supported. The writer stores the SHA-256 of the data
// section under the "sha256" metadata key; the reader verifies it when
// present.
//
// Example usage:
//
//	model := nn.NewMLP([]int{784, 128, 10}, nil)
//	if err := serialization.SaveParameters("mlp.safetensors", model.Parameters(), nil); err != nil {
//	    log.Fatal(err)
//	}
//
//	restored := nn.NewMLP([]int{784, 128, 10}, nil)
//	if _, err := serialization.LoadParameters("mlp.safetensors", restored.Parameters()); err != nil {
//	    log.Fatal(err)
//	}
package serialization
