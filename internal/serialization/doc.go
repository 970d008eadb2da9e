// Package serialization saves and loads float64 buffers in the SafeTensors
// format, so the stages of a run can be inspected with other tooling.
//
//	Format Structure:
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON, tensor name -> {dtype, shape, data_offsets}]
//	  [Tensor data: raw little-endian bytes, sorted by name]
//
// Only the F64 dtype is written or accepted.
//
// Example usage:
//
//	tensors := map[string]*tensor.Buffer{"x.data": x, "x.grad": gx}
//	if err := serialization.WriteFile("run.safetensors", tensors, nil); err != nil {
//	    log.Fatal(err)
//	}
//
//	loaded, meta, err := serialization.ReadFile("run.safetensors")
package serialization
