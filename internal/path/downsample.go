package path

import "fmt"

// Downsample keeps every strideth point starting at index 0. The final input
// point is not forced into the output; it survives only when its index is a
// multiple of stride. A stride of 1 copies the input. Strides below 1 return
// ErrInvalidStride.
func Downsample(points []PointSpeed, stride int) ([]PointSpeed, error) {
	if stride < 1 {
		return nil, fmt.Errorf("stride %d: %w", stride, ErrInvalidStride)
	}
	out := make([]PointSpeed, 0, len(points)/stride+1)
	for i := 0; i < len(points); i += stride {
		out = append(out, points[i])
	}
	return out, nil
}
