package drawscaler

import (
	"fmt"
	"image"

	"github.com/user/framegrab/pkg/ports"
)

// chromaShift returns the horizontal and vertical subsampling shifts.
func chromaShift(format ports.PixelFormat) (int, int) {
	switch format {
	case ports.PixelFormatYUV420P:
		return 1, 1
	case ports.PixelFormatYUV422P:
		return 1, 0
	default:
		return 0, 0
	}
}

// checkPlane verifies that a plane holds rows*width bytes at stride.
func checkPlane(frame *ports.Frame, i, width, rows int) error {
	if len(frame.Planes) <= i || len(frame.Strides) <= i {
		return fmt.Errorf("%w: missing plane %d", ErrFrameMismatch, i)
	}
	stride := frame.Strides[i]
	if stride < width {
		return fmt.Errorf("%w: plane %d stride %d < %d", ErrFrameMismatch, i, stride, width)
	}
	if need := (rows-1)*stride + width; len(frame.Planes[i]) < need {
		return fmt.Errorf("%w: plane %d has %d bytes, need %d", ErrFrameMismatch, i, len(frame.Planes[i]), need)
	}
	return nil
}

// toRGBA converts a frame to an RGBA image at its own size.
func toRGBA(frame *ports.Frame) (*image.RGBA, error) {
	w, h := frame.Width, frame.Height
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}

	switch frame.Format {
	case ports.PixelFormatRGBA:
		if err := checkPlane(frame, 0, w*4, h); err != nil {
			return nil, err
		}
		return &image.RGBA{
			Pix:    frame.Planes[0],
			Stride: frame.Strides[0],
			Rect:   image.Rect(0, 0, w, h),
		}, nil

	case ports.PixelFormatGray:
		if err := checkPlane(frame, 0, w, h); err != nil {
			return nil, err
		}
		return grayToRGBA(frame), nil

	default:
		sx, sy := chromaShift(frame.Format)
		cw, ch := (w+(1<<sx)-1)>>sx, (h+(1<<sy)-1)>>sy
		if err := checkPlane(frame, 0, w, h); err != nil {
			return nil, err
		}
		if err := checkPlane(frame, 1, cw, ch); err != nil {
			return nil, err
		}
		if err := checkPlane(frame, 2, cw, ch); err != nil {
			return nil, err
		}
		return yuvToRGBA(frame, sx, sy), nil
	}
}

// yuvToRGBA converts planar YUV to RGBA using BT.601 limited range.
func yuvToRGBA(frame *ports.Frame, sx, sy int) *image.RGBA {
	width, height := frame.Width, frame.Height
	yPlane, uPlane, vPlane := frame.Planes[0], frame.Planes[1], frame.Planes[2]
	yStride, uStride, vStride := frame.Strides[0], frame.Strides[1], frame.Strides[2]

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			yVal := int(yPlane[y*yStride+x])
			uVal := int(uPlane[(y>>sy)*uStride+(x>>sx)])
			vVal := int(vPlane[(y>>sy)*vStride+(x>>sx)])

			// YUV to RGB conversion
			c := yVal - 16
			d := uVal - 128
			e := vVal - 128

			r := clamp((298*c + 409*e + 128) >> 8)
			g := clamp((298*c - 100*d - 208*e + 128) >> 8)
			b := clamp((298*c + 516*d + 128) >> 8)

			idx := y*rgba.Stride + x*4
			rgba.Pix[idx] = uint8(r)
			rgba.Pix[idx+1] = uint8(g)
			rgba.Pix[idx+2] = uint8(b)
			rgba.Pix[idx+3] = 255
		}
	}

	return rgba
}

func grayToRGBA(frame *ports.Frame) *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	plane, stride := frame.Planes[0], frame.Strides[0]

	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			v := plane[y*stride+x]
			idx := y*rgba.Stride + x*4
			rgba.Pix[idx] = v
			rgba.Pix[idx+1] = v
			rgba.Pix[idx+2] = v
			rgba.Pix[idx+3] = 255
		}
	}

	return rgba
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
