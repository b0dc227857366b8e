package drawscaler

import (
	"bytes"
	"errors"
	"testing"

	"github.com/user/framegrab/pkg/ports"
)

// yuvFrame creates a yuv420p frame filled with one colour.
func yuvFrame(width, height int, y, u, v byte) *ports.Frame {
	cw, ch := (width+1)/2, (height+1)/2
	return &ports.Frame{
		Width:  width,
		Height: height,
		Format: ports.PixelFormatYUV420P,
		Planes: [][]byte{
			bytes.Repeat([]byte{y}, width*height),
			bytes.Repeat([]byte{u}, cw*ch),
			bytes.Repeat([]byte{v}, cw*ch),
		},
		Strides: []int{width, cw, cw},
		PTS:     42,
	}
}

func halfSizeConfig(width, height int) ports.ScalerConfig {
	return ports.ScalerConfig{
		SrcFormat: ports.PixelFormatYUV420P,
		SrcWidth:  width,
		SrcHeight: height,
		DstFormat: ports.PixelFormatRGBA,
		DstWidth:  width / 2,
		DstHeight: height / 2,
	}
}

func TestHalfSize640x480(t *testing.T) {
	s, err := New(halfSizeConfig(640, 480))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	out, err := s.Run(yuvFrame(640, 480, 126, 128, 128))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if out.Width != 320 || out.Height != 240 {
		t.Errorf("expected 320x240, got %dx%d", out.Width, out.Height)
	}
	if out.Format != ports.PixelFormatRGBA {
		t.Errorf("expected rgba, got %v", out.Format)
	}
	if len(out.Planes) != 1 || len(out.Planes[0]) != 320*240*4 {
		t.Fatalf("expected single packed plane of %d bytes", 320*240*4)
	}
	if out.PTS != 42 {
		t.Errorf("expected PTS to be carried over, got %d", out.PTS)
	}

	// Mid grey stays mid grey
	pix := out.Planes[0]
	for i := 0; i < len(pix); i += 4 {
		if pix[i] != 128 || pix[i+1] != 128 || pix[i+2] != 128 || pix[i+3] != 255 {
			t.Fatalf("pixel %d = %v, expected (128,128,128,255)", i/4, pix[i:i+4])
		}
	}
}

func TestOddSourceSize(t *testing.T) {
	s, err := New(halfSizeConfig(641, 481))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	out, err := s.Run(yuvFrame(641, 481, 16, 128, 128))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.Width != 320 || out.Height != 240 {
		t.Errorf("expected 320x240, got %dx%d", out.Width, out.Height)
	}
}

func TestYUVToRGBAColours(t *testing.T) {
	cases := []struct {
		name    string
		y, u, v byte
		want    [3]byte
	}{
		{"black", 16, 128, 128, [3]byte{0, 0, 0}},
		{"white", 235, 128, 128, [3]byte{255, 255, 255}},
		{"red", 81, 90, 240, [3]byte{255, 0, 0}},
	}

	for _, tc := range cases {
		img, err := FrameImage(yuvFrame(4, 4, tc.y, tc.u, tc.v))
		if err != nil {
			t.Fatalf("%s: FrameImage failed: %v", tc.name, err)
		}
		r, g, b, _ := img.At(1, 1).RGBA()
		got := [3]byte{byte(r >> 8), byte(g >> 8), byte(b >> 8)}
		if got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDeterministic(t *testing.T) {
	s, err := New(halfSizeConfig(64, 48))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	src := yuvFrame(64, 48, 0, 0, 0)
	for i := range src.Planes[0] {
		src.Planes[0][i] = byte(i * 7)
	}

	a, err := s.Run(src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	b, err := s.Run(src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !bytes.Equal(a.Planes[0], b.Planes[0]) {
		t.Error("two runs on the same frame differ")
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := halfSizeConfig(640, 480)
	cfg.SrcFormat = ports.PixelFormatNone
	if _, err := New(cfg); !errors.Is(err, ErrUnsupportedConversion) {
		t.Errorf("unknown source: expected ErrUnsupportedConversion, got %v", err)
	}

	cfg = halfSizeConfig(640, 480)
	cfg.DstFormat = ports.PixelFormatYUV420P
	if _, err := New(cfg); !errors.Is(err, ErrUnsupportedConversion) {
		t.Errorf("yuv destination: expected ErrUnsupportedConversion, got %v", err)
	}

	// 1x1 source halves to 0x0
	if _, err := New(halfSizeConfig(1, 1)); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("1x1 source: expected ErrInvalidDimensions, got %v", err)
	}

	cfg = halfSizeConfig(640, 480)
	cfg.SrcWidth = 0
	if _, err := New(cfg); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("zero width: expected ErrInvalidDimensions, got %v", err)
	}
}

func TestRunRejectsMismatchedFrames(t *testing.T) {
	s, err := New(halfSizeConfig(64, 48))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := s.Run(yuvFrame(32, 48, 16, 128, 128)); !errors.Is(err, ErrFrameMismatch) {
		t.Errorf("wrong size: expected ErrFrameMismatch, got %v", err)
	}

	wrongFormat := yuvFrame(64, 48, 16, 128, 128)
	wrongFormat.Format = ports.PixelFormatYUV444P
	if _, err := s.Run(wrongFormat); !errors.Is(err, ErrFrameMismatch) {
		t.Errorf("wrong format: expected ErrFrameMismatch, got %v", err)
	}

	short := yuvFrame(64, 48, 16, 128, 128)
	short.Planes[2] = short.Planes[2][:10]
	if _, err := s.Run(short); !errors.Is(err, ErrFrameMismatch) {
		t.Errorf("short plane: expected ErrFrameMismatch, got %v", err)
	}

	if _, err := s.Run(nil); !errors.Is(err, ErrFrameMismatch) {
		t.Errorf("nil frame: expected ErrFrameMismatch, got %v", err)
	}
}

func TestAlgorithms(t *testing.T) {
	for _, alg := range []ports.ScaleAlgorithm{
		ports.ScaleBilinear, ports.ScaleNearest, ports.ScaleApproxBilinear, ports.ScaleCatmullRom,
	} {
		cfg := halfSizeConfig(32, 32)
		cfg.Algorithm = alg

		s, err := NewFactory().NewScaler(cfg)
		if err != nil {
			t.Fatalf("%s: NewScaler failed: %v", alg, err)
		}
		out, err := s.Run(yuvFrame(32, 32, 126, 128, 128))
		if err != nil {
			t.Fatalf("%s: Run failed: %v", alg, err)
		}
		if out.Width != 16 || out.Height != 16 {
			t.Errorf("%s: expected 16x16, got %dx%d", alg, out.Width, out.Height)
		}
	}
}

func TestFrameImageRGBA(t *testing.T) {
	frame := &ports.Frame{
		Width:   2,
		Height:  1,
		Format:  ports.PixelFormatRGBA,
		Planes:  [][]byte{{1, 2, 3, 255, 4, 5, 6, 255}},
		Strides: []int{8},
	}

	img, err := FrameImage(frame)
	if err != nil {
		t.Fatalf("FrameImage failed: %v", err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 1 {
		t.Errorf("unexpected bounds %v", img.Bounds())
	}
	r, _, _, _ := img.At(1, 0).RGBA()
	if r>>8 != 4 {
		t.Errorf("expected red 4, got %d", r>>8)
	}
}
