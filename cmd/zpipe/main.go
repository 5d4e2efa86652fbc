// Copyright 2026 go-zimg Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// zpipe resizes an image through a windowed filter chain.
//
// Usage:
//
//	zpipe -in input.png -out output.png -width 1280 -height 720
//
// Input and output formats are chosen by file extension: png, tiff, bmp,
// or zst for a zstd-compressed planar dump.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/ajroetker/go-zimg/internal/workerpool"
	"github.com/ajroetker/go-zimg/zimg"
	"github.com/ajroetker/go-zimg/zimg/colorspace"
	"github.com/ajroetker/go-zimg/zimg/depth"
	"github.com/ajroetker/go-zimg/zimg/graph"
	"github.com/ajroetker/go-zimg/zimg/resize"
)

var (
	flagIn     = flag.String("in", "", "input image (png, tiff, bmp)")
	flagOut    = flag.String("out", "", "output image (png, tiff, bmp, zst)")
	flagWidth  = flag.Int("width", 0, "output width (0 keeps the input width)")
	flagHeight = flag.Int("height", 0, "output height (0 keeps the input height)")
	flagFilter = flag.String("filter", "bicubic", "resampling kernel: point, bilinear, bicubic, spline16, spline36, lanczos")
	flagDither = flag.String("dither", "none", "output dithering: none, ordered, random, error_diffusion")
	flagLinear = flag.Bool("linear", false, "resample in linear light")
	flagCPU    = flag.String("cpu", "auto", "kernel selection: none, baseline, extended, auto")
	flagStrips = flag.Int("strips", 1, "parallel column strips (1 disables)")
	flagV      = flag.Bool("v", false, "verbose logging")
)

func main() {
	flag.Parse()
	if *flagIn == "" || *flagOut == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *flagV {
		graph.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "zpipe: %s\n", zimg.Message(err))
		os.Exit(1)
	}
}

func run() error {
	kernel, err := parseKernel(*flagFilter)
	if err != nil {
		return err
	}
	dither, err := parseDither(*flagDither)
	if err != nil {
		return err
	}
	cpu, err := parseCPU(*flagCPU)
	if err != nil {
		return err
	}

	src, srcW, srcH, err := loadImage(*flagIn)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *flagIn, err)
	}
	dstW, dstH := *flagWidth, *flagHeight
	if dstW == 0 {
		dstW = srcW
	}
	if dstH == 0 {
		dstH = srcH
	}

	chain, err := buildChain(srcW, srcH, dstW, dstH, kernel, dither, cpu)
	if err != nil {
		return err
	}

	dst := allocPlanes(dstW, dstH, zimg.PixelByte)
	if *flagStrips > 1 {
		pool := workerpool.New(0)
		defer pool.Close()
		err = chain.ProcessStrips(src, dst, pool, *flagStrips)
	} else {
		err = chain.Process(src, dst)
	}
	if err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(*flagOut), ".zst") {
		return writeRaw(*flagOut, dst, dstW, dstH)
	}
	return saveImage(*flagOut, dst, dstW, dstH)
}

// buildChain assembles byte RGB in, byte RGB out: promote to float,
// optionally linearize, resample, optionally re-gamma, quantize.
func buildChain(srcW, srcH, dstW, dstH int, kernel resize.KernelType, dither depth.DitherType, cpu zimg.CPU) (*graph.Chain, error) {
	chain, err := graph.NewChain(3, srcW, srcH, zimg.PixelByte)
	if err != nil {
		return nil, err
	}

	byteFmt := zimg.PixelFormat{Type: zimg.PixelByte, Depth: 8, FullRange: true}

	up, err := depth.New(depth.Params{
		Width: srcW, Height: srcH,
		PixelIn:  byteFmt,
		PixelOut: zimg.FormatOf(zimg.PixelFloat),
		CPU:      cpu,
	})
	if err != nil {
		return nil, err
	}
	if err := chain.Append(up, srcW, srcH, zimg.PixelFloat); err != nil {
		return nil, err
	}

	gamma := colorspace.Definition{Matrix: colorspace.MatrixRGB, Transfer: colorspace.Transfer709, Primaries: colorspace.Primaries709}
	linear := colorspace.Definition{Matrix: colorspace.MatrixRGB, Transfer: colorspace.TransferLinear, Primaries: colorspace.Primaries709}

	if *flagLinear {
		cs, err := colorspace.New(colorspace.Params{
			Width: srcW, Height: srcH, In: gamma, Out: linear, CPU: cpu,
		})
		if err != nil {
			return nil, err
		}
		if err := chain.Append(cs, srcW, srcH, zimg.PixelFloat); err != nil {
			return nil, err
		}
	}

	p := resize.DefaultParams()
	p.SrcWidth, p.SrcHeight = srcW, srcH
	p.DstWidth, p.DstHeight = dstW, dstH
	p.PixelType = zimg.PixelFloat
	p.Kernel = kernel
	p.CPU = cpu
	stages, err := resize.New(p)
	if err != nil {
		return nil, err
	}
	for _, st := range stages {
		if err := chain.Append(st.Filter, st.Width, st.Height, zimg.PixelFloat); err != nil {
			return nil, err
		}
	}

	if *flagLinear {
		cs, err := colorspace.New(colorspace.Params{
			Width: dstW, Height: dstH, In: linear, Out: gamma, CPU: cpu,
		})
		if err != nil {
			return nil, err
		}
		if err := chain.Append(cs, dstW, dstH, zimg.PixelFloat); err != nil {
			return nil, err
		}
	}

	down, err := depth.New(depth.Params{
		Dither: dither,
		Width:  dstW, Height: dstH,
		PixelIn:  zimg.FormatOf(zimg.PixelFloat),
		PixelOut: byteFmt,
		CPU:      cpu,
	})
	if err != nil {
		return nil, err
	}
	if err := chain.Append(down, dstW, dstH, zimg.PixelByte); err != nil {
		return nil, err
	}
	return chain, nil
}

func allocPlanes(width, height int, t zimg.PixelType) *zimg.Buffer {
	stride := zimg.AlignStride(width * t.Size())
	b := &zimg.Buffer{}
	for p := 0; p < 3; p++ {
		b.Data[p] = zimg.AllocBytes(stride * height)
		b.Stride[p] = stride
		b.Mask[p] = zimg.BufferMax
	}
	return b
}

// loadImage decodes an image into three full-range byte planes (R, G, B).
func loadImage(path string) (*zimg.Buffer, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()

	var img image.Image
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		img, err = png.Decode(f)
	case ".tif", ".tiff":
		img, err = tiff.Decode(f)
	case ".bmp":
		img, err = bmp.Decode(f)
	default:
		return nil, 0, 0, zimg.Errorf(zimg.ErrUnsupported, "unsupported input format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, 0, 0, err
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	buf := allocPlanes(w, h, zimg.PixelByte)
	for y := 0; y < h; y++ {
		rows := [3][]byte{buf.Row(0, y), buf.Row(1, y), buf.Row(2, y)}
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			rows[0][x] = byte(r >> 8)
			rows[1][x] = byte(g >> 8)
			rows[2][x] = byte(b >> 8)
		}
	}
	return buf, w, h, nil
}

func saveImage(path string, buf *zimg.Buffer, width, height int) error {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		r, g, b := buf.Row(0, y), buf.Row(1, y), buf.Row(2, y)
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: r[x], G: g[x], B: b[x], A: 0xFF})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Encode(f, img)
	case ".tif", ".tiff":
		return tiff.Encode(f, img, nil)
	case ".bmp":
		return bmp.Encode(f, img)
	default:
		return zimg.Errorf(zimg.ErrUnsupported, "unsupported output format %q", filepath.Ext(path))
	}
}

// writeRaw dumps the planes as zstd-compressed planar data behind a
// small header: magic, width, height, plane count.
func writeRaw(path string, buf *zimg.Buffer, width, height int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}

	var header [16]byte
	copy(header[:4], "ZRAW")
	binary.LittleEndian.PutUint32(header[4:], uint32(width))
	binary.LittleEndian.PutUint32(header[8:], uint32(height))
	binary.LittleEndian.PutUint32(header[12:], 3)
	if _, err := enc.Write(header[:]); err != nil {
		enc.Close()
		return err
	}

	for p := 0; p < 3; p++ {
		for y := 0; y < height; y++ {
			if _, err := enc.Write(buf.Row(p, y)[:width]); err != nil {
				enc.Close()
				return err
			}
		}
	}
	return enc.Close()
}

func parseKernel(s string) (resize.KernelType, error) {
	switch strings.ToLower(s) {
	case "point":
		return resize.KernelPoint, nil
	case "bilinear":
		return resize.KernelBilinear, nil
	case "bicubic":
		return resize.KernelBicubic, nil
	case "spline16":
		return resize.KernelSpline16, nil
	case "spline36":
		return resize.KernelSpline36, nil
	case "lanczos":
		return resize.KernelLanczos, nil
	default:
		return 0, zimg.Errorf(zimg.ErrIllegalArgument, "unknown filter %q", s)
	}
}

func parseDither(s string) (depth.DitherType, error) {
	switch strings.ToLower(s) {
	case "none":
		return depth.DitherNone, nil
	case "ordered":
		return depth.DitherOrdered, nil
	case "random":
		return depth.DitherRandom, nil
	case "error_diffusion":
		return depth.DitherErrorDiffusion, nil
	default:
		return 0, zimg.Errorf(zimg.ErrIllegalArgument, "unknown dither %q", s)
	}
}

func parseCPU(s string) (zimg.CPU, error) {
	switch strings.ToLower(s) {
	case "none":
		return zimg.CPUNone, nil
	case "baseline":
		return zimg.CPUBaseline, nil
	case "extended":
		return zimg.CPUExtended, nil
	case "auto":
		return zimg.CPUAuto, nil
	default:
		return 0, zimg.Errorf(zimg.ErrIllegalArgument, "unknown cpu tag %q", s)
	}
}
