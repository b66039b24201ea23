package render

import (
	"image"
	"image/color"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"golang.org/x/image/draw"
)

// textureFormat stores texels as 8-bit sRGB RGBA.
const textureFormat = core1_0.FormatR8G8B8A8SRGB

// ToRGBA converts img to a tightly packed RGBA image with its origin at
// (0,0). An *image.RGBA already in that shape is returned as is.
func ToRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && bounds.Min == (image.Point{}) && rgba.Stride == 4*bounds.Dx() {
		return rgba
	}

	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}

// FitRGBA is ToRGBA, additionally scaling images larger than maxSize on
// either side down to fit, preserving the aspect ratio.
func FitRGBA(img image.Image, maxSize int) *image.RGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return ToRGBA(img)
	}

	if w >= h {
		h = max(1, h*maxSize/w)
		w = maxSize
	} else {
		w = max(1, w*maxSize/h)
		h = maxSize
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// Checkerboard is a size x size image of cells x cells alternating squares.
func Checkerboard(size, cells int, a, b color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := size / cells
	if cell < 1 {
		cell = 1
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.Set(x, y, a)
			} else {
				img.Set(x, y, b)
			}
		}
	}
	return img
}

// Texture is a sampled image with its sampler.
type Texture struct {
	Image   *Image
	Sampler core1_0.Sampler
}

// SamplerInfo describes a repeating, linearly filtered sampler covering
// mipLevels levels. maxAnisotropy of zero disables anisotropic filtering.
func SamplerInfo(mipLevels int, maxAnisotropy float32) core1_0.SamplerCreateInfo {
	return core1_0.SamplerCreateInfo{
		MagFilter:    core1_0.FilterLinear,
		MinFilter:    core1_0.FilterLinear,
		AddressModeU: core1_0.SamplerAddressModeRepeat,
		AddressModeV: core1_0.SamplerAddressModeRepeat,
		AddressModeW: core1_0.SamplerAddressModeRepeat,

		AnisotropyEnable: maxAnisotropy > 0,
		MaxAnisotropy:    maxAnisotropy,

		BorderColor: core1_0.BorderColorIntOpaqueBlack,

		MipmapMode: core1_0.SamplerMipmapModeLinear,
		MinLod:     0,
		MaxLod:     float32(mipLevels),
	}
}

// NewTexture uploads img through a staging buffer. With mipmaps the full
// chain is generated on the GPU.
func (d *Device) NewTexture(img image.Image, mipmaps bool) (*Texture, error) {
	rgba := ToRGBA(img)
	width, height := rgba.Bounds().Dx(), rgba.Bounds().Dy()
	if width == 0 || height == 0 {
		return nil, errors.Wrapf(ErrEmptyImage, "texture of %dx%d", width, height)
	}

	mipLevels := 1
	if mipmaps {
		mipLevels = MipLevels(width, height)
	}

	staging, err := d.CreateHostBuffer(len(rgba.Pix), core1_0.BufferUsageTransferSrc)
	if err != nil {
		return nil, err
	}
	defer d.DestroyBuffer(staging)

	if err := d.WriteData(staging.Memory, 0, rgba.Pix); err != nil {
		return nil, err
	}

	usage := core1_0.ImageUsageTransferDst | core1_0.ImageUsageSampled
	if mipLevels > 1 {
		usage |= core1_0.ImageUsageTransferSrc
	}

	tex := &Texture{}
	tex.Image, err = d.CreateImage(ImageOptions{
		Width:      width,
		Height:     height,
		MipLevels:  mipLevels,
		Format:     textureFormat,
		Usage:      usage,
		Properties: core1_0.MemoryPropertyDeviceLocal,
		Aspect:     core1_0.ImageAspectColor,
	})
	if err != nil {
		return nil, err
	}

	err = d.TransitionImageLayout(tex.Image.Handle, textureFormat, core1_0.ImageLayoutUndefined, core1_0.ImageLayoutTransferDstOptimal, mipLevels)
	if err == nil {
		err = d.CopyBufferToImage(staging.Handle, tex.Image.Handle, width, height)
	}
	if err == nil {
		if mipLevels > 1 {
			err = d.GenerateMipmaps(tex.Image.Handle, textureFormat, width, height, mipLevels)
		} else {
			err = d.TransitionImageLayout(tex.Image.Handle, textureFormat, core1_0.ImageLayoutTransferDstOptimal, core1_0.ImageLayoutShaderReadOnlyOptimal, 1)
		}
	}
	if err != nil {
		d.DestroyTexture(tex)
		return nil, err
	}

	tex.Sampler, _, err = d.Driver.CreateSampler(nil, SamplerInfo(mipLevels, d.MaxAnisotropy))
	if err != nil {
		d.DestroyTexture(tex)
		return nil, err
	}
	return tex, nil
}

func (d *Device) DestroyTexture(tex *Texture) {
	if tex == nil {
		return
	}
	if tex.Sampler.Initialized() {
		d.Driver.DestroySampler(tex.Sampler, nil)
		tex.Sampler = core1_0.Sampler{}
	}
	d.DestroyImage(tex.Image)
}
