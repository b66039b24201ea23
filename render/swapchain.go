package render

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
	"golang.org/x/exp/slog"

	"github.com/vkngwrapper/vkscaffold/config"
)

type SupportDetails struct {
	Capabilities *khr_surface.SurfaceCapabilities
	Formats      []khr_surface.SurfaceFormat
	PresentModes []khr_surface.PresentMode
}

func QuerySupport(ext khr_surface.ExtensionDriver, surface khr_surface.Surface, device core1_0.PhysicalDevice) (SupportDetails, error) {
	var details SupportDetails
	var err error

	details.Capabilities, _, err = ext.GetPhysicalDeviceSurfaceCapabilities(surface, device)
	if err != nil {
		return details, errors.Wrap(err, "querying surface capabilities")
	}

	details.Formats, _, err = ext.GetPhysicalDeviceSurfaceFormats(surface, device)
	if err != nil {
		return details, errors.Wrap(err, "querying surface formats")
	}

	details.PresentModes, _, err = ext.GetPhysicalDeviceSurfacePresentModes(surface, device)
	if err != nil {
		return details, errors.Wrap(err, "querying present modes")
	}
	return details, nil
}

// ChooseSurfaceFormat prefers 8-bit BGRA sRGB and otherwise takes the
// first format offered. formats must not be empty.
func ChooseSurfaceFormat(formats []khr_surface.SurfaceFormat) khr_surface.SurfaceFormat {
	for _, format := range formats {
		if format.Format == core1_0.FormatB8G8R8A8SRGB && format.ColorSpace == khr_surface.ColorSpaceSRGBNonlinear {
			return format
		}
	}
	return formats[0]
}

var presentModes = map[config.PresentMode]khr_surface.PresentMode{
	config.PresentFIFO:        khr_surface.PresentModeFIFO,
	config.PresentFIFORelaxed: khr_surface.PresentModeFIFORelaxed,
	config.PresentMailbox:     khr_surface.PresentModeMailbox,
	config.PresentImmediate:   khr_surface.PresentModeImmediate,
}

// ChoosePresentMode returns the preferred mode when available and FIFO,
// which every surface supports, otherwise.
func ChoosePresentMode(preferred config.PresentMode, available []khr_surface.PresentMode) khr_surface.PresentMode {
	want, ok := presentModes[preferred]
	if !ok {
		return khr_surface.PresentModeFIFO
	}
	for _, mode := range available {
		if mode == want {
			return mode
		}
	}
	return khr_surface.PresentModeFIFO
}

// undefinedExtent is the 0xFFFFFFFF current extent a surface reports when
// the swapchain decides its size. It arrives widened from uint32, but -1 is
// accepted too.
const undefinedExtent = math.MaxUint32

func extentUndefined(extent core1_0.Extent2D) bool {
	return extent.Width == undefinedExtent || extent.Width == -1
}

// ChooseExtent uses the surface's current extent unless the surface lets
// the swapchain decide, in which case the drawable size is clamped to the
// supported range.
func ChooseExtent(caps *khr_surface.SurfaceCapabilities, width, height int) core1_0.Extent2D {
	if !extentUndefined(caps.CurrentExtent) {
		return caps.CurrentExtent
	}

	return core1_0.Extent2D{
		Width:  clamp(width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ChooseImageCount asks for one image more than the minimum so acquire
// rarely waits on the driver. A zero maximum means no limit.
func ChooseImageCount(caps *khr_surface.SurfaceCapabilities) int {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

// sharingMode shares images between queue families only when graphics and
// present run on different families.
func sharingMode(queues QueueFamilyIndices) (core1_0.SharingMode, []int) {
	if *queues.Graphics != *queues.Present {
		return core1_0.SharingModeConcurrent, []int{*queues.Graphics, *queues.Present}
	}
	return core1_0.SharingModeExclusive, nil
}

// swapchainCreateInfo assembles the create info from the surface support
// and the current drawable size.
func swapchainCreateInfo(surface khr_surface.Surface, support SupportDetails, queues QueueFamilyIndices, preferred config.PresentMode, width, height int) khr_swapchain.SwapchainCreateInfo {
	format := ChooseSurfaceFormat(support.Formats)
	sharing, families := sharingMode(queues)

	return khr_swapchain.SwapchainCreateInfo{
		Surface: surface,

		MinImageCount:    ChooseImageCount(support.Capabilities),
		ImageFormat:      format.Format,
		ImageColorSpace:  format.ColorSpace,
		ImageExtent:      ChooseExtent(support.Capabilities, width, height),
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode:   sharing,
		QueueFamilyIndices: families,

		PreTransform:   support.Capabilities.CurrentTransform,
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    ChoosePresentMode(preferred, support.PresentModes),
		Clipped:        true,
	}
}

// Swapchain owns the swapchain handle and one view per image.
type Swapchain struct {
	Handle      khr_swapchain.Swapchain
	Format      core1_0.Format
	Extent      core1_0.Extent2D
	PresentMode khr_surface.PresentMode
	Images      []core1_0.Image
	Views       []core1_0.ImageView

	driver    khr_swapchain.ExtensionDriver
	device    *Device
	preferred config.PresentMode
	logger    *slog.Logger
}

func NewSwapchain(device *Device, preferred config.PresentMode, width, height int) (*Swapchain, error) {
	s := &Swapchain{
		driver:    khr_swapchain.CreateExtensionDriverFromCoreDriver(device.Driver),
		device:    device,
		preferred: preferred,
		logger:    device.instance.logger,
	}
	if err := s.create(width, height); err != nil {
		s.Destroy()
		return nil, err
	}
	return s, nil
}

func (s *Swapchain) create(width, height int) error {
	inst := s.device.instance
	support, err := QuerySupport(inst.SurfaceDriver, inst.Surface, s.device.Physical)
	if err != nil {
		return err
	}
	if len(support.Formats) == 0 || len(support.PresentModes) == 0 {
		return errors.Wrap(ErrSurfaceLost, "surface reports no formats or present modes")
	}

	info := swapchainCreateInfo(inst.Surface, support, s.device.Queues, s.preferred, width, height)
	s.Handle, _, err = s.driver.CreateSwapchain(nil, info)
	if err != nil {
		return errors.Wrap(err, "creating swapchain")
	}
	s.Format = info.ImageFormat
	s.Extent = info.ImageExtent
	s.PresentMode = info.PresentMode

	s.Images, _, err = s.driver.GetSwapchainImages(s.Handle)
	if err != nil {
		return errors.Wrap(err, "listing swapchain images")
	}

	s.Views = make([]core1_0.ImageView, 0, len(s.Images))
	for _, image := range s.Images {
		view, err := CreateImageView(s.device, image, s.Format, core1_0.ImageAspectColor, 1)
		if err != nil {
			return err
		}
		s.Views = append(s.Views, view)
	}

	s.logger.Debug("swapchain created",
		slog.Int("images", len(s.Images)),
		slog.Int("width", s.Extent.Width),
		slog.Int("height", s.Extent.Height))
	return nil
}

// AspectRatio is width over height of the current extent.
func (s *Swapchain) AspectRatio() float32 {
	return float32(s.Extent.Width) / float32(s.Extent.Height)
}

// Recreate rebuilds the swapchain for a new drawable size. The device must
// be idle.
func (s *Swapchain) Recreate(width, height int) error {
	s.Destroy()
	return s.create(width, height)
}

func (s *Swapchain) Destroy() {
	for _, view := range s.Views {
		s.device.Driver.DestroyImageView(view, nil)
	}
	s.Views = nil
	s.Images = nil

	if s.Handle.Initialized() {
		s.driver.DestroySwapchain(s.Handle, nil)
		s.Handle = khr_swapchain.Swapchain{}
	}
}
