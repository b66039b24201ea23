// Package render is a thin layer over Vulkan: instance and device setup,
// swapchain and frame synchronization, buffers, images, textures,
// pipelines and a Renderer that drives an Application through the frame
// loop.
package render

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3/core1_0"
	"golang.org/x/exp/slog"

	"github.com/vkngwrapper/vkscaffold/config"
	"github.com/vkngwrapper/vkscaffold/swapsync"
)

// Frame is what an Application sees while a frame is being prepared.
type Frame struct {
	// Slot indexes per-frame resources such as uniform buffers; it is in
	// [0, frames in flight).
	Slot int
	// Image is the swapchain image being rendered.
	Image  int
	Number uint64

	Command     core1_0.CommandBuffer
	Framebuffer core1_0.Framebuffer
	Extent      core1_0.Extent2D

	// Elapsed and Delta are in seconds.
	Elapsed float64
	Delta   float64
}

// Application supplies the resources and draw commands of a program.
type Application interface {
	// CreateResources runs once, after the device and swapchain exist.
	CreateResources(r *Renderer) error
	// CreateSwapchainResources runs after CreateResources and after every
	// swapchain rebuild. Pipelines depending on the extent belong here.
	CreateSwapchainResources(r *Renderer) error
	// DestroySwapchainResources runs before a rebuild and at shutdown with
	// the device idle.
	DestroySwapchainResources(r *Renderer)
	// Update runs once the slot's previous frame has finished on the GPU,
	// so per-slot resources may be written.
	Update(r *Renderer, f Frame) error
	// Record adds draw commands inside the render pass.
	Record(r *Renderer, f Frame) error
	// Destroy releases what CreateResources made.
	Destroy(r *Renderer)
}

type RendererOptions struct {
	// Depth adds a depth attachment and depth testing.
	Depth bool
}

type Renderer struct {
	Config  config.Config
	Logger  *slog.Logger
	Session uuid.UUID

	Window    *sdl.Window
	Instance  *Instance
	Device    *Device
	Swapchain *Swapchain
	Frames    *Frames

	RenderPass   core1_0.RenderPass
	Targets      *RenderTargets
	Framebuffers []core1_0.Framebuffer
	Depth        bool
	DepthFormat  core1_0.Format

	app       Application
	scheduler *swapsync.Scheduler
	clock     *Clock
	frame     uint64

	appResources          bool
	appSwapchainResources bool
	// stale is set while the window has no drawable area and the swapchain
	// could not be rebuilt.
	stale bool
}

// NewRenderer opens a window and brings up Vulkan for app. The caller must
// have locked the OS thread.
func NewRenderer(cfg config.Config, app Application, opts RendererOptions) (*Renderer, error) {
	session := uuid.New()
	r := &Renderer{
		Config:  cfg,
		Logger:  cfg.Logger().With(slog.String("session", session.String())),
		Session: session,
		Depth:   opts.Depth,
		app:     app,
		clock:   NewClock(),
	}

	if err := r.init(); err != nil {
		r.Destroy()
		return nil, err
	}
	return r, nil
}

func (r *Renderer) init() error {
	var err error
	r.Window, err = OpenWindow(r.Config)
	if err != nil {
		return err
	}

	global, err := LoadGlobalDriver()
	if err != nil {
		return err
	}

	r.Instance, err = NewInstance(global, InstanceOptions{
		AppName:    r.Config.Title,
		Validation: r.Config.Validation,
		Extensions: r.Window.VulkanGetInstanceExtensions(),
		Logger:     r.Logger,
	})
	if err != nil {
		return err
	}

	if err := r.Instance.CreateSurface(r.Window); err != nil {
		return err
	}

	r.Device, err = NewDevice(r.Instance, DeviceOptions{
		Anisotropy: r.Config.Anisotropy,
		MSAA:       r.Config.MSAA,
	})
	if err != nil {
		return err
	}

	if r.Depth {
		r.DepthFormat, err = r.Device.FindDepthFormat()
		if err != nil {
			return err
		}
	}

	width, height := drawableSize(r.Window)
	r.Swapchain, err = NewSwapchain(r.Device, r.Config.PresentMode, width, height)
	if err != nil {
		return err
	}

	r.Frames, err = NewFrames(r.Device, r.Swapchain, r.Config.FramesInFlight)
	if err != nil {
		return err
	}

	r.scheduler, err = swapsync.NewScheduler(r.Config.FramesInFlight, len(r.Swapchain.Images))
	if err != nil {
		return err
	}

	if err := r.createTargets(); err != nil {
		return err
	}

	// The flags are set first so a partial failure is still torn down by
	// the application's destroy hooks.
	r.appResources = true
	if err := r.app.CreateResources(r); err != nil {
		return errors.Wrap(err, "creating application resources")
	}

	r.appSwapchainResources = true
	if err := r.app.CreateSwapchainResources(r); err != nil {
		return errors.Wrap(err, "creating application swapchain resources")
	}
	return nil
}

// FramesInFlight is the number of frame slots.
func (r *Renderer) FramesInFlight() int {
	return r.Config.FramesInFlight
}

// Samples is the sample count pipelines must rasterize with.
func (r *Renderer) Samples() core1_0.SampleCountFlags {
	return r.Device.Samples
}

func (r *Renderer) createTargets() error {
	var err error
	r.RenderPass, err = r.Device.CreateRenderPass(RenderPassOptions{
		ColorFormat: r.Swapchain.Format,
		Samples:     r.Device.Samples,
		Depth:       r.Depth,
		DepthFormat: r.DepthFormat,
	})
	if err != nil {
		return err
	}

	r.Targets, err = r.Device.CreateRenderTargets(r.Swapchain.Extent, r.Swapchain.Format, r.DepthFormat, r.Depth)
	if err != nil {
		return err
	}

	r.Framebuffers, err = r.Device.CreateFramebuffers(r.RenderPass, r.Swapchain, r.Targets)
	return err
}

func (r *Renderer) destroyTargets() {
	if r.appSwapchainResources {
		r.app.DestroySwapchainResources(r)
		r.appSwapchainResources = false
	}

	r.Device.DestroyFramebuffers(r.Framebuffers)
	r.Framebuffers = nil

	r.Device.DestroyRenderTargets(r.Targets)
	r.Targets = nil

	if r.RenderPass.Initialized() {
		r.Device.Driver.DestroyRenderPass(r.RenderPass, nil)
		r.RenderPass = core1_0.RenderPass{}
	}
}

// Run polls window events and draws until the window is closed or ctx is
// cancelled. It returns with the device idle.
func (r *Renderer) Run(ctx context.Context) error {
	rendering := true

	for {
		select {
		case <-ctx.Done():
			return r.Device.WaitIdle()
		default:
		}

		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				return r.Device.WaitIdle()
			case *sdl.WindowEvent:
				switch e.Event {
				case sdl.WINDOWEVENT_MINIMIZED:
					rendering = false
				case sdl.WINDOWEVENT_RESTORED:
					rendering = true
					r.scheduler.FlagResize()
				case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
					r.scheduler.FlagResize()
				}
			}
		}

		if !rendering {
			sdl.Delay(10)
			continue
		}

		if err := r.DrawFrame(); err != nil {
			return err
		}
	}
}

// DrawFrame renders and presents one frame, rebuilding the swapchain when
// presentation reports it stale.
func (r *Renderer) DrawFrame() error {
	if r.stale {
		if err := r.Recreate(); err != nil {
			return err
		}
		if r.stale {
			sdl.Delay(10)
			return nil
		}
	}

	status, err := r.scheduler.Draw(r.Frames, r.record)
	if err != nil {
		return err
	}

	if fps, ok := r.clock.FPS(); ok {
		r.Logger.Debug("frame rate", slog.Float64("fps", fps), slog.Uint64("frames", r.frame))
	}

	if status.NeedsRecreate() {
		r.Logger.Debug("swapchain needs rebuild", slog.String("status", status.String()))
		return r.Recreate()
	}
	return nil
}

func (r *Renderer) record(slot, image int) error {
	elapsed, delta := r.clock.Tick()
	f := Frame{
		Slot:        slot,
		Image:       image,
		Number:      r.frame,
		Command:     r.Frames.Commands[slot],
		Framebuffer: r.Framebuffers[image],
		Extent:      r.Swapchain.Extent,
		Elapsed:     elapsed,
		Delta:       delta,
	}
	r.frame++

	if err := r.app.Update(r, f); err != nil {
		return errors.Wrap(err, "updating frame")
	}

	driver := r.Device.Driver
	if _, err := driver.BeginCommandBuffer(f.Command, core1_0.CommandBufferBeginInfo{
		Flags: core1_0.CommandBufferUsageOneTimeSubmit,
	}); err != nil {
		return errors.Wrap(err, "beginning frame command buffer")
	}

	err := driver.CmdBeginRenderPass(f.Command, core1_0.SubpassContentsInline,
		core1_0.RenderPassBeginInfo{
			RenderPass:  r.RenderPass,
			Framebuffer: f.Framebuffer,
			RenderArea: core1_0.Rect2D{
				Offset: core1_0.Offset2D{X: 0, Y: 0},
				Extent: f.Extent,
			},
			ClearValues: ClearValues(r.Depth),
		})
	if err != nil {
		return errors.Wrap(err, "beginning render pass")
	}

	if err := r.app.Record(r, f); err != nil {
		return err
	}

	driver.CmdEndRenderPass(f.Command)

	_, err = driver.EndCommandBuffer(f.Command)
	return errors.Wrap(err, "ending frame command buffer")
}

// Recreate rebuilds the swapchain and everything sized by it. While the
// window has no drawable area the rebuild is deferred to a later frame.
func (r *Renderer) Recreate() error {
	width, height := drawableSize(r.Window)
	if width == 0 || height == 0 {
		r.stale = true
		return nil
	}
	r.stale = false

	if err := r.Device.WaitIdle(); err != nil {
		return err
	}

	r.destroyTargets()

	if err := r.Swapchain.Recreate(width, height); err != nil {
		return err
	}
	if err := r.Frames.ResetImages(); err != nil {
		return err
	}
	r.scheduler.ResetImages(len(r.Swapchain.Images))

	if err := r.createTargets(); err != nil {
		return err
	}

	r.appSwapchainResources = true
	if err := r.app.CreateSwapchainResources(r); err != nil {
		return errors.Wrap(err, "creating application swapchain resources")
	}

	r.Logger.Info("swapchain rebuilt",
		slog.Int("width", r.Swapchain.Extent.Width),
		slog.Int("height", r.Swapchain.Extent.Height))
	return nil
}

// Destroy releases everything in reverse creation order. It is safe on a
// partially initialized Renderer.
func (r *Renderer) Destroy() {
	if r.Device != nil && r.Device.Driver != nil {
		if err := r.Device.WaitIdle(); err != nil {
			r.Logger.Error("waiting for device before shutdown", slog.Any("error", err))
		}

		r.destroyTargets()

		if r.appResources {
			r.app.Destroy(r)
			r.appResources = false
		}

		if r.Frames != nil {
			r.Frames.Destroy()
		}
		if r.Swapchain != nil {
			r.Swapchain.Destroy()
		}
		r.Device.Destroy()
	}

	if r.Instance != nil {
		r.Instance.Destroy()
	}
	closeWindow(r.Window)
	r.Window = nil
}
