package render

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/vkngwrapper/vkscaffold/swapsync"
)

// Frames holds the per-slot and per-image synchronization objects and the
// per-slot command buffers. It implements swapsync.Presenter.
type Frames struct {
	device    *Device
	swapchain *Swapchain

	// Indexed by slot. Each slot records into its own pool so the pool can
	// be reset wholesale once the slot fence has signalled.
	pools          []core1_0.CommandPool
	Commands       []core1_0.CommandBuffer
	imageAvailable []core1_0.Semaphore
	inFlight       []core1_0.Fence

	// Indexed by swapchain image.
	renderFinished []core1_0.Semaphore
}

var _ swapsync.Presenter = (*Frames)(nil)

func NewFrames(device *Device, swapchain *Swapchain, framesInFlight int) (*Frames, error) {
	f := &Frames{device: device, swapchain: swapchain}
	driver := device.Driver

	for slot := 0; slot < framesInFlight; slot++ {
		pool, _, err := driver.CreateCommandPool(nil, core1_0.CommandPoolCreateInfo{
			QueueFamilyIndex: *device.Queues.Graphics,
		})
		if err != nil {
			f.Destroy()
			return nil, errors.Wrap(err, "creating frame command pool")
		}
		f.pools = append(f.pools, pool)

		buffers, _, err := driver.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
			CommandPool:        pool,
			Level:              core1_0.CommandBufferLevelPrimary,
			CommandBufferCount: 1,
		})
		if err != nil {
			f.Destroy()
			return nil, errors.Wrap(err, "allocating frame command buffer")
		}
		f.Commands = append(f.Commands, buffers[0])

		semaphore, _, err := driver.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
		if err != nil {
			f.Destroy()
			return nil, errors.Wrap(err, "creating image available semaphore")
		}
		f.imageAvailable = append(f.imageAvailable, semaphore)

		// Signalled so the first wait on each slot returns immediately.
		fence, _, err := driver.CreateFence(nil, core1_0.FenceCreateInfo{
			Flags: core1_0.FenceCreateSignaled,
		})
		if err != nil {
			f.Destroy()
			return nil, errors.Wrap(err, "creating in flight fence")
		}
		f.inFlight = append(f.inFlight, fence)
	}

	if err := f.ResetImages(); err != nil {
		f.Destroy()
		return nil, err
	}
	return f, nil
}

// ResetImages rebuilds the per-image semaphores for the current swapchain
// image count. The device must be idle.
func (f *Frames) ResetImages() error {
	f.destroyImageSemaphores()
	for range f.swapchain.Images {
		semaphore, _, err := f.device.Driver.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
		if err != nil {
			return errors.Wrap(err, "creating render finished semaphore")
		}
		f.renderFinished = append(f.renderFinished, semaphore)
	}
	return nil
}

func (f *Frames) WaitFrame(slot int) error {
	_, err := f.device.Driver.WaitForFences(true, common.NoTimeout, f.inFlight[slot])
	return err
}

// ResetFrame unsignals the slot fence and recycles its command buffer.
func (f *Frames) ResetFrame(slot int) error {
	if _, err := f.device.Driver.ResetFences(f.inFlight[slot]); err != nil {
		return err
	}
	_, err := f.device.Driver.ResetCommandPool(f.pools[slot], 0)
	return err
}

func (f *Frames) Acquire(slot int) (int, swapsync.Status, error) {
	image, res, err := f.swapchain.driver.AcquireNextImage(f.swapchain.Handle, common.NoTimeout, &f.imageAvailable[slot], nil)
	switch res {
	case khr_swapchain.VKErrorOutOfDate:
		return image, swapsync.OutOfDate, nil
	case khr_swapchain.VKSuboptimal:
		return image, swapsync.Suboptimal, nil
	}
	return image, swapsync.OK, err
}

func (f *Frames) Submit(slot, image int) error {
	_, err := f.device.Driver.QueueSubmit(f.device.GraphicsQueue, &f.inFlight[slot],
		core1_0.SubmitInfo{
			WaitSemaphores:   []core1_0.Semaphore{f.imageAvailable[slot]},
			WaitDstStageMask: []core1_0.PipelineStageFlags{core1_0.PipelineStageColorAttachmentOutput},
			CommandBuffers:   []core1_0.CommandBuffer{f.Commands[slot]},
			SignalSemaphores: []core1_0.Semaphore{f.renderFinished[image]},
		},
	)
	return err
}

func (f *Frames) Present(slot, image int) (swapsync.Status, error) {
	res, err := f.swapchain.driver.QueuePresent(f.device.PresentQueue, khr_swapchain.PresentInfo{
		WaitSemaphores: []core1_0.Semaphore{f.renderFinished[image]},
		Swapchains:     []khr_swapchain.Swapchain{f.swapchain.Handle},
		ImageIndices:   []int{image},
	})
	switch res {
	case khr_swapchain.VKErrorOutOfDate:
		return swapsync.OutOfDate, nil
	case khr_swapchain.VKSuboptimal:
		return swapsync.Suboptimal, nil
	}
	return swapsync.OK, err
}

func (f *Frames) destroyImageSemaphores() {
	for _, semaphore := range f.renderFinished {
		f.device.Driver.DestroySemaphore(semaphore, nil)
	}
	f.renderFinished = nil
}

// Destroy releases every object. The device must be idle.
func (f *Frames) Destroy() {
	driver := f.device.Driver
	f.destroyImageSemaphores()

	for _, fence := range f.inFlight {
		driver.DestroyFence(fence, nil)
	}
	f.inFlight = nil

	for _, semaphore := range f.imageAvailable {
		driver.DestroySemaphore(semaphore, nil)
	}
	f.imageAvailable = nil

	// Destroying a pool frees its command buffers.
	for _, pool := range f.pools {
		driver.DestroyCommandPool(pool, nil)
	}
	f.pools = nil
	f.Commands = nil
}
