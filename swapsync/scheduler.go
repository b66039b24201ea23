// Package swapsync sequences the acquire → submit → present cycle for a
// swapchain with several frames in flight.
//
// A frame slot owns one "image available" semaphore and one fence. Each
// swapchain image owns a "render finished" semaphore, because the
// presentation engine may still be waiting on it after the slot that
// signalled it has been reused. The scheduler only deals in slot and image
// indices; the Vulkan objects behind them live in the Presenter.
package swapsync

import (
	"github.com/cockroachdb/errors"
)

// Status reports what the swapchain said about the last acquire or present.
type Status int

const (
	// OK means the image was acquired or presented normally.
	OK Status = iota
	// Suboptimal means the swapchain still works but no longer matches the
	// surface exactly. The caller should recreate at its convenience.
	Suboptimal
	// OutOfDate means the swapchain can no longer be presented to and must
	// be recreated before the next frame.
	OutOfDate
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case Suboptimal:
		return "suboptimal"
	case OutOfDate:
		return "out of date"
	}
	return "unknown"
}

// NeedsRecreate reports whether the swapchain should be rebuilt.
func (s Status) NeedsRecreate() bool {
	return s != OK
}

//go:generate mockgen -source=scheduler.go -destination=mock_presenter_test.go -package=swapsync

// Presenter performs the Vulkan calls for a frame slot. Implementations
// index their semaphores and fences by the slot and image arguments.
type Presenter interface {
	// WaitFrame blocks until the fence of slot is signalled.
	WaitFrame(slot int) error
	// ResetFrame unsignals the fence of slot.
	ResetFrame(slot int) error
	// Acquire requests the next swapchain image, signalling the image
	// available semaphore of slot.
	Acquire(slot int) (image int, status Status, err error)
	// Submit submits the work recorded for slot, waiting on the slot's
	// image available semaphore and signalling the image's render finished
	// semaphore and the slot's fence.
	Submit(slot, image int) error
	// Present queues image for presentation once its render finished
	// semaphore is signalled.
	Present(slot, image int) (Status, error)
}

// RecordFunc fills the command buffer of slot for rendering into image. It
// runs after the slot's previous submission has completed.
type RecordFunc func(slot, image int) error

const noOwner = -1

// Scheduler tracks which frame slot is current and which slot last
// rendered into each swapchain image.
type Scheduler struct {
	framesInFlight int
	current        int

	// owner[image] is the slot whose fence guards the image, or noOwner.
	owner []int

	resized bool
}

func NewScheduler(framesInFlight, images int) (*Scheduler, error) {
	if framesInFlight < 1 {
		return nil, errors.Newf("frames in flight must be positive, got %d", framesInFlight)
	}
	s := &Scheduler{framesInFlight: framesInFlight}
	s.ResetImages(images)
	return s, nil
}

func (s *Scheduler) FramesInFlight() int {
	return s.framesInFlight
}

// Current is the slot the next Draw will use.
func (s *Scheduler) Current() int {
	return s.current
}

// Owner returns the slot last submitted for image, or -1.
func (s *Scheduler) Owner(image int) int {
	if image < 0 || image >= len(s.owner) {
		return noOwner
	}
	return s.owner[image]
}

// ResetImages forgets image ownership. Call it after the swapchain has been
// recreated with the new image count; the device must be idle.
func (s *Scheduler) ResetImages(images int) {
	s.owner = make([]int, images)
	for i := range s.owner {
		s.owner[i] = noOwner
	}
	s.resized = false
}

// FlagResize makes the next present report OutOfDate so the caller rebuilds
// the swapchain, even when the driver has not noticed the new window size.
func (s *Scheduler) FlagResize() {
	s.resized = true
}

// Draw runs one frame. A non-OK status asks the caller to recreate the
// swapchain. When acquire reports OutOfDate nothing is submitted and the
// slot fence is left signalled so the next Draw does not deadlock.
//
// An error from record or Submit is terminal: the slot fence has been reset
// and the acquired image's semaphore left pending, so the caller must wait
// for the device to go idle and rebuild the Presenter before drawing again.
// Image ownership is only recorded once Submit succeeds.
func (s *Scheduler) Draw(p Presenter, record RecordFunc) (Status, error) {
	slot := s.current

	if err := p.WaitFrame(slot); err != nil {
		return OK, errors.Wrapf(err, "waiting for frame %d", slot)
	}

	image, status, err := p.Acquire(slot)
	if status == OutOfDate {
		return OutOfDate, nil
	}
	if err != nil {
		return status, errors.Wrap(err, "acquiring swapchain image")
	}
	if image < 0 || image >= len(s.owner) {
		return status, errors.Newf("acquired image %d outside swapchain of %d images", image, len(s.owner))
	}

	if owner := s.owner[image]; owner != noOwner && owner != slot {
		if err := p.WaitFrame(owner); err != nil {
			return status, errors.Wrapf(err, "waiting for image %d held by frame %d", image, owner)
		}
	}

	if err := p.ResetFrame(slot); err != nil {
		return status, errors.Wrapf(err, "resetting frame %d", slot)
	}

	if err := record(slot, image); err != nil {
		return status, errors.Wrapf(err, "recording frame %d", slot)
	}

	if err := p.Submit(slot, image); err != nil {
		return status, errors.Wrapf(err, "submitting frame %d", slot)
	}
	s.owner[image] = slot

	presentStatus, err := p.Present(slot, image)
	s.current = (s.current + 1) % s.framesInFlight
	if presentStatus == OutOfDate || presentStatus == Suboptimal {
		return presentStatus, nil
	}
	if err != nil {
		return presentStatus, errors.Wrap(err, "presenting")
	}

	if s.resized {
		return OutOfDate, nil
	}
	if status == Suboptimal {
		return Suboptimal, nil
	}
	return OK, nil
}
