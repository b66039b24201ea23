package render

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
)

// Buffer is a buffer bound to its own allocation.
type Buffer struct {
	Handle core1_0.Buffer
	Memory core1_0.DeviceMemory
	Size   int
}

func (d *Device) CreateBuffer(size int, usage core1_0.BufferUsageFlags, properties core1_0.MemoryPropertyFlags) (*Buffer, error) {
	handle, _, err := d.Driver.CreateBuffer(nil, core1_0.BufferCreateInfo{
		Size:        size,
		Usage:       usage,
		SharingMode: core1_0.SharingModeExclusive,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating buffer")
	}
	b := &Buffer{Handle: handle, Size: size}

	reqs := d.Driver.GetBufferMemoryRequirements(handle)
	b.Memory, err = d.allocate(reqs.Size, reqs.MemoryTypeBits, properties)
	if err != nil {
		d.DestroyBuffer(b)
		return nil, err
	}

	if _, err := d.Driver.BindBufferMemory(handle, b.Memory, 0); err != nil {
		d.DestroyBuffer(b)
		return nil, errors.Wrap(err, "binding buffer memory")
	}
	return b, nil
}

// CreateHostBuffer creates a host visible, coherent buffer for data the CPU
// rewrites every frame, such as uniforms.
func (d *Device) CreateHostBuffer(size int, usage core1_0.BufferUsageFlags) (*Buffer, error) {
	return d.CreateBuffer(size, usage, core1_0.MemoryPropertyHostVisible|core1_0.MemoryPropertyHostCoherent)
}

// UploadBuffer copies data through a staging buffer into a new device local
// buffer with the given usage.
func (d *Device) UploadBuffer(usage core1_0.BufferUsageFlags, data any) (*Buffer, error) {
	encoded, err := encode(data)
	if err != nil {
		return nil, err
	}
	if len(encoded) == 0 {
		return nil, errors.New("uploading empty buffer")
	}

	staging, err := d.CreateHostBuffer(len(encoded), core1_0.BufferUsageTransferSrc)
	if err != nil {
		return nil, err
	}
	defer d.DestroyBuffer(staging)

	if err := d.WriteData(staging.Memory, 0, encoded); err != nil {
		return nil, err
	}

	b, err := d.CreateBuffer(len(encoded), usage|core1_0.BufferUsageTransferDst, core1_0.MemoryPropertyDeviceLocal)
	if err != nil {
		return nil, err
	}

	if err := d.CopyBuffer(staging.Handle, b.Handle, len(encoded)); err != nil {
		d.DestroyBuffer(b)
		return nil, err
	}
	return b, nil
}

func (d *Device) CopyBuffer(src, dst core1_0.Buffer, size int) error {
	return d.SingleTimeCommands(func(cmd core1_0.CommandBuffer) error {
		return d.Driver.CmdCopyBuffer(cmd, src, dst, core1_0.BufferCopy{
			SrcOffset: 0,
			DstOffset: 0,
			Size:      size,
		})
	})
}

func (d *Device) DestroyBuffer(b *Buffer) {
	if b == nil {
		return
	}
	if b.Handle.Initialized() {
		d.Driver.DestroyBuffer(b.Handle, nil)
		b.Handle = core1_0.Buffer{}
	}
	if b.Memory.Initialized() {
		d.Driver.FreeMemory(b.Memory, nil)
		b.Memory = core1_0.DeviceMemory{}
	}
}
