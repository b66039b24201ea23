package render

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
)

// SingleTimeCommands records a one-off command buffer, submits it to the
// graphics queue and waits for it to finish.
func (d *Device) SingleTimeCommands(record func(cmd core1_0.CommandBuffer) error) error {
	buffers, _, err := d.Driver.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        d.pool,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	})
	if err != nil {
		return errors.Wrap(err, "allocating command buffer")
	}
	cmd := buffers[0]
	defer d.Driver.FreeCommandBuffers(cmd)

	_, err = d.Driver.BeginCommandBuffer(cmd, core1_0.CommandBufferBeginInfo{
		Flags: core1_0.CommandBufferUsageOneTimeSubmit,
	})
	if err != nil {
		return errors.Wrap(err, "beginning command buffer")
	}

	if err := record(cmd); err != nil {
		return err
	}

	if _, err := d.Driver.EndCommandBuffer(cmd); err != nil {
		return errors.Wrap(err, "ending command buffer")
	}

	_, err = d.Driver.QueueSubmit(d.GraphicsQueue, nil, core1_0.SubmitInfo{
		CommandBuffers: []core1_0.CommandBuffer{cmd},
	})
	if err != nil {
		return errors.Wrap(err, "submitting command buffer")
	}

	_, err = d.Driver.QueueWaitIdle(d.GraphicsQueue)
	return errors.Wrap(err, "waiting for graphics queue")
}
