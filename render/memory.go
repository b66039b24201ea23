package render

import (
	"bytes"
	"encoding/binary"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
)

// FindMemoryType returns the first memory type allowed by typeBits whose
// flags include want. types holds the property flags of each memory type
// in device order.
func FindMemoryType(types []core1_0.MemoryPropertyFlags, typeBits uint32, want core1_0.MemoryPropertyFlags) (int, error) {
	for i, flags := range types {
		if typeBits&(1<<uint(i)) != 0 && flags&want == want {
			return i, nil
		}
	}
	return 0, errors.Wrapf(ErrNoMemoryType, "type bits %#b, properties %s", typeBits, want)
}

func (d *Device) memoryTypeFlags() []core1_0.MemoryPropertyFlags {
	props := d.instance.Driver.GetPhysicalDeviceMemoryProperties(d.Physical)
	flags := make([]core1_0.MemoryPropertyFlags, len(props.MemoryTypes))
	for i, memoryType := range props.MemoryTypes {
		flags[i] = memoryType.PropertyFlags
	}
	return flags
}

func (d *Device) allocate(size int, typeBits uint32, properties core1_0.MemoryPropertyFlags) (core1_0.DeviceMemory, error) {
	typeIndex, err := FindMemoryType(d.memoryTypeFlags(), typeBits, properties)
	if err != nil {
		return core1_0.DeviceMemory{}, err
	}

	memory, _, err := d.Driver.AllocateMemory(nil, core1_0.MemoryAllocateInfo{
		AllocationSize:  size,
		MemoryTypeIndex: typeIndex,
	})
	if err != nil {
		return core1_0.DeviceMemory{}, errors.Wrapf(err, "allocating %d bytes", size)
	}
	return memory, nil
}

// encode lays data out the way the GPU reads it.
func encode(data any) ([]byte, error) {
	if b, ok := data.([]byte); ok {
		return b, nil
	}
	buf := &bytes.Buffer{}
	if err := binary.Write(buf, common.ByteOrder, data); err != nil {
		return nil, errors.Wrap(err, "encoding buffer data")
	}
	return buf.Bytes(), nil
}

// WriteData maps host visible memory and copies data into it at offset.
func (d *Device) WriteData(memory core1_0.DeviceMemory, offset int, data any) error {
	encoded, err := encode(data)
	if err != nil {
		return err
	}

	ptr, _, err := d.Driver.MapMemory(memory, offset, len(encoded), 0)
	if err != nil {
		return errors.Wrap(err, "mapping memory")
	}
	defer d.Driver.UnmapMemory(memory)

	copy(unsafe.Slice((*byte)(ptr), len(encoded)), encoded)
	return nil
}
