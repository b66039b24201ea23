package render

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
)

type DescriptorKind int

const (
	UniformBuffer DescriptorKind = iota
	CombinedImageSampler
)

func (k DescriptorKind) descriptorType() core1_0.DescriptorType {
	if k == CombinedImageSampler {
		return core1_0.DescriptorTypeCombinedImageSampler
	}
	return core1_0.DescriptorTypeUniformBuffer
}

// DescriptorBinding is one binding of a set layout. Bindings are numbered
// by their position in the layout.
type DescriptorBinding struct {
	Kind     DescriptorKind
	Vertex   bool
	Fragment bool
}

func (d *Device) CreateDescriptorSetLayout(bindings []DescriptorBinding) (core1_0.DescriptorSetLayout, error) {
	var layoutBindings []core1_0.DescriptorSetLayoutBinding
	for idx, binding := range bindings {
		b := core1_0.DescriptorSetLayoutBinding{
			Binding:         idx,
			DescriptorType:  binding.Kind.descriptorType(),
			DescriptorCount: 1,
		}
		if binding.Vertex {
			b.StageFlags |= core1_0.StageVertex
		}
		if binding.Fragment {
			b.StageFlags |= core1_0.StageFragment
		}
		layoutBindings = append(layoutBindings, b)
	}

	layout, _, err := d.Driver.CreateDescriptorSetLayout(nil, core1_0.DescriptorSetLayoutCreateInfo{
		Bindings: layoutBindings,
	})
	if err != nil {
		return core1_0.DescriptorSetLayout{}, errors.Wrap(err, "creating descriptor set layout")
	}
	return layout, nil
}

// PoolSizes sizes a pool for sets copies of a layout, one entry per
// descriptor type in first-seen order.
func PoolSizes(bindings []DescriptorBinding, sets int) []core1_0.DescriptorPoolSize {
	var sizes []core1_0.DescriptorPoolSize
	index := map[DescriptorKind]int{}
	for _, binding := range bindings {
		i, ok := index[binding.Kind]
		if !ok {
			i = len(sizes)
			index[binding.Kind] = i
			sizes = append(sizes, core1_0.DescriptorPoolSize{Type: binding.Kind.descriptorType()})
		}
		sizes[i].DescriptorCount += sets
	}
	return sizes
}

// DescriptorSets is a pool holding count sets of one layout.
type DescriptorSets struct {
	Layout core1_0.DescriptorSetLayout
	Pool   core1_0.DescriptorPool
	Sets   []core1_0.DescriptorSet
}

func (d *Device) CreateDescriptorSets(bindings []DescriptorBinding, count int) (*DescriptorSets, error) {
	ds := &DescriptorSets{}
	var err error

	ds.Layout, err = d.CreateDescriptorSetLayout(bindings)
	if err != nil {
		return nil, err
	}

	ds.Pool, _, err = d.Driver.CreateDescriptorPool(nil, core1_0.DescriptorPoolCreateInfo{
		MaxSets:   count,
		PoolSizes: PoolSizes(bindings, count),
	})
	if err != nil {
		d.DestroyDescriptorSets(ds)
		return nil, errors.Wrap(err, "creating descriptor pool")
	}

	layouts := make([]core1_0.DescriptorSetLayout, count)
	for i := range layouts {
		layouts[i] = ds.Layout
	}
	ds.Sets, _, err = d.Driver.AllocateDescriptorSets(core1_0.DescriptorSetAllocateInfo{
		DescriptorPool: ds.Pool,
		SetLayouts:     layouts,
	})
	if err != nil {
		d.DestroyDescriptorSets(ds)
		return nil, errors.Wrap(err, "allocating descriptor sets")
	}
	return ds, nil
}

// DescriptorWrite points one binding at a uniform buffer or a texture.
type DescriptorWrite struct {
	Binding int
	Buffer  *Buffer
	Texture *Texture
}

func descriptorWrites(set core1_0.DescriptorSet, writes []DescriptorWrite) []core1_0.WriteDescriptorSet {
	var out []core1_0.WriteDescriptorSet
	for _, w := range writes {
		write := core1_0.WriteDescriptorSet{
			DstSet:          set,
			DstBinding:      w.Binding,
			DstArrayElement: 0,
		}
		switch {
		case w.Buffer != nil:
			write.DescriptorType = core1_0.DescriptorTypeUniformBuffer
			write.BufferInfo = []core1_0.DescriptorBufferInfo{
				{
					Buffer: w.Buffer.Handle,
					Offset: 0,
					Range:  w.Buffer.Size,
				},
			}
		case w.Texture != nil:
			write.DescriptorType = core1_0.DescriptorTypeCombinedImageSampler
			write.ImageInfo = []core1_0.DescriptorImageInfo{
				{
					ImageView:   w.Texture.Image.View,
					Sampler:     w.Texture.Sampler,
					ImageLayout: core1_0.ImageLayoutShaderReadOnlyOptimal,
				},
			}
		default:
			continue
		}
		out = append(out, write)
	}
	return out
}

// WriteDescriptorSet points the bindings of set at buffers and textures.
func (d *Device) WriteDescriptorSet(set core1_0.DescriptorSet, writes ...DescriptorWrite) error {
	err := d.Driver.UpdateDescriptorSets(descriptorWrites(set, writes), nil)
	return errors.Wrap(err, "updating descriptor set")
}

// DestroyDescriptorSets destroys the pool, which frees its sets, and the
// layout.
func (d *Device) DestroyDescriptorSets(ds *DescriptorSets) {
	if ds == nil {
		return
	}
	if ds.Pool.Initialized() {
		d.Driver.DestroyDescriptorPool(ds.Pool, nil)
		ds.Pool = core1_0.DescriptorPool{}
	}
	if ds.Layout.Initialized() {
		d.Driver.DestroyDescriptorSetLayout(ds.Layout, nil)
		ds.Layout = core1_0.DescriptorSetLayout{}
	}
	ds.Sets = nil
}
