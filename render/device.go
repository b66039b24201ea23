package render

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_portability_subset"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
	"golang.org/x/exp/slog"
)

var deviceExtensions = []string{khr_swapchain.ExtensionName}

type QueueFamilyIndices struct {
	Graphics *int
	Present  *int
}

func (i QueueFamilyIndices) IsComplete() bool {
	return i.Graphics != nil && i.Present != nil
}

// Unique lists the distinct families, graphics first.
func (i QueueFamilyIndices) Unique() []int {
	families := []int{*i.Graphics}
	if *i.Present != *i.Graphics {
		families = append(families, *i.Present)
	}
	return families
}

// FindQueueFamilies picks queue families given, per family, whether it
// supports graphics and whether it can present to the surface. A family
// doing both is preferred over a split pair.
func FindQueueFamilies(graphics, present []bool) QueueFamilyIndices {
	var indices QueueFamilyIndices
	for idx := range graphics {
		if graphics[idx] && idx < len(present) && present[idx] {
			both := idx
			return QueueFamilyIndices{Graphics: &both, Present: &both}
		}
	}

	for idx := range graphics {
		if indices.Graphics == nil && graphics[idx] {
			g := idx
			indices.Graphics = &g
		}
	}
	for idx := range present {
		if indices.Present == nil && present[idx] {
			p := idx
			indices.Present = &p
		}
	}
	return indices
}

type DeviceKind int

const (
	KindOther DeviceKind = iota
	KindCPU
	KindVirtual
	KindIntegrated
	KindDiscrete
)

func (k DeviceKind) String() string {
	switch k {
	case KindCPU:
		return "cpu"
	case KindVirtual:
		return "virtual"
	case KindIntegrated:
		return "integrated"
	case KindDiscrete:
		return "discrete"
	}
	return "other"
}

func deviceKind(t core1_0.PhysicalDeviceType) DeviceKind {
	switch t {
	case core1_0.PhysicalDeviceTypeDiscreteGPU:
		return KindDiscrete
	case core1_0.PhysicalDeviceTypeIntegratedGPU:
		return KindIntegrated
	case core1_0.PhysicalDeviceTypeVirtualGPU:
		return KindVirtual
	case core1_0.PhysicalDeviceTypeCPU:
		return KindCPU
	}
	return KindOther
}

// DeviceCandidate is what device selection needs to know about a physical
// device.
type DeviceCandidate struct {
	Name                string
	Kind                DeviceKind
	MaxImageDimension2D int

	Queues          QueueFamilyIndices
	HasSwapchain    bool
	HasFormats      bool
	HasPresentModes bool
	Anisotropy      bool
}

// ScoreDevice ranks a candidate. ok is false when the device cannot drive
// the surface at all.
func ScoreDevice(c DeviceCandidate, needAnisotropy bool) (score int, ok bool) {
	if !c.Queues.IsComplete() || !c.HasSwapchain || !c.HasFormats || !c.HasPresentModes {
		return 0, false
	}
	if needAnisotropy && !c.Anisotropy {
		return 0, false
	}

	// Kind dominates; image size only breaks ties within a kind.
	return int(c.Kind)*1_000_000 + c.MaxImageDimension2D, true
}

// PickBest returns the index of the highest scoring suitable candidate.
// Ties keep the earlier candidate.
func PickBest(candidates []DeviceCandidate, needAnisotropy bool) (int, error) {
	best, bestScore := -1, -1
	for idx, c := range candidates {
		score, ok := ScoreDevice(c, needAnisotropy)
		if ok && score > bestScore {
			best, bestScore = idx, score
		}
	}
	if best < 0 {
		return -1, errors.Wrapf(ErrNoSuitableDevice, "%d devices inspected", len(candidates))
	}
	return best, nil
}

// MaxUsableSampleCount returns the highest sample count set in counts.
func MaxUsableSampleCount(counts core1_0.SampleCountFlags) core1_0.SampleCountFlags {
	for _, samples := range []core1_0.SampleCountFlags{
		core1_0.Samples64,
		core1_0.Samples32,
		core1_0.Samples16,
		core1_0.Samples8,
		core1_0.Samples4,
		core1_0.Samples2,
	} {
		if counts&samples != 0 {
			return samples
		}
	}
	return core1_0.Samples1
}

// inspect gathers a DeviceCandidate for device. Surface related fields are
// left false when the instance has no surface.
func (i *Instance) inspect(device core1_0.PhysicalDevice) (DeviceCandidate, error) {
	props, err := i.Driver.GetPhysicalDeviceProperties(device)
	if err != nil {
		return DeviceCandidate{}, errors.Wrap(err, "reading device properties")
	}

	c := DeviceCandidate{
		Name:                props.DeviceName,
		Kind:                deviceKind(props.DriverType),
		MaxImageDimension2D: props.Limits.MaxImageDimension2D,
		Anisotropy:          i.Driver.GetPhysicalDeviceFeatures(device).SamplerAnisotropy,
	}

	extensions, _, err := i.Driver.EnumerateDeviceExtensionProperties(device)
	if err != nil {
		return c, errors.Wrap(err, "listing device extensions")
	}
	c.HasSwapchain = len(missingNames(extensions, deviceExtensions)) == 0

	if !i.Surface.Initialized() {
		return c, nil
	}

	families := i.Driver.GetPhysicalDeviceQueueFamilyProperties(device)
	graphics := make([]bool, len(families))
	present := make([]bool, len(families))
	for idx, family := range families {
		graphics[idx] = family.QueueFlags&core1_0.QueueGraphics != 0

		supported, _, err := i.SurfaceDriver.GetPhysicalDeviceSurfaceSupport(i.Surface, device, idx)
		if err != nil {
			return c, errors.Wrapf(err, "querying present support of family %d", idx)
		}
		present[idx] = supported
	}
	c.Queues = FindQueueFamilies(graphics, present)

	if c.HasSwapchain {
		support, err := QuerySupport(i.SurfaceDriver, i.Surface, device)
		if err != nil {
			return c, err
		}
		c.HasFormats = len(support.Formats) > 0
		c.HasPresentModes = len(support.PresentModes) > 0
	}
	return c, nil
}

// Candidates inspects every physical device, in enumeration order.
func (i *Instance) Candidates() ([]core1_0.PhysicalDevice, []DeviceCandidate, error) {
	devices, _, err := i.Driver.EnumeratePhysicalDevices()
	if err != nil {
		return nil, nil, errors.Wrap(err, "enumerating physical devices")
	}

	candidates := make([]DeviceCandidate, len(devices))
	for idx, device := range devices {
		candidates[idx], err = i.inspect(device)
		if err != nil {
			return nil, nil, err
		}
	}
	return devices, candidates, nil
}

// PickPhysicalDevice chooses the best device able to present to the
// instance surface.
func (i *Instance) PickPhysicalDevice(needAnisotropy bool) (core1_0.PhysicalDevice, DeviceCandidate, error) {
	devices, candidates, err := i.Candidates()
	if err != nil {
		return core1_0.PhysicalDevice{}, DeviceCandidate{}, err
	}

	best, err := PickBest(candidates, needAnisotropy)
	if err != nil {
		return core1_0.PhysicalDevice{}, DeviceCandidate{}, err
	}

	i.logger.Info("picked physical device",
		slog.String("name", candidates[best].Name),
		slog.String("kind", candidates[best].Kind.String()))
	return devices[best], candidates[best], nil
}

type DeviceOptions struct {
	// Anisotropy requires sampler anisotropy; devices without it are
	// skipped.
	Anisotropy bool
	MSAA       bool
}

// Device owns the logical device and its queues.
type Device struct {
	Physical core1_0.PhysicalDevice
	Driver   core1_0.CoreDeviceDriver
	Queues   QueueFamilyIndices

	GraphicsQueue core1_0.Queue
	PresentQueue  core1_0.Queue

	// Samples is the color and depth sample count render targets use.
	Samples       core1_0.SampleCountFlags
	Anisotropy    bool
	MaxAnisotropy float32

	// pool serves one-off transfer and layout commands.
	pool     core1_0.CommandPool
	instance *Instance
}

// NewDevice picks a physical device for the instance surface and creates
// the logical device with one queue per distinct family.
func NewDevice(inst *Instance, opts DeviceOptions) (*Device, error) {
	physical, candidate, err := inst.PickPhysicalDevice(opts.Anisotropy)
	if err != nil {
		return nil, err
	}

	props, err := inst.Driver.GetPhysicalDeviceProperties(physical)
	if err != nil {
		return nil, errors.Wrap(err, "reading device properties")
	}

	dev := &Device{
		Physical:   physical,
		Queues:     candidate.Queues,
		Samples:    core1_0.Samples1,
		Anisotropy: opts.Anisotropy,
		instance:   inst,
	}
	if dev.Anisotropy {
		dev.MaxAnisotropy = props.Limits.MaxSamplerAnisotropy
	}
	if opts.MSAA {
		dev.Samples = MaxUsableSampleCount(props.Limits.FramebufferColorSampleCounts & props.Limits.FramebufferDepthSampleCounts)
	}

	var queueInfos []core1_0.DeviceQueueCreateInfo
	for _, family := range candidate.Queues.Unique() {
		queueInfos = append(queueInfos, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: family,
			QueuePriorities:  []float32{1.0},
		})
	}

	extensionNames := append([]string{}, deviceExtensions...)

	// Required to run on portability implementations such as MoltenVK.
	extensions, _, err := inst.Driver.EnumerateDeviceExtensionProperties(physical)
	if err != nil {
		return nil, errors.Wrap(err, "listing device extensions")
	}
	if _, ok := extensions[khr_portability_subset.ExtensionName]; ok {
		extensionNames = append(extensionNames, khr_portability_subset.ExtensionName)
	}

	dev.Driver, _, err = inst.Driver.CreateDevice(physical, nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos: queueInfos,
		EnabledFeatures: &core1_0.PhysicalDeviceFeatures{
			SamplerAnisotropy: dev.Anisotropy,
		},
		EnabledExtensionNames: extensionNames,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating logical device")
	}

	dev.GraphicsQueue = dev.Driver.GetQueue(*dev.Queues.Graphics, 0)
	dev.PresentQueue = dev.Driver.GetQueue(*dev.Queues.Present, 0)

	dev.pool, _, err = dev.Driver.CreateCommandPool(nil, core1_0.CommandPoolCreateInfo{
		QueueFamilyIndex: *dev.Queues.Graphics,
	})
	if err != nil {
		dev.Destroy()
		return nil, errors.Wrap(err, "creating command pool")
	}

	inst.logger.Debug("logical device created",
		slog.Int("graphicsFamily", *dev.Queues.Graphics),
		slog.Int("presentFamily", *dev.Queues.Present),
		slog.Bool("anisotropy", dev.Anisotropy),
		slog.Int("samples", int(dev.Samples)))
	return dev, nil
}

// WaitIdle blocks until the device has finished all submitted work.
func (d *Device) WaitIdle() error {
	_, err := d.Driver.DeviceWaitIdle()
	return errors.Wrap(err, "waiting for device idle")
}

func (d *Device) Destroy() {
	if d.pool.Initialized() {
		d.Driver.DestroyCommandPool(d.pool, nil)
		d.pool = core1_0.CommandPool{}
	}
	if d.Driver != nil {
		d.Driver.DestroyDevice(nil)
		d.Driver = nil
	}
}

// SortedByScore orders candidate indices by descending score for reporting.
// Unsuitable candidates sort last.
func SortedByScore(candidates []DeviceCandidate, needAnisotropy bool) []int {
	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, oka := ScoreDevice(candidates[order[a]], needAnisotropy)
		sb, okb := ScoreDevice(candidates[order[b]], needAnisotropy)
		if oka != okb {
			return oka
		}
		return sa > sb
	})
	return order
}
