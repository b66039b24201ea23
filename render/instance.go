package render

import (
	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2/v3"
	"golang.org/x/exp/slog"
)

const validationLayer = "VK_LAYER_KHRONOS_validation"

type InstanceOptions struct {
	AppName    string
	Validation bool
	// Extensions are required instance extensions, usually the ones SDL
	// reports for the window.
	Extensions []string
	Logger     *slog.Logger
}

// Instance owns the Vulkan instance, the optional debug messenger and the
// window surface.
type Instance struct {
	Global core1_0.GlobalDriver
	Driver core1_0.CoreInstanceDriver

	debugDriver    ext_debug_utils.ExtensionDriver
	debugMessenger ext_debug_utils.DebugUtilsMessenger

	SurfaceDriver khr_surface.ExtensionDriver
	Surface       khr_surface.Surface

	logger *slog.Logger
}

// LoadGlobalDriver loads the Vulkan loader through SDL. SDL video must be
// initialized.
func LoadGlobalDriver() (core1_0.GlobalDriver, error) {
	global, err := core.CreateDriverFromProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	if err != nil {
		return nil, errors.Wrap(err, "loading vulkan")
	}
	return global, nil
}

// missingNames returns the entries of names that are not keys of available.
func missingNames[V any](available map[string]V, names []string) []string {
	var missing []string
	for _, name := range names {
		if _, ok := available[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// instanceExtensions resolves the extension list for instance creation.
// portability reports whether VK_KHR_portability_enumeration was added.
func instanceExtensions[V any](available map[string]V, required []string, validation bool) (names []string, portability bool, err error) {
	if missing := missingNames(available, required); len(missing) > 0 {
		return nil, false, errors.Wrapf(ErrMissingExtension, "instance extensions %v", missing)
	}
	names = append(names, required...)

	if validation {
		if _, ok := available[ext_debug_utils.ExtensionName]; !ok {
			return nil, false, errors.Wrapf(ErrMissingExtension, "instance extension %s", ext_debug_utils.ExtensionName)
		}
		names = append(names, ext_debug_utils.ExtensionName)
	}

	if _, ok := available[khr_portability_enumeration.ExtensionName]; ok {
		names = append(names, khr_portability_enumeration.ExtensionName)
		portability = true
	}
	return names, portability, nil
}

func NewInstance(global core1_0.GlobalDriver, opts InstanceOptions) (*Instance, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	info := core1_0.InstanceCreateInfo{
		ApplicationName:    opts.AppName,
		ApplicationVersion: common.CreateVersion(1, 0, 0),
		EngineName:         "vkscaffold",
		EngineVersion:      common.CreateVersion(1, 0, 0),
		APIVersion:         common.Vulkan1_2,
	}

	extensions, _, err := global.AvailableExtensions()
	if err != nil {
		return nil, errors.Wrap(err, "listing instance extensions")
	}

	var portability bool
	info.EnabledExtensionNames, portability, err = instanceExtensions(extensions, opts.Extensions, opts.Validation)
	if err != nil {
		return nil, err
	}
	if portability {
		info.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	if opts.Validation {
		layers, _, err := global.AvailableLayers()
		if err != nil {
			return nil, errors.Wrap(err, "listing layers")
		}
		if missing := missingNames(layers, []string{validationLayer}); len(missing) > 0 {
			return nil, errors.Wrapf(ErrMissingLayer, "%s not available, install the Vulkan SDK", validationLayer)
		}
		info.EnabledLayerNames = append(info.EnabledLayerNames, validationLayer)

		// Chained so instance creation and destruction are validated too.
		info.Next = debugMessengerInfo(logger)
	}

	driver, _, err := global.CreateInstance(nil, info)
	if err != nil {
		return nil, errors.Wrap(err, "creating instance")
	}

	inst := &Instance{
		Global: global,
		Driver: driver,
		logger: logger,
	}

	if opts.Validation {
		inst.debugDriver = ext_debug_utils.CreateExtensionDriverFromCoreDriver(driver)
		inst.debugMessenger, _, err = inst.debugDriver.CreateDebugUtilsMessenger(nil, debugMessengerInfo(logger))
		if err != nil {
			inst.Destroy()
			return nil, errors.Wrap(err, "creating debug messenger")
		}
	}

	logger.Debug("instance created",
		slog.Any("extensions", info.EnabledExtensionNames),
		slog.Any("layers", info.EnabledLayerNames))
	return inst, nil
}

// CreateSurface creates the presentation surface for window.
func (i *Instance) CreateSurface(window *sdl.Window) error {
	i.SurfaceDriver = khr_surface.CreateExtensionDriverFromCoreDriver(i.Driver)
	surface, err := vkng_sdl2.CreateSurface(i.Driver.Instance(), i.SurfaceDriver, window)
	if err != nil {
		return errors.Wrap(err, "creating surface")
	}
	i.Surface = surface
	return nil
}

// Destroy releases the surface, the debug messenger and the instance.
func (i *Instance) Destroy() {
	if i.Surface.Initialized() {
		i.SurfaceDriver.DestroySurface(i.Surface, nil)
		i.Surface = khr_surface.Surface{}
	}

	if i.debugMessenger.Initialized() {
		i.debugDriver.DestroyDebugUtilsMessenger(i.debugMessenger, nil)
		i.debugMessenger = ext_debug_utils.DebugUtilsMessenger{}
	}

	if i.Driver != nil {
		i.Driver.DestroyInstance(nil)
		i.Driver = nil
	}
}
