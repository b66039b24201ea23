package render

import (
	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/vkngwrapper/vkscaffold/config"
)

// OpenWindow initializes SDL video and creates a Vulkan-capable window.
// The caller must have locked the OS thread.
func OpenWindow(cfg config.Config) (*sdl.Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, errors.Wrap(err, "initializing sdl")
	}

	flags := uint32(sdl.WINDOW_SHOWN | sdl.WINDOW_VULKAN)
	if cfg.Resizable {
		flags |= sdl.WINDOW_RESIZABLE
	}

	window, err := sdl.CreateWindow(cfg.Title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, int32(cfg.Width), int32(cfg.Height), flags)
	if err != nil {
		sdl.Quit()
		return nil, errors.Wrap(err, "creating window")
	}
	return window, nil
}

// drawableSize is zero in either dimension while the window is minimized.
func drawableSize(window *sdl.Window) (int, int) {
	if window.GetFlags()&sdl.WINDOW_MINIMIZED != 0 {
		return 0, 0
	}
	w, h := window.VulkanGetDrawableSize()
	return int(w), int(h)
}

func closeWindow(window *sdl.Window) {
	if window != nil {
		window.Destroy()
	}
	sdl.Quit()
}
