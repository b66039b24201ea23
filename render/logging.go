package render

import (
	"context"

	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"golang.org/x/exp/slog"
)

// severityLevel maps a validation message severity onto a log level.
func severityLevel(severity ext_debug_utils.DebugUtilsMessageSeverityFlags) slog.Level {
	switch {
	case severity&ext_debug_utils.SeverityError != 0:
		return slog.LevelError
	case severity&ext_debug_utils.SeverityWarning != 0:
		return slog.LevelWarn
	case severity&ext_debug_utils.SeverityInfo != 0:
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

// debugMessengerInfo routes validation layer output into logger. Messages
// below the logger's level are filtered by the handler, so every severity
// is requested from the layer.
func debugMessengerInfo(logger *slog.Logger) ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning |
			ext_debug_utils.SeverityInfo | ext_debug_utils.SeverityVerbose,
		MessageType: ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback: func(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
			logger.Log(context.Background(), severityLevel(severity), data.Message,
				slog.String("source", "vulkan"),
				slog.String("type", msgType.String()))
			return false
		},
	}
}
