package app

import (
	"log/slog"
	"mime"
)

func init() {
	ensureMimeType(".css", "text/css; charset=utf-8")
	ensureMimeType(".js", "text/javascript; charset=utf-8")
	ensureMimeType(".svg", "image/svg+xml")
}

// ensureMimeType fills gaps in minimal container images that ship without a
// mime.types database.
func ensureMimeType(ext, typ string) {
	if mime.TypeByExtension(ext) != "" {
		return
	}
	if err := mime.AddExtensionType(ext, typ); err != nil {
		slog.Default().Warn("register mime type", slog.String("ext", ext), slog.Any("error", err))
	}
}
