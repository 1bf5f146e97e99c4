package storage

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
)

// Endpoints serves blobs over HTTP for the local backend, which has no
// presigned URLs. The S3 backend never routes through here.
type Endpoints struct {
	backend Backend
}

func NewEndpoints(backend Backend) *Endpoints {
	return &Endpoints{backend: backend}
}

func (e *Endpoints) ServeBlob(ctx *fasthttp.RequestCtx) {
	path, ok := ctx.UserValue("blobPath").(string)
	if !ok || path == "" || strings.Contains(path, "..") {
		ctx.Error("Not Found", fasthttp.StatusNotFound)
		return
	}

	reader, err := e.backend.Get(ctx, path)
	if err != nil {
		ctx.Error("Not Found", fasthttp.StatusNotFound)
		return
	}
	defer reader.Close()

	ctx.SetContentType(contentTypeForPath(path))
	ctx.SetStatusCode(fasthttp.StatusOK)
	if _, err := io.Copy(ctx, reader); err != nil {
		log.Debug().Err(err).Str("path", path).Msg("Blob stream interrupted")
	}
}

func contentTypeForPath(path string) string {
	switch filepath.Ext(path) {
	case ".webm":
		return "video/webm"
	case ".mp4":
		return "video/mp4"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
