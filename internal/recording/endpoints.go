package recording

import (
	"github.com/TravisBumgarner/just-recordings-sub001/internal/api"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/user"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/validate"
	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
)

type Endpoints struct {
	service *Service
}

func NewEndpoints(service *Service) *Endpoints {
	return &Endpoints{service: service}
}

type renameRequest struct {
	Name string `json:"name"`
}

func (e *Endpoints) ListRecordings(ctx *fasthttp.RequestCtx) {
	owner, ok := requireOwner(ctx)
	if !ok {
		return
	}

	recordings, err := e.service.List(ctx, owner.ID)
	if err != nil {
		api.RespondError(ctx, err)
		return
	}

	if recordings == nil {
		recordings = []*Recording{}
	}

	api.RespondData(ctx, fasthttp.StatusOK, map[string]interface{}{"recordings": recordings})
}

func (e *Endpoints) GetRecording(ctx *fasthttp.RequestCtx) {
	owner, recordingID, ok := requireOwnerAndID(ctx)
	if !ok {
		return
	}

	rec, err := e.service.Get(ctx, recordingID, owner.ID)
	if err != nil {
		api.RespondError(ctx, err)
		return
	}

	api.RespondData(ctx, fasthttp.StatusOK, map[string]interface{}{"recording": rec})
}

func (e *Endpoints) RenameRecording(ctx *fasthttp.RequestCtx) {
	owner, recordingID, ok := requireOwnerAndID(ctx)
	if !ok {
		return
	}

	var req renameRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		api.RespondCode(ctx, api.CodeInvalidInput)
		return
	}

	rec, err := e.service.Rename(ctx, recordingID, owner.ID, req.Name)
	if err != nil {
		api.RespondError(ctx, err)
		return
	}

	api.RespondData(ctx, fasthttp.StatusOK, map[string]interface{}{"recording": rec})
}

func (e *Endpoints) DeleteRecording(ctx *fasthttp.RequestCtx) {
	owner, recordingID, ok := requireOwnerAndID(ctx)
	if !ok {
		return
	}

	if err := e.service.Delete(ctx, recordingID, owner.ID); err != nil {
		api.RespondError(ctx, err)
		return
	}

	api.RespondData(ctx, fasthttp.StatusOK, map[string]interface{}{"deleted": true})
}

func requireOwner(ctx *fasthttp.RequestCtx) (*user.User, bool) {
	owner, ok := ctx.UserValue("user").(*user.User)
	if !ok || owner == nil {
		api.RespondCode(ctx, api.CodeUnauthorized)
		return nil, false
	}
	return owner, true
}

func requireOwnerAndID(ctx *fasthttp.RequestCtx) (*user.User, string, bool) {
	owner, ok := requireOwner(ctx)
	if !ok {
		return nil, "", false
	}

	recordingID, ok := ctx.UserValue("recordingID").(string)
	if !ok || !validate.IsValidIdentifier(recordingID) {
		api.RespondCode(ctx, api.CodeInvalidUUID)
		return nil, "", false
	}

	return owner, recordingID, true
}
