package share

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

type createShareRequest struct {
	ShareType ShareType `json:"shareType"`
}

func (e *Endpoints) CreateShare(ctx *fasthttp.RequestCtx) {
	owner, recordingID, ok := requireOwnerAndRecordingID(ctx)
	if !ok {
		return
	}

	var req createShareRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		api.RespondCode(ctx, api.CodeInvalidInput)
		return
	}

	created, err := e.service.CreateShare(ctx, recordingID, owner.ID, req.ShareType)
	if err != nil {
		api.RespondError(ctx, err)
		return
	}

	api.RespondData(ctx, fasthttp.StatusCreated, map[string]interface{}{"share": created})
}

func (e *Endpoints) ListShares(ctx *fasthttp.RequestCtx) {
	owner, recordingID, ok := requireOwnerAndRecordingID(ctx)
	if !ok {
		return
	}

	shares, err := e.service.ListShares(ctx, recordingID, owner.ID)
	if err != nil {
		api.RespondError(ctx, err)
		return
	}

	if shares == nil {
		shares = []*Share{}
	}

	api.RespondData(ctx, fasthttp.StatusOK, map[string]interface{}{"shares": shares})
}

func (e *Endpoints) RevokeShare(ctx *fasthttp.RequestCtx) {
	owner, recordingID, ok := requireOwnerAndRecordingID(ctx)
	if !ok {
		return
	}

	shareID, ok := ctx.UserValue("shareID").(string)
	if !ok || !validate.IsValidIdentifier(shareID) {
		api.RespondCode(ctx, api.CodeInvalidUUID)
		return
	}

	revoked, err := e.service.RevokeShare(ctx, recordingID, shareID, owner.ID)
	if err != nil {
		api.RespondError(ctx, err)
		return
	}

	api.RespondData(ctx, fasthttp.StatusOK, map[string]interface{}{"revoked": revoked})
}

// GetSharedRecording serves the public metadata subset for a share token.
// No authentication: the token itself is the credential.
func (e *Endpoints) GetSharedRecording(ctx *fasthttp.RequestCtx) {
	token, ok := shareToken(ctx)
	if !ok {
		return
	}

	rec, err := e.service.PublicRecording(ctx, token)
	if err != nil {
		api.RespondError(ctx, err)
		return
	}

	api.RespondData(ctx, fasthttp.StatusOK, map[string]interface{}{"recording": rec})
}

func (e *Endpoints) StreamSharedVideo(ctx *fasthttp.RequestCtx) {
	token, ok := shareToken(ctx)
	if !ok {
		return
	}

	url, err := e.service.VideoURL(ctx, token)
	if err != nil {
		api.RespondError(ctx, err)
		return
	}

	ctx.Redirect(url, fasthttp.StatusFound)
}

func (e *Endpoints) GetSharedThumbnail(ctx *fasthttp.RequestCtx) {
	token, ok := shareToken(ctx)
	if !ok {
		return
	}

	url, err := e.service.ThumbnailURL(ctx, token)
	if err != nil {
		api.RespondError(ctx, err)
		return
	}

	ctx.Redirect(url, fasthttp.StatusFound)
}

func shareToken(ctx *fasthttp.RequestCtx) (string, bool) {
	token, ok := ctx.UserValue("token").(string)
	if !ok || token == "" {
		api.RespondCode(ctx, api.CodeShareNotFound)
		return "", false
	}
	return token, true
}

func requireOwnerAndRecordingID(ctx *fasthttp.RequestCtx) (*user.User, string, bool) {
	owner, ok := ctx.UserValue("user").(*user.User)
	if !ok || owner == nil {
		api.RespondCode(ctx, api.CodeUnauthorized)
		return nil, "", false
	}

	recordingID, ok := ctx.UserValue("recordingID").(string)
	if !ok || !validate.IsValidIdentifier(recordingID) {
		api.RespondCode(ctx, api.CodeInvalidUUID)
		return nil, "", false
	}

	return owner, recordingID, true
}
