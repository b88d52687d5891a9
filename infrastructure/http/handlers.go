package http

import (
	"context"
	"fmt"
	"meeting-lab/domain"
	"meeting-lab/errors"
	"meeting-lab/infrastructure/grpc/api"
	"meeting-lab/search"
	"meeting-lab/services"
	"meeting-lab/sink"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

// mgmtRequest also accepts the "user" and "msgid" keys of older clients.
type mgmtRequest struct {
	Action string `json:"action"`
	Target string `json:"target"`
	User   string `json:"user"`
	MsgID  string `json:"msgid"`
}

func (g *Gateway) login(c *fiber.Ctx) error {
	var req api.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	res, err := g.services.Auth.Login(c.UserContext(), req.Login, req.Password)
	return c.Status(errors.HTTPStatus(err)).JSON(loginResponse(res))
}

func (g *Gateway) redeem(c *fiber.Ctx) error {
	var req api.RedeemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	res, err := g.services.Invite.Redeem(c.UserContext(), req.Code)
	return c.Status(errors.HTTPStatus(err)).JSON(loginResponse(res))
}

func loginResponse(res services.LoginResult) api.LoginResponse {
	return api.LoginResponse{Success: res.Success, Message: res.Message, Token: res.Token, Identity: res.Identity}
}

func (g *Gateway) me(c *fiber.Ctx) error {
	prefs := g.services.Auth.Me(identityOf(c))
	return c.JSON(api.MeResponse{
		Login: prefs.Login,
		Name:  prefs.Name,
		Admin: prefs.Admin,
		Guest: prefs.Guest,
		Quorum: api.QuorumView{
			Present:  prefs.Quorum.Present,
			Required: prefs.Quorum.Required,
			Reached:  prefs.Quorum.Reached,
		},
	})
}

func (g *Gateway) post(c *fiber.Ctx) error {
	var req api.PostRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	res, err := g.services.Chat.Post(c.UserContext(), identityOf(c), req.Room, req.Body)
	return c.Status(errors.HTTPStatus(err)).JSON(res)
}

func (g *Gateway) moderate(c *fiber.Ctx) error {
	var req mgmtRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	target, _ := lo.Coalesce(req.Target, req.User, req.MsgID)
	res, err := g.services.Moderation.Moderate(c.UserContext(), identityOf(c), domain.ModerationCommand{
		Action: domain.ModerationAction(req.Action),
		Target: target,
	})
	return c.Status(errors.HTTPStatus(err)).JSON(res)
}

func (g *Gateway) proxy(c *fiber.Ctx) error {
	var req api.ProxyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	res, err := g.services.Proxy.AssignProxies(c.UserContext(), identityOf(c), req.Members)
	return c.Status(errors.HTTPStatus(err)).JSON(api.ProxyResponse{
		Success:  res.Success,
		Message:  res.Message,
		Accepted: res.Accepted,
		Invalid:  res.Invalid,
	})
}

func (g *Gateway) invite(c *fiber.Ctx) error {
	var req api.InviteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	res, err := g.services.Invite.Create(c.UserContext(), identityOf(c), req.Name)
	return c.Status(errors.HTTPStatus(err)).JSON(api.InviteResponse{
		Success: res.Success,
		Message: res.Message,
		Code:    res.Code,
		URL:     res.URL,
	})
}

func (g *Gateway) export(c *fiber.Ctx) error {
	archive, err := g.services.Export.Export(c.UserContext(), identityOf(c))
	if err != nil {
		message := "Oops, something went terribly wrong here!"
		if errors.Is(err, errors.ErrGuest) {
			message = services.MsgGuestExport
		}
		return c.Status(errors.HTTPStatus(err)).JSON(domain.Failed(message))
	}
	c.Set(fiber.HeaderContentType, archive.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", archive.Name))
	return c.Send(archive.Data)
}

func (g *Gateway) search(c *fiber.Ctx) error {
	query := search.ParseQuery(c.Query("q"))
	if room := c.Query("room"); room != "" {
		query.Room = room
	}
	if lang := c.Query("lang"); lang != "" {
		query.Lang = lang
	}
	if limit := c.QueryInt("limit"); limit > 0 {
		query.Limit = limit
	}
	res, err := g.services.Search.Search(c.UserContext(), identityOf(c), query)
	if err != nil {
		return c.Status(errors.HTTPStatus(err)).JSON(domain.Failed(err.Error()))
	}
	return c.JSON(res)
}

// handleChat runs the live session over the websocket. A reader goroutine only
// watches for the peer going away; clients never send frames. Shutdown of the
// gateway ends the session.
func (g *Gateway) handleChat(c *websocket.Conn) {
	identity, _ := c.Locals(identityKey).(domain.Identity)
	ctx, cancel := context.WithCancel(g.ctx)
	defer cancel()
	defer func() { _ = c.Close() }()

	go func() {
		defer cancel()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	frames := sink.NewStreamSink(g.log, func(frame *api.Frame) error {
		return c.WriteJSON(frame)
	}, g.deliveryTimeout).WithWriteDeadline(c.SetWriteDeadline)
	outcome, err := g.services.Chat.Connect(ctx, identity, frames)
	if err != nil {
		_ = c.WriteJSON(domain.Failed(err.Error()))
	}
	g.log.Info("WebSocket session ended", "identity", identity.Login, "outcome", outcome)
}
