package e2e

import (
	"context"
	"testing"
	"time"

	"meeting-lab/infrastructure/grpc/api"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type testMeetingSuite struct {
	BaseGrpcSuite
}

func TestMeetingSuite(t *testing.T) {
	suite.Run(t, &testMeetingSuite{})
}

func (s *testMeetingSuite) TestGuestJoinsChatsAndGetsBanned() {
	var adminToken, guestToken, guestLogin, code string
	marker := "e2e " + uuid.NewString()

	s.Run("Step 1: Admin logs in", func() {
		s.WithMeeting("Admin login", "", func(ctx context.Context, client api.MeetingServiceClient) {
			res, err := client.Login(ctx, &api.LoginRequest{Login: s.Config.AdminLogin, Password: s.Config.AdminPassword})
			s.Require().NoError(err)
			s.Require().True(res.Success, res.Message)
			s.Require().True(res.Identity.Admin, "E2E_ADMIN_LOGIN must be an administrator")
			adminToken = res.Token
		})
	})

	s.Run("Step 2: Admin invites a guest", func() {
		s.WithMeeting("Create invite", adminToken, func(ctx context.Context, client api.MeetingServiceClient) {
			res, err := client.CreateInvite(ctx, &api.InviteRequest{Name: "E2E Guest"})
			s.Require().NoError(err)
			s.Require().True(res.Success, res.Message)
			s.Require().NotEmpty(res.Code)
			code = res.Code
		})
	})

	s.Run("Step 3: Guest redeems the invite once", func() {
		s.WithMeeting("Redeem invite", "", func(ctx context.Context, client api.MeetingServiceClient) {
			res, err := client.RedeemInvite(ctx, &api.RedeemRequest{Code: code})
			s.Require().NoError(err)
			s.Require().True(res.Success, res.Message)
			s.Require().True(res.Identity.Guest)
			guestToken, guestLogin = res.Token, res.Identity.Login

			again, err := client.RedeemInvite(ctx, &api.RedeemRequest{Code: code})
			s.Require().NoError(err)
			s.Require().False(again.Success)
		})
	})

	s.Run("Step 4: Guest sees a live message, then is banned out", func() {
		s.WithMeeting("Guest stream", guestToken, func(ctx context.Context, client api.MeetingServiceClient) {
			stream, err := client.Connect(ctx, &api.ConnectRequest{})
			s.Require().NoError(err)

			first, err := stream.Recv()
			s.Require().NoError(err)
			s.Require().Equal("room_data", first.Kind)

			s.WithMeeting("Admin posts", adminToken, func(actx context.Context, admin api.MeetingServiceClient) {
				res, err := admin.Post(actx, &api.PostRequest{Room: s.Config.Room, Body: marker})
				s.Require().NoError(err)
				s.Require().True(res.Success, res.Message)
			})

			deadline := time.Now().Add(10 * time.Second)
			seen := false
			for !seen && time.Now().Before(deadline) {
				frame, err := stream.Recv()
				s.Require().NoError(err)
				seen = frame.Kind == "message" && frame.Message != nil && frame.Message.Body == marker
			}
			s.Require().True(seen, "live message never reached the guest")

			s.WithMeeting("Admin bans guest", adminToken, func(actx context.Context, admin api.MeetingServiceClient) {
				res, err := admin.Moderate(actx, &api.ModerateRequest{Action: "ban", Target: guestLogin})
				s.Require().NoError(err)
				s.Require().True(res.Success, res.Message)
			})

			for {
				_, err = stream.Recv()
				if err != nil {
					break
				}
			}
			s.Require().Equal(codes.PermissionDenied, status.Code(err))
		})
	})
}
