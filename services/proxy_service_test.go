package services

import (
	"context"
	"log/slog"
	"meeting-lab/errors"
	"meeting-lab/mocks"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestProxyService_AssignProxies(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	meeting, _ := newMeeting(t)
	audit := mocks.NewMockIAuditRepository(ctrl)
	svc := NewProxyService(meeting, audit, slog.Default())

	// Then the audit row lists accepted and invalid members
	audit.EXPECT().
		Record(gomock.Any(), "bob added the following 1 proxies: carol (invalid proxies: mallory)").
		Return(nil)

	// When bob holds proxies for carol and an unknown member
	res, err := svc.AssignProxies(context.Background(), bob, []string{"carol", " mallory ", "", "carol"})

	req.NoError(err)
	req.True(res.Success)
	req.Equal([]string{"carol"}, res.Accepted)
	req.Equal([]string{"mallory"}, res.Invalid)
	req.Equal("1 proxies assigned to you: carol\n1 proxies were invalid: mallory", res.Message)

	// And bob himself is credited as present in person
	req.Equal([]string{"bob", "carol"}, meeting.Quorum.Members())
}

func TestProxyService_RefusesGuests(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	meeting, _ := newMeeting(t)
	audit := mocks.NewMockIAuditRepository(ctrl)
	svc := NewProxyService(meeting, audit, slog.Default())
	audit.EXPECT().Record(gomock.Any(), gomock.Any()).Times(0)

	res, err := svc.AssignProxies(context.Background(), guest, []string{"carol"})

	req.ErrorIs(err, errors.ErrGuest)
	req.Equal(MsgGuestProxy, res.Message)
	req.Empty(meeting.Quorum.Members())
}
