package services

import (
	"context"
	"fmt"
	"log/slog"
	"meeting-lab/domain"
	"meeting-lab/errors"
	"meeting-lab/repositories"
	"meeting-lab/runtime"
	"strings"

	"github.com/samber/lo"
)

const MsgGuestProxy = "Guests cannot assign proxies"

// ProxyResult partitions the requested members.
type ProxyResult struct {
	domain.CommandResult
	Accepted []string `json:"accepted"`
	Invalid  []string `json:"invalid"`
}

type ProxyService struct {
	meeting *runtime.Meeting
	audit   repositories.IAuditRepository
	log     *slog.Logger
}

func NewProxyService(meeting *runtime.Meeting, audit repositories.IAuditRepository, log *slog.Logger) *ProxyService {
	return &ProxyService{meeting: meeting, audit: audit, log: log}
}

// AssignProxies credits every roster member of the list toward quorum, plus the caller.
// Unknown or blank entries come back as invalid.
func (s *ProxyService) AssignProxies(ctx context.Context, identity domain.Identity, members []string) (ProxyResult, error) {
	if identity.Guest || domain.IsGuest(identity.Login) {
		return ProxyResult{CommandResult: domain.Failed(MsgGuestProxy)}, errors.ErrGuest
	}

	if s.meeting.Roster.Contains(identity.Login) {
		if _, err := s.meeting.Quorum.Add(ctx, identity.Login); err != nil {
			return ProxyResult{CommandResult: domain.Failed(MsgNotSaved)}, err
		}
	}

	accepted := make([]string, 0, len(members))
	invalid := make([]string, 0)
	for _, member := range lo.Uniq(lo.Map(members, func(m string, _ int) string { return strings.TrimSpace(m) })) {
		if member == "" {
			continue
		}
		if !s.meeting.Roster.Contains(member) {
			invalid = append(invalid, member)
			continue
		}
		if _, err := s.meeting.Quorum.Add(ctx, member); err != nil {
			s.log.Error("Proxy not persisted", "identity", identity.Login, "member", member, "error", err)
			invalid = append(invalid, member)
			continue
		}
		accepted = append(accepted, member)
	}

	entry := fmt.Sprintf("%s added the following %d proxies: %s", identity.Login, len(accepted), strings.Join(accepted, ", "))
	message := fmt.Sprintf("%d proxies assigned to you: %s", len(accepted), strings.Join(accepted, ", "))
	if len(invalid) > 0 {
		entry += fmt.Sprintf(" (invalid proxies: %s)", strings.Join(invalid, ", "))
		message += fmt.Sprintf("\n%d proxies were invalid: %s", len(invalid), strings.Join(invalid, ", "))
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.log.Error("Audit entry not persisted", "action", entry, "error", err)
	}

	return ProxyResult{
		CommandResult: domain.Succeeded(message),
		Accepted:      accepted,
		Invalid:       invalid,
	}, nil
}
