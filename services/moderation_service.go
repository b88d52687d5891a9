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
)

const (
	MsgNotAdmin        = "You are not an administrator"
	MsgRedacted        = "Message redacted from records"
	MsgMessageNotFound = "Message not found"
	MsgUnknownAction   = "Unknown action"
	MsgMissingTarget   = "A target is required"
)

type ModerationService struct {
	meeting *runtime.Meeting
	audit   repositories.IAuditRepository
	log     *slog.Logger
}

func NewModerationService(meeting *runtime.Meeting, audit repositories.IAuditRepository, log *slog.Logger) *ModerationService {
	return &ModerationService{meeting: meeting, audit: audit, log: log}
}

// Moderate applies one admin action. Repeating an action is not an error:
// the answer is the same whether the state changed or not.
func (s *ModerationService) Moderate(ctx context.Context, identity domain.Identity, cmd domain.ModerationCommand) (domain.CommandResult, error) {
	if !identity.Admin {
		return domain.Failed(MsgNotAdmin), errors.ErrNotAdmin
	}
	action, err := domain.ParseAction(string(cmd.Action))
	if err != nil {
		return domain.Failed(MsgUnknownAction), err
	}
	target := strings.TrimSpace(cmd.Target)
	if target == "" {
		return domain.Failed(MsgMissingTarget), errors.ErrValidation
	}

	gate := s.meeting.Gate
	var result domain.CommandResult
	switch action {
	case domain.ActionBlock:
		gate.Block(target)
		result = domain.Succeeded(fmt.Sprintf("User %s blocked", target))
	case domain.ActionUnblock:
		gate.Unblock(target)
		result = domain.Succeeded(fmt.Sprintf("User %s unblocked", target))
	case domain.ActionBan:
		gate.Ban(target)
		result = domain.Succeeded(fmt.Sprintf("User %s banned", target))
	case domain.ActionUnban:
		gate.Unban(target)
		result = domain.Succeeded(fmt.Sprintf("User %s unbanned", target))
	case domain.ActionRedact:
		if _, found := gate.RedactAnywhere(identity.Login, target); !found {
			return domain.Failed(MsgMessageNotFound), errors.ErrMessageNotFound
		}
		result = domain.Succeeded(MsgRedacted)
	}

	entry := fmt.Sprintf("%s %s %s", identity.Login, action, target)
	if err := s.audit.Record(ctx, entry); err != nil {
		s.log.Error("Audit entry not persisted", "action", entry, "error", err)
	}
	return result, nil
}
