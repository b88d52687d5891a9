package domain

import (
	"meeting-lab/errors"
	"strings"
)

type ModerationAction string

const (
	ActionBlock   ModerationAction = "block"
	ActionUnblock ModerationAction = "unblock"
	ActionBan     ModerationAction = "ban"
	ActionUnban   ModerationAction = "unban"
	ActionRedact  ModerationAction = "redact"
)

// ModerationCommand targets a user for block/ban actions and a message id for redact.
type ModerationCommand struct {
	Action ModerationAction `json:"action" validate:"required,oneof=block unblock ban unban redact"`
	Target string           `json:"target" validate:"required"`
}

func ParseAction(s string) (ModerationAction, error) {
	a := ModerationAction(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case ActionBlock, ActionUnblock, ActionBan, ActionUnban, ActionRedact:
		return a, nil
	}
	return "", errors.ErrUnknownAction
}

// CommandResult is the uniform answer of every command surface.
type CommandResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func Succeeded(message string) CommandResult {
	return CommandResult{Success: true, Message: message}
}

func Failed(message string) CommandResult {
	return CommandResult{Success: false, Message: message}
}
