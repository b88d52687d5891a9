package internal

import (
	"fmt"
	"meeting-lab/domain"
	"meeting-lab/runtime"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

type RoomFile struct {
	ID    string `yaml:"id" validate:"required,max=64,excludesall=/"`
	Title string `yaml:"title" validate:"required"`
	Topic string `yaml:"topic"`
}

// MeetingFile is the static definition of a meeting, read once at startup.
type MeetingFile struct {
	Title     string          `yaml:"title" validate:"required"`
	InviteURL string          `yaml:"invite_url" validate:"omitempty,url"`
	Admins    []string        `yaml:"admins"`
	Rooms     []RoomFile      `yaml:"rooms" validate:"required,min=1,unique=ID,dive"`
	Members   []domain.Member `yaml:"members" validate:"required,min=1,unique=Login,dive"`
}

func LoadMeetingFile(path string) (MeetingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return MeetingFile{}, fmt.Errorf("read meeting file: %w", err)
	}
	return ParseMeetingFile(data)
}

func ParseMeetingFile(data []byte) (MeetingFile, error) {
	var file MeetingFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return MeetingFile{}, fmt.Errorf("parse meeting file: %w", err)
	}
	if err := validate.Struct(file); err != nil {
		return MeetingFile{}, fmt.Errorf("invalid meeting file: %w", err)
	}
	logins := make(map[string]struct{}, len(file.Members))
	for _, m := range file.Members {
		if domain.IsGuest(m.Login) {
			return MeetingFile{}, fmt.Errorf("invalid meeting file: member %q uses the reserved guest prefix", m.Login)
		}
		logins[m.Login] = struct{}{}
	}
	for _, admin := range file.Admins {
		if _, ok := logins[admin]; !ok {
			return MeetingFile{}, fmt.Errorf("invalid meeting file: admin %q is not a member", admin)
		}
	}
	return file, nil
}

func (f MeetingFile) Roster() domain.Roster {
	return domain.NewRoster(f.Members, f.Admins)
}

// RoomSpecs keeps the declared order, which is the order rooms are streamed in.
func (f MeetingFile) RoomSpecs() []runtime.RoomSpec {
	specs := make([]runtime.RoomSpec, 0, len(f.Rooms))
	for _, r := range f.Rooms {
		specs = append(specs, runtime.RoomSpec{ID: domain.RoomID(r.ID), Title: r.Title, Topic: r.Topic})
	}
	return specs
}
