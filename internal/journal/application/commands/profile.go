package commands

import (
	"context"

	"github.com/felixgeelhaar/daylog/internal/journal/domain"
	"github.com/felixgeelhaar/daylog/internal/journal/sanitize"
)

// ProfileUpdater stores a profile and reports whether it reached the
// remote.
type ProfileUpdater interface {
	Update(ctx context.Context, p domain.Profile) (bool, error)
}

// UpdateProfileCommand contains the raw name and email.
type UpdateProfileCommand struct {
	Name  string
	Email string
}

// UpdateProfileResult says what was stored.
type UpdateProfileResult struct {
	Profile  domain.Profile
	Mirrored bool
}

// UpdateProfileHandler handles UpdateProfileCommand.
type UpdateProfileHandler struct {
	profiles ProfileUpdater
}

// NewUpdateProfileHandler creates a new UpdateProfileHandler.
func NewUpdateProfileHandler(profiles ProfileUpdater) *UpdateProfileHandler {
	return &UpdateProfileHandler{profiles: profiles}
}

// Handle validates both fields. The remote write is best-effort.
func (h *UpdateProfileHandler) Handle(ctx context.Context, cmd UpdateProfileCommand) (*UpdateProfileResult, error) {
	name, err := sanitize.Name(cmd.Name)
	if err != nil {
		return nil, err
	}
	email, err := sanitize.Email(cmd.Email)
	if err != nil {
		return nil, err
	}

	p := domain.Profile{Name: name, Email: email}
	mirrored, err := h.profiles.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	return &UpdateProfileResult{Profile: p, Mirrored: mirrored}, nil
}
