package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	gouser "notifier/internal/modules/user"
)

// ResolverUseCase is the username resolver: cache first, then the users table.
type ResolverUseCase struct {
	repo        gouser.Repo
	placeholder string
	log         *slog.Logger
}

func NewResolverUseCase(repo gouser.Repo, placeholder string, log *slog.Logger) *ResolverUseCase {
	if placeholder == "" {
		placeholder = "Friend"
	}
	return &ResolverUseCase{
		repo:        repo,
		placeholder: placeholder,
		log:         log,
	}
}

func (uc *ResolverUseCase) DisplayName(ctx context.Context, userID string) string {
	op := "ResolverUseCase.DisplayName"
	log := uc.log.With(slog.String("op", op), slog.String("userID", userID))

	if userID == "" {
		return uc.placeholder
	}

	if name, err := uc.repo.GetDisplayName(ctx, userID); err == nil && name != "" {
		return name
	}

	u, err := uc.repo.GetUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, gouser.ErrUserNotFound) {
			log.Warn("falling back to placeholder name", "error", err)
		}
		return uc.placeholder
	}

	name := strings.TrimSpace(u.DisplayName)
	if name == "" {
		return uc.placeholder
	}

	if err := uc.repo.SaveDisplayName(ctx, userID, name); err != nil {
		log.Debug("display name not cached", "error", err)
	}
	return name
}
