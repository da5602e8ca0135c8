package console

import (
	"context"
	"log/slog"

	"voucher-console/internal/domain/navigation"
	"voucher-console/internal/pkg/errs"
	"voucher-console/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrUnknownView = errs.New("unknown view")

// Shell owns the persisted active view of each console session. The value is keyed by session,
// so every tab of one browser follows it while other admins keep their own.
type Shell struct {
	store  shared.PreferenceStore
	logger *slog.Logger
}

func NewShell(store shared.PreferenceStore, logger *slog.Logger) *Shell {
	return &Shell{store: store, logger: logger}
}

// Active reads the session's stored view. A missing, unrecognized or unreadable value yields
// the default view.
func (s *Shell) Active(ctx context.Context, sessionID uuid.UUID) navigation.View {
	raw, ok, err := s.store.Get(ctx, navigation.SessionKey(sessionID.String()))
	if err != nil {
		s.logger.Warn("failed to read active view, using default", "session_id", sessionID, "error", err)
		return navigation.DefaultView
	}
	if !ok {
		return navigation.DefaultView
	}
	view, _ := navigation.ParseView(raw)
	return view
}

func (s *Shell) SetActive(ctx context.Context, sessionID uuid.UUID, raw string) (navigation.View, error) {
	view, ok := navigation.ParseView(raw)
	if !ok {
		return navigation.DefaultView, errs.Mark(errs.Wrapf(ErrUnknownView, "view %q", raw), errs.ErrValidation)
	}
	if err := s.store.Set(ctx, navigation.SessionKey(sessionID.String()), view.String()); err != nil {
		return navigation.DefaultView, errs.Wrap(err, "persist active view")
	}
	return view, nil
}

// Watch delivers the session's active view after every change, from any tab or process, until
// ctx is done.
func (s *Shell) Watch(ctx context.Context, sessionID uuid.UUID) <-chan navigation.View {
	changes, unsubscribe := s.store.Subscribe(navigation.SessionKey(sessionID.String()))
	out := make(chan navigation.View, 1)

	go func() {
		defer close(out)
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-changes:
				if !ok {
					return
				}
				view, _ := navigation.ParseView(raw)
				select {
				case out <- view:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
