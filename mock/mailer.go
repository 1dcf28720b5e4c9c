package mock

import (
	"context"

	"github.com/fwojciec/linksum"
)

var _ linksum.Mailer = (*Mailer)(nil)

// Mailer is a mock implementation of linksum.Mailer.
type Mailer struct {
	SendFn func(ctx context.Context, email *linksum.Email) (string, error)
}

func (m *Mailer) Send(ctx context.Context, email *linksum.Email) (string, error) {
	return m.SendFn(ctx, email)
}
