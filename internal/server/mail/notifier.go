package mail

import (
	"context"
	"errors"
	"html/template"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/tasknest/internal/common"
	"github.com/dmitrijs2005/tasknest/internal/logging"
)

// dispatchTimeout bounds one background delivery including retries.
const dispatchTimeout = time.Minute

type linkData struct {
	Name string
	Link string
}

// Notifier builds frontend links for account emails and sends them.
// Dispatch methods return immediately; failures are only logged.
// Wait blocks until every dispatched email has been handled.
type Notifier struct {
	sender      Sender
	frontendURL string
	logger      logging.Logger
	wg          sync.WaitGroup
}

func NewNotifier(sender Sender, frontendURL string, logger logging.Logger) *Notifier {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Notifier{
		sender:      sender,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      logger,
	}
}

func (n *Notifier) link(path, token string) string {
	return n.frontendURL + "/" + path + "/" + token
}

// DispatchAccountConfirmation sends the signup confirmation link.
func (n *Notifier) DispatchAccountConfirmation(ctx context.Context, to, name, token string) {
	n.dispatch(ctx, "confirm", to, confirmTemplate, linkData{Name: name, Link: n.link("confirm", token)})
}

// DispatchEmailConfirmation re-sends a confirmation link to an account that
// tried to sign in before confirming.
func (n *Notifier) DispatchEmailConfirmation(ctx context.Context, to, name, token string) {
	n.dispatch(ctx, "confirmEmail", to, confirmTemplate, linkData{Name: name, Link: n.link("confirmEmail", token)})
}

func (n *Notifier) DispatchPasswordReset(ctx context.Context, to, name, token string) {
	n.dispatch(ctx, "reset", to, resetTemplate, linkData{Name: name, Link: n.link("reset", token)})
}

// SendActivation delivers the confirmation link synchronously and reports
// failure as common.ErrDelivery.
func (n *Notifier) SendActivation(ctx context.Context, to, name, token string) error {
	data := linkData{Name: name, Link: n.link("confirm", token)}
	if err := n.sender.Send(ctx, to, confirmTemplate, data); err != nil {
		n.logger.Error(ctx, "activation email failed", "to", to, "error", err)
		return errors.Join(common.ErrDelivery, err)
	}
	return nil
}

func (n *Notifier) dispatch(ctx context.Context, kind, to string, tmpl *template.Template, data linkData) {
	// The HTTP request may finish long before delivery does.
	ctx = context.WithoutCancel(ctx)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				n.logger.Error(ctx, "email dispatch panicked", "kind", kind, "panic", p)
			}
		}()

		sendCtx, cancel := context.WithTimeout(ctx, dispatchTimeout)
		defer cancel()

		if err := n.sender.Send(sendCtx, to, tmpl, data); err != nil {
			n.logger.Error(ctx, "email dispatch failed", "kind", kind, "to", to, "error", err)
			return
		}
		n.logger.Debug(ctx, "email sent", "kind", kind, "to", to)
	}()
}

// Wait blocks until pending dispatches finish or ctx is done.
func (n *Notifier) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
