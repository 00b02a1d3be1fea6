package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rfid-wallet-backend/internal/core/ports"
	"rfid-wallet-backend/pkg/apperror"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

const queueGroup = "balance_authority"

// cardMessage is the wire shape the readers publish. Older firmware
// sends the confirmed balance as new_balance; current firmware sends
// balance. Both are accepted, balance wins when both are present.
type cardMessage struct {
	Status     string `json:"status,omitempty"`
	UID        string `json:"uid"`
	Balance    *int64 `json:"balance,omitempty"`
	NewBalance *int64 `json:"new_balance,omitempty"`
}

// Listener subscribes to the reader topics and delegates each report
// to the balance authority. Malformed messages are dropped with a
// diagnostic; persistence failures are retried with backoff before the
// message is given up on.
type Listener struct {
	authority ports.BalanceAuthority
	nc        *nats.Conn
	topics    Topics
	log       zerolog.Logger
	subs      []*nats.Subscription
}

// NewListener creates a Listener for one team's reader fleet.
func NewListener(authority ports.BalanceAuthority, nc *nats.Conn, topics Topics, log zerolog.Logger) *Listener {
	return &Listener{
		authority: authority,
		nc:        nc,
		topics:    topics,
		log:       log,
	}
}

// Run subscribes to the status and balance topics and blocks until ctx
// is cancelled, then drains the subscriptions so in-flight handlers
// finish.
func (l *Listener) Run(ctx context.Context) error {
	statusSub, err := l.nc.QueueSubscribe(l.topics.CardStatus, queueGroup, func(m *nats.Msg) {
		l.handleStatus(ctx, m.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", l.topics.CardStatus, err)
	}
	l.subs = append(l.subs, statusSub)

	balanceSub, err := l.nc.QueueSubscribe(l.topics.CardBalance, queueGroup, func(m *nats.Msg) {
		l.handleBalance(ctx, m.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", l.topics.CardBalance, err)
	}
	l.subs = append(l.subs, balanceSub)

	l.log.Info().
		Str("status_topic", l.topics.CardStatus).
		Str("balance_topic", l.topics.CardBalance).
		Msg("hardware listener running")

	<-ctx.Done()

	l.log.Info().Msg("hardware listener shutting down, draining subscriptions")
	for _, s := range l.subs {
		_ = s.Drain()
	}
	return nil
}

// handleStatus processes a card presence report. The stored balance is
// authoritative, so any balance field the reader included is ignored.
func (l *Listener) handleStatus(ctx context.Context, data []byte) {
	var msg cardMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		l.log.Warn().Err(err).Str("topic", l.topics.CardStatus).Msg("dropping malformed status message")
		return
	}
	if msg.UID == "" {
		l.log.Warn().Str("topic", l.topics.CardStatus).Msg("dropping status message without uid")
		return
	}

	err := l.withRetry(ctx, func(ctx context.Context) error {
		return l.authority.HandleStatusReport(ctx, msg.UID)
	})
	if err != nil {
		l.log.Error().Err(err).Str("uid", msg.UID).Msg("status report failed")
	}
}

// handleBalance processes a balance confirmation. This is the one path
// where the hardware value overwrites the stored balance.
func (l *Listener) handleBalance(ctx context.Context, data []byte) {
	var msg cardMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		l.log.Warn().Err(err).Str("topic", l.topics.CardBalance).Msg("dropping malformed balance message")
		return
	}
	if msg.UID == "" {
		l.log.Warn().Str("topic", l.topics.CardBalance).Msg("dropping balance message without uid")
		return
	}

	balance := msg.Balance
	if balance == nil {
		balance = msg.NewBalance
	}
	if balance == nil {
		l.log.Warn().Str("uid", msg.UID).Msg("dropping balance message without balance field")
		return
	}

	err := l.withRetry(ctx, func(ctx context.Context) error {
		return l.authority.HandleBalanceReport(ctx, msg.UID, *balance)
	})
	if err != nil {
		l.log.Error().Err(err).Str("uid", msg.UID).Int64("balance", *balance).Msg("balance report failed")
	}
}

// withRetry runs fn, retrying persistence failures with exponential
// backoff. Validation errors are not retried; replaying the same bad
// message cannot fix them.
func (l *Listener) withRetry(ctx context.Context, fn func(context.Context) error) error {
	backoff := retry.WithMaxRetries(3, retry.NewExponential(100*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && apperror.IsPersistence(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}
