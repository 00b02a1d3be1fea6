package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rfid-wallet-backend/internal/core/domain"
	"rfid-wallet-backend/internal/core/ports"
	"rfid-wallet-backend/internal/pkg/keylock"
	"rfid-wallet-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Authority implements ports.BalanceAuthority. It is the only writer of
// the wallet map and the transaction log.
//
// Two sources can set a balance outright: hardware balance-confirmation
// reports (trusted, they mean "this value is now written to the tag")
// and the backend's own topup/payment arithmetic. Hardware status
// reports are NOT trusted for value — the firmware is known to echo
// stale global balances on card presence — so status handling always
// answers with the stored balance. Keep that asymmetry.
//
// Every mutation for a card runs under that card's key lock, so
// concurrent top-ups, payments and confirmation reports for the same
// uid cannot interleave their read-modify-write sequences. Whichever
// operation acquires the lock last wins; there is no reordering beyond
// that.
type Authority struct {
	wallets    ports.WalletRepository
	txLog      ports.TransactionRepository
	products   ports.ProductRepository
	transactor ports.DBTransactor
	bus        ports.MessageBus
	broadcast  ports.Broadcaster
	locks      *keylock.KeyLock
	topupTopic string
	log        zerolog.Logger
}

// NewAuthority creates the balance authority. topupTopic is the
// outbound transport topic for hardware top-up commands.
func NewAuthority(
	wallets ports.WalletRepository,
	txLog ports.TransactionRepository,
	products ports.ProductRepository,
	transactor ports.DBTransactor,
	bus ports.MessageBus,
	broadcast ports.Broadcaster,
	topupTopic string,
	log zerolog.Logger,
) *Authority {
	return &Authority{
		wallets:    wallets,
		txLog:      txLog,
		products:   products,
		transactor: transactor,
		bus:        bus,
		broadcast:  broadcast,
		locks:      keylock.New(),
		topupTopic: topupTopic,
		log:        log,
	}
}

// topupCommand is the outbound payload the hardware expects on the
// topup topic.
type topupCommand struct {
	UID    string `json:"uid"`
	Amount int64  `json:"amount"`
}

// HandleStatusReport processes a "card present" signal. It never
// produces a transaction and never changes a stored balance.
func (s *Authority) HandleStatusReport(ctx context.Context, uid string) error {
	uid = domain.NormalizeUID(uid)
	if uid == "" {
		return apperror.ErrInvalidRequest("uid is required")
	}

	unlock := s.locks.Lock(uid)
	defer unlock()

	wallet, err := s.wallets.GetByUID(ctx, uid)
	if err != nil {
		return apperror.ErrPersistence(fmt.Errorf("read wallet: %w", err))
	}

	var balance int64
	if wallet == nil {
		if err := s.wallets.Upsert(ctx, uid, 0); err != nil {
			return apperror.ErrPersistence(fmt.Errorf("materialize wallet: %w", err))
		}
		s.log.Info().Str("uid", uid).Msg("wallet materialized on first status report")
	} else {
		balance = wallet.Balance
	}

	s.emit(ctx, domain.EventCardStatus, uid, balance)
	return nil
}

// HandleBalanceReport overwrites the stored balance with a hardware
// confirmation value. No transaction is logged: this is a sync signal,
// not a financial event. Replaying the same report is a no-op beyond a
// repeated broadcast of the same payload.
func (s *Authority) HandleBalanceReport(ctx context.Context, uid string, balance int64) error {
	uid = domain.NormalizeUID(uid)
	if uid == "" {
		return apperror.ErrInvalidRequest("uid is required")
	}
	if balance < 0 {
		return apperror.ErrInvalidRequest("balance must not be negative")
	}

	unlock := s.locks.Lock(uid)
	defer unlock()

	if err := s.wallets.Upsert(ctx, uid, balance); err != nil {
		return apperror.ErrPersistence(fmt.Errorf("write confirmed balance: %w", err))
	}

	s.log.Info().Str("uid", uid).Int64("balance", balance).Msg("balance overwritten from hardware confirmation")
	s.emit(ctx, domain.EventBalanceUpdate, uid, balance)
	return nil
}

// Topup credits a card. The backend balance is committed before the
// hardware confirms; a later balance report reconciles any divergence.
func (s *Authority) Topup(ctx context.Context, req ports.TopupRequest) (*ports.TopupResult, error) {
	uid := domain.NormalizeUID(req.UID)
	if uid == "" {
		return nil, apperror.ErrInvalidRequest("uid and amount are required")
	}
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidRequest("amount must be a positive number")
	}

	unlock := s.locks.Lock(uid)
	defer unlock()

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.wallets.GetByUIDForUpdate(ctx, dbTx, uid)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("lock wallet: %w", err))
	}

	var before int64
	if wallet != nil {
		before = wallet.Balance
	}
	after := before + req.Amount

	if err := s.wallets.UpsertTx(ctx, dbTx, uid, after); err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("update balance: %w", err))
	}

	txn := &domain.Transaction{
		ID:            uuid.New(),
		UID:           uid,
		Kind:          domain.TransactionKindTopup,
		Amount:        req.Amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Description:   "Top-up",
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.txLog.Append(ctx, dbTx, txn); err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("append transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("commit tx: %w", err))
	}

	// Forward the credit to the hardware so it can write the tag.
	// Delivery failure does not roll back the committed balance.
	s.publishTopup(uid, req.Amount)

	s.emit(ctx, domain.EventBalanceUpdate, uid, after)

	s.log.Info().
		Str("uid", uid).
		Int64("amount", req.Amount).
		Int64("balance", after).
		Msg("top-up accepted")

	return &ports.TopupResult{UID: uid, Balance: after, Transaction: txn}, nil
}

// Pay debits a card against the catalog price of a product.
func (s *Authority) Pay(ctx context.Context, req ports.PaymentRequest) (*ports.PaymentResult, error) {
	uid := domain.NormalizeUID(req.UID)
	if uid == "" || req.ProductID == uuid.Nil {
		return nil, apperror.ErrInvalidRequest("uid and productId are required")
	}
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return nil, apperror.ErrInvalidRequest("quantity must be a positive number")
	}

	product, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("read product: %w", err))
	}
	if product == nil {
		return nil, apperror.ErrNotFound("Product")
	}
	total := product.Price * int64(qty)

	unlock := s.locks.Lock(uid)
	defer unlock()

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.wallets.GetByUIDForUpdate(ctx, dbTx, uid)
	if err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("Wallet")
	}

	if wallet.Balance < total {
		return nil, apperror.ErrInsufficientFunds(wallet.Balance, total)
	}

	before := wallet.Balance
	after := before - total

	if err := s.wallets.UpsertTx(ctx, dbTx, uid, after); err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("update balance: %w", err))
	}

	txn := &domain.Transaction{
		ID:            uuid.New(),
		UID:           uid,
		Kind:          domain.TransactionKindPayment,
		Amount:        total,
		BalanceBefore: before,
		BalanceAfter:  after,
		ProductID:     &product.ID,
		Quantity:      &qty,
		Description:   fmt.Sprintf("Purchased %dx %s", qty, product.Name),
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.txLog.Append(ctx, dbTx, txn); err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("append transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrPersistence(fmt.Errorf("commit tx: %w", err))
	}

	s.emit(ctx, domain.EventBalanceUpdate, uid, after)

	s.log.Info().
		Str("uid", uid).
		Str("product", product.Name).
		Int("quantity", qty).
		Int64("total", total).
		Int64("balance", after).
		Msg("payment accepted")

	return &ports.PaymentResult{Transaction: txn, NewBalance: after}, nil
}

// publishTopup sends the top-up command to the hardware transport,
// fire-and-forget.
func (s *Authority) publishTopup(uid string, amount int64) {
	payload, err := json.Marshal(topupCommand{UID: uid, Amount: amount})
	if err != nil {
		s.log.Error().Err(err).Str("uid", uid).Msg("marshal topup command")
		return
	}
	if err := s.bus.Publish(s.topupTopic, payload); err != nil {
		s.log.Error().Err(err).Str("uid", uid).Str("topic", s.topupTopic).Msg("publish topup command failed")
	}
}

// emit pushes an event to dashboards, best-effort.
func (s *Authority) emit(ctx context.Context, event, uid string, balance int64) {
	if err := s.broadcast.Broadcast(ctx, event, domain.BalanceEvent{UID: uid, Balance: balance}); err != nil {
		s.log.Warn().Err(err).Str("event", event).Str("uid", uid).Msg("dashboard broadcast failed")
	}
}
