package postgres

import (
	"context"
	"errors"
	"fmt"

	"ether-payment-gateway/internal/core/domain"
	"ether-payment-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

const walletColumns = `id, address, encrypted_private_key, is_main, created_at`

// Create inserts a new wallet into the database.
func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	query := `INSERT INTO wallets (id, address, encrypted_private_key, is_main, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		w.ID, w.Address, w.EncryptedPrivateKey, w.IsMain, w.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// GetByID fetches a wallet by its UUID.
func (r *WalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`
	return r.scanWallet(r.pool.QueryRow(ctx, query, id))
}

// GetByAddress fetches a wallet by its blockchain address.
func (r *WalletRepo) GetByAddress(ctx context.Context, address string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE address = $1`
	return r.scanWallet(r.pool.QueryRow(ctx, query, address))
}

// GetMain fetches the treasury wallet, or nil if none exists yet.
func (r *WalletRepo) GetMain(ctx context.Context) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE is_main = true`
	return r.scanWallet(r.pool.QueryRow(ctx, query))
}

// ListAll fetches every wallet, treasury included.
func (r *WalletRepo) ListAll(ctx context.Context) ([]domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []domain.Wallet
	for rows.Next() {
		var w domain.Wallet
		if err := rows.Scan(&w.ID, &w.Address, &w.EncryptedPrivateKey, &w.IsMain, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan wallet row: %w", err)
		}
		wallets = append(wallets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet rows: %w", err)
	}
	return wallets, nil
}

// FindAssignable returns the receiving wallet best suited for a new payment:
// not the treasury, not bound to a payment that is still open, highest latest
// balance first. A payment is open while its event history holds no terminal
// event. Returns nil when every receiving wallet is occupied.
func (r *WalletRepo) FindAssignable(ctx context.Context) (*domain.Wallet, error) {
	query := `SELECT w.id, w.address, w.encrypted_private_key, w.is_main, w.created_at
		FROM wallets w
		LEFT JOIN LATERAL (
			SELECT b.balance_wei FROM wallet_balances b
			WHERE b.wallet_id = w.id
			ORDER BY b.created_at DESC
			LIMIT 1
		) lb ON true
		WHERE w.is_main = false
		  AND NOT EXISTS (
			SELECT 1 FROM payments p
			WHERE p.wallet_id = w.id
			  AND NOT EXISTS (
				SELECT 1 FROM payment_status_events e
				WHERE e.payment_id = p.id
				  AND e.name IN ('completed', 'expired', 'failed')
			  )
		  )
		ORDER BY lb.balance_wei::numeric DESC NULLS LAST
		LIMIT 1`

	return r.scanWallet(r.pool.QueryRow(ctx, query))
}

// ListSubWalletsWithBalance fetches every receiving wallet together with its
// latest balance snapshot. BalanceWei is nil for never-snapshotted wallets.
func (r *WalletRepo) ListSubWalletsWithBalance(ctx context.Context) ([]ports.WalletBalance, error) {
	query := `SELECT w.id, w.address, w.encrypted_private_key, w.is_main, w.created_at, lb.balance_wei
		FROM wallets w
		LEFT JOIN LATERAL (
			SELECT b.balance_wei FROM wallet_balances b
			WHERE b.wallet_id = w.id
			ORDER BY b.created_at DESC
			LIMIT 1
		) lb ON true
		WHERE w.is_main = false
		ORDER BY w.created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sub wallets: %w", err)
	}
	defer rows.Close()

	var result []ports.WalletBalance
	for rows.Next() {
		var wb ports.WalletBalance
		var balance *string
		err := rows.Scan(
			&wb.Wallet.ID, &wb.Wallet.Address, &wb.Wallet.EncryptedPrivateKey,
			&wb.Wallet.IsMain, &wb.Wallet.CreatedAt, &balance,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sub wallet row: %w", err)
		}
		if balance != nil {
			wb.BalanceWei, err = parseWei(*balance)
			if err != nil {
				return nil, fmt.Errorf("sub wallet %s: %w", wb.Wallet.ID, err)
			}
		}
		result = append(result, wb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sub wallet rows: %w", err)
	}
	return result, nil
}

// InsertBalanceSnapshot appends one balance observation. Snapshots are never
// updated or deleted.
func (r *WalletRepo) InsertBalanceSnapshot(ctx context.Context, snap *domain.BalanceSnapshot) error {
	query := `INSERT INTO wallet_balances (id, wallet_id, balance_wei, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query,
		snap.ID, snap.WalletID, weiString(snap.BalanceWei), snap.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert balance snapshot: %w", err)
	}
	return nil
}

// scanWallet is a helper to scan a single row into a Wallet.
func (r *WalletRepo) scanWallet(row pgx.Row) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	err := row.Scan(&w.ID, &w.Address, &w.EncryptedPrivateKey, &w.IsMain, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan wallet: %w", err)
	}
	return w, nil
}
