package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"share_market/internal/domain"
	"share_market/internal/domain/entity"
	"share_market/internal/domain/service/settlement"
	"share_market/pkg/errcodes"
)

// DealRepository закрывает сделки атомарно: блокировка строки sell, удаление
// interest-строки, запись в журнал и списание количества — всё в одной
// транзакции. Удаление interest с нулём затронутых строк означает, что
// параллельное закрытие уже разрешило эту заявку: транзакция откатывается
// с конфликтом, двойного списания не бывает.
type DealRepository struct {
	db *sqlx.DB
}

func NewDealRepository(db *sqlx.DB) *DealRepository {
	return &DealRepository{db: db}
}

// Предел на всю транзакцию закрытия: по таймауту всё откатывается целиком.
const settlementTimeout = 5 * time.Second

// withTx выполняет функцию в транзакции с ограничением по времени.
func (r *DealRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, settlementTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// CloseSell закрывает bid или booking против его sell.
func (r *DealRepository) CloseSell(ctx context.Context, deal *entity.Transaction, sellID, interestID int64, kind settlement.InterestKind) (*settlement.CloseResult, error) {
	var result settlement.CloseResult

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		// Блокируем строку sell на всё время закрытия
		lockQuery := `
			SELECT quantity_available
			FROM sells
			WHERE id = $1
			FOR UPDATE`

		var available int
		if err := tx.GetContext(ctx, &available, lockQuery, sellID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NewError(errcodes.SellNotFound, "sell not found")
			}
			return domain.WrapError(err, errcodes.InternalServerError, "failed to lock sell")
		}

		// Interest обязан ссылаться именно на этот sell: иначе списали бы
		// одну позицию, а в журнал записали другую
		if err := deleteInterestTx(ctx, tx, interestTable(kind), interestID, sellID); err != nil {
			return err
		}

		transactionID, err := insertTransactionTx(ctx, tx, deal)
		if err != nil {
			return err
		}
		deal.ID = transactionID

		// Сделка на весь остаток и больше удаляет sell, частичная —
		// списывает остаток
		if available <= deal.Quantity {
			if _, err := tx.ExecContext(ctx, `DELETE FROM sells WHERE id = $1`, sellID); err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, "failed to delete sell")
			}
			result.FullyConsumed = true
			result.Remaining = 0
		} else {
			decQuery := `
				UPDATE sells
				SET quantity_available = quantity_available - $1, updated_at = $2
				WHERE id = $3`

			if _, err := tx.ExecContext(ctx, decQuery, deal.Quantity, time.Now(), sellID); err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, "failed to decrement quantity")
			}
			result.Remaining = available - deal.Quantity
		}

		result.Transaction = deal

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// CloseBuyQuery закрывает buy query: sell не участвует, пишем только журнал
// и удаляем строку запроса. Покупатель, тенант и имя акции берутся из самой
// строки запроса, нулевые количество и цена — тоже.
func (r *DealRepository) CloseBuyQuery(ctx context.Context, queryID int64, deal *entity.Transaction) (*entity.Transaction, error) {
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		delQuery := `
			DELETE FROM buy_queries
			WHERE id = $1
			RETURNING id, buyer_id, tenant_id, share_name, quantity, price, created_at`

		var schema buyQuerySchema
		if err := tx.GetContext(ctx, &schema, delQuery, queryID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NewError(errcodes.InterestAlreadyResolved, "buy query already resolved or not found")
			}
			return domain.WrapError(err, errcodes.InternalServerError, "failed to delete buy query")
		}

		deal.BuyerID = schema.BuyerID
		deal.TenantID = schema.TenantID
		deal.ShareName = schema.ShareName
		if deal.Quantity == 0 {
			deal.Quantity = schema.Quantity
		}
		if deal.Price == 0 {
			deal.Price = schema.Price
		}

		transactionID, err := insertTransactionTx(ctx, tx, deal)
		if err != nil {
			return err
		}
		deal.ID = transactionID

		return nil
	})
	if err != nil {
		return nil, err
	}

	return deal, nil
}

func interestTable(kind settlement.InterestKind) string {
	if kind == settlement.KindBooking {
		return "bookings"
	}
	return "bids"
}

// deleteInterestTx удаляет interest-строку с проверкой принадлежности sell;
// ноль затронутых строк — параллельное закрытие уже разрешило заявку либо
// заявка относится к другому sell.
func deleteInterestTx(ctx context.Context, tx *sqlx.Tx, table string, id, sellID int64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1 AND sell_id = $2`, id, sellID)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to delete interest")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.InterestAlreadyResolved, "interest is not pending against this sell")
	}

	return nil
}

func insertTransactionTx(ctx context.Context, tx *sqlx.Tx, deal *entity.Transaction) (int64, error) {
	query := `
		INSERT INTO transactions (closed_by, tenant_id, seller_id, buyer_id, share_name, quantity, price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	deal.CreatedAt = time.Now()

	var id int64
	if err := tx.GetContext(ctx, &id, query,
		deal.ClosedBy, deal.TenantID, deal.SellerID, deal.BuyerID,
		deal.ShareName, deal.Quantity, deal.Price, deal.CreatedAt,
	); err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "failed to insert transaction")
	}

	return id, nil
}
