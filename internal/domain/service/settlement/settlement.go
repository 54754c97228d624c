// Package settlement закрывает сделки: превращает pending bid или booking в
// запись журнала транзакций и списывает количество с sell, всё внутри одной
// транзакции БД.
package settlement

import (
	"context"
	"log/slog"

	"share_market/internal/domain"
	"share_market/internal/domain/entity"
	"share_market/internal/domain/value"
	"share_market/pkg/errcodes"
	"share_market/pkg/logx"
)

// InterestKind выбирает таблицу заявок, которую разрешает закрытие сделки.
type InterestKind string

const (
	KindBid     InterestKind = "bid"
	KindBooking InterestKind = "booking"
)

// CloseDealParams описывает одно операторское закрытие bid или booking.
type CloseDealParams struct {
	SellID     int64
	InterestID int64
	Kind       InterestKind
	SellerID   int64
	BuyerID    int64
	Quantity   int
	// Price — подтверждённая оператором цена сделки. Для bid обязательна;
	// ноль для booking означает «взять цену предложения».
	Price float64
}

// CloseResult сообщает, что расчёт сделал со строкой sell.
type CloseResult struct {
	Transaction   *entity.Transaction
	FullyConsumed bool
	Remaining     int
}

// DealRepository выполняет расчёт атомарно: блокирует строку sell по sellID,
// удаляет строку заявки с проверкой её привязки к этому sell, пишет
// транзакцию, затем списывает или удаляет sell. Любая ошибка откатывает всё.
// CloseBuyQuery заполняет покупателя, тенанта, имя акции и нулевые количество
// и цену из удалённой строки запроса.
type DealRepository interface {
	CloseSell(ctx context.Context, tx *entity.Transaction, sellID, interestID int64, kind InterestKind) (*CloseResult, error)
	CloseBuyQuery(ctx context.Context, queryID int64, tx *entity.Transaction) (*entity.Transaction, error)
}

type TransactionRepository interface {
	ListByTenant(ctx context.Context, tenantID int64) ([]entity.Transaction, error)
}

type SellReader interface {
	GetListingByID(ctx context.Context, id int64) (*entity.SellListing, error)
}

type Service struct {
	deals        DealRepository
	transactions TransactionRepository
	sells        SellReader
}

func NewService(deals DealRepository, transactions TransactionRepository, sells SellReader) *Service {
	return &Service{
		deals:        deals,
		transactions: transactions,
		sells:        sells,
	}
}

// CloseDeal рассчитывает bid или booking против его sell. Конкурентные
// закрытия одной заявки гонятся на удалении её строки: проигравший получает
// конфликт, двойного расчёта не бывает.
func (s *Service) CloseDeal(ctx context.Context, operator value.Actor, params CloseDealParams) (*CloseResult, error) {
	if err := validateCloseDeal(params); err != nil {
		return nil, err
	}

	sell, err := s.sells.GetListingByID(ctx, params.SellID)
	if err != nil {
		return nil, err
	}

	price, err := resolveDealPrice(params, sell.SellingPrice)
	if err != nil {
		return nil, err
	}

	tx := &entity.Transaction{
		ClosedBy:  operator.ID,
		TenantID:  sell.TenantID,
		SellerID:  params.SellerID,
		BuyerID:   params.BuyerID,
		ShareName: sell.ShareName,
		Quantity:  params.Quantity,
		Price:     price,
	}

	result, err := s.deals.CloseSell(ctx, tx, params.SellID, params.InterestID, params.Kind)
	if err != nil {
		if code, ok := domain.GetCode(err); ok && errcodes.IsConflict(code) {
			dealConflicts.Inc()
		}
		return nil, err
	}

	dealsClosed.WithLabelValues(string(params.Kind)).Inc()
	logger(ctx).Info("deal closed",
		slog.Int64(logx.FieldSellID, params.SellID),
		slog.String("kind", string(params.Kind)),
		slog.Int("quantity", params.Quantity),
		slog.Bool("fully-consumed", result.FullyConsumed),
	)

	return result, nil
}

// CloseBuyQuery рассчитывает buy query. Списывать нечего: оператор нашёл
// объём вне платформы, поэтому пишется только запись журнала и удаляется
// строка запроса. Нулевые количество или цена означают «как запрошено».
func (s *Service) CloseBuyQuery(ctx context.Context, operator value.Actor, queryID, sellerID int64, quantity int, price float64) (*entity.Transaction, error) {
	if queryID <= 0 {
		return nil, domain.NewError(errcodes.BuyQueryNotFound, "buy query id is required")
	}
	if quantity < 0 {
		return nil, domain.NewError(errcodes.InvalidQuantity, "quantity cannot be negative")
	}
	if price < 0 {
		return nil, domain.NewError(errcodes.InvalidPrice, "price cannot be negative")
	}

	tx := &entity.Transaction{
		ClosedBy: operator.ID,
		SellerID: sellerID,
		Quantity: quantity,
		Price:    price,
	}

	closed, err := s.deals.CloseBuyQuery(ctx, queryID, tx)
	if err != nil {
		if code, ok := domain.GetCode(err); ok && errcodes.IsConflict(code) {
			dealConflicts.Inc()
		}
		return nil, err
	}

	dealsClosed.WithLabelValues("buy_query").Inc()

	return closed, nil
}

// ListTransactions возвращает журнал закрытых сделок тенанта, новые первыми.
func (s *Service) ListTransactions(ctx context.Context, tenantID int64) ([]entity.Transaction, error) {
	return s.transactions.ListByTenant(ctx, tenantID)
}

func validateCloseDeal(params CloseDealParams) error {
	if params.SellID <= 0 {
		return domain.NewError(errcodes.InvalidSellID, "sell id is required")
	}
	if params.InterestID <= 0 {
		return domain.NewError(errcodes.ValidationError, "interest id is required")
	}
	if params.Kind != KindBid && params.Kind != KindBooking {
		return domain.NewError(errcodes.ValidationError, "interest kind must be bid or booking")
	}
	if params.Quantity <= 0 {
		return domain.NewError(errcodes.InvalidQuantity, "deal quantity must be positive")
	}
	if params.Price < 0 {
		return domain.NewError(errcodes.InvalidPrice, "price cannot be negative")
	}

	return nil
}

// resolveDealPrice фиксирует цену для журнала. Bid — результат торга, поэтому
// оператор обязан указать согласованную цифру; booking при нуле берёт цену
// предложения.
func resolveDealPrice(params CloseDealParams, listingPrice float64) (float64, error) {
	if params.Price > 0 {
		return params.Price, nil
	}

	if params.Kind == KindBid {
		return 0, domain.NewError(errcodes.InvalidPrice, "closing a bid requires the agreed price")
	}

	return listingPrice, nil
}
