package server

import (
	"fmt"
	"net/http"
	"strconv"

	"git.appkode.ru/pub/go/failure"

	"share_market/internal/domain/value"
	"share_market/pkg/errcodes"
)

// Шлюз аутентификации терминирует сессию и передаёт личность вызывающего в
// этих заголовках.
const (
	headerUserID    = "X-User-Id"
	headerTenantID  = "X-Tenant-Id"
	headerTier      = "X-Tier"
	headerFirstName = "X-First-Name"
	headerLastName  = "X-Last-Name"
)

func actorFromRequest(r *http.Request) (value.Actor, error) {
	userID, err := strconv.ParseInt(r.Header.Get(headerUserID), 10, 64)
	if err != nil || userID <= 0 {
		return value.Actor{}, failure.NewUnauthorizedError(
			"missing or invalid user id",
			failure.WithCode(errcodes.ValidationError),
		)
	}

	tenantID, err := strconv.ParseInt(r.Header.Get(headerTenantID), 10, 64)
	if err != nil || tenantID <= 0 {
		return value.Actor{}, failure.NewUnauthorizedError(
			"missing or invalid tenant id",
			failure.WithCode(errcodes.ValidationError),
		)
	}

	rawTier, err := strconv.Atoi(r.Header.Get(headerTier))
	if err != nil {
		return value.Actor{}, failure.NewUnauthorizedError(
			"missing or invalid tier",
			failure.WithCode(errcodes.InvalidTier),
		)
	}

	tier, err := value.ParseTier(rawTier)
	if err != nil {
		return value.Actor{}, fmt.Errorf("value.ParseTier: %w", err)
	}

	return value.Actor{
		ID:        userID,
		TenantID:  tenantID,
		Tier:      tier,
		FirstName: r.Header.Get(headerFirstName),
		LastName:  r.Header.Get(headerLastName),
	}, nil
}

// requireOperator охраняет административные операции: заполнение каталога,
// модерацию best deal, отмену заявок и расчёт сделок.
func requireOperator(actor value.Actor) error {
	if actor.Tier > value.TierOperator {
		return failure.NewForbiddenError(
			"operation requires operator privileges",
			failure.WithCode(errcodes.Forbidden),
		)
	}

	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, failure.NewInvalidArgumentError(
			"invalid id in path",
			failure.WithCode(errcodes.ValidationError),
		)
	}

	return id, nil
}
