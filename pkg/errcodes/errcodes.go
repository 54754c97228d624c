package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"

	InvalidTier      failure.ErrorCode = "InvalidTier"
	InvalidShareName failure.ErrorCode = "InvalidShareName"
	InvalidPrice     failure.ErrorCode = "InvalidPrice"
	InvalidQuantity  failure.ErrorCode = "InvalidQuantity"
	InvalidSellID    failure.ErrorCode = "InvalidSellID"

	ShareNotFound    failure.ErrorCode = "ShareNotFound"
	SellNotFound     failure.ErrorCode = "SellNotFound"
	BidNotFound      failure.ErrorCode = "BidNotFound"
	BookingNotFound  failure.ErrorCode = "BookingNotFound"
	BuyQueryNotFound failure.ErrorCode = "BuyQueryNotFound"

	SelfInterest            failure.ErrorCode = "SelfInterest"
	DealConflict            failure.ErrorCode = "DealConflict"
	InterestAlreadyResolved failure.ErrorCode = "InterestAlreadyResolved"
	BestDealNotFlagged      failure.ErrorCode = "BestDealNotFlagged"
)

//nolint:gochecknoglobals
var (
	validationCodes = map[failure.ErrorCode]struct{}{
		ValidationError:  {},
		InvalidTier:      {},
		InvalidShareName: {},
		InvalidPrice:     {},
		InvalidQuantity:  {},
		InvalidSellID:    {},
	}

	notFoundCodes = map[failure.ErrorCode]struct{}{
		NotFound:         {},
		ShareNotFound:    {},
		SellNotFound:     {},
		BidNotFound:      {},
		BookingNotFound:  {},
		BuyQueryNotFound: {},
	}

	conflictCodes = map[failure.ErrorCode]struct{}{
		DealConflict:            {},
		InterestAlreadyResolved: {},
	}

	stateCodes = map[failure.ErrorCode]struct{}{
		BestDealNotFlagged: {},
	}
)

func IsValidation(code failure.ErrorCode) bool {
	_, ok := validationCodes[code]
	return ok
}

func IsNotFound(code failure.ErrorCode) bool {
	_, ok := notFoundCodes[code]
	return ok
}

func IsConflict(code failure.ErrorCode) bool {
	_, ok := conflictCodes[code]
	return ok
}

// IsState reports state-machine violations (approving a deal that was never
// flagged).
func IsState(code failure.ErrorCode) bool {
	_, ok := stateCodes[code]
	return ok
}
