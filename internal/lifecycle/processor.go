package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"retailapi/internal/model"
)

// Confirmation is what a processor hands back for an accepted amount.
type Confirmation struct {
	Method      model.PaymentMethod
	Reference   string
	Amount      decimal.Decimal
	ProcessedAt time.Time
}

// PaymentProcessor settles an amount through one payment method.
// Gateway integration would live behind this seam; the current implementations only validate.
type PaymentProcessor interface {
	Process(ctx context.Context, amount decimal.Decimal, referenceID string) (Confirmation, error)
}

// ProcessorFor returns the processor of a method. Unknown methods fail with model.ErrUnsupportedMethod.
func ProcessorFor(method model.PaymentMethod) (PaymentProcessor, error) {
	switch method {
	case model.MethodCash:
		return cashProcessor{}, nil
	case model.MethodCreditCard:
		return creditCardProcessor{}, nil
	case model.MethodBankTransfer:
		return bankTransferProcessor{}, nil
	case model.MethodEWallet:
		return eWalletProcessor{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", model.ErrUnsupportedMethod, int(method))
	}
}

type cashProcessor struct{}

func (cashProcessor) Process(ctx context.Context, amount decimal.Decimal, referenceID string) (Confirmation, error) {
	return confirm(ctx, model.MethodCash, "CASH", amount, referenceID)
}

type creditCardProcessor struct{}

func (creditCardProcessor) Process(ctx context.Context, amount decimal.Decimal, referenceID string) (Confirmation, error) {
	return confirm(ctx, model.MethodCreditCard, "CC", amount, referenceID)
}

type bankTransferProcessor struct{}

func (bankTransferProcessor) Process(ctx context.Context, amount decimal.Decimal, referenceID string) (Confirmation, error) {
	return confirm(ctx, model.MethodBankTransfer, "TRF", amount, referenceID)
}

type eWalletProcessor struct{}

func (eWalletProcessor) Process(ctx context.Context, amount decimal.Decimal, referenceID string) (Confirmation, error) {
	return confirm(ctx, model.MethodEWallet, "EW", amount, referenceID)
}

func confirm(ctx context.Context, method model.PaymentMethod, prefix string, amount decimal.Decimal, referenceID string) (Confirmation, error) {
	if err := ctx.Err(); err != nil {
		return Confirmation{}, err
	}
	if !amount.IsPositive() {
		return Confirmation{}, model.ErrInvalidAmount
	}
	short := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return Confirmation{
		Method:      method,
		Reference:   fmt.Sprintf("%s-%s-%s", prefix, referenceID, short),
		Amount:      amount,
		ProcessedAt: time.Now().UTC(),
	}, nil
}
