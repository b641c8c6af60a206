package command

import (
	"testing"

	"github.com/bancario/transaction-service/internal/domain"
	"github.com/shopspring/decimal"
)

func intPtr(v int) *int                         { return &v }
func decPtr(v decimal.Decimal) *decimal.Decimal { return &v }

func TestFee(t *testing.T) {
	feeAmount := decimal.NewFromFloat(2.50)

	tests := []struct {
		name   string
		status domain.PricingStatus
		want   decimal.Decimal
	}{
		{
			name: "under free limit is free",
			status: domain.PricingStatus{
				FreeTransactionLimit:       intPtr(5),
				CurrentMonthlyTransactions: intPtr(2),
				TransactionFeeAmount:       decPtr(feeAmount),
			},
			want: decimal.Zero,
		},
		{
			name: "at free limit is charged",
			status: domain.PricingStatus{
				FreeTransactionLimit:       intPtr(5),
				CurrentMonthlyTransactions: intPtr(5),
				TransactionFeeAmount:       decPtr(feeAmount),
			},
			want: feeAmount,
		},
		{
			name: "over free limit is charged",
			status: domain.PricingStatus{
				FreeTransactionLimit:       intPtr(5),
				CurrentMonthlyTransactions: intPtr(12),
				TransactionFeeAmount:       decPtr(feeAmount),
			},
			want: feeAmount,
		},
		{
			name:   "no pricing config at all is free",
			status: domain.PricingStatus{},
			want:   decimal.Zero,
		},
		{
			name: "missing counter is free",
			status: domain.PricingStatus{
				FreeTransactionLimit: intPtr(5),
				TransactionFeeAmount: decPtr(feeAmount),
			},
			want: decimal.Zero,
		},
		{
			name: "missing fee amount is free",
			status: domain.PricingStatus{
				FreeTransactionLimit:       intPtr(5),
				CurrentMonthlyTransactions: intPtr(9),
			},
			want: decimal.Zero,
		},
		{
			name: "zero free limit charges from the first transaction",
			status: domain.PricingStatus{
				FreeTransactionLimit:       intPtr(0),
				CurrentMonthlyTransactions: intPtr(0),
				TransactionFeeAmount:       decPtr(feeAmount),
			},
			want: feeAmount,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fee(tt.status)
			if !got.Equal(tt.want) {
				t.Errorf("Fee() = %s, want %s", got, tt.want)
			}
		})
	}
}

// The fee must come out identical whether it is priced from the full snapshot
// projection or from the lightweight status view.
func TestFeeSnapshotAndStatusViewAgree(t *testing.T) {
	feeAmount := decimal.NewFromFloat(1.75)
	account := domain.Account{
		ID:                         "acc-1",
		ProductType:                domain.ProductPassive,
		FreeTransactionLimit:       intPtr(3),
		CurrentMonthlyTransactions: intPtr(7),
		TransactionFeeAmount:       decPtr(feeAmount),
	}
	view := domain.PricingStatus{
		FreeTransactionLimit:       intPtr(3),
		CurrentMonthlyTransactions: intPtr(7),
		TransactionFeeAmount:       decPtr(feeAmount),
	}

	fromSnapshot := Fee(account.PricingStatus())
	fromView := Fee(view)
	if !fromSnapshot.Equal(fromView) {
		t.Errorf("fee from snapshot (%s) and status view (%s) disagree", fromSnapshot, fromView)
	}
	if !fromSnapshot.Equal(feeAmount) {
		t.Errorf("fee = %s, want %s", fromSnapshot, feeAmount)
	}
}
