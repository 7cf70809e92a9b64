package payroll

const (
	StatusDraft     = "draft"
	StatusApproved  = "approved"
	StatusProcessed = "processed"
	StatusPaid      = "paid"

	PaymentMethodCheck         = "check"
	PaymentMethodDirectDeposit = "direct_deposit"

	TimeOffStatusApproved = "approved"
	TimeOffTypeUnpaid     = "unpaid"
)

// PaymentMethods lists the accepted values for MarkPaid.
var PaymentMethods = []string{PaymentMethodCheck, PaymentMethodDirectDeposit}

func validPaymentMethod(method string) bool {
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}
