package paygate

// InitiateResponse is PayGate's reply to an initiate call.
type InitiateResponse struct {
	PayGateID    string
	PayRequestID string
	Reference    string
	Checksum     string
}

// QueryResponse is PayGate's reply to a transaction query.
type QueryResponse struct {
	PayRequestID      string
	Reference         string
	TransactionStatus string // "1" approved, "2" declined, "4" cancelled
	ResultCode        string
	Amount            string
	Checksum          string
}

// Transaction status codes per PayWeb3.
const (
	StatusApproved  = "1"
	StatusDeclined  = "2"
	StatusCancelled = "4"
)

// NotifyFields is the documented field order of a PayWeb3 notify POST, used
// when validating its checksum.
var NotifyFields = []string{
	"PAYGATE_ID",
	"PAY_REQUEST_ID",
	"REFERENCE",
	"TRANSACTION_STATUS",
	"RESULT_CODE",
	"AUTH_CODE",
	"CURRENCY",
	"AMOUNT",
	"RESULT_DESC",
	"TRANSACTION_ID",
	"RISK_INDICATOR",
	"PAY_METHOD",
	"PAY_METHOD_DETAIL",
}
