package ledger

import "context"

// ServiceOption configures a Service instance.
type ServiceOption func(*Service)

// OperationLogger records domain-level events emitted by ledger operations.
type OperationLogger interface {
	LogOperation(ctx context.Context, entry OperationLog)
}

// OperationLog describes one ledger operation and its outcome.
type OperationLog struct {
	Operation string
	Document  DocumentName
	UserID    string
	Subject   string
	Amount    int64
	Status    string
	Error     error
}

// MultiOperationLogger fans entries out to several loggers in order.
type MultiOperationLogger []OperationLogger

// LogOperation forwards entry to every non-nil logger.
func (loggers MultiOperationLogger) LogOperation(ctx context.Context, entry OperationLog) {
	for _, logger := range loggers {
		if logger != nil {
			logger.LogOperation(ctx, entry)
		}
	}
}

// WithOperationLogger wires a logger that receives callbacks for every operation.
func WithOperationLogger(logger OperationLogger) ServiceOption {
	return func(service *Service) {
		service.logger = logger
	}
}

// PaymentNotifier tells a recipient about an incoming payment. Failures are
// logged and never undo the payment.
type PaymentNotifier interface {
	NotifyPayment(ctx context.Context, transfer PaymentReceipt) error
}

// WithPaymentNotifier wires a best-effort notifier for Pay.
func WithPaymentNotifier(notifier PaymentNotifier) ServiceOption {
	return func(service *Service) {
		service.notifier = notifier
	}
}

// Random supplies the randomness used by work payouts.
type Random interface {
	// Int64N returns a uniform value in [0, n).
	Int64N(n int64) int64
	// IntN returns a uniform value in [0, n).
	IntN(n int) int
}

// WithRandom replaces the default random source.
func WithRandom(random Random) ServiceOption {
	return func(service *Service) {
		if random != nil {
			service.random = random
		}
	}
}

// WithVehicleCounter replaces the vehicle count used for the work bonus.
func WithVehicleCounter(counter VehicleCounter) ServiceOption {
	return func(service *Service) {
		service.vehicleCounter = counter
	}
}
