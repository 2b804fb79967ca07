package enum

// ── Group A: State machines (enforced by the core API) ──

// Order statuses as the core API spells them on the wire.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusCooking   = "COOKING"
	OrderStatusServed    = "SERVED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

const (
	TableStatusAvailable = "AVAILABLE"
	TableStatusOccupied  = "OCCUPIED"
	TableStatusCleaning  = "CLEANING"
)

// ── Group B: Staff roles ──

const (
	StaffRoleOwner   = "OWNER"
	StaffRoleManager = "MANAGER"
	StaffRoleWaiter  = "WAITER"
	StaffRoleCashier = "CASHIER"
)

// ── Group C: Configurable labels ──

const (
	PaymentMethodCash         = "CASH"
	PaymentMethodCard         = "CARD"
	PaymentMethodBankTransfer = "BANK_TRANSFER"
)

const (
	ReportPeriodToday  = "today"
	ReportPeriodWeek   = "week"
	ReportPeriodMonth  = "month"
	ReportPeriodCustom = "custom"
)
