package domain

// BillStatus represents the lifecycle state of a bill
type BillStatus string

const (
	BillStatusPending  BillStatus = "PENDING"
	BillStatusApproved BillStatus = "APPROVED" // declared but no operation produces it
	BillStatusRejected BillStatus = "REJECTED"
	BillStatusPaid     BillStatus = "PAID"
)

// IsTerminal reports whether no further transition is defined out of the status
func (s BillStatus) IsTerminal() bool {
	return s == BillStatusRejected || s == BillStatusPaid
}

// BillCategory represents the expense category of a bill
type BillCategory string

const (
	CategoryPetrol      BillCategory = "Petrol"
	CategoryFood        BillCategory = "Food"
	CategoryTravel      BillCategory = "Travel"
	CategoryMaintenance BillCategory = "Maintenance"
	CategoryOffice      BillCategory = "Office"
	CategoryOther       BillCategory = "Other"
)

// Categories lists all valid bill categories
var Categories = []BillCategory{
	CategoryPetrol,
	CategoryFood,
	CategoryTravel,
	CategoryMaintenance,
	CategoryOffice,
	CategoryOther,
}

// IsValid reports whether the category is one of the known categories
func (c BillCategory) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// PaymentMethod represents how a bill was paid out
type PaymentMethod string

const (
	PaymentUPI  PaymentMethod = "UPI"
	PaymentBank PaymentMethod = "BANK"
)

// IsValid reports whether the payment method is UPI or BANK
func (m PaymentMethod) IsValid() bool {
	return m == PaymentUPI || m == PaymentBank
}

// Display returns the transfer method name used in notification messages
func (m PaymentMethod) Display() string {
	if m == PaymentUPI {
		return "UPI"
	}
	return "Bank Transfer"
}

// NotificationType represents the severity of a notification
type NotificationType string

const (
	NotifyInfo    NotificationType = "info"
	NotifySuccess NotificationType = "success"
	NotifyWarning NotificationType = "warning"
)
