package models

import "time"

// Order statuses
const (
	OrderProcessing      = "Processing"
	OrderShipped         = "Shipped"
	OrderDelivered       = "Delivered"
	OrderCancelled       = "Cancelled"
	OrderReturnRequested = "Return Requested"
	OrderReturned        = "Returned"
)

// Return request statuses
const (
	ReturnPending  = "Pending"
	ReturnApproved = "Approved"
	ReturnRejected = "Rejected"
	ReturnRefunded = "Refunded"
)

// Return request types
const (
	ReturnTypeRefund   = "refund"
	ReturnTypeExchange = "exchange"
)

// OrderItem is a cart line frozen at purchase time. Price, size and color
// never change after checkout.
type OrderItem struct {
	ProductID   string  `json:"productId" bson:"productId"`
	ProductName string  `json:"productName" bson:"productName"`
	Size        string  `json:"size" bson:"size"`
	Color       string  `json:"color" bson:"color"`
	Quantity    int     `json:"quantity" bson:"quantity"`
	Price       float64 `json:"price" bson:"price"`
	Image       string  `json:"image,omitempty" bson:"image,omitempty"`
}

type Address struct {
	Name    string `json:"name" bson:"name"`
	Line1   string `json:"line1" bson:"line1"`
	Line2   string `json:"line2,omitempty" bson:"line2,omitempty"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	Pincode string `json:"pincode" bson:"pincode"`
	Phone   string `json:"phone" bson:"phone"`
}

// ReturnInfo is the return/refund sub-state embedded in an order.
type ReturnInfo struct {
	IsReturnRequested bool      `json:"isReturnRequested" bson:"isReturnRequested"`
	Type              string    `json:"type,omitempty" bson:"type,omitempty"` // refund or exchange
	Reason            string    `json:"reason,omitempty" bson:"reason,omitempty"`
	Comments          string    `json:"comments,omitempty" bson:"comments,omitempty"`
	Status            string    `json:"status,omitempty" bson:"status,omitempty"`
	RejectReason      string    `json:"rejectReason,omitempty" bson:"rejectReason,omitempty"`
	RequestedAt       time.Time `json:"requestedAt,omitempty" bson:"requestedAt,omitempty"`
}

type Order struct {
	OrderID         string      `json:"orderId" bson:"orderId"`
	UserID          string      `json:"userId" bson:"userId"`
	Items           []OrderItem `json:"items" bson:"items"`
	ShippingAddress Address     `json:"shippingAddress" bson:"shippingAddress"`
	PaymentMethod   string      `json:"paymentMethod" bson:"paymentMethod"`
	CouponCode      string      `json:"couponCode,omitempty" bson:"couponCode,omitempty"`
	ItemsPrice      float64     `json:"itemsPrice" bson:"itemsPrice"`
	DiscountPrice   float64     `json:"discountPrice" bson:"discountPrice"`
	TaxPrice        float64     `json:"taxPrice" bson:"taxPrice"`
	ShippingPrice   float64     `json:"shippingPrice" bson:"shippingPrice"`
	TotalPrice      float64     `json:"totalPrice" bson:"totalPrice"`
	OrderStatus     string      `json:"orderStatus" bson:"orderStatus"`
	ReturnInfo      ReturnInfo  `json:"returnInfo" bson:"returnInfo"`
	IsPaid          bool        `json:"isPaid" bson:"isPaid"`
	PaidAt          time.Time   `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	PaymentRef      string      `json:"paymentRef,omitempty" bson:"paymentRef,omitempty"`
	ReceiptNo       string      `json:"receiptNo,omitempty" bson:"receiptNo,omitempty"`
	DeliveredAt     time.Time   `json:"deliveredAt,omitempty" bson:"deliveredAt,omitempty"`
	CreatedAt       time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt" bson:"updatedAt"`
}
