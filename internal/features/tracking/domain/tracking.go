package domain

import "time"

// StatusCode identifies a stage of the fulfilment timeline.
type StatusCode string

const (
	StatusOrderPlaced    StatusCode = "order_placed"
	StatusProcessing     StatusCode = "processing"
	StatusShipped        StatusCode = "shipped"
	StatusOutForDelivery StatusCode = "out_for_delivery"
	StatusDelivered      StatusCode = "delivered"
	StatusCancelled      StatusCode = "cancelled"
)

// Stages is the timeline of an order that is not cancelled.
var Stages = []StatusCode{
	StatusOrderPlaced,
	StatusProcessing,
	StatusShipped,
	StatusOutForDelivery,
	StatusDelivered,
}

var stageNames = map[StatusCode]string{
	StatusOrderPlaced:    "Order Placed",
	StatusProcessing:     "Processing",
	StatusShipped:        "Shipped",
	StatusOutForDelivery: "Out for Delivery",
	StatusDelivered:      "Delivered",
	StatusCancelled:      "Cancelled",
}

var stageProgress = map[StatusCode]int{
	StatusOrderPlaced:    10,
	StatusProcessing:     35,
	StatusShipped:        65,
	StatusOutForDelivery: 85,
	StatusDelivered:      100,
	StatusCancelled:      0,
}

// Name returns the display name of the stage.
func (c StatusCode) Name() string {
	return stageNames[c]
}

// Progress returns the completion percentage reported for the stage.
func (c StatusCode) Progress() int {
	return stageProgress[c]
}

// Terminal reports whether the stage ends tracking.
func (c StatusCode) Terminal() bool {
	return c == StatusDelivered || c == StatusCancelled
}

// TrackingStatus is one entry of the timeline. Exactly one entry is current;
// the ones before it are completed and the ones after are neither.
type TrackingStatus struct {
	ID          string     `json:"id"`
	Code        StatusCode `json:"code"`
	Name        string     `json:"name"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
	Location    string     `json:"location,omitempty"`
	IsCompleted bool       `json:"isCompleted"`
	IsCurrent   bool       `json:"isCurrent"`
}

// Carrier is the company moving the parcel.
type Carrier struct {
	Name           string `json:"name"`
	TrackingNumber string `json:"trackingNumber"`
	Phone          string `json:"phone"`
}

// Driver is the courier on the last mile.
type Driver struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Vehicle string `json:"vehicle"`
}

// DeliveryWindow is the expected arrival interval.
type DeliveryWindow struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// OrderTracking is the read view of an order's fulfilment.
type OrderTracking struct {
	ID              string           `json:"id"`
	OrderID         string           `json:"orderId"`
	OrderNumber     string           `json:"orderNumber"`
	Timeline        []TrackingStatus `json:"timeline"`
	Status          StatusCode       `json:"status"`
	Progress        int              `json:"progress"`
	Carrier         Carrier          `json:"carrier"`
	Driver          *Driver          `json:"driver,omitempty"`
	CurrentLocation string           `json:"currentLocation,omitempty"`
	DeliveryWindow  *DeliveryWindow  `json:"deliveryWindow,omitempty"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// Delivered reports whether tracking has reached its final delivered stage.
func (t *OrderTracking) Delivered() bool {
	return t != nil && t.Status == StatusDelivered
}

// Current returns the current timeline entry.
func (t *OrderTracking) Current() (TrackingStatus, bool) {
	for _, s := range t.Timeline {
		if s.IsCurrent {
			return s, true
		}
	}
	return TrackingStatus{}, false
}
