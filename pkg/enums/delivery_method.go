package enums

import "fmt"

// DeliveryMethod describes how a finished print job reaches the customer.
type DeliveryMethod string

const (
	DeliveryMethodPickup   DeliveryMethod = "pickup"
	DeliveryMethodDelivery DeliveryMethod = "delivery"
)

var validDeliveryMethods = []DeliveryMethod{
	DeliveryMethodPickup,
	DeliveryMethodDelivery,
}

func (d DeliveryMethod) String() string {
	return string(d)
}

func (d DeliveryMethod) IsValid() bool {
	for _, candidate := range validDeliveryMethods {
		if candidate == d {
			return true
		}
	}
	return false
}

func ParseDeliveryMethod(value string) (DeliveryMethod, error) {
	for _, candidate := range validDeliveryMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery method %q", value)
}
