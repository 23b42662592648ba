package stripe

// EventChargeSucceeded is the only event type that settles an order.
const EventChargeSucceeded = "charge.succeeded"

// OrderIDMetadataKey is the metadata key written on payment intents and read
// back from the resulting charge.
const OrderIDMetadataKey = "orderId"

// Charge is the part of a charge.succeeded event needed to settle an order.
type Charge struct {
	ID      string
	OrderID uint
	Email   string
	// Amount is in the currency's minor unit (cents).
	Amount int64
}

// PaymentIntent is returned to the client to confirm a card payment.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}
