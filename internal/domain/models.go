package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payload models for the merchant API. Field order is JSON key order, which keeps
// request bodies, and therefore their signatures, reproducible.

type Customer struct {
	Email       string `json:"email" yaml:"email"`
	Firstname   string `json:"firstname,omitempty" yaml:"firstname"`
	Lastname    string `json:"lastname,omitempty" yaml:"lastname"`
	Company     string `json:"company,omitempty" yaml:"company"`
	Adr1        string `json:"adr1,omitempty" yaml:"adr1"`
	Adr2        string `json:"adr2,omitempty" yaml:"adr2"`
	Zip         string `json:"zip,omitempty" yaml:"zip"`
	City        string `json:"city,omitempty" yaml:"city"`
	CountryCode string `json:"countrycode,omitempty" yaml:"countrycode"`
}

// CustomerRequest is the body of POST /customer.
type CustomerRequest struct {
	Customer Customer `json:"customer"`
}

type LineItem struct {
	Description string          `json:"description" yaml:"description"`
	NetAmount   decimal.Decimal `json:"netAmount" yaml:"net_amount"`
	Quantity    int             `json:"quantity,omitempty" yaml:"quantity"`
}

type DiscountItem struct {
	Description string          `json:"description" yaml:"description"`
	NetAmount   decimal.Decimal `json:"netAmount" yaml:"net_amount"`
}

type ShippingCostItem struct {
	Description string          `json:"description" yaml:"description"`
	NetAmount   decimal.Decimal `json:"netAmount" yaml:"net_amount"`
	Taxable     *bool           `json:"taxable,omitempty" yaml:"taxable"`
}

type TaxItem struct {
	Name    string          `json:"name" yaml:"name"`
	Percent decimal.Decimal `json:"percent" yaml:"percent"`
}

type Charge struct {
	CustomerID        string             `json:"customerId,omitempty" yaml:"-"`
	Currency          string             `json:"currency" yaml:"currency"`
	LineItems         []LineItem         `json:"lineItems" yaml:"line_items"`
	DiscountItems     []DiscountItem     `json:"discountItems,omitempty" yaml:"discount_items"`
	ShippingCostItems []ShippingCostItem `json:"shippingCostItems,omitempty" yaml:"shipping_cost_items"`
	TaxItems          []TaxItem          `json:"taxItems,omitempty" yaml:"tax_items"`
}

// HostedCheckoutRequest is the body of POST /checkout/hosted.
type HostedCheckoutRequest struct {
	Charge             Charge `json:"charge"`
	SettlementCurrency string `json:"settlementCurrency,omitempty"`
}

// Order is a customer plus the charge to collect, as read from an order file.
type Order struct {
	Customer           Customer `yaml:"customer"`
	Charge             Charge   `yaml:"charge"`
	SettlementCurrency string   `yaml:"settlement_currency"`
}

// Checkout is the locally persisted record of a created hosted checkout.
type Checkout struct {
	ID         string    `json:"checkout_id"`
	URL        string    `json:"url"`
	CustomerID string    `json:"customer_id"`
	Service    string    `json:"service"`
	CreatedAt  time.Time `json:"created_at"`
}
