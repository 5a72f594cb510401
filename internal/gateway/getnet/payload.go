package getnet

import (
	"context"
	"fmt"
	"strings"

	"paybridge/internal/gateway"
)

// brandNames maps lowercase scheme names to the identifiers the processor
// recognizes. Unknown brands are omitted from the payload, not rejected.
var brandNames = map[string]string{
	"visa":             "Visa",
	"master":           "MasterCard",
	"mastercard":       "MasterCard",
	"american_express": "Amex",
	"amex":             "Amex",
	"discover":         "Discover",
	"elo":              "Elo",
	"hipercard":        "Hipercard",
}

// notProvided fills required address fields that would otherwise be empty;
// the processor rejects empty required values outright.
const notProvided = "Not Provided"

// buildPaymentPayload assembles the nested body for purchase and authorize
// calls. With 3-D-Secure options the order/customer/device sections are
// replaced by cardholder-authentication fields. delayed marks an
// authorization to be captured later.
func (g *Gateway) buildPaymentPayload(ctx context.Context, req *gateway.TransactionRequest, accessToken string, delayed bool) (map[string]any, error) {
	post := map[string]any{}
	g.addInvoice(post, req)

	if req.Options.ThreeDSecure != nil {
		addThreeDSecure(post, &req.Options)
	} else {
		addOrder(post, &req.Options)
		addCustomer(post, req)
		addDevice(post, &req.Options)
	}

	card, err := g.buildCard(ctx, req, accessToken)
	if err != nil {
		return nil, err
	}

	sub := map[string]any{
		"delayed":             delayed,
		"pre_authorization":   req.Options.PreAuthorization,
		"number_installments": 1,
		"save_card_data":      false,
		"transaction_type":    "FULL",
		"card":                card,
	}
	if req.Options.DynamicMCC != "" {
		sub["dynamic_mcc"] = req.Options.DynamicMCC
	}
	if req.Options.Description != "" {
		sub["soft_descriptor"] = req.Options.Description
	}

	if req.Options.Debit {
		post["debit"] = sub
	} else {
		post["credit"] = sub
	}
	return post, nil
}

func (g *Gateway) addInvoice(post map[string]any, req *gateway.TransactionRequest) {
	post["amount"] = req.Money.Amount
	post["currency"] = req.Money.CurrencyOr(defaultCurrency)
	if sellerID := g.sellerID(&req.Options); sellerID != "" {
		post["seller_id"] = sellerID
	}
}

func addOrder(post map[string]any, opts *gateway.Options) {
	order := map[string]any{}
	if opts.OrderID != "" {
		order["order_id"] = opts.OrderID
	}
	if opts.ProductType != "" {
		order["product_type"] = opts.ProductType
	}
	post["order"] = order
}

func addCustomer(post map[string]any, req *gateway.TransactionRequest) {
	street, number := splitStreet(req.Address)

	billing := map[string]any{
		"street": street,
		"number": number,
	}
	if addr := req.Address; addr != nil {
		if addr.Complement != "" {
			billing["complement"] = addr.Complement
		}
		if addr.City != "" {
			billing["city"] = addr.City
		}
		if addr.State != "" {
			billing["state"] = addr.State
		}
		if addr.Country != "" {
			billing["country"] = addr.Country
		}
		if addr.PostalCode != "" {
			billing["postal_code"] = addr.PostalCode
		}
	}

	post["customer"] = map[string]any{
		"customer_id":     req.Options.CustomerID,
		"billing_address": billing,
	}
}

func addDevice(post map[string]any, opts *gateway.Options) {
	device := map[string]any{}
	if opts.IPAddress != "" {
		device["ip_address"] = opts.IPAddress
	}
	if opts.DeviceID != "" {
		device["device_id"] = opts.DeviceID
	}
	post["device"] = device
}

// addThreeDSecure writes the cardholder-authentication fields at the top
// level of the payload and stamps the payment method.
func addThreeDSecure(post map[string]any, opts *gateway.Options) {
	tds := opts.ThreeDSecure
	if tds.XID != "" {
		post["xid"] = tds.XID
	}
	if tds.UCAF != "" {
		post["ucaf"] = tds.UCAF
	}
	if tds.ECI != "" {
		post["eci"] = tds.ECI
	}
	if tds.DSTransactionID != "" {
		post["tdsdsxid"] = tds.DSTransactionID
	}
	if tds.Version != "" {
		post["tdsver"] = tds.Version
	}
	post["payment_method"] = paymentMethod(opts)
}

func paymentMethod(opts *gateway.Options) string {
	if opts.ThreeDSecure != nil && opts.ThreeDSecure.PaymentMethod != "" {
		return opts.ThreeDSecure.PaymentMethod
	}
	if opts.Debit {
		return "DEBIT"
	}
	return "CREDIT"
}

// buildCard assembles the card sub-object. Without a token override it
// exchanges the raw number for a number token over the wire, reusing the
// operation's access token.
func (g *Gateway) buildCard(ctx context.Context, req *gateway.TransactionRequest, accessToken string) (map[string]any, error) {
	card := map[string]any{}

	if cc := req.Card; cc != nil {
		if cc.Name != "" {
			card["cardholder_name"] = cc.Name
		}
		card["expiration_month"] = fmt.Sprintf("%02d", cc.Month)
		card["expiration_year"] = shortYear(cc.Year)
		if cc.VerificationValue != "" {
			card["security_code"] = cc.VerificationValue
		}
		if brand, ok := brandNames[strings.ToLower(cc.Brand)]; ok {
			card["brand"] = brand
		}
	}

	numberToken := req.Options.Token
	if numberToken == "" {
		if req.Card == nil {
			return nil, &gateway.Error{
				Code:    gateway.ErrCodeInvalidRequest,
				Message: "a credit card or token is required",
			}
		}
		var err error
		numberToken, err = g.tokenizeCard(ctx, req.Card, req.Options.CustomerID, accessToken)
		if err != nil {
			return nil, err
		}
	}
	card["number_token"] = numberToken

	return card, nil
}

// shortYear reduces a four-digit expiry year to its last two digits.
func shortYear(year int) string {
	return fmt.Sprintf("%02d", year%100)
}

// splitStreet derives the street and house number for a billing address.
// Explicit fields win; otherwise the freeform lines are tokenized on
// whitespace and partitioned by digit content. Either side coming up empty
// becomes a placeholder, never an empty value.
func splitStreet(addr *gateway.Address) (street, number string) {
	var freeform string
	if addr != nil {
		street = addr.Street
		number = addr.HouseNumberOrName
		freeform = strings.TrimSpace(addr.Address1 + " " + addr.Address2)
	}

	if street == "" || number == "" {
		var streetTokens, numberTokens []string
		for _, tok := range strings.Fields(freeform) {
			if strings.ContainsAny(tok, "0123456789") {
				numberTokens = append(numberTokens, tok)
			} else {
				streetTokens = append(streetTokens, tok)
			}
		}
		if street == "" {
			street = strings.Join(streetTokens, " ")
		}
		if number == "" {
			number = strings.Join(numberTokens, " ")
		}
	}

	if street == "" {
		street = notProvided
	}
	if number == "" {
		number = notProvided
	}
	return street, number
}
