// internal/http/handlers/transactions.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"paybridge/internal/cache"
	"paybridge/internal/gateway"
	"paybridge/internal/money"
	"paybridge/internal/store/postgres"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type cardReq struct {
	Number            string `json:"number"`
	Month             int    `json:"month"`
	Year              int    `json:"year"`
	VerificationValue string `json:"verificationValue"`
	Name              string `json:"name"`
	Brand             string `json:"brand"`
}

type bankAccountReq struct {
	AccountNumber string `json:"accountNumber"`
	RoutingNumber string `json:"routingNumber"`
	HolderName    string `json:"holderName"`
}

type addressReq struct {
	Street            string `json:"street,omitempty"`
	HouseNumberOrName string `json:"houseNumberOrName,omitempty"`
	Address1          string `json:"address1,omitempty"`
	Address2          string `json:"address2,omitempty"`
	Complement        string `json:"complement,omitempty"`
	City              string `json:"city,omitempty"`
	State             string `json:"state,omitempty"`
	Country           string `json:"country,omitempty"`
	PostalCode        string `json:"postalCode,omitempty"`
	Phone             string `json:"phone,omitempty"`
}

type threeDSecureReq struct {
	XID             string `json:"xid,omitempty"`
	UCAF            string `json:"ucaf,omitempty"`
	ECI             string `json:"eci,omitempty"`
	DSTransactionID string `json:"dsTransactionId,omitempty"`
	Version         string `json:"version,omitempty"`
	PaymentMethod   string `json:"paymentMethod,omitempty"`
}

type optionsReq struct {
	OrderID          string           `json:"orderId,omitempty"`
	CustomerID       string           `json:"customerId,omitempty"`
	UserTokenID      string           `json:"userTokenId,omitempty"`
	TransactionID    string           `json:"transactionId,omitempty"`
	SellerID         string           `json:"sellerId,omitempty"`
	DeviceID         string           `json:"deviceId,omitempty"`
	IPAddress        string           `json:"ip,omitempty"`
	Email            string           `json:"email,omitempty"`
	Description      string           `json:"description,omitempty"`
	ProductType      string           `json:"productType,omitempty"`
	DynamicMCC       string           `json:"dynamicMcc,omitempty"`
	Token            string           `json:"token,omitempty"`
	Debit            bool             `json:"debit,omitempty"`
	PreAuthorization bool             `json:"preAuthorization,omitempty"`
	ThreeDSecure     *threeDSecureReq `json:"threeDSecure,omitempty"`
}

type transactionReq struct {
	Amount         int64           `json:"amount"`
	Currency       string          `json:"currency,omitempty"`
	Card           *cardReq        `json:"card,omitempty"`
	BankAccount    *bankAccountReq `json:"bankAccount,omitempty"`
	Authorization  string          `json:"authorization,omitempty"`
	Address        *addressReq     `json:"address,omitempty"`
	Options        optionsReq      `json:"options"`
	IdempotencyKey string          `json:"idempotencyKey,omitempty"`
}

type transactionResp struct {
	TransactionID string           `json:"transactionId,omitempty"`
	Success       bool             `json:"success"`
	Message       string           `json:"message"`
	Authorization string           `json:"authorization,omitempty"`
	RawResponse   gateway.Document `json:"rawResponse,omitempty"`
	Replayed      bool             `json:"replayed,omitempty"`
}

// Transact routes POST /api/v1/{gateway}/{action} through the registry.
// Declines come back 200 with success=false; only auth, transport, and
// request problems map to HTTP errors.
func Transact(reg *gateway.Registry, repo *postgres.Repo, idem *cache.Idempotency) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gwType := gateway.Type(chi.URLParam(r, "gateway"))
		action, ok := gateway.ParseAction(chi.URLParam(r, "action"))
		if !ok {
			http.Error(w, "unknown action", http.StatusNotFound)
			return
		}

		var in transactionReq
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		// Bounded context for the multi-call provider sequence
		ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
		defer cancel()

		if in.IdempotencyKey != "" && idem != nil {
			prior, hit, err := idem.Get(ctx, string(gwType), in.IdempotencyKey)
			if err != nil {
				log.Warn().Err(err).Msg("idempotency lookup failed, dispatching anyway")
			} else if hit {
				writeResult(w, &transactionResp{
					Success:       prior.Success,
					Message:       prior.Message,
					Authorization: prior.Authorization,
					RawResponse:   prior.Raw,
					Replayed:      true,
				})
				return
			}
		}

		res, err := reg.Dispatch(ctx, gwType, action, toTransactionRequest(&in))
		if err != nil {
			writeGatewayError(w, err)
			return
		}

		out := &transactionResp{
			Success:       res.Success,
			Message:       res.Message,
			Authorization: res.Authorization,
			RawResponse:   res.Raw,
		}

		if repo != nil {
			id, err := repo.RecordTransaction(ctx, string(gwType), action, in.Amount, in.Currency, res)
			if err != nil {
				log.Error().Err(err).
					Str("gateway", string(gwType)).
					Str("action", string(action)).
					Msg("failed to record transaction")
			} else {
				out.TransactionID = id
			}
		}

		if in.IdempotencyKey != "" && idem != nil {
			if err := idem.Put(ctx, string(gwType), in.IdempotencyKey, res); err != nil {
				log.Warn().Err(err).Msg("failed to store idempotency entry")
			}
		}

		writeResult(w, out)
	}
}

// ListTransactions serves the recorded transaction history.
func ListTransactions(repo *postgres.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		rows, err := repo.ListTransactions(r.Context(), limit)
		if err != nil {
			log.Error().Err(err).Msg("failed to list transactions")
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"transactions": rows})
	}
}

func toTransactionRequest(in *transactionReq) *gateway.TransactionRequest {
	req := &gateway.TransactionRequest{
		Money:         money.Money{Amount: in.Amount, Currency: in.Currency},
		Authorization: in.Authorization,
	}
	if c := in.Card; c != nil {
		req.Card = &gateway.CreditCard{
			Number:            c.Number,
			Month:             c.Month,
			Year:              c.Year,
			VerificationValue: c.VerificationValue,
			Name:              c.Name,
			Brand:             c.Brand,
		}
	}
	if b := in.BankAccount; b != nil {
		req.BankAccount = &gateway.BankAccount{
			AccountNumber: b.AccountNumber,
			RoutingNumber: b.RoutingNumber,
			HolderName:    b.HolderName,
		}
	}
	if a := in.Address; a != nil {
		req.Address = &gateway.Address{
			Street:            a.Street,
			HouseNumberOrName: a.HouseNumberOrName,
			Address1:          a.Address1,
			Address2:          a.Address2,
			Complement:        a.Complement,
			City:              a.City,
			State:             a.State,
			Country:           a.Country,
			PostalCode:        a.PostalCode,
			Phone:             a.Phone,
		}
	}
	req.Options = gateway.Options{
		OrderID:          in.Options.OrderID,
		CustomerID:       in.Options.CustomerID,
		UserTokenID:      in.Options.UserTokenID,
		TransactionID:    in.Options.TransactionID,
		SellerID:         in.Options.SellerID,
		DeviceID:         in.Options.DeviceID,
		IPAddress:        in.Options.IPAddress,
		Email:            in.Options.Email,
		Description:      in.Options.Description,
		ProductType:      in.Options.ProductType,
		DynamicMCC:       in.Options.DynamicMCC,
		Token:            in.Options.Token,
		Debit:            in.Options.Debit,
		PreAuthorization: in.Options.PreAuthorization,
	}
	if t := in.Options.ThreeDSecure; t != nil {
		req.Options.ThreeDSecure = &gateway.ThreeDSecure{
			XID:             t.XID,
			UCAF:            t.UCAF,
			ECI:             t.ECI,
			DSTransactionID: t.DSTransactionID,
			Version:         t.Version,
			PaymentMethod:   t.PaymentMethod,
		}
	}
	return req
}

func writeResult(w http.ResponseWriter, out *transactionResp) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func writeGatewayError(w http.ResponseWriter, err error) {
	switch gateway.ErrorCode(err) {
	case gateway.ErrCodeInvalidRequest:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case gateway.ErrCodeGatewayNotFound, gateway.ErrCodeActionNotSupported:
		http.Error(w, err.Error(), http.StatusNotFound)
	case gateway.ErrCodeAuthFailed:
		http.Error(w, err.Error(), http.StatusBadGateway)
	case gateway.ErrCodeTransport, gateway.ErrCodeMalformedResponse, gateway.ErrCodeTokenizationFailed:
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
