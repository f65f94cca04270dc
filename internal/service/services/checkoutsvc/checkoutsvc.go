package checkoutsvc

import (
	"context"
	"errors"
	"fmt"

	"github.com/corray333/backend-labs/shop/internal/config"
	"github.com/corray333/backend-labs/shop/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/backend-labs/shop/internal/dal/postgres"
	productrepo "github.com/corray333/backend-labs/shop/internal/dal/repositories/product/postgres"
	"github.com/corray333/backend-labs/shop/internal/service/errs"
	"github.com/corray333/backend-labs/shop/internal/service/models/checkout"
	"github.com/corray333/backend-labs/shop/internal/service/models/currency"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type paymentGateway interface {
	CreateSession(ctx context.Context, req checkout.SessionRequest) (checkout.Session, error)
}

// CheckoutService opens payment sessions for a set of catalog products.
type CheckoutService struct {
	productRepo iproductrepo.IProductRepository
	gateway     paymentGateway
	currency    currency.Currency
	successURL  string
	cancelURL   string
}

// option is a function that configures the CheckoutService.
type option func(*CheckoutService)

// MustNewCheckoutService creates a new CheckoutService.
func MustNewCheckoutService(opts ...option) *CheckoutService {
	s := &CheckoutService{currency: currency.CurrencyUSD}
	for _, opt := range opts {
		opt(s)
	}

	if s.productRepo == nil || s.gateway == nil {
		panic("checkout service: dependencies are not configured")
	}

	return s
}

// WithPostgresClient binds the product repository to the Postgres pool.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *CheckoutService) {
		s.productRepo = productrepo.NewPostgresProductRepository(pgClient.Pool())
	}
}

// WithRepository sets the product repository explicitly.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRepository(repo iproductrepo.IProductRepository) option {
	return func(s *CheckoutService) {
		s.productRepo = repo
	}
}

// WithPaymentGateway sets the gateway sessions are created at.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPaymentGateway(gateway paymentGateway) option {
	return func(s *CheckoutService) {
		s.gateway = gateway
	}
}

// WithConfig applies the currency and redirect URLs.
// It panics on an unknown currency.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithConfig(cfg config.Stripe) option {
	return func(s *CheckoutService) {
		cur, err := currency.ParseCurrency(cfg.Currency)
		if err != nil {
			panic(fmt.Sprintf("checkout service: %q: %v", cfg.Currency, err))
		}
		s.currency = cur
		s.successURL = cfg.SuccessURL
		s.cancelURL = cfg.CancelURL
	}
}

// CreateSession prices every item from the catalog and opens a session at the
// payment gateway. Gateway failures are returned as is and never retried.
func (s *CheckoutService) CreateSession(ctx context.Context, cmd checkout.CreateCommand) (checkout.Session, error) {
	if err := cmd.Validate(); err != nil {
		return checkout.Session{}, fmt.Errorf("%w: %w", errs.ErrValidation, err)
	}

	req := checkout.SessionRequest{
		LineItems:  make([]checkout.LineItem, 0, len(cmd.Items)),
		SuccessURL: s.successURL,
		CancelURL:  s.cancelURL,
	}
	for _, item := range cmd.Items {
		p, err := s.productRepo.GetByID(ctx, item.ProductID)
		if errors.Is(err, errs.ErrNotFound) {
			return checkout.Session{}, fmt.Errorf("%w: %w", errs.ErrProductNotFound, err)
		}
		if err != nil {
			return checkout.Session{}, err
		}

		req.LineItems = append(req.LineItems, checkout.LineItem{
			Name:       p.Name,
			Image:      p.Image,
			UnitAmount: p.Price.Mul(hundred).Round(0).IntPart(),
			Currency:   s.currency,
			Quantity:   item.Quantity,
		})
	}

	session, err := s.gateway.CreateSession(ctx, req)
	if err != nil {
		return checkout.Session{}, fmt.Errorf("%w: %w", errs.ErrPaymentGateway, err)
	}

	return session, nil
}
