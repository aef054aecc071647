package httpserver

import (
	"context"
	"errors"
	"time"

	"giftcard-store/internal/domain"
	productrepo "giftcard-store/internal/repository/product"
	customersvc "giftcard-store/internal/service/customer"
	paymentsvc "giftcard-store/internal/service/payment"
	productsvc "giftcard-store/internal/service/product"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type ProductService interface {
	List(ctx context.Context, f productrepo.Filter) (productsvc.ListResult, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
}

type CustomerService interface {
	Signup(ctx context.Context, in customersvc.SignupInput) (*domain.Customer, error)
	Login(ctx context.Context, email, password string) (*customersvc.Session, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
	LookupByToken(ctx context.Context, token string) (*domain.Customer, error)
	AccessTTLSeconds() int
}

type PaymentService interface {
	Checkout(ctx context.Context, customer domain.Customer, in paymentsvc.CheckoutInput) (*paymentsvc.Receipt, error)
	ListOrders(ctx context.Context, customerID string) ([]domain.Order, error)
}

// Deps groups the services the handlers call.
type Deps struct {
	ProductSvc  ProductService
	CategorySvc CategoryService
	CustomerSvc CustomerService
	PaymentSvc  PaymentService
	CORSOrigins []string
}

func (d Deps) validate() error {
	var errs []error
	if d.ProductSvc == nil {
		errs = append(errs, errors.New("product service is required"))
	}
	if d.CategorySvc == nil {
		errs = append(errs, errors.New("category service is required"))
	}
	if d.CustomerSvc == nil {
		errs = append(errs, errors.New("customer service is required"))
	}
	if d.PaymentSvc == nil {
		errs = append(errs, errors.New("payment service is required"))
	}
	return errors.Join(errs...)
}

// buildRouter wires routes for the API.
func buildRouter(logger zerolog.Logger, db Pinger, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger), gin.Recovery())
	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	auth := router.Group("/auth")
	auth.POST("/signup", signupHandler(deps.CustomerSvc))
	auth.POST("/login", loginHandler(deps.CustomerSvc))
	auth.POST("/refresh", refreshHandler(deps.CustomerSvc))
	auth.POST("/logout", logoutHandler(deps.CustomerSvc))

	router.GET("/products", listProductsHandler(deps.ProductSvc))
	router.GET("/products/:id", getProductHandler(deps.ProductSvc))
	router.GET("/categories", listCategoriesHandler(deps.CategorySvc))

	authed := router.Group("/", authMiddleware(deps.CustomerSvc))
	authed.GET("/me", meHandler)
	authed.POST("/payments", createPaymentHandler(deps.PaymentSvc))
	authed.GET("/orders", listOrdersHandler(deps.PaymentSvc))

	return router, nil
}
